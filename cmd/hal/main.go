// Package main provides the hal CLI: hardware discovery and backend probing
// for every compute framework.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/born-ml/hal"
	"github.com/born-ml/hal/internal/config"
	"github.com/born-ml/hal/internal/simdriver"
)

const version = "v0.1.0-dev"

type options struct {
	configFile string
	framework  string
	inventory  string
	logLevel   string
	hardwares  []string
	all        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "hal",
		Short:        "hardware abstraction layer for numeric compute",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.framework, "framework", "", "framework: native, opencl, cuda or webgpu")
	rootCmd.PersistentFlags().StringVar(&opts.inventory, "inventory", "", "simulated OpenCL/CUDA inventory (yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&opts.all, "all", false, "use every framework")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hal %s\n", version)
		},
	}

	hardwaresCmd := &cobra.Command{
		Use:   "hardwares",
		Short: "list the hardware each framework discovers",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			return s.listHardwares(cmd.OutOrStdout())
		},
	}

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "build a backend and report its device and binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			return s.probeAll(cmd.OutOrStdout())
		},
	}
	probeCmd.Flags().StringSliceVar(&opts.hardwares, "hardware", nil, "hardware IDs to bind (default: all discovered)")

	rootCmd.AddCommand(versionCmd, hardwaresCmd, probeCmd)
	return rootCmd
}

// session is the resolved configuration of one command.
type session struct {
	cfg        *config.Config
	inventory  *simdriver.Inventory
	frameworks []string
}

func newSession(cmd *cobra.Command, opts *options) (*session, error) {
	cfg := config.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("framework") {
		cfg.Framework = opts.framework
	}
	if flags.Changed("inventory") {
		cfg.Inventory = opts.inventory
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("hardware") {
		cfg.Hardwares = opts.hardwares
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := cfg.Level()
	hal.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	inv := simdriver.DefaultInventory()
	if cfg.Inventory != "" {
		loaded, err := simdriver.Load(cfg.Inventory)
		if err != nil {
			return nil, err
		}
		inv = loaded
	}

	frameworks := []string{cfg.Framework}
	if opts.all {
		frameworks = config.Frameworks
	}
	return &session{cfg: cfg, inventory: inv, frameworks: frameworks}, nil
}

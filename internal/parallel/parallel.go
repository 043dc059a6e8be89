// Package parallel splits index ranges across goroutines for host kernels.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultMinChunkSize is the chunk floor used by DefaultConfig.
const DefaultMinChunkSize = 4096

// DefaultConfig returns defaults based on the CPU count of the process.
func DefaultConfig() Config {
	return WithWorkers(runtime.NumCPU())
}

// WithWorkers returns a config using n workers and the default chunk floor.
func WithWorkers(n int) Config {
	if n < 1 {
		n = 1
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: DefaultMinChunkSize,
	}
}

// chunkSize returns the per-goroutine range length for n items.
// A result >= n means the range is processed sequentially.
func (cfg Config) chunkSize(n int) int {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < cfg.MinChunkSize {
		return max(n, 1)
	}
	return max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
}

// Chunks returns the number of chunks ForRange splits n items into.
// Reductions size their per-chunk partial results with it.
func Chunks(n int, cfg Config) int {
	if n <= 0 {
		return 0
	}
	size := cfg.chunkSize(n)
	return (n + size - 1) / size
}

// ForRange calls f(chunk, start, end) for consecutive ranges covering [0, n).
// Chunks run concurrently unless parallelism is disabled or n is too small.
func ForRange(n int, f func(chunk, start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	size := cfg.chunkSize(n)
	if size >= n {
		f(0, 0, n)
		return
	}

	var wg sync.WaitGroup
	for chunk, start := 0, 0; start < n; chunk, start = chunk+1, start+size {
		end := min(start+size, n)
		wg.Add(1)
		go func(c, s, e int) {
			defer wg.Done()
			f(c, s, e)
		}(chunk, start, end)
	}
	wg.Wait()
}

// For executes f(i) for i in [0, n) with optional parallelism.
func For(n int, f func(i int), cfg Config) {
	ForRange(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

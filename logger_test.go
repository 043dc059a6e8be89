// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package hal

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	l := Logger()
	require.NotNil(t, l)
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		assert.False(t, l.Enabled(context.Background(), level), "level %s", level)
	}
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	Logger().Info("device created", "framework", "OpenCL")
	assert.Contains(t, buf.String(), "device created")
	assert.Contains(t, buf.String(), "framework=OpenCL")
}

func TestSetLoggerNilRestoresDefault(t *testing.T) {
	SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	SetLogger(nil)

	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	assert.NoError(t, h.Handle(context.Background(), slog.Record{}))
	assert.Equal(t, nopHandler{}, h.WithAttrs([]slog.Attr{slog.String("k", "v")}))
	assert.Equal(t, nopHandler{}, h.WithGroup("g"))
}

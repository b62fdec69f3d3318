// Copyright (c) 2025 BVK Chaitanya

package logdir

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// NewLogger creates a slog.Logger backed by size-capped log files under
// dirname. Records at or above level are also mirrored to mirror when
// it is non-nil, which run commands use to keep warnings visible on the
// terminal. The returned backend must be closed by the caller.
func NewLogger(dirname, logname string, level slog.Leveler, mirror io.Writer) (*slog.Logger, *Backend, error) {
	if err := os.MkdirAll(dirname, 0700); err != nil {
		return nil, nil, fmt.Errorf("could not create log directory %q: %w", dirname, err)
	}
	b, err := New(dirname, logname)
	if err != nil {
		return nil, nil, err
	}
	w := io.Writer(b)
	if mirror != nil {
		w = io.MultiWriter(b, mirror)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), b, nil
}

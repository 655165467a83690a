// Package storage models the host key-value store the form slot lives in.
package storage

import (
	"context"
	"errors"
	"os"
	"time"
)

// DefaultKey is the well-known key the form document is stored under.
const DefaultKey = "form"

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage: backend is closed")

// KV is an opaque string key-value store. Get reports ok=false for missing
// keys; Remove of a missing key is not an error. Implementations live under
// internal/storage (file, sqlite) and in this package (memory).
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Driver names a KV backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
)

// Options configures the file and sqlite backends.
type Options struct {
	// Path is the directory for the file backend or the database file for
	// the sqlite backend.
	Path string

	// FileMode applies to files written by the file backend.
	FileMode os.FileMode

	// Table names the sqlite table holding key/value rows.
	Table string

	// BusyTimeout bounds how long sqlite waits on a locked database.
	BusyTimeout time.Duration
}

// Option mutates Options prior to construction.
type Option func(*Options)

// WithPath sets the backend location.
func WithPath(path string) Option {
	return func(opts *Options) {
		opts.Path = path
	}
}

// WithFileMode overrides the permissions of files written by the file backend.
func WithFileMode(mode os.FileMode) Option {
	return func(opts *Options) {
		if mode != 0 {
			opts.FileMode = mode
		}
	}
}

// WithTable overrides the sqlite table name.
func WithTable(table string) Option {
	return func(opts *Options) {
		if table != "" {
			opts.Table = table
		}
	}
}

// WithBusyTimeout overrides the sqlite busy timeout.
func WithBusyTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		if timeout > 0 {
			opts.BusyTimeout = timeout
		}
	}
}

// NewOptions applies the options over backend defaults.
func NewOptions(options ...Option) Options {
	cfg := Options{
		FileMode:    0o644,
		Table:       "kv",
		BusyTimeout: 5 * time.Second,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Construction helpers for the file and sqlite backends live in the top-level
// formbuilder package to keep internal packages out of the public surface.

package formbuilder

import (
	"context"
	"fmt"

	internalfile "github.com/goliatone/go-formbuilder/internal/storage/file"
	internalsqlite "github.com/goliatone/go-formbuilder/internal/storage/sqlite"
	pkgstorage "github.com/goliatone/go-formbuilder/pkg/storage"
)

// NewFileStorage constructs a directory-backed key-value store while keeping
// the concrete type hidden from consumers.
func NewFileStorage(options ...pkgstorage.Option) (pkgstorage.KV, error) {
	store, err := internalfile.New(pkgstorage.NewOptions(options...))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewSQLiteStorage opens a SQLite-backed key-value store. The returned close
// function releases the database handle.
func NewSQLiteStorage(ctx context.Context, options ...pkgstorage.Option) (pkgstorage.KV, func() error, error) {
	store, err := internalsqlite.Open(ctx, pkgstorage.NewOptions(options...))
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// OpenStorage constructs the backend named by driver. The close function is
// always non-nil.
func OpenStorage(ctx context.Context, driver pkgstorage.Driver, options ...pkgstorage.Option) (pkgstorage.KV, func() error, error) {
	noop := func() error { return nil }
	switch driver {
	case pkgstorage.DriverMemory:
		return pkgstorage.NewMemory(nil), noop, nil
	case pkgstorage.DriverFile:
		kv, err := NewFileStorage(options...)
		if err != nil {
			return nil, noop, err
		}
		return kv, noop, nil
	case pkgstorage.DriverSQLite:
		kv, closeFn, err := NewSQLiteStorage(ctx, options...)
		if err != nil {
			return nil, noop, err
		}
		return kv, closeFn, nil
	default:
		return nil, noop, fmt.Errorf("formbuilder: unknown storage driver %q", driver)
	}
}

package formbuilder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/app"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/model"
	pkgstorage "github.com/goliatone/go-formbuilder/pkg/storage"
)

// Form aliases the persisted document for callers that only import the root
// package.
type Form = model.Form

// Question aliases model.Question.
type Question = model.Question

// Validation aliases model.Validation.
type Validation = model.Validation

// Session bundles the pieces one interactive run shares: the storage slot,
// the builder store and the navigator fed by its unsaved-changes signal.
type Session struct {
	Slot      *pkgstorage.Slot
	Store     *builder.Store
	Navigator *app.Navigator

	closeFn func() error
}

// OpenSession opens the configured backend and loads the form from its slot.
// confirmer answers the navigation guard; it may be nil for non-interactive
// use, in which case guarded navigation is declined.
func OpenSession(ctx context.Context, cfg *config.Config, confirmer app.Confirmer, logger *zap.Logger) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("formbuilder: config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	kv, closeFn, err := OpenStorage(ctx, cfg.Driver(), cfg.StorageOptions()...)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: open storage: %w", err)
	}

	slot, err := pkgstorage.NewSlot(kv,
		pkgstorage.WithKey(cfg.Storage.Key),
		pkgstorage.WithLogger(logger.Named("storage")),
	)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	nav := app.NewNavigator(confirmer)
	store, err := builder.New(ctx, slot,
		builder.WithLogger(logger.Named("builder")),
		builder.WithUnsavedChangesHandler(nav.SetUnsavedChanges),
	)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	logger.Debug("session opened",
		zap.String("driver", string(cfg.Driver())),
		zap.String("path", cfg.StoragePath()),
		zap.String("key", slot.Key()),
	)
	return &Session{Slot: slot, Store: store, Navigator: nav, closeFn: closeFn}, nil
}

// Close releases the storage backend.
func (s *Session) Close() error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

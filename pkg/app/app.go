package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/storage"
	"github.com/goliatone/go-formbuilder/pkg/tester"
)

// Exit tells the application loop what the user picked when leaving a view.
type Exit int

const (
	// ExitSwitch moves to the other view.
	ExitSwitch Exit = iota
	// ExitRepeat stays on the current view and runs it again.
	ExitRepeat
	// ExitQuit ends the session.
	ExitQuit
)

// UI is the interactive surface the application loop drives.
type UI interface {
	Confirmer
	// Build edits the form until the user leaves the builder.
	Build(ctx context.Context, store *builder.Store) (Exit, error)
	// Test fills the view until a valid submission and then asks what next.
	// A NoData view returns tester.ErrNoData along with the choice.
	Test(ctx context.Context, view tester.View) (tester.Answers, Exit, error)
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for navigation events.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// App runs the two-view session: builder and tester share one storage slot.
type App struct {
	store  *builder.Store
	slot   *storage.Slot
	nav    *Navigator
	ui     UI
	logger *zap.Logger
}

// New wires an App. The navigator should receive the store's unsaved-changes
// signal through builder.WithUnsavedChangesHandler(nav.SetUnsavedChanges).
func New(store *builder.Store, slot *storage.Slot, nav *Navigator, ui UI, options ...Option) (*App, error) {
	if store == nil || slot == nil || nav == nil || ui == nil {
		return nil, errors.New("app: store, slot, navigator and ui are required")
	}
	a := &App{store: store, slot: slot, nav: nav, ui: ui, logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a, nil
}

// Run loops over the views until the user quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			quit bool
			err  error
		)
		switch a.nav.Current() {
		case ViewBuilder:
			quit, err = a.runBuilder(ctx)
		case ViewTester:
			quit, err = a.runTester(ctx)
		default:
			return fmt.Errorf("app: unknown view %q", a.nav.Current())
		}
		if err != nil || quit {
			return err
		}
	}
}

func (a *App) runBuilder(ctx context.Context) (bool, error) {
	exit, err := a.ui.Build(ctx, a.store)
	if err != nil {
		return false, err
	}

	switch exit {
	case ExitQuit:
		if !a.store.HasUnsavedChanges() {
			return true, nil
		}
		ok, err := a.ui.Confirm(ctx, UnsavedChangesPrompt)
		if err != nil {
			return false, fmt.Errorf("app: confirm quit: %w", err)
		}
		return ok, nil
	case ExitSwitch:
		moved, err := a.nav.NavigateTo(ctx, ViewTester)
		if err != nil {
			return false, err
		}
		if !moved {
			a.logger.Debug("navigation cancelled", zap.String("target", string(ViewTester)))
			return false, nil
		}
		a.logger.Debug("navigated", zap.String("view", string(ViewTester)))
	}
	return false, nil
}

func (a *App) runTester(ctx context.Context) (bool, error) {
	form, err := tester.Load(ctx, a.slot)
	if err != nil {
		return false, err
	}

	answers, exit, err := a.ui.Test(ctx, tester.Prepare(form))
	if err != nil && !errors.Is(err, tester.ErrNoData) {
		return false, err
	}
	if err == nil {
		a.logger.Info("form submitted", zap.Int("answers", len(answers)))
	}

	switch exit {
	case ExitQuit:
		return true, nil
	case ExitSwitch:
		if _, err := a.nav.NavigateTo(ctx, ViewBuilder); err != nil {
			return false, err
		}
		if err := a.store.Reload(ctx); err != nil {
			return false, err
		}
		a.logger.Debug("navigated", zap.String("view", string(ViewBuilder)))
	}
	return false, nil
}

package app

import (
	"context"
	"fmt"
)

// View names one of the application screens.
type View string

const (
	ViewBuilder View = "builder"
	ViewTester  View = "tester"
)

// Views lists the screens in navigation order with their titles.
var Views = []struct {
	View  View
	Title string
}{
	{ViewBuilder, "Form Builder"},
	{ViewTester, "Form Tester"},
}

// UnsavedChangesPrompt is asked before leaving the builder with unsaved edits.
const UnsavedChangesPrompt = "You have unsaved changes that will be lost. Do you want to continue?"

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Navigator tracks the current view and guards leaving the builder while it
// has unsaved changes.
type Navigator struct {
	current   View
	unsaved   bool
	confirmer Confirmer
}

// NewNavigator starts on the builder view.
func NewNavigator(confirmer Confirmer) *Navigator {
	return &Navigator{current: ViewBuilder, confirmer: confirmer}
}

// Current reports the active view.
func (n *Navigator) Current() View {
	return n.current
}

// SetUnsavedChanges receives the builder's unsaved-changes signal. Its
// signature matches builder.WithUnsavedChangesHandler.
func (n *Navigator) SetUnsavedChanges(unsaved bool) {
	n.unsaved = unsaved
}

// UnsavedChanges reports the last received signal.
func (n *Navigator) UnsavedChanges() bool {
	return n.unsaved
}

// NavigateTo switches to target. Leaving the builder with unsaved changes
// asks for confirmation first; a declined prompt keeps the current view and
// returns false.
func (n *Navigator) NavigateTo(ctx context.Context, target View) (bool, error) {
	if target != ViewBuilder && target != ViewTester {
		return false, fmt.Errorf("app: unknown view %q", target)
	}
	if target == n.current {
		return true, nil
	}
	if n.current == ViewBuilder && n.unsaved {
		if n.confirmer == nil {
			return false, nil
		}
		ok, err := n.confirmer.Confirm(ctx, UnsavedChangesPrompt)
		if err != nil {
			return false, fmt.Errorf("app: confirm navigation: %w", err)
		}
		if !ok {
			return false, nil
		}
	}
	n.current = target
	return true, nil
}

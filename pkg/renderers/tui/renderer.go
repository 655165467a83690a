package tui

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/app"
)

// Renderer runs builder and tester sessions in a terminal.
type Renderer struct {
	driver PromptDriver
	theme  Theme
	logger *zap.Logger
}

var _ app.UI = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, default theme).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		theme:  DefaultTheme,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(os.Stdout)
	}
	return r, nil
}

// Confirm asks a yes/no question defaulting to no.
func (r *Renderer) Confirm(ctx context.Context, message string) (bool, error) {
	if r.driver == nil {
		return false, ErrNoDriver
	}
	return r.driver.Confirm(ctx, ConfirmConfig{Message: message})
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) warn(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Slot persists a single form document under one key of a KV. Every save
// overwrites the whole document.
type Slot struct {
	kv     KV
	key    string
	logger *zap.Logger
}

// SlotOption configures a Slot.
type SlotOption func(*Slot)

// WithKey overrides the storage key (DefaultKey otherwise).
func WithKey(key string) SlotOption {
	return func(s *Slot) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger routes slot diagnostics to the provided logger.
func WithLogger(logger *zap.Logger) SlotOption {
	return func(s *Slot) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSlot binds a slot to the KV.
func NewSlot(kv KV, options ...SlotOption) (*Slot, error) {
	if kv == nil {
		return nil, errors.New("storage: kv is required")
	}
	s := &Slot{
		kv:     kv,
		key:    DefaultKey,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Key reports the storage key.
func (s *Slot) Key() string {
	return s.key
}

// Stored returns the persisted form and whether a readable document was
// found. Missing or unparsable documents yield an empty form and ok=false;
// only backend failures are returned as errors.
func (s *Slot) Stored(ctx context.Context) (model.Form, bool, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return model.Normalize(model.Form{}), false, fmt.Errorf("storage: read %q: %w", s.key, err)
	}
	if !ok {
		return model.Normalize(model.Form{}), false, nil
	}

	form, err := model.Decode([]byte(raw))
	if err != nil {
		s.logger.Warn("stored form is unreadable, treating as empty",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return model.Normalize(model.Form{}), false, nil
	}
	return form, true, nil
}

// Load returns the persisted form, or an empty one when none is stored.
func (s *Slot) Load(ctx context.Context) (model.Form, error) {
	form, _, err := s.Stored(ctx)
	return form, err
}

// Save serializes the whole form into the slot.
func (s *Slot) Save(ctx context.Context, form model.Form) error {
	data, err := model.Encode(form)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("storage: write %q: %w", s.key, err)
	}
	s.logger.Debug("form saved",
		zap.String("key", s.key),
		zap.Int("questions", len(form.Questions)),
	)
	return nil
}

// Clear removes the stored document.
func (s *Slot) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("storage: remove %q: %w", s.key, err)
	}
	return nil
}

// Raw returns the stored payload verbatim.
func (s *Slot) Raw(ctx context.Context) (string, bool, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return "", false, fmt.Errorf("storage: read %q: %w", s.key, err)
	}
	return raw, ok, nil
}

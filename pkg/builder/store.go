package builder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/storage"
)

// SavedMessage is the confirmation shown after a successful save.
const SavedMessage = "Form saved successfully!"

// Option configures a Store.
type Option func(*Store)

// WithLogger routes dispatch diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDSource overrides the id source used for AddQuestion.
func WithIDSource(ids *IDSource) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithUnsavedChangesHandler registers fn to receive the unsaved-changes
// signal after load and after every dispatch.
func WithUnsavedChangesHandler(fn func(bool)) Option {
	return func(s *Store) {
		s.onUnsaved = fn
	}
}

// Store holds the live document being authored and keeps it in sync with a
// storage slot. It is not safe for concurrent use; edits are expected to be
// serialized by the caller's event loop.
type Store struct {
	slot      *storage.Slot
	form      model.Form
	ids       *IDSource
	logger    *zap.Logger
	onUnsaved func(bool)
	unsaved   bool
}

// New loads the persisted form (or an empty one) and returns a Store over it.
func New(ctx context.Context, slot *storage.Slot, options ...Option) (*Store, error) {
	if slot == nil {
		return nil, errors.New("builder: slot is required")
	}
	s := &Store{
		slot:   slot,
		ids:    NewIDSource(nil),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	form, err := slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("builder: load form: %w", err)
	}
	s.form = form
	for _, q := range form.Questions {
		s.ids.Observe(q.ID)
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Form returns a copy of the live document.
func (s *Store) Form() model.Form {
	return model.Clone(s.form)
}

// Question returns a copy of the question with id.
func (s *Store) Question(id int64) (model.Question, bool) {
	q, ok := s.form.Find(id)
	if !ok {
		return model.Question{}, false
	}
	return model.CloneQuestion(q), true
}

// HasUnsavedChanges reports whether the live document differs from the
// stored copy as of the last dispatch.
func (s *Store) HasUnsavedChanges() bool {
	return s.unsaved
}

// Dispatch applies cmd, persists on SaveForm, and recomputes the
// unsaved-changes signal against the slot.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (model.Form, error) {
	if cmd == nil {
		return s.Form(), errors.New("builder: command is required")
	}

	if add, ok := cmd.(AddQuestion); ok && add.ID == 0 {
		add.ID = s.ids.Next()
		cmd = add
	}

	s.form = Reduce(s.form, cmd)
	s.logger.Debug("command applied",
		zap.String("command", cmd.Name()),
		zap.Int("questions", len(s.form.Questions)),
	)

	if _, ok := cmd.(SaveForm); ok {
		if err := s.slot.Save(ctx, s.form); err != nil {
			return s.Form(), fmt.Errorf("builder: save: %w", err)
		}
		s.logger.Info("form saved", zap.Int("questions", len(s.form.Questions)))
	}

	if err := s.refresh(ctx); err != nil {
		return s.Form(), err
	}
	return s.Form(), nil
}

// AddQuestion appends a new question and returns its id.
func (s *Store) AddQuestion(ctx context.Context) (int64, error) {
	id := s.ids.Next()
	if _, err := s.Dispatch(ctx, AddQuestion{ID: id}); err != nil {
		return id, err
	}
	return id, nil
}

// RemoveQuestion drops a question.
func (s *Store) RemoveQuestion(ctx context.Context, id int64) error {
	_, err := s.Dispatch(ctx, RemoveQuestion{ID: id})
	return err
}

// SetText changes a question's text.
func (s *Store) SetText(ctx context.Context, id int64, text string) error {
	_, err := s.Dispatch(ctx, SetText(id, text))
	return err
}

// SetType changes a question's type. Rules of other kinds stay attached.
func (s *Store) SetType(ctx context.Context, id int64, t model.QuestionType) error {
	_, err := s.Dispatch(ctx, SetType(id, t))
	return err
}

// ToggleValidation switches a rule on or off.
func (s *Store) ToggleValidation(ctx context.Context, id int64, t model.ValidationType, checked bool) error {
	_, err := s.Dispatch(ctx, ToggleValidation{ID: id, Type: t, Checked: checked})
	return err
}

// SetPattern updates the string payload of a StartsWith/Contains rule.
func (s *Store) SetPattern(ctx context.Context, id int64, t model.ValidationType, pattern string) error {
	_, err := s.Dispatch(ctx, SetPattern(id, t, pattern))
	return err
}

// SetRange validates r with CheckRange and, if it passes, updates the FromTo
// rule. A rejected range returns a Warning and dispatches nothing.
func (s *Store) SetRange(ctx context.Context, id int64, r model.Range) error {
	if err := CheckRange(r); err != nil {
		s.logger.Debug("range rejected",
			zap.Int64("question", id),
			zap.Float64("from", r.From),
			zap.Float64("to", r.To),
			zap.String("reason", err.Error()),
		)
		return err
	}
	_, err := s.Dispatch(ctx, UpdateValidationValue{ID: id, Type: model.ValidationFromTo, Range: r})
	return err
}

// Save writes the live document to the slot.
func (s *Store) Save(ctx context.Context) error {
	_, err := s.Dispatch(ctx, SaveForm{})
	return err
}

// Reload discards live edits and replaces the document with the stored copy,
// as happens when the builder view is entered again.
func (s *Store) Reload(ctx context.Context) error {
	form, err := s.slot.Load(ctx)
	if err != nil {
		return fmt.Errorf("builder: reload form: %w", err)
	}
	s.form = form
	for _, q := range form.Questions {
		s.ids.Observe(q.ID)
	}
	s.logger.Debug("form reloaded", zap.Int("questions", len(form.Questions)))
	return s.refresh(ctx)
}

// CanSave reports whether saving is meaningful: the live form or the stored
// form has at least one question.
func (s *Store) CanSave(ctx context.Context) (bool, error) {
	if !s.form.Empty() {
		return true, nil
	}
	stored, err := s.slot.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("builder: load stored form: %w", err)
	}
	return !stored.Empty(), nil
}

func (s *Store) refresh(ctx context.Context) error {
	stored, err := s.slot.Load(ctx)
	if err != nil {
		return fmt.Errorf("builder: compare with stored form: %w", err)
	}
	s.unsaved = !model.Equal(stored, s.form)
	if s.onUnsaved != nil {
		s.onUnsaved(s.unsaved)
	}
	return nil
}

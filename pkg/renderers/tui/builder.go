package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/app"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/tester"
)

const (
	menuAdd    = "Add question"
	menuRemove = "Remove question"
	menuSave   = "Save form"
	menuTester = "Go to Form Tester"
	menuQuit   = "Quit"
	menuDone   = "Done"
)

type menuItem struct {
	label string
	run   func(ctx context.Context) (exit app.Exit, leave bool, err error)
}

// Build runs the builder menu over store until the user leaves it.
func (r *Renderer) Build(ctx context.Context, store *builder.Store) (app.Exit, error) {
	if r.driver == nil {
		return app.ExitQuit, ErrNoDriver
	}
	if store == nil {
		return app.ExitQuit, errors.New("tui: builder store is nil")
	}

	for {
		items, err := r.builderMenu(ctx, store)
		if err != nil {
			return app.ExitQuit, err
		}
		title := "Form Builder"
		if store.HasUnsavedChanges() {
			title += " (unsaved changes)"
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:  title,
			Options:  menuLabels(items),
			PageSize: 12,
		})
		if err != nil {
			return app.ExitQuit, err
		}
		if idx < 0 || idx >= len(items) {
			continue
		}
		exit, leave, err := items[idx].run(ctx)
		if err != nil {
			return app.ExitQuit, err
		}
		if leave {
			return exit, nil
		}
	}
}

func (r *Renderer) builderMenu(ctx context.Context, store *builder.Store) ([]menuItem, error) {
	form := store.Form()
	items := make([]menuItem, 0, len(form.Questions)+5)
	for i, q := range form.Questions {
		id := q.ID
		items = append(items, menuItem{
			label: questionLabel(i, q),
			run: func(ctx context.Context) (app.Exit, bool, error) {
				return app.ExitSwitch, false, r.editQuestion(ctx, store, id)
			},
		})
	}

	items = append(items, menuItem{label: menuAdd, run: func(ctx context.Context) (app.Exit, bool, error) {
		id, err := store.AddQuestion(ctx)
		if err != nil {
			return app.ExitQuit, false, err
		}
		return app.ExitSwitch, false, r.editQuestion(ctx, store, id)
	}})

	if len(form.Questions) > 0 {
		items = append(items, menuItem{label: menuRemove, run: func(ctx context.Context) (app.Exit, bool, error) {
			return app.ExitSwitch, false, r.removeQuestion(ctx, store)
		}})
	}

	canSave, err := store.CanSave(ctx)
	if err != nil {
		return nil, err
	}
	if canSave {
		items = append(items, menuItem{label: menuSave, run: func(ctx context.Context) (app.Exit, bool, error) {
			if err := store.Save(ctx); err != nil {
				return app.ExitQuit, false, err
			}
			return app.ExitSwitch, false, r.info(ctx, builder.SavedMessage)
		}})
	}

	items = append(items,
		menuItem{label: menuTester, run: func(context.Context) (app.Exit, bool, error) {
			return app.ExitSwitch, true, nil
		}},
		menuItem{label: menuQuit, run: func(context.Context) (app.Exit, bool, error) {
			return app.ExitQuit, true, nil
		}},
	)
	return items, nil
}

func (r *Renderer) removeQuestion(ctx context.Context, store *builder.Store) error {
	form := store.Form()
	labels := make([]string, 0, len(form.Questions)+1)
	for i, q := range form.Questions {
		labels = append(labels, questionLabel(i, q))
	}
	labels = append(labels, menuDone)

	idx, err := r.driver.Select(ctx, SelectConfig{Message: "Remove which question?", Options: labels})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(form.Questions) {
		return nil
	}
	r.logger.Debug("removing question", zap.Int64("question", form.Questions[idx].ID))
	return store.RemoveQuestion(ctx, form.Questions[idx].ID)
}

func (r *Renderer) editQuestion(ctx context.Context, store *builder.Store, id int64) error {
	for {
		q, ok := store.Question(id)
		if !ok {
			return nil
		}

		items := []menuItem{
			{label: "Text: " + displayText(q.Text), run: func(ctx context.Context) (app.Exit, bool, error) {
				return app.ExitSwitch, false, r.editText(ctx, store, q)
			}},
			{label: "Type: " + string(q.Type), run: func(ctx context.Context) (app.Exit, bool, error) {
				return app.ExitSwitch, false, r.editType(ctx, store, q)
			}},
			{label: "Validation: " + ruleSummary(q), run: func(ctx context.Context) (app.Exit, bool, error) {
				return app.ExitSwitch, false, r.editRules(ctx, store, q)
			}},
		}
		for _, v := range q.Validation {
			if !v.Type.AppliesTo(q.Type) {
				continue
			}
			rule := v
			switch rule.Type {
			case model.ValidationStartsWith, model.ValidationContains:
				items = append(items, menuItem{
					label: fmt.Sprintf("%s value: %q", rule.Type, rule.Pattern),
					run: func(ctx context.Context) (app.Exit, bool, error) {
						return app.ExitSwitch, false, r.editPattern(ctx, store, q.ID, rule)
					},
				})
			case model.ValidationFromTo:
				items = append(items, menuItem{
					label: fmt.Sprintf("FromTo range: %s to %s", formatNumber(rule.Range.From), formatNumber(rule.Range.To)),
					run: func(ctx context.Context) (app.Exit, bool, error) {
						return app.ExitSwitch, false, r.editRange(ctx, store, q.ID, rule.Range)
					},
				})
			}
		}
		items = append(items, menuItem{label: menuDone, run: func(context.Context) (app.Exit, bool, error) {
			return app.ExitSwitch, true, nil
		}})

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: "Edit question",
			Options: menuLabels(items),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(items) {
			continue
		}
		_, done, err := items[idx].run(ctx)
		if err != nil || done {
			return err
		}
	}
}

func (r *Renderer) editText(ctx context.Context, store *builder.Store, q model.Question) error {
	text, err := r.driver.Input(ctx, InputConfig{Message: "Question text", Default: q.Text})
	if err != nil {
		return err
	}
	return store.SetText(ctx, q.ID, text)
}

func (r *Renderer) editType(ctx context.Context, store *builder.Store, q model.Question) error {
	options := make([]string, len(model.QuestionTypes))
	current := 0
	for i, t := range model.QuestionTypes {
		options[i] = string(t)
		if t == q.Type {
			current = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Question type",
		Options:      options,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(model.QuestionTypes) {
		return nil
	}
	return store.SetType(ctx, q.ID, model.QuestionTypes[idx])
}

// editRules offers the rule kinds that apply to the question type and toggles
// the difference. Stale rules of other kinds are left untouched.
func (r *Renderer) editRules(ctx context.Context, store *builder.Store, q model.Question) error {
	var (
		kinds    []model.ValidationType
		options  []string
		defaults []int
	)
	for _, t := range model.ValidationTypes {
		if !t.AppliesTo(q.Type) {
			continue
		}
		if q.HasRule(t) {
			defaults = append(defaults, len(kinds))
		}
		kinds = append(kinds, t)
		options = append(options, string(t))
	}
	if len(kinds) == 0 {
		return r.info(ctx, fmt.Sprintf("%s questions have no validation rules", q.Type))
	}

	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Validation rules",
		Options:  options,
		Defaults: defaults,
	})
	if err != nil {
		return err
	}
	selected := make(map[model.ValidationType]bool, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(kinds) {
			selected[kinds[idx]] = true
		}
	}
	for _, t := range kinds {
		want := selected[t]
		if want == q.HasRule(t) {
			continue
		}
		if err := store.ToggleValidation(ctx, q.ID, t, want); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) editPattern(ctx context.Context, store *builder.Store, id int64, rule model.Validation) error {
	pattern, err := r.driver.Input(ctx, InputConfig{
		Message: fmt.Sprintf("%s value", rule.Type),
		Default: rule.Pattern,
	})
	if err != nil {
		return err
	}
	return store.SetPattern(ctx, id, rule.Type, pattern)
}

// editRange asks for both bounds and applies them through the store's range
// policy. A rejected range is reported and the stored rule is kept.
func (r *Renderer) editRange(ctx context.Context, store *builder.Store, id int64, current model.Range) error {
	from, err := r.askNumber(ctx, "From", current.From)
	if err != nil {
		return err
	}
	to, err := r.askNumber(ctx, "To", current.To)
	if err != nil {
		return err
	}

	err = store.SetRange(ctx, id, model.Range{From: from, To: to})
	var warning builder.Warning
	if errors.As(err, &warning) {
		return r.warn(ctx, warning.Error())
	}
	return err
}

// askNumber reads a number; blank input counts as zero.
func (r *Renderer) askNumber(ctx context.Context, message string, current float64) (float64, error) {
	for {
		raw, err := r.driver.Input(ctx, InputConfig{Message: message, Default: formatNumber(current)})
		if err != nil {
			return 0, err
		}
		answer, err := tester.ParseAnswer(model.QuestionTypeNumber, raw)
		if errors.Is(err, tester.ErrNotANumber) {
			if err := r.warn(ctx, "Please enter a number"); err != nil {
				return 0, err
			}
			continue
		}
		if err != nil {
			return 0, err
		}
		return answer.Number, nil
	}
}

func menuLabels(items []menuItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.label
	}
	return out
}

func questionLabel(i int, q model.Question) string {
	return fmt.Sprintf("%d. %s (%s)", i+1, displayText(q.Text), q.Type)
}

func displayText(text string) string {
	if strings.TrimSpace(text) == "" {
		return "(no text)"
	}
	return text
}

func ruleSummary(q model.Question) string {
	var names []string
	for _, v := range q.Validation {
		if v.Type.AppliesTo(q.Type) {
			names = append(names, string(v.Type))
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"

	"github.com/goliatone/go-formbuilder/pkg/model"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/tester"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.Renderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Templates missing
// from the directory fall back to the bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = path
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// State carries what the user entered and, after a submission, its outcome.
// A nil Result renders the form without messages.
type State struct {
	Answers tester.Answers
	Result  *tester.Result
}

// Renderer produces the tester form as an HTML fragment.
type Renderer struct {
	templates rendertemplate.Renderer
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := rendertemplate.New(
			rendertemplate.WithBaseDir(cfg.templatesDir),
			rendertemplate.WithFS(cfg.templateFS),
			rendertemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	err := renderer.RegisterFilter(labelFilter, func(input any, _ any) (any, error) {
		return SanitizeLabel(fmt.Sprint(input)), nil
	})
	if err != nil && !errors.Is(err, rendertemplate.ErrFilterExists) {
		return nil, fmt.Errorf("html renderer: register %s filter: %w", labelFilter, err)
	}
	if err := renderer.GlobalContext(map[string]any{
		"no_data_message":   tester.NoDataMessage,
		"submitted_message": tester.SubmittedMessage,
	}); err != nil {
		return nil, fmt.Errorf("html renderer: set messages: %w", err)
	}

	return &Renderer{templates: renderer}, nil
}

// labelFilter sanitizes question text for inline display.
const labelFilter = "label_html"

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the tester view. Messages appear only once state carries a
// Result; a valid Result adds the success notice.
func (r *Renderer) Render(_ context.Context, view tester.View, state State) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate("tester", templateData(view, state))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderSubmission parses form-encoded values posted from the tester page,
// validates them against form and renders the page with the outcome.
func (r *Renderer) RenderSubmission(ctx context.Context, form model.Form, values url.Values) ([]byte, tester.Result, error) {
	answers := tester.ParseSubmission(form, values)
	result := tester.Validate(form, answers)
	page, err := r.Render(ctx, tester.Prepare(form), State{Answers: answers, Result: &result})
	if err != nil {
		return nil, tester.Result{}, err
	}
	return page, result, nil
}

func templateData(view tester.View, state State) map[string]any {
	data := map[string]any{
		"no_data":   view.NoData,
		"submitted": state.Result != nil && state.Result.Valid(),
	}

	fields := make([]map[string]any, 0, len(view.Fields))
	for _, f := range view.Fields {
		answer := state.Answers[f.ID]
		entry := map[string]any{
			"id":           strconv.FormatInt(f.ID, 10),
			"name":         f.Name,
			"label":        f.Label,
			"missing_text": f.MissingText,
			"checkbox":     f.Type == model.QuestionTypeTrueFalse,
			"checked":      answer.Checked,
			"input_type":   inputType(f.Type),
			"value":        inputValue(f.Type, answer),
			"error":        "",
		}
		if state.Result != nil {
			entry["error"] = state.Result.Message(f.ID)
		}
		fields = append(fields, entry)
	}
	data["fields"] = fields
	return data
}

func inputType(t model.QuestionType) string {
	switch t {
	case model.QuestionTypeNumber:
		return "number"
	case model.QuestionTypeTrueFalse:
		return "checkbox"
	default:
		return "text"
	}
}

func inputValue(t model.QuestionType, a tester.Answer) string {
	switch t {
	case model.QuestionTypeNumber:
		if !a.HasNumber {
			return ""
		}
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	case model.QuestionTypeTrueFalse:
		return ""
	default:
		return a.Text
	}
}

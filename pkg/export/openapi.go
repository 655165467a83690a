package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/tester"
)

// SchemaName is the component name of the submission payload.
const SchemaName = "Submission"

// QuestionIDExtension carries the question id on each property.
const QuestionIDExtension = "x-formbuilder-question-id"

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", raw)
	}
}

type options struct {
	title   string
	version string
	path    string
}

// Option configures the generated document.
type Option func(*options)

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(o *options) {
		if t := strings.TrimSpace(title); t != "" {
			o.title = t
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(o *options) {
		if v := strings.TrimSpace(version); v != "" {
			o.version = v
		}
	}
}

// WithPath sets the path the submission operation is mounted on.
func WithPath(path string) Option {
	return func(o *options) {
		if p := strings.TrimSpace(path); p != "" {
			if !strings.HasPrefix(p, "/") {
				p = "/" + p
			}
			o.path = p
		}
	}
}

// Schema describes the submission payload of form: one property per question
// keyed by its field name, constrained by the rules that apply to its type.
func Schema(form model.Form) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = SchemaName
	var required []string
	for _, field := range tester.Prepare(form).Fields {
		property, isRequired := propertySchema(field)
		schema.WithProperty(field.Name, property)
		if isRequired {
			required = append(required, field.Name)
		}
	}
	schema.Required = required
	return schema
}

func propertySchema(field tester.Field) (*openapi3.Schema, bool) {
	var (
		schema   *openapi3.Schema
		required bool
	)
	switch field.Type {
	case model.QuestionTypeNumber:
		schema = openapi3.NewFloat64Schema()
	case model.QuestionTypeTrueFalse:
		schema = openapi3.NewBoolSchema()
	default:
		schema = openapi3.NewStringSchema()
	}
	if !field.MissingText {
		schema.Title = field.Label
	}
	schema.Extensions = map[string]any{QuestionIDExtension: field.ID}

	var patterns []string
	for _, rule := range field.Rules {
		switch rule.Type {
		case model.ValidationRequired:
			required = true
			if field.Type == model.QuestionTypeText {
				schema.WithMinLength(1)
			}
		case model.ValidationStartsWith:
			patterns = append(patterns, "^"+regexp.QuoteMeta(rule.Pattern))
		case model.ValidationContains:
			patterns = append(patterns, regexp.QuoteMeta(rule.Pattern))
		case model.ValidationFromTo:
			schema.WithMin(rule.Range.From).WithMax(rule.Range.To)
		}
	}

	switch len(patterns) {
	case 0:
	case 1:
		schema.WithPattern(patterns[0])
	default:
		for _, p := range patterns {
			schema.AllOf = append(schema.AllOf, openapi3.NewSchemaRef("", openapi3.NewStringSchema().WithPattern(p)))
		}
	}
	return schema, required
}

// Document wraps the submission schema in an OpenAPI 3 document with a single
// POST operation accepting it.
func Document(form model.Form, opts ...Option) *openapi3.T {
	o := options{title: "Form submission", version: "1.0.0", path: "/submissions"}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	ref := "#/components/schemas/" + SchemaName
	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(openapi3.NewSchemaRef(ref, nil))

	responses := openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(tester.SubmittedMessage),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("One or more answers failed validation"),
		}),
	)

	paths := openapi3.NewPaths()
	paths.Set(o.path, &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "submitForm",
			Summary:     "Submit answers to the form",
			RequestBody: &openapi3.RequestBodyRef{Value: body},
			Responses:   responses,
		},
	})

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: o.title, Version: o.version},
		Paths:   paths,
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				SchemaName: openapi3.NewSchemaRef("", Schema(form)),
			},
		},
	}
}

// Encode serializes doc in the requested format.
func Encode(doc *openapi3.T, format Format) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("export: document is nil")
	}
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("export: encode yaml: %w", err)
		}
		return out, nil
	case FormatJSON, "":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export: encode json: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("export: unknown format %q", format)
	}
}

// Write builds the document for form and writes it to w.
func Write(w io.Writer, form model.Form, format Format, opts ...Option) error {
	payload, err := Encode(Document(form, opts...), format)
	if err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

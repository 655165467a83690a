package tester

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/storage"
)

const (
	// MessageRequired is reported when a Required rule fails.
	MessageRequired = "Field is required"
	// MissingTextPlaceholder replaces the label of a question without text.
	MissingTextPlaceholder = "Oops, you forgot to write the question text!"
	// NoDataMessage is reported instead of a form when nothing is stored.
	NoDataMessage = "No form data found!"
	// SubmittedMessage is the success notification after a valid submission.
	SubmittedMessage = "Form submitted successfully!"
)

// ErrNoData is returned when the form to test has no questions.
var ErrNoData = errors.New("tester: no form data found")

// Evaluate checks an answer against the question's rules in order and
// returns the message of the first failing rule, or "" when all pass. Rules
// that do not apply to the question type are skipped; True/False questions
// always pass.
func Evaluate(q model.Question, a Answer) string {
	switch q.Type {
	case model.QuestionTypeText:
		return evaluateText(q.Validation, a.Text)
	case model.QuestionTypeNumber:
		return evaluateNumber(q.Validation, a)
	default:
		return ""
	}
}

func evaluateText(rules []model.Validation, value string) string {
	for _, v := range rules {
		switch v.Type {
		case model.ValidationStartsWith:
			if !strings.HasPrefix(value, v.Pattern) {
				return `Must start with "` + v.Pattern + `"`
			}
		case model.ValidationContains:
			if !strings.Contains(value, v.Pattern) {
				return `Must contain "` + v.Pattern + `"`
			}
		case model.ValidationRequired:
			if value == "" {
				return MessageRequired
			}
		}
	}
	return ""
}

// An absent number compares as zero against ranges.
func evaluateNumber(rules []model.Validation, a Answer) string {
	value := 0.0
	if a.HasNumber {
		value = a.Number
	}
	for _, v := range rules {
		switch v.Type {
		case model.ValidationFromTo:
			if !v.Range.Contains(value) {
				return fmt.Sprintf("Must be between %s and %s", formatNumber(v.Range.From), formatNumber(v.Range.To))
			}
		case model.ValidationRequired:
			if value == 0 {
				return MessageRequired
			}
		}
	}
	return ""
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Result holds per-question messages of a validation pass.
type Result struct {
	Errors map[int64]string
}

// Valid reports whether every question passed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Message returns the message for a question, or "".
func (r Result) Message(id int64) string {
	return r.Errors[id]
}

// Validate evaluates every question of the form against its answer.
func Validate(form model.Form, answers Answers) Result {
	result := Result{}
	for _, q := range form.Questions {
		if msg := Evaluate(q, answers[q.ID]); msg != "" {
			if result.Errors == nil {
				result.Errors = make(map[int64]string)
			}
			result.Errors[q.ID] = msg
		}
	}
	return result
}

// Submit validates a submission. It returns ErrNoData for empty forms; a
// valid Result is the success signal. Answers are neither transformed nor
// persisted.
func Submit(form model.Form, answers Answers) (Result, error) {
	if form.Empty() {
		return Result{}, ErrNoData
	}
	return Validate(form, answers), nil
}

// Load reads the form to test from the slot without modifying it.
func Load(ctx context.Context, slot *storage.Slot) (model.Form, error) {
	if slot == nil {
		return model.Form{}, errors.New("tester: slot is required")
	}
	form, err := slot.Load(ctx)
	if err != nil {
		return model.Form{}, fmt.Errorf("tester: %w", err)
	}
	return form, nil
}

package tester

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrNotANumber is returned by ParseAnswer for Number input that does not
// parse as a finite decimal.
var ErrNotANumber = errors.New("tester: not a number")

// Answer is the value entered for one question. Which fields matter depends
// on the question type: Text for Text, Number/HasNumber for Number, Checked
// for True/False.
type Answer struct {
	Text      string
	Number    float64
	HasNumber bool
	Checked   bool
}

// Answers maps question ids to entered values. Missing entries are treated
// as empty input.
type Answers map[int64]Answer

// TextAnswer wraps a string entry.
func TextAnswer(s string) Answer { return Answer{Text: s} }

// NumberAnswer wraps a numeric entry.
func NumberAnswer(n float64) Answer { return Answer{Number: n, HasNumber: true} }

// BoolAnswer wraps a checkbox entry.
func BoolAnswer(b bool) Answer { return Answer{Checked: b} }

// FieldName is the input name used for a question in submitted payloads.
func FieldName(id int64) string {
	return "question_" + strconv.FormatInt(id, 10)
}

// ParseFieldName reverses FieldName.
func ParseFieldName(name string) (int64, bool) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(name), "question_")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ParseAnswer converts raw input for a question type. Empty Number input is
// an absent value; non-numeric, NaN or infinite input returns ErrNotANumber.
func ParseAnswer(t model.QuestionType, raw string) (Answer, error) {
	switch t {
	case model.QuestionTypeNumber:
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return Answer{}, nil
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Answer{}, fmt.Errorf("%w: %q", ErrNotANumber, raw)
		}
		return NumberAnswer(n), nil
	case model.QuestionTypeTrueFalse:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "on", "true", "1", "yes", "y":
			return BoolAnswer(true), nil
		default:
			return BoolAnswer(false), nil
		}
	default:
		return TextAnswer(raw), nil
	}
}

// ParseSubmission reads answers from form-encoded input keyed by FieldName.
// Non-numeric Number input is treated as absent, as a browser number input
// would report it.
func ParseSubmission(form model.Form, values url.Values) Answers {
	out := make(Answers, len(form.Questions))
	for _, q := range form.Questions {
		raw := values.Get(FieldName(q.ID))
		answer, err := ParseAnswer(q.Type, raw)
		if err != nil {
			answer = Answer{}
		}
		out[q.ID] = answer
	}
	return out
}

// DecodeAnswers converts loosely typed values (as decoded from JSON or YAML)
// keyed by question id or FieldName.
func DecodeAnswers(form model.Form, raw map[string]any) (Answers, error) {
	byID := make(map[int64]any, len(raw))
	for key, value := range raw {
		if id, ok := ParseFieldName(key); ok {
			byID[id] = value
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tester: unknown answer key %q", key)
		}
		byID[id] = value
	}

	out := make(Answers, len(form.Questions))
	for _, q := range form.Questions {
		value, ok := byID[q.ID]
		if !ok || value == nil {
			out[q.ID] = Answer{}
			continue
		}
		answer, err := decodeValue(q.Type, value)
		if err != nil {
			return nil, fmt.Errorf("tester: answer for %s: %w", FieldName(q.ID), err)
		}
		out[q.ID] = answer
	}
	return out, nil
}

func decodeValue(t model.QuestionType, value any) (Answer, error) {
	switch v := value.(type) {
	case string:
		return ParseAnswer(t, v)
	case bool:
		if t == model.QuestionTypeTrueFalse {
			return BoolAnswer(v), nil
		}
		return ParseAnswer(t, strconv.FormatBool(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Answer{}, fmt.Errorf("%w: %v", ErrNotANumber, v)
		}
		return numericAnswer(t, v), nil
	case int:
		return numericAnswer(t, float64(v)), nil
	case int64:
		return numericAnswer(t, float64(v)), nil
	default:
		return Answer{}, fmt.Errorf("unsupported value %T", value)
	}
}

func numericAnswer(t model.QuestionType, n float64) Answer {
	switch t {
	case model.QuestionTypeNumber:
		return NumberAnswer(n)
	case model.QuestionTypeTrueFalse:
		return BoolAnswer(n != 0)
	default:
		return TextAnswer(strconv.FormatFloat(n, 'f', -1, 64))
	}
}

package model

import (
	"fmt"
	"strings"
)

// QuestionType enumerates the input kinds a question can collect.
type QuestionType string

const (
	QuestionTypeText      QuestionType = "Text"
	QuestionTypeNumber    QuestionType = "Number"
	QuestionTypeTrueFalse QuestionType = "True/False"
)

// QuestionTypes lists the question types in the order builders present them.
var QuestionTypes = []QuestionType{
	QuestionTypeText,
	QuestionTypeNumber,
	QuestionTypeTrueFalse,
}

// ValidationType enumerates the rule kinds a question can carry.
type ValidationType string

const (
	ValidationRequired   ValidationType = "Required"
	ValidationStartsWith ValidationType = "StartsWith"
	ValidationContains   ValidationType = "Contains"
	ValidationFromTo     ValidationType = "FromTo"
)

// ValidationTypes lists every rule kind in canonical order.
var ValidationTypes = []ValidationType{
	ValidationRequired,
	ValidationStartsWith,
	ValidationContains,
	ValidationFromTo,
}

// Range is the payload of a FromTo rule. Both bounds are inclusive.
type Range struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// Contains reports whether value lies inside [From, To].
func (r Range) Contains(value float64) bool {
	return value >= r.From && value <= r.To
}

// Validation is a single typed rule attached to a question. Only the payload
// matching Type is meaningful: Pattern for StartsWith/Contains, Range for
// FromTo. Required carries no payload; its presence activates it. The JSON
// form keeps the {"type", "value"} shape of the stored document, see codec.go.
type Validation struct {
	Type    ValidationType
	Pattern string
	Range   Range
}

// Question is one prompt of a form.
type Question struct {
	ID         int64        `json:"id"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type"`
	Validation []Validation `json:"validation"`
}

// Form is the ordered collection of questions and the unit of persistence.
type Form struct {
	Questions []Question `json:"questions"`
}

// AppliesTo reports whether a rule kind is evaluated for the question type.
// Required applies to every type except True/False, which accepts any value.
func (t ValidationType) AppliesTo(q QuestionType) bool {
	switch t {
	case ValidationRequired:
		return q == QuestionTypeText || q == QuestionTypeNumber
	case ValidationStartsWith, ValidationContains:
		return q == QuestionTypeText
	case ValidationFromTo:
		return q == QuestionTypeNumber
	default:
		return false
	}
}

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeNumber, QuestionTypeTrueFalse:
		return true
	default:
		return false
	}
}

// Valid reports whether t is a known rule kind.
func (t ValidationType) Valid() bool {
	switch t {
	case ValidationRequired, ValidationStartsWith, ValidationContains, ValidationFromTo:
		return true
	default:
		return false
	}
}

// ParseQuestionType resolves user input (case-insensitive) into a QuestionType.
func ParseQuestionType(raw string) (QuestionType, error) {
	trimmed := strings.TrimSpace(raw)
	for _, t := range QuestionTypes {
		if strings.EqualFold(trimmed, string(t)) {
			return t, nil
		}
	}
	switch strings.ToLower(trimmed) {
	case "bool", "boolean", "truefalse", "true-false":
		return QuestionTypeTrueFalse, nil
	}
	return "", fmt.Errorf("model: unknown question type %q", raw)
}

// ParseValidationType resolves user input (case-insensitive) into a
// ValidationType.
func ParseValidationType(raw string) (ValidationType, error) {
	trimmed := strings.TrimSpace(raw)
	for _, t := range ValidationTypes {
		if strings.EqualFold(trimmed, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("model: unknown validation type %q", raw)
}

// DefaultValidation returns the entry added when a rule is first switched on.
func DefaultValidation(t ValidationType) Validation {
	return Validation{Type: t}
}

// Rule returns the first rule of the given kind.
func (q Question) Rule(t ValidationType) (Validation, bool) {
	for _, v := range q.Validation {
		if v.Type == t {
			return v, true
		}
	}
	return Validation{}, false
}

// HasRule reports whether the question carries a rule of the given kind.
func (q Question) HasRule(t ValidationType) bool {
	_, ok := q.Rule(t)
	return ok
}

// Find returns the question with the given id.
func (f Form) Find(id int64) (Question, bool) {
	idx := f.Index(id)
	if idx < 0 {
		return Question{}, false
	}
	return f.Questions[idx], true
}

// Index returns the position of the question with the given id, or -1.
func (f Form) Index(id int64) int {
	for i, q := range f.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Empty reports whether the form has no questions.
func (f Form) Empty() bool {
	return len(f.Questions) == 0
}

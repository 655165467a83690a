package model

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var equalOptions = []cmp.Option{
	cmpopts.EquateEmpty(),
}

// Equal performs a deep structural comparison of two forms. Nil and empty
// slices compare equal so a freshly decoded document matches its in-memory
// origin.
func Equal(a, b Form) bool {
	return cmp.Equal(a, b, equalOptions...)
}

// Diff returns a human readable description of the differences between two
// forms, or an empty string when they are equal.
func Diff(a, b Form) string {
	return cmp.Diff(a, b, equalOptions...)
}

// Clone returns a deep copy of the form.
func Clone(f Form) Form {
	if f.Questions == nil {
		return Form{}
	}
	out := Form{Questions: make([]Question, len(f.Questions))}
	for i, q := range f.Questions {
		out.Questions[i] = CloneQuestion(q)
	}
	return out
}

// CloneQuestion returns a deep copy of a question.
func CloneQuestion(q Question) Question {
	out := q
	if q.Validation != nil {
		out.Validation = append([]Validation(nil), q.Validation...)
		if len(q.Validation) == 0 {
			out.Validation = []Validation{}
		}
	}
	return out
}

package builder

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Reduce applies cmd to form and returns the next document. The input is
// never modified: touched questions and rule lists are copied, untouched ones
// are shared. Unknown ids and unknown commands leave the form unchanged.
// Text and patterns are stored as valid UTF-8 so the document compares equal
// to its stored copy after a save.
func Reduce(form model.Form, cmd Command) model.Form {
	switch c := cmd.(type) {
	case AddQuestion:
		return addQuestion(form, c)
	case RemoveQuestion:
		return removeQuestion(form, c.ID)
	case UpdateQuestion:
		return mapQuestion(form, c.ID, func(q model.Question) model.Question {
			if c.Text != nil {
				q.Text = validUTF8(*c.Text)
			}
			if c.Type != nil {
				q.Type = *c.Type
			}
			return q
		})
	case ToggleValidation:
		return mapQuestion(form, c.ID, func(q model.Question) model.Question {
			return toggleValidation(q, c.Type, c.Checked)
		})
	case UpdateValidationValue:
		return mapQuestion(form, c.ID, func(q model.Question) model.Question {
			return updateValidationValue(q, c)
		})
	default:
		return form
	}
}

func addQuestion(form model.Form, c AddQuestion) model.Form {
	questions := make([]model.Question, len(form.Questions), len(form.Questions)+1)
	copy(questions, form.Questions)
	questions = append(questions, model.Question{
		ID:         c.ID,
		Text:       "",
		Type:       model.QuestionTypeText,
		Validation: []model.Validation{},
	})
	return model.Form{Questions: questions}
}

func removeQuestion(form model.Form, id int64) model.Form {
	if form.Index(id) < 0 {
		return form
	}
	questions := make([]model.Question, 0, len(form.Questions))
	for _, q := range form.Questions {
		if q.ID != id {
			questions = append(questions, q)
		}
	}
	return model.Form{Questions: questions}
}

func mapQuestion(form model.Form, id int64, fn func(model.Question) model.Question) model.Form {
	idx := form.Index(id)
	if idx < 0 {
		return form
	}
	questions := make([]model.Question, len(form.Questions))
	copy(questions, form.Questions)
	questions[idx] = fn(model.CloneQuestion(questions[idx]))
	return model.Form{Questions: questions}
}

func toggleValidation(q model.Question, t model.ValidationType, checked bool) model.Question {
	if checked {
		if q.HasRule(t) {
			return q
		}
		rules := make([]model.Validation, len(q.Validation), len(q.Validation)+1)
		copy(rules, q.Validation)
		q.Validation = append(rules, model.DefaultValidation(t))
		return q
	}

	rules := make([]model.Validation, 0, len(q.Validation))
	for _, v := range q.Validation {
		if v.Type != t {
			rules = append(rules, v)
		}
	}
	q.Validation = rules
	return q
}

func updateValidationValue(q model.Question, c UpdateValidationValue) model.Question {
	for i := range q.Validation {
		if q.Validation[i].Type != c.Type {
			continue
		}
		switch c.Type {
		case model.ValidationStartsWith, model.ValidationContains:
			q.Validation[i].Pattern = validUTF8(c.Pattern)
		case model.ValidationFromTo:
			q.Validation[i].Range = c.Range
		}
	}
	return q
}

func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

package tester

import "github.com/goliatone/go-formbuilder/pkg/model"

// Field is one renderable input of the tester view.
type Field struct {
	ID    int64
	Name  string
	Label string
	// MissingText marks a question without text; Label then holds
	// MissingTextPlaceholder.
	MissingText bool
	Type        model.QuestionType
	// Rules lists the rules evaluated for this field, in order. Stale rules
	// that do not apply to the question type are left out.
	Rules    []model.Validation
	Question model.Question
}

// View is the read-only presentation of a stored form.
type View struct {
	NoData bool
	Fields []Field
}

// Prepare builds the tester view of form. Forms without questions produce a
// NoData view.
func Prepare(form model.Form) View {
	if form.Empty() {
		return View{NoData: true}
	}

	view := View{Fields: make([]Field, 0, len(form.Questions))}
	for _, q := range form.Questions {
		field := Field{
			ID:       q.ID,
			Name:     FieldName(q.ID),
			Label:    q.Text,
			Type:     q.Type,
			Question: model.CloneQuestion(q),
		}
		if q.Text == "" {
			field.Label = MissingTextPlaceholder
			field.MissingText = true
		}
		for _, v := range q.Validation {
			if v.Type.AppliesTo(q.Type) {
				field.Rules = append(field.Rules, v)
			}
		}
		view.Fields = append(view.Fields, field)
	}
	return view
}

// Evaluate checks one answer for the field.
func (f Field) Evaluate(a Answer) string {
	return Evaluate(f.Question, a)
}

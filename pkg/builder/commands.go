package builder

import "github.com/goliatone/go-formbuilder/pkg/model"

// Command is the closed set of edits the builder understands. Only types in
// this package implement it.
type Command interface {
	command()
	// Name identifies the command in logs.
	Name() string
}

// AddQuestion appends an empty Text question. The Store fills ID from its
// IDSource when it is zero.
type AddQuestion struct {
	ID int64
}

// RemoveQuestion drops the question with ID, if present.
type RemoveQuestion struct {
	ID int64
}

// UpdateQuestion patches the text and/or type of a question. Nil fields are
// left unchanged.
type UpdateQuestion struct {
	ID   int64
	Text *string
	Type *model.QuestionType
}

// ToggleValidation switches a rule kind on (with its default payload) or off.
type ToggleValidation struct {
	ID      int64
	Type    model.ValidationType
	Checked bool
}

// UpdateValidationValue replaces the payload of an existing rule. Pattern is
// used for StartsWith/Contains, Range for FromTo.
type UpdateValidationValue struct {
	ID      int64
	Type    model.ValidationType
	Pattern string
	Range   model.Range
}

// SaveForm persists the current document. The reducer treats it as a no-op.
type SaveForm struct{}

func (AddQuestion) command()           {}
func (RemoveQuestion) command()        {}
func (UpdateQuestion) command()        {}
func (ToggleValidation) command()      {}
func (UpdateValidationValue) command() {}
func (SaveForm) command()              {}

func (AddQuestion) Name() string           { return "add_question" }
func (RemoveQuestion) Name() string        { return "remove_question" }
func (UpdateQuestion) Name() string        { return "update_question" }
func (ToggleValidation) Name() string      { return "toggle_validation" }
func (UpdateValidationValue) Name() string { return "update_validation_value" }
func (SaveForm) Name() string              { return "save_form" }

// SetText builds an UpdateQuestion that only changes the text.
func SetText(id int64, text string) UpdateQuestion {
	return UpdateQuestion{ID: id, Text: &text}
}

// SetType builds an UpdateQuestion that only changes the type.
func SetType(id int64, t model.QuestionType) UpdateQuestion {
	return UpdateQuestion{ID: id, Type: &t}
}

// SetPattern builds an UpdateValidationValue for a StartsWith/Contains rule.
func SetPattern(id int64, t model.ValidationType, pattern string) UpdateValidationValue {
	return UpdateValidationValue{ID: id, Type: t, Pattern: pattern}
}

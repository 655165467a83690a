package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type validationWire struct {
	Type  ValidationType  `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the rule as {"type": ..., "value": ...} where value is
// true for Required, a string for StartsWith/Contains and {"from","to"} for
// FromTo.
func (v Validation) MarshalJSON() ([]byte, error) {
	var value any
	switch v.Type {
	case ValidationRequired:
		value = true
	case ValidationStartsWith, ValidationContains:
		value = v.Pattern
	case ValidationFromTo:
		value = v.Range
	}

	wire := validationWire{Type: v.Type}
	if value != nil {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("model: encode %s value: %w", v.Type, err)
		}
		wire.Value = raw
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the stored rule shape. A value whose shape does not
// match the rule type decodes to the zero payload rather than failing the
// whole document.
func (v *Validation) UnmarshalJSON(data []byte) error {
	var wire validationWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("model: decode validation: %w", err)
	}

	out := Validation{Type: wire.Type}
	raw := bytes.TrimSpace(wire.Value)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		switch wire.Type {
		case ValidationStartsWith, ValidationContains:
			var pattern string
			if err := json.Unmarshal(raw, &pattern); err == nil {
				out.Pattern = pattern
			}
		case ValidationFromTo:
			var r Range
			if err := json.Unmarshal(raw, &r); err == nil {
				out.Range = r
			}
		}
	}

	*v = out
	return nil
}

// MarshalJSON always emits arrays for questions and their rules so an empty
// form serializes as {"questions":[]}.
func (f Form) MarshalJSON() ([]byte, error) {
	type formAlias Form
	out := formAlias(Normalize(f))
	return json.Marshal(out)
}

// Normalize returns a deep copy with nil slices replaced by empty ones.
func Normalize(f Form) Form {
	out := Clone(f)
	if out.Questions == nil {
		out.Questions = []Question{}
	}
	for i := range out.Questions {
		if out.Questions[i].Validation == nil {
			out.Questions[i].Validation = []Validation{}
		}
	}
	return out
}

// Encode serializes the form to its stored JSON shape.
func Encode(f Form) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("model: encode form: %w", err)
	}
	return data, nil
}

// Decode parses a stored form. A document without a questions array is
// rejected so callers can fall back to an empty form.
func Decode(data []byte) (Form, error) {
	var doc struct {
		Questions *[]Question `json:"questions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Form{}, fmt.Errorf("model: decode form: %w", err)
	}
	if doc.Questions == nil {
		return Form{}, fmt.Errorf("model: decode form: missing questions")
	}
	return Normalize(Form{Questions: *doc.Questions}), nil
}

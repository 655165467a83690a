package builder

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Each step encodes a rule kind (step % 4) and whether it is switched on
// (step >= 4).
func applyToggles(form model.Form, id int64, steps []int) model.Form {
	for _, step := range steps {
		form = Reduce(form, ToggleValidation{
			ID:      id,
			Type:    model.ValidationTypes[step%len(model.ValidationTypes)],
			Checked: step >= len(model.ValidationTypes),
		})
	}
	return form
}

func TestProperty_ToggleNeverDuplicatesRules(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("a question holds at most one rule per kind", prop.ForAll(
		func(steps []int) bool {
			form := applyToggles(formWith(model.Question{ID: 1, Type: model.QuestionTypeText}), 1, steps)
			seen := make(map[model.ValidationType]bool)
			for _, v := range form.Questions[0].Validation {
				if seen[v.Type] {
					return false
				}
				seen[v.Type] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 7)),
	))

	properties.TestingRun(t)
}

func TestProperty_ToggleOnOffRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("switching an absent rule on then off restores the rules", prop.ForAll(
		func(steps []int, kind int) bool {
			form := applyToggles(formWith(model.Question{ID: 1, Type: model.QuestionTypeNumber}), 1, steps)
			vt := model.ValidationTypes[kind]
			form = Reduce(form, ToggleValidation{ID: 1, Type: vt, Checked: false})

			before := form
			after := Reduce(Reduce(form, ToggleValidation{ID: 1, Type: vt, Checked: true}), ToggleValidation{ID: 1, Type: vt, Checked: false})
			return model.Equal(before, after)
		},
		gen.SliceOf(gen.IntRange(0, 7)),
		gen.IntRange(0, len(model.ValidationTypes)-1),
	))

	properties.TestingRun(t)
}

func TestProperty_AddRemoveInverse(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("removing a just-added question restores the form", prop.ForAll(
		func(existing int, id int64) bool {
			form := model.Form{}
			for i := 0; i < existing; i++ {
				form = Reduce(form, AddQuestion{ID: int64(i + 1)})
			}
			// keep the new id clear of the seeded ones
			newID := id + int64(existing) + 1
			got := Reduce(Reduce(form, AddQuestion{ID: newID}), RemoveQuestion{ID: newID})
			return model.Equal(form, got)
		},
		gen.IntRange(0, 10),
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}

func TestProperty_CheckRangeAcceptsOnlyStrictNonNegativeRanges(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("accepted ranges satisfy 0 <= from < to", prop.ForAll(
		func(from, to float64) bool {
			err := CheckRange(model.Range{From: from, To: to})
			valid := from >= 0 && to >= 0 && from < to
			return (err == nil) == valid
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_CheckRangeRejectsNonFiniteBounds(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	nonFinite := gen.OneConstOf(math.NaN(), math.Inf(1), math.Inf(-1))
	properties.Property("a NaN or infinite bound is never accepted", prop.ForAll(
		func(bad, other float64, badIsFrom bool) bool {
			r := model.Range{From: other, To: bad}
			if badIsFrom {
				r = model.Range{From: bad, To: other}
			}
			return errors.Is(CheckRange(r), ErrRangeNotNumber)
		},
		nonFinite,
		gen.Float64Range(0, 100),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

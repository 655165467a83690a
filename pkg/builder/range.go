package builder

import (
	"math"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Warning is a user-facing rejection of an edit. The message is meant to be
// shown verbatim; the edit is dropped and prior state kept.
type Warning string

func (w Warning) Error() string { return string(w) }

const (
	ErrRangeNotNumber Warning = "Both 'From' and 'To' values must be numbers."
	ErrRangeOrder    Warning = "The 'From' value cannot be greater than the 'To' value."
	ErrRangeNegative Warning = "Both 'From' and 'To' values must be non-negative."
	ErrRangeEqual    Warning = "The 'From' and 'To' values should not be the same."
)

// CheckRange applies the FromTo commit policy. Non-finite bounds are rejected
// first; the remaining checks run in order (ordering, sign, equality) and the
// first violation is returned.
func CheckRange(r model.Range) error {
	if !finite(r.From) || !finite(r.To) {
		return ErrRangeNotNumber
	}
	if r.From > r.To {
		return ErrRangeOrder
	}
	if r.From < 0 || r.To < 0 {
		return ErrRangeNegative
	}
	if r.From == r.To {
		return ErrRangeEqual
	}
	return nil
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

package calc

import (
	"math"
	"strconv"
)

// ErrorSentinel is what every failed formula displays.
const ErrorSentinel = "#ERROR!"

// Kind tags a Result.
type Kind int

const (
	KindLiteral Kind = iota
	KindNumber
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindNumber:
		return "number"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of Evaluate. Only the field matching Kind is set;
// Err keeps the cause of a KindError result.
type Result struct {
	Kind   Kind
	Text   string
	Number float64
	Err    error
}

// IsError reports whether the result displays as ErrorSentinel.
func (r Result) IsError() bool {
	return r.Kind == KindError
}

// String returns the display text of the result.
func (r Result) String() string {
	switch r.Kind {
	case KindLiteral:
		return r.Text
	case KindNumber:
		return FormatNumber(r.Number)
	default:
		return ErrorSentinel
	}
}

// FormatNumber renders v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrorSentinel
	}
	if v == 0 {
		// drop the sign of -0
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

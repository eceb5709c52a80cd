// Package calc evaluates cell input: literals pass through, formulas are
// either one aggregate call over a range or plain arithmetic.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// FormulaPrefix marks input that is evaluated rather than stored verbatim.
const FormulaPrefix = "="

var (
	ErrParse          = errors.New("parse error")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNonFinite      = errors.New("result is not a finite number")

	// ErrNotNumeric marks a cell value aggregates skip. Evaluate never
	// returns it.
	ErrNotNumeric = errors.New("not numeric")
)

// Lookup gives read access to cell values by id. grid.Cells implements it.
type Lookup interface {
	Value(id string) (string, bool)
}

// Enumerator is a Lookup that can list its cells. Aggregates over ranges
// larger than the lookup visit only the stored cells.
type Enumerator interface {
	Lookup
	Len() int
	Each(fn func(id, value string))
}

// IsFormula reports whether input is evaluated.
func IsFormula(input string) bool {
	return strings.HasPrefix(input, FormulaPrefix)
}

// Evaluate computes the result of input against cells. It never mutates
// cells and keeps no state between calls. Failures of any kind come back
// as a KindError result.
func Evaluate(input string, cells Lookup) Result {
	if !IsFormula(input) {
		return Result{Kind: KindLiteral, Text: input}
	}

	expression := strings.TrimSpace(strings.ToUpper(input[len(FormulaPrefix):]))
	v, err := evalExpression(expression, cells)
	if err != nil {
		return Result{Kind: KindError, Err: fmt.Errorf("%s: %w", input, err)}
	}
	return Result{Kind: KindNumber, Number: v}
}

func evalExpression(expression string, cells Lookup) (float64, error) {
	var (
		v   float64
		err error
	)
	if fn, rng, ok, callErr := parseCall(expression); ok {
		if callErr != nil {
			return 0, callErr
		}
		v, err = Aggregate(fn, rng, cells)
	} else {
		v, err = evalArithmetic(expression)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}

// parseCall matches NAME(range) spanning the whole expression for the
// first function whose "NAME(" prefixes it. ok is false when no function
// prefix matches.
func parseCall(expression string) (fn Function, rng string, ok bool, err error) {
	for _, fn = range Functions {
		prefix := string(fn) + "("
		if !strings.HasPrefix(expression, prefix) {
			continue
		}
		body := expression[len(prefix):]
		end := strings.IndexByte(body, ')')
		if end < 0 {
			return fn, "", true, fmt.Errorf("%w: %s call is not closed", ErrParse, fn)
		}
		if rest := strings.TrimSpace(body[end+1:]); rest != "" {
			return fn, "", true, fmt.Errorf("%w: unexpected %q after %s call", ErrParse, rest, fn)
		}
		return fn, strings.TrimSpace(body[:end]), true, nil
	}
	return "", "", false, nil
}

package calc

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/hitenkalda/SpreadSheets/internal/grid"
)

// Function is an aggregate over the numeric cells of a range.
type Function string

const (
	Sum     Function = "SUM"
	Average Function = "AVERAGE"
	Max     Function = "MAX"
	Min     Function = "MIN"
	Count   Function = "COUNT"
)

// Functions lists the aggregates in dispatch order.
var Functions = []Function{Sum, Average, Max, Min, Count}

// Numeric parses a cell value as a finite number.
func Numeric(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, ErrNotNumeric
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return v, nil
}

// Aggregate applies fn to the numeric values found in rng. Missing and
// non-numeric cells are skipped; an empty value set yields 0.
func Aggregate(fn Function, rng string, cells Lookup) (float64, error) {
	values, err := rangeValues(rng, cells)
	if err != nil {
		return 0, err
	}

	switch fn {
	case Sum:
		return sum(values), nil
	case Average:
		if len(values) == 0 {
			return 0, nil
		}
		return sum(values) / float64(len(values)), nil
	case Max:
		if len(values) == 0 {
			return 0, nil
		}
		maxVal := values[0]
		for _, v := range values[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		return maxVal, nil
	case Min:
		if len(values) == 0 {
			return 0, nil
		}
		minVal := values[0]
		for _, v := range values[1:] {
			if v < minVal {
				minVal = v
			}
		}
		return minVal, nil
	case Count:
		return float64(len(values)), nil
	default:
		return 0, fmt.Errorf("%w: unknown function %s", ErrParse, fn)
	}
}

func rangeValues(rng string, cells Lookup) ([]float64, error) {
	r, err := grid.ParseRange(rng)
	if err != nil {
		return nil, err
	}
	if cells == nil {
		return nil, nil
	}
	if e, ok := cells.(Enumerator); ok && e.Len() < r.Len() {
		return storedValues(r, e), nil
	}

	var values []float64
	r.Each(func(id string) {
		raw, ok := cells.Value(id)
		if !ok {
			return
		}
		if v, err := Numeric(raw); err == nil {
			values = append(values, v)
		}
	})
	return values, nil
}

type rangeEntry struct {
	col, row int
	value    float64
}

// storedValues collects the numeric cells of e inside r in range order.
func storedValues(r grid.Range, e Enumerator) []float64 {
	var entries []rangeEntry
	e.Each(func(id, raw string) {
		col, row, err := grid.ParseCellID(id)
		if err != nil || !r.Contains(col, row) {
			return
		}
		if v, err := Numeric(raw); err == nil {
			entries = append(entries, rangeEntry{col: col, row: row, value: v})
		}
	})
	slices.SortFunc(entries, func(a, b rangeEntry) int {
		if c := cmp.Compare(a.col, b.col); c != 0 {
			return c
		}
		return cmp.Compare(a.row, b.row)
	})

	values := make([]float64, len(entries))
	for i, entry := range entries {
		values[i] = entry.value
	}
	return values
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

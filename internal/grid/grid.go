package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Columns is the fixed column sequence of the sheet.
const Columns = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultRows is the number of rows a new sheet shows.
const DefaultRows = 100

// MaxRow bounds row numbers so range walks stay finite.
const MaxRow = 1 << 20

var (
	ErrMalformedReference = errors.New("malformed reference")
	ErrUnknownColumn      = errors.New("unknown column")
)

// Cell is a stored cell record.
type Cell struct {
	Value   string `json:"value"`
	Formula string `json:"formula"`
}

// Cells maps cell ids (e.g. "B12") to records. Missing ids are empty cells.
type Cells map[string]Cell

// Value returns the display value of id.
func (c Cells) Value(id string) (string, bool) {
	cell, ok := c[id]
	if !ok {
		return "", false
	}
	return cell.Value, true
}

// Len returns the number of stored cells.
func (c Cells) Len() int {
	return len(c)
}

// Each calls fn for every stored cell, in no particular order.
func (c Cells) Each(fn func(id, value string)) {
	for id, cell := range c {
		fn(id, cell.Value)
	}
}

// ColToName: 0 -> A, 25 -> Z. Indexes outside the sheet give "?".
func ColToName(col int) string {
	if col < 0 || col >= len(Columns) {
		return "?"
	}
	return Columns[col : col+1]
}

// CellID builds a cell id from a 0-based column and a 1-based row.
func CellID(col, row int) string {
	return ColToName(col) + strconv.Itoa(row)
}

// ColumnIndex returns the position of letters in Columns.
func ColumnIndex(letters string) (int, error) {
	if len(letters) == 1 {
		if i := strings.IndexByte(Columns, letters[0]); i >= 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, letters)
}

// ParseCellID parses names like A1 or Z100 into a 0-based column and a
// 1-based row.
func ParseCellID(id string) (int, int, error) {
	i := 0
	for i < len(id) && isLetter(id[i]) {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("%w: %q has no column", ErrMalformedReference, id)
	}
	j := i
	for j < len(id) && isDigit(id[j]) {
		j++
	}
	if j == i {
		return 0, 0, fmt.Errorf("%w: %q has no row", ErrMalformedReference, id)
	}
	if j < len(id) {
		return 0, 0, fmt.Errorf("%w: unexpected %q in %q", ErrMalformedReference, id[j:], id)
	}
	row, err := strconv.Atoi(id[i:])
	if err != nil || row < 1 || row > MaxRow {
		return 0, 0, fmt.Errorf("%w: row out of range in %q", ErrMalformedReference, id)
	}
	col, err := ColumnIndex(id[:i])
	if err != nil {
		return 0, 0, err
	}
	return col, row, nil
}

// Range is a rectangle of cells, 0-based columns and 1-based rows, both
// ends inclusive.
type Range struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// ParseRange parses "A1:B2". Exactly one ':' is allowed and both ends must
// be valid cell ids.
func ParseRange(rng string) (Range, error) {
	start, end, ok := strings.Cut(rng, ":")
	if !ok || strings.Contains(end, ":") {
		return Range{}, fmt.Errorf("%w: %q is not a range", ErrMalformedReference, rng)
	}
	c1, r1, err := ParseCellID(start)
	if err != nil {
		return Range{}, err
	}
	c2, r2, err := ParseCellID(end)
	if err != nil {
		return Range{}, err
	}
	return Range{StartCol: c1, StartRow: r1, EndCol: c2, EndRow: r2}, nil
}

// Len is the number of cells covered. A range whose end precedes its start
// covers nothing.
func (r Range) Len() int {
	if r.EndCol < r.StartCol || r.EndRow < r.StartRow {
		return 0
	}
	return (r.EndCol - r.StartCol + 1) * (r.EndRow - r.StartRow + 1)
}

// Contains reports whether the cell at col, row lies in r.
func (r Range) Contains(col, row int) bool {
	return col >= r.StartCol && col <= r.EndCol && row >= r.StartRow && row <= r.EndRow
}

// Each calls fn for every covered id, columns outer and rows inner.
func (r Range) Each(fn func(id string)) {
	for c := r.StartCol; c <= r.EndCol; c++ {
		for row := r.StartRow; row <= r.EndRow; row++ {
			fn(CellID(c, row))
		}
	}
}

// EachInRange calls fn for every cell id covered by rng in Range.Each order.
func EachInRange(rng string, fn func(id string)) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}
	r.Each(fn)
	return nil
}

// ExpandRange lists the ids covered by rng in EachInRange order.
func ExpandRange(rng string) ([]string, error) {
	var ids []string
	err := EachInRange(rng, func(id string) {
		ids = append(ids, id)
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func isLetter(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

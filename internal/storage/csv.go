package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/hitenkalda/SpreadSheets/internal/grid"
	"github.com/hitenkalda/SpreadSheets/internal/sheet"
)

// SaveCSV writes the display values of the used rectangle of s. Formulas
// are not kept.
func SaveCSV(s *sheet.Sheet, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	maxC, maxR := s.Bounds()
	if maxC < 0 {
		return nil
	}
	out := make([][]string, maxR)
	for r := 1; r <= maxR; r++ {
		row := make([]string, maxC+1)
		for c := 0; c <= maxC; c++ {
			row[c] = s.Display(grid.CellID(c, r))
		}
		out[r-1] = row
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return f.Close()
}

// LoadCSV reads every non-empty field as a literal cell. Fields past
// column Z are rejected.
func LoadCSV(filename string) (*sheet.Sheet, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	s := sheet.New()
	for rIdx, row := range records {
		for cIdx, val := range row {
			if val == "" {
				continue
			}
			if cIdx >= len(grid.Columns) {
				return nil, fmt.Errorf("%w: row %d has more than %d columns", ErrInvalidSnapshot, rIdx+1, len(grid.Columns))
			}
			s.Cells[grid.CellID(cIdx, rIdx+1)] = grid.Cell{Value: val}
		}
	}
	return s, nil
}

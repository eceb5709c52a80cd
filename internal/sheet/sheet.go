// Package sheet holds the cell store a user edits. Committing input runs it
// through calc once and keeps the display value next to the formula.
package sheet

import (
	"fmt"
	"log/slog"

	"github.com/hitenkalda/SpreadSheets/internal/calc"
	"github.com/hitenkalda/SpreadSheets/internal/grid"
)

// Sheet is a single spreadsheet page. It is not safe for concurrent
// mutation.
type Sheet struct {
	Cells        grid.Cells     `json:"cells"`
	ColumnWidths map[string]int `json:"columnWidths,omitempty"`
	RowHeights   map[int]int    `json:"rowHeights,omitempty"`
	SelectedCell string         `json:"selectedCell,omitempty"`

	logger *slog.Logger
}

func New() *Sheet {
	s := &Sheet{}
	s.init()
	return s
}

func (s *Sheet) init() {
	if s.Cells == nil {
		s.Cells = grid.Cells{}
	}
	if s.ColumnWidths == nil {
		s.ColumnWidths = map[string]int{}
	}
	if s.RowHeights == nil {
		s.RowHeights = map[int]int{}
	}
	if s.logger == nil {
		s.logger = slog.Default().With(slog.String("component", "sheet"))
	}
}

// Normalize fills the maps a decoded snapshot may lack.
func (s *Sheet) Normalize() {
	s.init()
}

// SetLogger replaces the logger used for evaluation diagnostics.
func (s *Sheet) SetLogger(l *slog.Logger) {
	s.logger = l.With(slog.String("component", "sheet"))
}

// Set commits raw input to cell id. Formulas are evaluated against the
// current cells and stored with their display value; anything else is
// stored verbatim. Empty input clears the cell.
func (s *Sheet) Set(id, raw string) (calc.Result, error) {
	if _, _, err := grid.ParseCellID(id); err != nil {
		return calc.Result{}, fmt.Errorf("cell %s: %w", id, err)
	}
	s.init()
	if raw == "" {
		delete(s.Cells, id)
		return calc.Result{Kind: calc.KindLiteral}, nil
	}

	res := calc.Evaluate(raw, s.Cells)
	cell := grid.Cell{Value: res.String()}
	if calc.IsFormula(raw) {
		cell.Formula = raw
	}
	if res.IsError() {
		s.logger.Debug("formula failed",
			slog.String("cell", id),
			slog.String("input", raw),
			slog.String("error", res.Err.Error()),
		)
	}
	s.Cells[id] = cell
	return res, nil
}

// Input returns what the formula bar shows for id: the formula when there
// is one, the value otherwise.
func (s *Sheet) Input(id string) string {
	cell, ok := s.Cells[id]
	if !ok {
		return ""
	}
	if cell.Formula != "" {
		return cell.Formula
	}
	return cell.Value
}

// Display returns the stored display value of id.
func (s *Sheet) Display(id string) string {
	return s.Cells[id].Value
}

// Copy duplicates the record at src into dst without re-evaluating it.
func (s *Sheet) Copy(src, dst string) error {
	if _, _, err := grid.ParseCellID(dst); err != nil {
		return fmt.Errorf("cell %s: %w", dst, err)
	}
	if src == dst {
		return nil
	}
	cell, ok := s.Cells[src]
	if !ok {
		return nil
	}
	s.init()
	s.Cells[dst] = cell
	return nil
}

// Bounds returns the highest used 0-based column and 1-based row, or -1
// and 0 for an empty sheet.
func (s *Sheet) Bounds() (maxCol, maxRow int) {
	maxCol, maxRow = -1, 0
	for id := range s.Cells {
		col, row, err := grid.ParseCellID(id)
		if err != nil {
			continue
		}
		if col > maxCol {
			maxCol = col
		}
		if row > maxRow {
			maxRow = row
		}
	}
	return maxCol, maxRow
}

// ColumnWidth returns the width of col, or def when unset.
func (s *Sheet) ColumnWidth(col, def int) int {
	if w, ok := s.ColumnWidths[grid.ColToName(col)]; ok && w > 0 {
		return w
	}
	return def
}

// RowHeight returns the height of 1-based row, or def when unset.
func (s *Sheet) RowHeight(row, def int) int {
	if h, ok := s.RowHeights[row]; ok && h > 0 {
		return h
	}
	return def
}

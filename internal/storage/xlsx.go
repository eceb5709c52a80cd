package storage

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hitenkalda/SpreadSheets/internal/calc"
	"github.com/hitenkalda/SpreadSheets/internal/grid"
	"github.com/hitenkalda/SpreadSheets/internal/sheet"
)

const xlsxSheet = "Sheet1"

// SaveXLSX writes s to the first worksheet of a new workbook. Values that
// print back unchanged as numbers are stored as numbers.
func SaveXLSX(s *sheet.Sheet, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	for id, cell := range s.Cells {
		var value interface{} = cell.Value
		if v, err := calc.Numeric(cell.Value); err == nil && calc.FormatNumber(v) == cell.Value {
			value = v
		}
		if err := f.SetCellValue(xlsxSheet, id, value); err != nil {
			return err
		}
		if cell.Formula != "" {
			formula := strings.TrimPrefix(cell.Formula, calc.FormulaPrefix)
			if err := f.SetCellFormula(xlsxSheet, id, formula); err != nil {
				return err
			}
		}
	}
	for col, width := range s.ColumnWidths {
		if err := f.SetColWidth(xlsxSheet, col, col, float64(width)); err != nil {
			return err
		}
	}
	return f.SaveAs(filename)
}

type pendingFormula struct {
	id  string
	raw string
}

// LoadXLSX reads the first worksheet of filename. Literal cells load as
// they are; formula cells are evaluated once afterwards, in column-major
// order, against what has been loaded so far.
func LoadXLSX(filename string) (*sheet.Sheet, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := f.GetSheetName(0)
	rows, err := readRows(f, name)
	if err != nil {
		return nil, err
	}

	s := sheet.New()
	var formulas []pendingFormula
	for col := 0; col < len(grid.Columns); col++ {
		for r, row := range rows {
			id := grid.CellID(col, r+1)
			formula, err := f.GetCellFormula(name, id)
			if err != nil {
				return nil, err
			}
			if formula != "" {
				formulas = append(formulas, pendingFormula{id: id, raw: calc.FormulaPrefix + formula})
				continue
			}
			if col < len(row) && row[col] != "" {
				s.Cells[id] = grid.Cell{Value: row[col]}
			}
		}
	}
	for _, p := range formulas {
		if _, err := s.Set(p.id, p.raw); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// readRows keeps trailing rows that hold only formulas, which GetRows
// would trim.
func readRows(f *excelize.File, name string) ([][]string, error) {
	it, err := f.Rows(name)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var rows [][]string
	for it.Next() {
		row, err := it.Columns()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, it.Error()
}

package app

import "github.com/hitenkalda/SpreadSheets/internal/grid"

// Options configures the editor.
type Options struct {
	// Rows is the number of rows shown before the cursor grows the sheet.
	Rows int
	// ColumnWidth is the default column width in terminal cells.
	ColumnWidth int
	// RowHeight is the default row height in terminal lines.
	RowHeight int
	// MoveAfterEnter moves the cursor down after a commit.
	MoveAfterEnter bool
	// SelectAllOnEdit makes the first typed rune replace the cell input.
	SelectAllOnEdit bool
}

// DefaultOptions returns the editor defaults.
func DefaultOptions() Options {
	return Options{
		Rows:            grid.DefaultRows,
		ColumnWidth:     16,
		RowHeight:       1,
		MoveAfterEnter:  true,
		SelectAllOnEdit: true,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Rows < 1 {
		o.Rows = def.Rows
	}
	if o.ColumnWidth < minColumnWidth {
		o.ColumnWidth = def.ColumnWidth
	}
	if o.RowHeight < 1 {
		o.RowHeight = def.RowHeight
	}
	return o
}

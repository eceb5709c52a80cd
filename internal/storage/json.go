package storage

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/hitenkalda/SpreadSheets/internal/grid"
	"github.com/hitenkalda/SpreadSheets/internal/sheet"
)

// SaveJSON writes the full snapshot: cells with values and formulas, and
// the layout.
func SaveJSON(s *sheet.Sheet, filename string) error {
	data, err := sonic.ConfigStd.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// LoadJSON reads a snapshot written by SaveJSON. Stored values are trusted
// and not evaluated again.
func LoadJSON(filename string) (*sheet.Sheet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	s := &sheet.Sheet{}
	if err := sonic.ConfigStd.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for id := range s.Cells {
		if _, _, err := grid.ParseCellID(id); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}
	s.Normalize()
	return s, nil
}

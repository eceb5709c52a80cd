package grid

// Direction is a cursor move.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Navigate returns the id next to id in direction dir. Moves off the top
// row, below MaxRow or past the first/last column stay put. Malformed ids are
// returned unchanged.
func Navigate(id string, dir Direction) string {
	col, row, err := ParseCellID(id)
	if err != nil {
		return id
	}
	switch dir {
	case Up:
		if row > 1 {
			row--
		}
	case Down:
		if row < MaxRow {
			row++
		}
	case Left:
		if col > 0 {
			col--
		}
	case Right:
		if col < len(Columns)-1 {
			col++
		}
	}
	return CellID(col, row)
}

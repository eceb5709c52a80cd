package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hitenkalda/SpreadSheets/internal/grid"
	"github.com/hitenkalda/SpreadSheets/internal/sheet"
	"github.com/hitenkalda/SpreadSheets/internal/storage"

	"github.com/gdamore/tcell/v2"
)

const (
	modeNormal = "normal"
	modeInsert = "insert"

	minColumnWidth = 4
	numCols        = len(grid.Columns)
)

type App struct {
	// layout
	LeftGutter  int
	StatusLines int
	CellPadding int

	Opts  Options
	Sheet *sheet.Sheet
	Rows  int

	// cursor / view, 0-based
	CurRow  int
	CurCol  int
	ViewRow int
	ViewCol int

	// UI state
	Mode              string // normal | insert
	InputBuf          string
	Status            string
	Quit              bool
	ReplaceOnNextRune bool
	HelpVisible       bool
}

func NewApp(opts Options) *App {
	opts = opts.withDefaults()
	a := &App{
		LeftGutter:  5,
		StatusLines: 2,
		CellPadding: 1,
		Opts:        opts,
		Rows:        opts.Rows,
		Mode:        modeNormal,
	}
	a.Load(sheet.New())
	return a
}

// Load replaces the edited sheet and moves the cursor to its selected cell.
func (a *App) Load(s *sheet.Sheet) {
	s.Normalize()
	a.Sheet = s
	a.Rows = a.Opts.Rows
	_, maxRow := s.Bounds()
	a.EnsureRowExists(maxRow - 1)

	a.CurRow, a.CurCol, a.ViewRow, a.ViewCol = 0, 0, 0, 0
	if col, row, err := grid.ParseCellID(s.SelectedCell); err == nil {
		a.CurCol, a.CurRow = col, row-1
		a.EnsureRowExists(a.CurRow)
	}
}

// CurrentCell returns the id under the cursor.
func (a *App) CurrentCell() string {
	return grid.CellID(a.CurCol, a.CurRow+1)
}

// ----------------------------- Events / Input -----------------------------

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	if a.Mode == modeInsert {
		switch ev.Key() {
		case tcell.KeyEsc:
			// cancel edit
			a.Mode = modeNormal
			a.InputBuf = ""
			a.ReplaceOnNextRune = false
		case tcell.KeyEnter:
			a.commit(a.InputBuf)
			a.Mode = modeNormal
			a.InputBuf = ""
			a.ReplaceOnNextRune = false
			// move after enter unless Ctrl held
			if ev.Modifiers()&tcell.ModCtrl == 0 && a.Opts.MoveAfterEnter {
				a.move(grid.Down)
			}
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if r := []rune(a.InputBuf); len(r) > 0 {
				a.InputBuf = string(r[:len(r)-1])
			}
			a.ReplaceOnNextRune = false
		default:
			r := ev.Rune()
			if ev.Key() == tcell.KeyRune && r != 0 {
				if a.ReplaceOnNextRune {
					a.InputBuf = string(r)
					a.ReplaceOnNextRune = false
				} else {
					a.InputBuf += string(r)
				}
			}
		}
		return
	}

	// help popup swallows everything but Esc and "?"
	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || (ev.Key() == tcell.KeyRune && ev.Rune() == '?') {
			a.HelpVisible = false
		}
		return
	}

	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyUp:
		if ctrl {
			a.resizeRow(-1)
		} else {
			a.move(grid.Up)
		}
	case tcell.KeyDown:
		if ctrl {
			a.resizeRow(1)
		} else {
			a.move(grid.Down)
		}
	case tcell.KeyLeft:
		if ctrl {
			a.resizeCol(-1)
		} else {
			a.move(grid.Left)
		}
	case tcell.KeyRight:
		if ctrl {
			a.resizeCol(1)
		} else {
			a.move(grid.Right)
		}
	case tcell.KeyPgUp:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = maxInt(0, a.ViewRow-vr)
		a.CurRow = maxInt(0, a.CurRow-vr)
	case tcell.KeyPgDn:
		vr, _ := a.ComputeVisible(s)
		a.CurRow += vr
		a.EnsureRowExists(a.CurRow)
	case tcell.KeyHome:
		a.CurRow, a.CurCol = 0, 0
	case tcell.KeyEnd:
		a.CurRow, a.CurCol = a.Rows-1, numCols-1
	case tcell.KeyDelete:
		a.commit("")
	case tcell.KeyEnter:
		a.startEdit()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.Quit = true
		case 'i':
			a.startEdit()
		case 'x':
			a.commit("")
		case ':':
			if command, ok := a.PopupInput(s, ":", ""); ok {
				a.ExecuteCommand(command)
			}
		case '=':
			if value, ok := a.PopupInput(s, "", "="); ok {
				a.commit(value)
			}
		case '?':
			a.HelpVisible = true
		}
	}
}

func (a *App) startEdit() {
	a.Mode = modeInsert
	a.InputBuf = a.Sheet.Input(a.CurrentCell())
	a.ReplaceOnNextRune = a.Opts.SelectAllOnEdit
}

// commit stores raw into the current cell.
func (a *App) commit(raw string) {
	if _, err := a.Sheet.Set(a.CurrentCell(), raw); err != nil {
		a.Status = err.Error()
		return
	}
	a.Sheet.SelectedCell = a.CurrentCell()
	a.Status = ""
}

func (a *App) move(dir grid.Direction) {
	col, row, err := grid.ParseCellID(grid.Navigate(a.CurrentCell(), dir))
	if err != nil {
		return
	}
	a.CurCol, a.CurRow = col, row-1
	a.EnsureRowExists(a.CurRow)
	a.Sheet.SelectedCell = a.CurrentCell()
}

func (a *App) resizeCol(delta int) {
	w := a.colWidth(a.CurCol) + delta
	if w < minColumnWidth {
		return
	}
	a.Sheet.ColumnWidths[grid.ColToName(a.CurCol)] = w
}

func (a *App) resizeRow(delta int) {
	h := a.rowHeight(a.CurRow) + delta
	if h < 1 {
		return
	}
	a.Sheet.RowHeights[a.CurRow+1] = h
}

// ----------------------------- Drawing -----------------------------

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()

	// header row: column names
	x := a.LeftGutter
	for c := a.ViewCol; c < numCols && x < w; c++ {
		wc := a.colWidth(c)
		hdrStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if c == a.CurCol {
			hdrStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
		}
		a.printTextFixedWidth(s, x, 0, strings.Repeat(" ", a.CellPadding)+grid.ColToName(c), hdrStyle, wc)
		x += wc
	}

	// rows
	y := 1
	for r := a.ViewRow; r < a.Rows && y < h-a.StatusLines; r++ {
		gutterStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if r == a.CurRow {
			gutterStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
		}
		a.printTextFixedWidth(s, 0, y, strconv.Itoa(r+1), gutterStyle, a.LeftGutter-1)

		hh := a.rowHeight(r)
		x = a.LeftGutter
		for c := a.ViewCol; c < numCols && x < w; c++ {
			wc := a.colWidth(c)
			selected := r == a.CurRow && c == a.CurCol

			text := a.Sheet.Display(grid.CellID(c, r+1))
			if a.Mode == modeInsert && selected {
				text = a.InputBuf
			}

			style := tcell.StyleDefault
			if selected {
				style = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
			}
			innerW := maxInt(0, wc-2*a.CellPadding)
			for dy := 0; dy < hh && y+dy < h-a.StatusLines; dy++ {
				a.printTextFixedWidth(s, x, y+dy, "", style, wc)
				if dy == 0 {
					a.printTextFixedWidth(s, x+a.CellPadding, y, text, style, innerW)
				}
			}
			if a.Mode == modeInsert && selected {
				cx := x + a.CellPadding + minInt(runeLen(text), maxInt(0, innerW-1))
				s.SetContent(cx, y, '▏', nil, tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorLightGray))
			}
			x += wc
		}
		y += hh
	}

	// status area
	statusY := maxInt(0, h-a.StatusLines)
	statusStyle := tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	id := a.CurrentCell()
	statusLeft := fmt.Sprintf("Mode:%s  Cell:%s  cw=%d rh=%d  ? help", a.Mode, id, a.colWidth(a.CurCol), a.rowHeight(a.CurRow))
	a.printTextFixedWidth(s, 0, statusY, statusLeft, statusStyle, w)

	var bottom string
	switch {
	case a.Mode == modeInsert:
		bottom = "EDIT: " + a.InputBuf
	case a.Status != "":
		bottom = a.Status
	default:
		bottom = id + ": " + a.Sheet.Input(id)
	}
	a.printTextFixedWidth(s, 0, statusY+1, bottom, statusStyle, w)

	if a.HelpVisible {
		help := "\n i / Enter - edit \n Ctrl+Enter - save&stay \n = - formula \n x / Del - clear cell \n : - command \n Ctrl←/Ctrl→ - col width \n Ctrl↑/Ctrl↓ - row height \n PgUp/PgDn/Home/End - jump \n :w file [json|csv|xlsx] | :o file [json|csv|xlsx] \n :cp A1 B2 - copy cell \n :cw N | :rh N \n "
		a.drawHelpPopup(s, help)
	}

	s.HideCursor()
	s.Show()
}

// ----------------------------- Helpers -----------------------------

func (a *App) EnsureRowExists(idx int) {
	if idx >= a.Rows {
		a.Rows = idx + 1
	}
}

func (a *App) colWidth(c int) int {
	return a.Sheet.ColumnWidth(c, a.Opts.ColumnWidth)
}

func (a *App) rowHeight(r int) int {
	return a.Sheet.RowHeight(r+1, a.Opts.RowHeight)
}

func (a *App) printTextFixedWidth(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	runes := []rune(str)
	for i := 0; i < width; i++ {
		var ch rune = ' '
		if i < len(runes) {
			ch = runes[i]
		}
		if x+i >= 0 && y >= 0 {
			s.SetContent(x+i, y, ch, nil, style)
		}
	}
}

func (a *App) drawHelpPopup(s tcell.Screen, help string) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}

	padding := 2
	maxPW := w - 6
	maxPH := h - 4

	innerW := minInt(maxPW-padding*2, 50)
	if innerW < 30 {
		innerW = maxInt(30, maxPW-padding*2)
	}
	innerW = minInt(innerW, maxPW-padding*2)

	lines := wrapText(help, innerW)
	if len(lines) > maxPH-padding*2 {
		lines = lines[:maxInt(0, maxPH-padding*2)]
	}
	innerH := maxInt(len(lines), 3)

	pw := innerW + padding*2
	ph := innerH + padding*2
	left := (w - pw) / 2
	top := (h - ph) / 2

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDefault)

	for yy := 0; yy < ph; yy++ {
		for xx := 0; xx < pw; xx++ {
			s.SetContent(left+xx, top+yy, ' ', nil, style)
		}
	}
	drawBorder(s, left, top, pw, ph, style)

	for i, ln := range lines {
		a.printTextFixedWidth(s, left+padding, top+padding+i, ln, style, innerW)
	}
}

func drawBorder(s tcell.Screen, left, top, w, h int, style tcell.Style) {
	for x := left; x < left+w; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, top+h-1, tcell.RuneHLine, nil, style)
	}
	for y := top; y < top+h; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(left+w-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(left+w-1, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, top+h-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(left+w-1, top+h-1, tcell.RuneLRCorner, nil, style)
}

// wrapText wraps s on word boundaries at max runes per line, keeping
// explicit newlines.
func wrapText(s string, max int) []string {
	if max <= 2 {
		return []string{s}
	}

	var result []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		cur := ""
		for _, w := range words {
			for runeLen(w) > max {
				if cur != "" {
					result = append(result, cur)
					cur = ""
				}
				r := []rune(w)
				result = append(result, string(r[:max]))
				w = string(r[max:])
			}
			switch {
			case cur == "":
				cur = w
			case runeLen(cur)+1+runeLen(w) <= max:
				cur += " " + w
			default:
				result = append(result, cur)
				cur = w
			}
		}
		if cur != "" {
			result = append(result, cur)
		}
	}
	return result
}

func runeLen(s string) int {
	return len([]rune(s))
}

// ----------------------------- Commands / Storage -----------------------------

func (a *App) ExecuteCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}
	a.Status = ""
	switch parts[0] {
	case "q", "quit":
		a.Quit = true
	case "cw":
		if len(parts) >= 2 {
			if v, err := strconv.Atoi(parts[1]); err == nil && v >= minColumnWidth {
				for c := 0; c < numCols; c++ {
					a.Sheet.ColumnWidths[grid.ColToName(c)] = v
				}
			}
		}
	case "rh":
		if len(parts) >= 2 {
			if v, err := strconv.Atoi(parts[1]); err == nil && v >= 1 {
				for r := 1; r <= a.Rows; r++ {
					a.Sheet.RowHeights[r] = v
				}
			}
		}
	case "cp":
		if len(parts) >= 3 {
			src, dst := strings.ToUpper(parts[1]), strings.ToUpper(parts[2])
			if err := a.Sheet.Copy(src, dst); err != nil {
				a.Status = err.Error()
			}
		}
	case "w":
		if len(parts) >= 2 {
			format, err := commandFormat(parts)
			if err == nil {
				err = storage.Save(a.Sheet, parts[1], format)
			}
			if err != nil {
				a.Status = err.Error()
				return
			}
			a.Status = "saved " + parts[1]
		}
	case "o":
		if len(parts) >= 2 {
			format, err := commandFormat(parts)
			if err != nil {
				a.Status = err.Error()
				return
			}
			s, err := storage.Load(parts[1], format)
			if err != nil {
				a.Status = err.Error()
				return
			}
			a.Load(s)
		}
	default:
		a.Status = "unknown command: " + parts[0]
	}
}

// commandFormat reads the format from the optional third word of a :w/:o
// command, falling back to the file extension.
func commandFormat(parts []string) (storage.Format, error) {
	if len(parts) >= 3 {
		return storage.ParseFormat(parts[2])
	}
	return storage.FormatFromPath(parts[1])
}

// ----------------------------- Viewport / Geometry -----------------------------

func (a *App) ComputeVisible(s tcell.Screen) (visibleRows, visibleCols int) {
	w, h := s.Size()
	usableW := maxInt(1, w-a.LeftGutter)
	usableH := maxInt(1, h-a.StatusLines-1)

	sumW := 0
	for c := a.ViewCol; c < numCols; c++ {
		wc := a.colWidth(c)
		if sumW+wc > usableW {
			break
		}
		sumW += wc
		visibleCols++
	}
	sumH := 0
	for r := a.ViewRow; r < a.Rows; r++ {
		hh := a.rowHeight(r)
		if sumH+hh > usableH {
			break
		}
		sumH += hh
		visibleRows++
	}
	return maxInt(1, visibleRows), maxInt(1, visibleCols)
}

func (a *App) EnsureCursorVisible(s tcell.Screen) {
	if s == nil {
		return
	}
	visibleRows, visibleCols := a.ComputeVisible(s)

	if a.CurCol < a.ViewCol {
		a.ViewCol = a.CurCol
	} else if a.CurCol >= a.ViewCol+visibleCols {
		a.ViewCol = a.CurCol - visibleCols + 1
	}
	a.ViewCol = minInt(maxInt(0, a.ViewCol), numCols-1)

	if a.CurRow < a.ViewRow {
		a.ViewRow = a.CurRow
	} else if a.CurRow >= a.ViewRow+visibleRows {
		a.ViewRow = a.CurRow - visibleRows + 1
	}
	a.ViewRow = minInt(maxInt(0, a.ViewRow), maxInt(0, a.Rows-1))
}

// ----------------------------- Misc -----------------------------

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package app

import (
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitenkalda/SpreadSheets/internal/sheet"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func typeText(a *App, s tcell.Screen, text string) {
	for _, r := range text {
		a.HandleKeyEvent(s, runeKey(r))
	}
}

func TestEditCommitsAndMovesDown(t *testing.T) {
	s := newScreen(t)
	a := NewApp(DefaultOptions())

	a.HandleKeyEvent(s, runeKey('i'))
	assert.Equal(t, modeInsert, a.Mode)
	typeText(a, s, "=1+2")
	a.HandleKeyEvent(s, key(tcell.KeyEnter))

	assert.Equal(t, modeNormal, a.Mode)
	assert.Equal(t, "3", a.Sheet.Display("A1"))
	assert.Equal(t, "=1+2", a.Sheet.Input("A1"))
	assert.Equal(t, "A2", a.CurrentCell())
}

func TestEditReplacesOnFirstRune(t *testing.T) {
	s := newScreen(t)
	a := NewApp(DefaultOptions())
	_, err := a.Sheet.Set("A1", "old")
	require.NoError(t, err)

	a.HandleKeyEvent(s, key(tcell.KeyEnter))
	assert.Equal(t, "old", a.InputBuf)
	typeText(a, s, "new")
	a.HandleKeyEvent(s, key(tcell.KeyBackspace2))
	assert.Equal(t, "ne", a.InputBuf)
	a.HandleKeyEvent(s, key(tcell.KeyEsc))

	assert.Equal(t, modeNormal, a.Mode)
	assert.Equal(t, "old", a.Sheet.Display("A1"))
	assert.Equal(t, "A1", a.CurrentCell())
}

func TestEditErrorShowsSentinel(t *testing.T) {
	s := newScreen(t)
	opts := DefaultOptions()
	opts.MoveAfterEnter = false
	a := NewApp(opts)

	a.HandleKeyEvent(s, runeKey('i'))
	typeText(a, s, "=1/0")
	a.HandleKeyEvent(s, key(tcell.KeyEnter))

	assert.Equal(t, "#ERROR!", a.Sheet.Display("A1"))
	assert.Equal(t, "A1", a.CurrentCell())
}

func TestNavigationStaysInBounds(t *testing.T) {
	s := newScreen(t)
	a := NewApp(DefaultOptions())

	a.HandleKeyEvent(s, key(tcell.KeyUp))
	a.HandleKeyEvent(s, key(tcell.KeyLeft))
	assert.Equal(t, "A1", a.CurrentCell())

	a.HandleKeyEvent(s, key(tcell.KeyRight))
	a.HandleKeyEvent(s, key(tcell.KeyDown))
	assert.Equal(t, "B2", a.CurrentCell())
	assert.Equal(t, "B2", a.Sheet.SelectedCell)

	for i := 0; i < 30; i++ {
		a.HandleKeyEvent(s, key(tcell.KeyRight))
	}
	assert.Equal(t, "Z2", a.CurrentCell())

	a.HandleKeyEvent(s, key(tcell.KeyHome))
	assert.Equal(t, "A1", a.CurrentCell())
}

func TestCursorGrowsRows(t *testing.T) {
	s := newScreen(t)
	opts := DefaultOptions()
	opts.Rows = 2
	a := NewApp(opts)

	for i := 0; i < 4; i++ {
		a.HandleKeyEvent(s, key(tcell.KeyDown))
	}
	assert.Equal(t, "A5", a.CurrentCell())
	assert.Equal(t, 5, a.Rows)

	a.EnsureCursorVisible(s)
	assert.LessOrEqual(t, a.ViewRow, a.CurRow)
}

func TestResize(t *testing.T) {
	s := newScreen(t)
	opts := DefaultOptions()
	opts.ColumnWidth = minColumnWidth
	a := NewApp(opts)

	a.HandleKeyEvent(s, tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModCtrl))
	assert.Equal(t, minColumnWidth, a.colWidth(0))
	a.HandleKeyEvent(s, tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModCtrl))
	assert.Equal(t, minColumnWidth+1, a.colWidth(0))

	a.HandleKeyEvent(s, tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModCtrl))
	assert.Equal(t, 2, a.rowHeight(0))
	assert.Equal(t, "A1", a.CurrentCell())
}

func TestClearCell(t *testing.T) {
	s := newScreen(t)
	a := NewApp(DefaultOptions())
	_, err := a.Sheet.Set("A1", "5")
	require.NoError(t, err)

	a.HandleKeyEvent(s, runeKey('x'))
	assert.Empty(t, a.Sheet.Cells)
}

func TestHelpToggle(t *testing.T) {
	s := newScreen(t)
	a := NewApp(DefaultOptions())

	a.HandleKeyEvent(s, runeKey('?'))
	assert.True(t, a.HelpVisible)
	a.HandleKeyEvent(s, runeKey('q'))
	assert.False(t, a.Quit)
	a.Draw(s)
	a.HandleKeyEvent(s, key(tcell.KeyEsc))
	assert.False(t, a.HelpVisible)
}

func TestDrawShowsDisplayValue(t *testing.T) {
	s := newScreen(t)
	a := NewApp(DefaultOptions())
	_, err := a.Sheet.Set("A1", "=2*4")
	require.NoError(t, err)

	a.Draw(s)
	mainc, _, _, _ := s.GetContent(a.LeftGutter+a.CellPadding, 1)
	assert.Equal(t, '8', mainc)
}

func TestExecuteCommands(t *testing.T) {
	a := NewApp(DefaultOptions())
	_, err := a.Sheet.Set("A1", "2")
	require.NoError(t, err)

	a.ExecuteCommand("cp A1 b1")
	assert.Equal(t, "2", a.Sheet.Display("B1"))

	a.ExecuteCommand("cw 2")
	assert.Equal(t, DefaultOptions().ColumnWidth, a.colWidth(0))
	a.ExecuteCommand("cw 10")
	assert.Equal(t, 10, a.colWidth(25))
	a.ExecuteCommand("rh 2")
	assert.Equal(t, 2, a.rowHeight(0))

	a.ExecuteCommand("frobnicate")
	assert.Equal(t, "unknown command: frobnicate", a.Status)

	a.ExecuteCommand("q")
	assert.True(t, a.Quit)
}

func TestWriteAndOpen(t *testing.T) {
	dir := t.TempDir()
	a := NewApp(DefaultOptions())
	_, err := a.Sheet.Set("A1", "1")
	require.NoError(t, err)
	_, err = a.Sheet.Set("A2", "=SUM(A1:A1)")
	require.NoError(t, err)
	a.Sheet.SelectedCell = "B3"

	for _, name := range []string{"book.json", "book.xlsx"} {
		p := filepath.Join(dir, name)
		a.ExecuteCommand("w " + p)
		require.Equal(t, "saved "+p, a.Status)

		b := NewApp(DefaultOptions())
		b.ExecuteCommand("o " + p)
		require.Empty(t, b.Status)
		assert.Equal(t, "1", b.Sheet.Display("A2"), name)
		assert.Equal(t, "=SUM(A1:A1)", b.Sheet.Input("A2"), name)
	}

	b := NewApp(DefaultOptions())
	b.ExecuteCommand("o " + filepath.Join(dir, "book.json"))
	assert.Equal(t, "B3", b.CurrentCell())

	b.ExecuteCommand("o " + filepath.Join(dir, "missing.json"))
	assert.NotEmpty(t, b.Status)
	b.ExecuteCommand("w " + filepath.Join(dir, "book.txt"))
	assert.NotEmpty(t, b.Status)
	b.ExecuteCommand("w " + filepath.Join(dir, "book.dat") + " csv")
	assert.Equal(t, "saved "+filepath.Join(dir, "book.dat"), b.Status)
}

func TestLoadRestoresCursor(t *testing.T) {
	s := sheet.New()
	s.SelectedCell = "C150"
	a := NewApp(DefaultOptions())
	a.Load(s)

	assert.Equal(t, "C150", a.CurrentCell())
	assert.Equal(t, 150, a.Rows)
}

func TestRunQuits(t *testing.T) {
	s := newScreen(t)
	a := NewApp(DefaultOptions())
	s.InjectKey(tcell.KeyRune, 'i', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, '7', tcell.ModNone)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	a.Run(s)
	assert.True(t, a.Quit)
	assert.Equal(t, "7", a.Sheet.Display("A1"))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"ab cd", "ef"}, wrapText("ab cd ef", 5))
	assert.Equal(t, []string{"abcde", "fg"}, wrapText("abcdefg", 5))
	assert.Equal(t, []string{"a", "b"}, wrapText("a\n\nb", 10))
}

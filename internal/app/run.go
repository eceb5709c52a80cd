package app

import (
	"github.com/gdamore/tcell/v2"
)

// Run drives the editor on s until the user quits or the screen is
// finalized. The caller owns Init and Fini.
func (a *App) Run(s tcell.Screen) {
	s.Clear()
	for !a.Quit {
		a.EnsureCursorVisible(s)
		a.Draw(s)
		switch ev := s.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			a.HandleKeyEvent(s, ev)
		case *tcell.EventResize:
			s.Sync()
		}
	}
}

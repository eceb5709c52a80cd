package app

import (
	"github.com/gdamore/tcell/v2"
)

// maxPopupInput caps the popup buffer, in runes.
const maxPopupInput = 4096

// PopupInput shows a modal one-line input box over the sheet. It returns the
// entered text and true on Enter, or "" and false on Esc.
func (a *App) PopupInput(s tcell.Screen, prompt, initial string) (string, bool) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorReset)

	promptRunes := []rune(prompt)
	buf := []rune(initial)
	pos := len(buf)

	w, h := s.Size()
	contentW := minInt(maxInt(20, len(promptRunes)+len(buf)+2), w-4)
	boxW := contentW + 4
	boxH := 3
	left := (w - boxW) / 2
	top := (h - boxH) / 2

	drawBox := func() {
		for y := top; y < top+boxH; y++ {
			for x := left; x < left+boxW; x++ {
				s.SetContent(x, y, ' ', nil, style)
			}
		}
		drawBorder(s, left, top, boxW, boxH, style)

		x := left + 2
		y := top + 1
		for i, r := range promptRunes {
			s.SetContent(x+i, y, r, nil, style)
		}
		x += len(promptRunes) + 1

		maxField := maxInt(1, boxW-5-len(promptRunes))
		visible := buf
		start := 0
		if len(visible) > maxField {
			if pos > maxField {
				start = pos - maxField
			}
			visible = visible[start:minInt(len(visible), start+maxField)]
		}
		for i := 0; i < maxField; i++ {
			r := ' '
			if i < len(visible) {
				r = visible[i]
			}
			s.SetContent(x+i, y, r, nil, style)
		}
		s.ShowCursor(maxInt(left+1, x+pos-start), y)
	}

	redraw := func() {
		a.Draw(s)
		drawBox()
		s.Show()
	}
	redraw()

	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			// screen finalized
			return "", false
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEsc:
				s.HideCursor()
				a.Draw(s)
				return "", false
			case tcell.KeyEnter:
				s.HideCursor()
				a.Draw(s)
				return string(buf), true
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if pos > 0 {
					buf = append(buf[:pos-1], buf[pos:]...)
					pos--
				}
			case tcell.KeyDelete:
				if pos < len(buf) {
					buf = append(buf[:pos], buf[pos+1:]...)
				}
			case tcell.KeyLeft:
				if pos > 0 {
					pos--
				}
			case tcell.KeyRight:
				if pos < len(buf) {
					pos++
				}
			case tcell.KeyHome:
				pos = 0
			case tcell.KeyEnd:
				pos = len(buf)
			case tcell.KeyRune:
				if len(buf) < maxPopupInput {
					buf = append(buf[:pos], append([]rune{ev.Rune()}, buf[pos:]...)...)
					pos++
				}
			}
			redraw()
		case *tcell.EventResize:
			s.Sync()
			w, h = s.Size()
			boxW = minInt(boxW, w-4)
			left = (w - boxW) / 2
			top = (h - boxH) / 2
			redraw()
		}
	}
}

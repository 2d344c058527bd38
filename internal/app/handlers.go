package app

import (
	"github.com/gdamore/tcell/v2"
)

// handleEvent processes one terminal event on the loop.
func (s *session) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
		s.syncViewport()
	case *tcell.EventKey:
		s.handleKey(e)
	case *tcell.EventMouse:
		s.handleMouse(e)
	default:
		return
	}
	s.requestDraw()
}

func (s *session) handleKey(ev *tcell.EventKey) {
	doc := s.app.doc
	row := 2 * s.view.Scale()
	col := s.view.Scale()
	_, page := doc.Viewport()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		s.quit()
	case tcell.KeyUp:
		doc.ScrollBy(0, -row)
	case tcell.KeyDown:
		doc.ScrollBy(0, row)
	case tcell.KeyLeft:
		doc.ScrollBy(-col, 0)
	case tcell.KeyRight:
		doc.ScrollBy(col, 0)
	case tcell.KeyPgUp:
		doc.ScrollBy(0, -page)
	case tcell.KeyPgDn:
		doc.ScrollBy(0, page)
	case tcell.KeyHome:
		doc.ScrollTo(0, 0)
	case tcell.KeyTab:
		s.cycleFocus(1)
	case tcell.KeyBacktab:
		s.cycleFocus(-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			s.quit()
		case 'd':
			s.dismissFocused()
		case 'j':
			doc.ScrollBy(0, row)
		case 'k':
			doc.ScrollBy(0, -row)
		case 'r':
			s.tracker.Refresh()
		}
	}
}

func (s *session) handleMouse(ev *tcell.EventMouse) {
	row := 2 * s.view.Scale()
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		s.app.doc.ScrollBy(0, -row)
	case buttons&tcell.WheelDown != 0:
		s.app.doc.ScrollBy(0, row)
	}
}

func (s *session) cycleFocus(step int) {
	n := len(s.markers)
	if n == 0 {
		s.focus = -1
		return
	}
	s.focus = ((s.focus+step)%n + n) % n
}

// dismissFocused hides the focused beacon for the rest of the session.
func (s *session) dismissFocused() {
	if s.focus < 0 || s.focus >= len(s.active) {
		return
	}
	id := s.active[s.focus].ID
	s.app.beacons.Dismiss(id)
	s.subscribeAll()
	s.status = "dismissed " + id
}

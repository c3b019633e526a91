package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/tablescope/tablescope/internal/keys"
)

// normalizeKey turns a tcell key event into this core's own keys.Key
// value, the boundary migrate/gui.go draws with its single switch on
// event.Key() (there dispatching to tview focus changes, here producing
// a name keys.Dispatcher can look up without ever importing tcell).
func normalizeKey(ev *tcell.EventKey) keys.Key {
	if ev.Key() == tcell.KeyRune {
		mod := ""
		if ev.Modifiers()&tcell.ModAlt != 0 {
			mod = "Alt+"
		}
		return keys.Key(mod + string(ev.Rune()))
	}

	if name, ok := namedKeys[ev.Key()]; ok {
		if ev.Modifiers()&tcell.ModAlt != 0 && name != "" {
			return keys.Key("Alt+" + name)
		}
		return keys.Key(name)
	}

	return keys.Key(fmt.Sprintf("Key(%d)", ev.Key()))
}

var namedKeys = map[tcell.Key]string{
	tcell.KeyEnter:     "Enter",
	tcell.KeyEscape:    "Escape",
	tcell.KeyTab:       "Tab",
	tcell.KeyBacktab:   "Shift+Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:    "Delete",
	tcell.KeyUp:        "Up",
	tcell.KeyDown:      "Down",
	tcell.KeyLeft:      "Left",
	tcell.KeyRight:     "Right",
	tcell.KeyHome:      "Home",
	tcell.KeyEnd:       "End",
	tcell.KeyPgUp:      "PgUp",
	tcell.KeyPgDn:      "PgDn",
	tcell.KeyCtrlA:     "Ctrl+A",
	tcell.KeyCtrlB:     "Ctrl+B",
	tcell.KeyCtrlC:     "Ctrl+C",
	tcell.KeyCtrlD:     "Ctrl+D",
	tcell.KeyCtrlE:     "Ctrl+E",
	tcell.KeyCtrlF:     "Ctrl+F",
	tcell.KeyCtrlG:     "Ctrl+G",
	tcell.KeyCtrlK:     "Ctrl+K",
	tcell.KeyCtrlL:     "Ctrl+L",
	tcell.KeyCtrlN:     "Ctrl+N",
	tcell.KeyCtrlP:     "Ctrl+P",
	tcell.KeyCtrlR:     "Ctrl+R",
	tcell.KeyCtrlU:     "Ctrl+U",
	tcell.KeyCtrlW:     "Ctrl+W",
	tcell.KeyF1:        "F1",
	tcell.KeyF5:        "F5",
}

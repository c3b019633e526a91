// Package keys implements a two-layer dispatch: event
// normalization/aliasing, then a mode-scoped key->action map, plus the
// Results-mode yank chord handler (yy/yc/ya/yv). Concrete key events
// arrive as github.com/gdamore/tcell/v2 events — the same library
// gravwell-gravwell's migrate TUI (migrate/gui.go) drives through a
// single input-capture switch on event.Key() — and are normalized into
// this package's own Key value at the boundary so the rest of the core
// stays tcell-free.
package keys

import "time"

// Key is a normalized key event: a canonical name ("Enter", "Ctrl+R",
// "a", "Alt+Up", ...). Platform-level repeats/releases are filtered out
// before a Key ever reaches this package.
type Key string

// aliases canonicalizes equivalent key chords to one name, e.g.
// Alt+Up is treated the same as Ctrl+P for history-previous.
var aliases = map[Key]Key{
	"Alt+Up":   "Ctrl+P",
	"Alt+Down": "Ctrl+N",
}

// Normalize resolves k to its canonical alias, if any.
func Normalize(k Key) Key {
	if canon, ok := aliases[k]; ok {
		return canon
	}
	return k
}

// Map is a mode-scoped table of key -> action name.
type Map map[Key]string

// Dispatcher looks up the action bound to a key in the current mode,
// logs the (key, action) pair through the supplied sink, and drives the
// Results-mode chord handler.
type Dispatcher struct {
	maps map[string]Map // keyed by appstate.Mode.String()
	log  func(key, action string)

	chordPending bool
	chordFirst   Key
	chordDeadline time.Time
}

func NewDispatcher(log func(key, action string)) *Dispatcher {
	return &Dispatcher{maps: make(map[string]Map), log: log}
}

// Bind installs the key map for a mode (named by its String() form, so
// this package does not need to import internal/appstate).
func (d *Dispatcher) Bind(mode string, m Map) {
	d.maps[mode] = m
}

// chordGraceWindow is the short grace window a pending chord survives
// before it is cancelled by timeout.
const chordGraceWindow = 700 * time.Millisecond

// Dispatch resolves a key in the current mode to an action name.
// resultsMode and cellSelection tell the dispatcher whether chord
// handling applies: chords only fire in Results mode and are suppressed
// entirely in Cell selection mode, where `y` yanks the cell directly.
func (d *Dispatcher) Dispatch(mode string, raw Key, now time.Time, resultsMode, cellSelection bool) string {
	k := Normalize(raw)

	if resultsMode && !cellSelection {
		if action, handled := d.handleChord(k, now); handled {
			d.logAction(string(k), action)
			return action
		}
	}

	m, ok := d.maps[mode]
	if !ok {
		d.logAction(string(k), "")
		return ""
	}
	action := m[k]
	d.logAction(string(k), action)
	return action
}

var chordActions = map[Key]string{
	"y": "yank.row",
	"c": "yank.column",
	"a": "yank.all",
	"v": "yank.cell",
}

// handleChord implements the yy/yc/ya/yv chord state machine: after
// receiving y, enter chord-pending state with a grace window; the next
// key completes the chord. Any other key, or timeout, cancels it.
func (d *Dispatcher) handleChord(k Key, now time.Time) (action string, handled bool) {
	if d.chordPending {
		expired := now.After(d.chordDeadline)
		d.chordPending = false
		if !expired {
			if d.chordFirst == "y" {
				if name, ok := chordActions[k]; ok {
					return name, true
				}
			}
		}
		// Not a valid completion (or timed out): fall through so the
		// completing key is dispatched normally, unless it's a fresh y.
	}
	if k == "y" {
		d.chordPending = true
		d.chordFirst = k
		d.chordDeadline = now.Add(chordGraceWindow)
		return "chord.pending", true
	}
	return "", false
}

func (d *Dispatcher) logAction(key, action string) {
	if d.log != nil {
		d.log(key, action)
	}
}

// Package searchmodes implements the single debounced input-line widget
// shared by the four search flavors (Search, Filter, FuzzyFilter,
// ColumnSearch), grounded on BreachLine's
// SearchInFile (app/app_search.go) for the match-list/snippet model and
// on github.com/bep/debounce (an existing indirect dependency of BreachLine's,
// pulled in for Wails' dev-server file watcher, promoted here to a
// direct, load-bearing one) for the fixed-delay debounce itself.
package searchmodes

import (
	"time"

	"github.com/bep/debounce"
)

// Flavor distinguishes which of the four search-mode behaviors a Widget
// instance is driving.
type Flavor uint8

const (
	SearchFlavor Flavor = iota
	FilterFlavor
	FuzzyFilterFlavor
	ColumnSearchFlavor
)

// State is the mini state machine shared by all four flavors: inactive
// -> editing pattern (with cursor) -> applied (matches/indices present)
// -> cleared.
type State uint8

const (
	Inactive State = iota
	Editing
	Applied
	Cleared
)

// ApplyFunc executes the flavor-specific action (regex search, filter
// predicate, fuzzy score, column-name substring match) for the pattern
// currently in the widget.
type ApplyFunc func(pattern string)

// Widget is one instance of the shared input-line state machine. The
// internal/tui App keeps one Widget per Flavor.
type Widget struct {
	Flavor  Flavor
	State   State
	Pattern string
	Cursor  int

	// SavedText/SavedCursor capture the buffer's SQL input so that
	// exiting restores it verbatim.
	SavedText   string
	SavedCursor int

	apply     ApplyFunc
	debounced func(func())
	ready     chan string
}

// NewWidget constructs a Widget with a fixed debounce delay (typically
// 100-150ms) wrapping the given apply action. The debounce library's
// timer fires on its own goroutine (per github.com/bep/debounce's
// implementation); to preserve the single-threaded state-mutation
// model of the rest of the core, the timer only posts the settled
// pattern to a buffered channel. Actual state mutation happens when
// the event loop calls Poll on the UI thread.
func NewWidget(flavor Flavor, delay time.Duration, apply ApplyFunc) *Widget {
	if delay <= 0 {
		delay = 120 * time.Millisecond
	}
	return &Widget{
		Flavor:    flavor,
		apply:     apply,
		debounced: debounce.New(delay),
		ready:     make(chan string, 1),
	}
}

// Enter moves the widget to Editing, saving the buffer text/cursor to
// restore on exit.
func (w *Widget) Enter(savedText string, savedCursor int) {
	w.State = Editing
	w.Pattern = ""
	w.Cursor = 0
	w.SavedText = savedText
	w.SavedCursor = savedCursor
}

// Type appends a character and schedules a debounced apply.
func (w *Widget) Type(ch rune) {
	w.Pattern = w.Pattern[:w.Cursor] + string(ch) + w.Pattern[w.Cursor:]
	w.Cursor++
	w.scheduleDebounced()
}

// Backspace removes the rune before the cursor and schedules a
// debounced apply.
func (w *Widget) Backspace() {
	if w.Cursor == 0 {
		return
	}
	w.Pattern = w.Pattern[:w.Cursor-1] + w.Pattern[w.Cursor:]
	w.Cursor--
	w.scheduleDebounced()
}

func (w *Widget) scheduleDebounced() {
	pattern := w.Pattern
	w.debounced(func() {
		select {
		case <-w.ready: // drop a stale, not-yet-polled pattern
		default:
		}
		w.ready <- pattern
	})
}

// Poll checks whether a debounced action has settled since the last
// call, applying it on the caller's goroutine if so. The event loop
// calls this once per tick, before polling for the next key event.
func (w *Widget) Poll() bool {
	select {
	case pattern := <-w.ready:
		if w.apply != nil {
			w.apply(pattern)
		}
		return true
	default:
		return false
	}
}

// Apply fires the action immediately and transitions to Applied,
// exiting the mode immediately, without waiting for the debounce
// deadline.
func (w *Widget) Apply() {
	if w.apply != nil {
		w.apply(w.Pattern)
	}
	w.State = Applied
}

// Cancel clears any pattern and transitions to Cleared, exiting the
// mode.
func (w *Widget) Cancel() {
	w.Pattern = ""
	w.Cursor = 0
	w.State = Cleared
}

// Restore returns the saved SQL text and cursor to reinstate in the
// input field byte-for-byte on exit.
func (w *Widget) Restore() (text string, cursor int) {
	return w.SavedText, w.SavedCursor
}

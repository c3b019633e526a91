// Package buffer holds one data source's exploration state (input
// text/cursor, undo/redo, kill ring, view transforms) and a Manager
// ring over many Buffers, generalizing BreachLine's FileTab
// (app/interfaces/types.go) — which already bundles all of a tab's
// mutable state behind one struct — from its mutex-guarded concurrent
// caching fields down to this core's single-threaded state model, and
// borrowing peco's Caret/Buffer split for cursor bookkeeping.
package buffer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tablescope/tablescope/internal/render"
	"github.com/tablescope/tablescope/internal/table"
)

// undoEntry is one snapshot on the undo/redo stacks.
type undoEntry struct {
	text   string
	cursor int
}

// Buffer is the complete exploration state for one loaded data source.
type Buffer struct {
	ID       string
	Name     string
	Columns  []string
	Base     *table.Table

	Text   string
	Cursor int

	undo []undoEntry
	redo []undoEntry

	killRing string
	modified bool

	// Result is the table produced by the last successfully executed
	// query; nil until the buffer's first execution. render.Compute
	// derives the visible viewport from this, not from Base.
	Result *table.Table

	// View transform configuration, handed to render.Compute through
	// ViewConfig when the buffer's viewport is recomputed.
	FilterPattern  string
	FilterColumn   string
	FilterCaseSens bool
	FuzzyPattern   string
	SortColumn     string
	SortDescending bool
	PinnedColumns  []string
	Scroll         render.ScrollOffset
	Compact        bool
	ShowRowNumber  bool

	Search       render.SearchState
	ColumnSearch render.ColumnSearchState

	SelectedRow int
	SelectedCol int

	LastExecutedQuery string
}

const maxPins = 4

// New creates an empty buffer over the given base table.
func New(name string, columns []string, base *table.Table) *Buffer {
	return &Buffer{
		ID:      uuid.NewString(),
		Name:    name,
		Columns: columns,
		Base:    base,
	}
}

func (b *Buffer) snapshot() undoEntry { return undoEntry{text: b.Text, cursor: b.Cursor} }

// setText pushes the previous (text, cursor) onto the undo stack,
// clears the redo stack on the first new edit after an undo, updates
// text+cursor, and marks the buffer modified.
func (b *Buffer) setText(text string, cursor int) {
	b.undo = append(b.undo, b.snapshot())
	b.redo = nil
	b.Text = text
	b.Cursor = clamp(cursor, 0, len(text))
	b.modified = true
}

func (b *Buffer) Modified() bool { return b.modified }

// Insert types s at the cursor.
func (b *Buffer) Insert(s string) {
	text := b.Text[:b.Cursor] + s + b.Text[b.Cursor:]
	b.setText(text, b.Cursor+len(s))
}

// DeleteBackward removes the rune before the cursor (backspace).
func (b *Buffer) DeleteBackward() {
	if b.Cursor == 0 {
		return
	}
	start := prevRuneStart(b.Text, b.Cursor)
	text := b.Text[:start] + b.Text[b.Cursor:]
	b.setText(text, start)
}

// Undo pops the most recent undo entry, pushing the current state onto
// redo.
func (b *Buffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	cur := b.snapshot()
	prev := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.redo = append(b.redo, cur)
	b.Text, b.Cursor = prev.text, prev.cursor
	return true
}

// Redo pops the most recent redo entry.
func (b *Buffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}
	cur := b.snapshot()
	next := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.undo = append(b.undo, cur)
	b.Text, b.Cursor = next.text, next.cursor
	return true
}

func isWordRune(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// MoveWordBackward returns the cursor position one word-motion to the
// left. A word is a run of [A-Za-z0-9_] or a quoted identifier treated
// atomically.
func (b *Buffer) MoveWordBackward() int {
	pos := b.Cursor
	for pos > 0 && b.Text[pos-1] == ' ' {
		pos--
	}
	if pos > 0 && b.Text[pos-1] == '"' {
		open := strings.LastIndexByte(b.Text[:pos-1], '"')
		if open >= 0 {
			return open
		}
	}
	for pos > 0 && isWordRune(b.Text[pos-1]) {
		pos--
	}
	return pos
}

// MoveWordForward returns the cursor position one word-motion to the
// right.
func (b *Buffer) MoveWordForward() int {
	pos := b.Cursor
	n := len(b.Text)
	for pos < n && b.Text[pos] == ' ' {
		pos++
	}
	if pos < n && b.Text[pos] == '"' {
		if close := strings.IndexByte(b.Text[pos+1:], '"'); close >= 0 {
			return pos + 1 + close + 1
		}
	}
	for pos < n && isWordRune(b.Text[pos]) {
		pos++
	}
	return pos
}

func (b *Buffer) DeleteWordBackward() {
	target := b.MoveWordBackward()
	text := b.Text[:target] + b.Text[b.Cursor:]
	b.setText(text, target)
}

func (b *Buffer) DeleteWordForward() {
	target := b.MoveWordForward()
	text := b.Text[:b.Cursor] + b.Text[target:]
	b.setText(text, b.Cursor)
}

// KillLine removes from the cursor to end-of-line, capturing the
// removed text to the kill ring.
func (b *Buffer) KillLine() {
	b.killRing = b.Text[b.Cursor:]
	b.setText(b.Text[:b.Cursor], b.Cursor)
}

// KillLineBackward removes from start-of-line to the cursor.
func (b *Buffer) KillLineBackward() {
	b.killRing = b.Text[:b.Cursor]
	b.setText(b.Text[b.Cursor:], 0)
}

// Yank inserts the kill ring contents at the cursor.
func (b *Buffer) Yank() {
	if b.killRing == "" {
		return
	}
	b.Insert(b.killRing)
}

// ExpandAsterisk replaces a bare "SELECT *" with the comma-joined
// column list when the current table's schema is known, positioning
// the cursor at the end of the replacement.
func (b *Buffer) ExpandAsterisk() bool {
	if len(b.Columns) == 0 {
		return false
	}
	const needle = "SELECT *"
	idx := strings.Index(strings.ToUpper(b.Text), needle)
	if idx < 0 {
		return false
	}
	replacement := "SELECT " + strings.Join(b.Columns, ", ")
	text := b.Text[:idx] + replacement + b.Text[idx+len(needle):]
	b.setText(text, idx+len(replacement))
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func prevRuneStart(s string, pos int) int {
	pos--
	for pos > 0 && !isRuneStart(s[pos]) {
		pos--
	}
	return pos
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// PinColumn adds name to PinnedColumns, refusing a fifth pin (pins
// never exceed 4).
func (b *Buffer) PinColumn(name string) bool {
	for _, p := range b.PinnedColumns {
		if p == name {
			return true
		}
	}
	if len(b.PinnedColumns) >= maxPins {
		return false
	}
	b.PinnedColumns = append(b.PinnedColumns, name)
	return true
}

func (b *Buffer) ClearPins() { b.PinnedColumns = nil }

// SetResult installs the table produced by executing the buffer's
// query, resetting the scroll and selection back to the origin and
// clearing the in-cell and column search state that referred to the
// previous result's positions. Filter and fuzzy patterns are kept.
func (b *Buffer) SetResult(result *table.Table, query string) {
	b.Result = result
	b.LastExecutedQuery = query
	b.Scroll = render.ScrollOffset{}
	b.SelectedRow = 0
	b.SelectedCol = 0
	b.Search = render.SearchState{}
	b.ColumnSearch = render.ColumnSearchState{}
}

// ViewConfig assembles a render.Config from the buffer's current view
// transform fields, the shape render.Compute needs to derive a
// viewport from Result.
func (b *Buffer) ViewConfig() render.Config {
	return render.Config{
		FilterPattern:  b.FilterPattern,
		FilterColumn:   b.FilterColumn,
		CaseSensitive:  b.FilterCaseSens,
		FuzzyPattern:   b.FuzzyPattern,
		SortColumn:     b.SortColumn,
		SortDescending: b.SortDescending,
		PinnedColumns:  b.PinnedColumns,
		Scroll:         b.Scroll,
		Compact:        b.Compact,
		ShowRowNumber:  b.ShowRowNumber,
	}
}

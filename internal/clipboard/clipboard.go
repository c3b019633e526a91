// Package clipboard implements the yank/paste scopes (cell, row,
// column, all) on top of golang.design/x/clipboard, grounded on the
// BreachLine's app_tab_clipboard.go: lazy clipboard.Init() on first use,
// recorded in an initDone flag, a size guard before writing, and a panic-recovering write
// wrapper (the clipboard library is documented to panic rather than
// error on some X11 failures).
package clipboard

import (
	"fmt"
	"strings"

	xclip "golang.design/x/clipboard"

	"github.com/tablescope/tablescope/internal/table"
)

// maxSize bounds a single yank, avoiding X11 BadLength errors on large
// selections (BreachLine's maxClipboardSize).
const maxSize = 10 * 1024 * 1024

// Clipboard lazily initializes golang.design/x/clipboard on first use
// and exposes scoped yank operations plus a read-back check so a yank
// can report whether it actually reached the system clipboard.
type Clipboard struct {
	initDone bool
	ok       bool
	initErr  error
}

func New() *Clipboard { return &Clipboard{} }

func (c *Clipboard) ensureInit() error {
	if c.initDone {
		return c.initErr
	}
	c.initDone = true
	if err := xclip.Init(); err != nil {
		c.ok = false
		c.initErr = fmt.Errorf("clipboard: init failed: %w", err)
		return c.initErr
	}
	c.ok = true
	return nil
}

// Available reports whether the system clipboard initialized
// successfully.
func (c *Clipboard) Available() bool {
	c.ensureInit()
	return c.ok
}

// Write copies text to the system clipboard, guarding against
// oversized payloads and recovering from the underlying library's
// panics.
func (c *Clipboard) Write(text string) (err error) {
	if initErr := c.ensureInit(); initErr != nil {
		return initErr
	}
	data := []byte(text)
	if len(data) > maxSize {
		return fmt.Errorf("clipboard: selection too large (%d bytes, max %d)", len(data), maxSize)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard: write failed: %v", r)
		}
	}()
	xclip.Write(xclip.FmtText, data)
	return nil
}

// ReadBack reads the current clipboard text back, used to verify a
// yank actually landed (some headless/CI terminal environments have no
// working clipboard even when Init succeeds).
func (c *Clipboard) ReadBack() (text string, err error) {
	if initErr := c.ensureInit(); initErr != nil {
		return "", initErr
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard: read failed: %v", r)
		}
	}()
	data := xclip.Read(xclip.FmtText)
	return string(data), nil
}

// sanitizeField strips characters that would break a tab-separated
// yank (tabs, CR, LF replaced with a single space), matching the
// BreachLine's sanitize helper.
func sanitizeField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// CellText renders a single cell for a cell-scoped yank.
func CellText(t *table.Table, row, col int) string {
	return sanitizeField(cellAt(t, row, col).String())
}

// RowText renders one row, tab-separated, in the given column order.
func RowText(t *table.Table, row int, colOrder []int) string {
	var sb strings.Builder
	for i, col := range colOrder {
		if i > 0 {
			sb.WriteByte('\t')
		}
		sb.WriteString(sanitizeField(cellAt(t, row, col).String()))
	}
	return sb.String()
}

// ColumnText renders every visible row's value in one column, one per
// line, with a header line.
func ColumnText(t *table.Table, rowOrder []int, col int) string {
	var sb strings.Builder
	sb.WriteString(sanitizeField(t.Columns[col]))
	sb.WriteByte('\n')
	for _, row := range rowOrder {
		sb.WriteString(sanitizeField(cellAt(t, row, col).String()))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// AllText renders the full visible grid (header + every row in
// rowOrder/colOrder) as tab-separated text, matching BreachLine's
// header-then-rows layout in copySelectionToClipboardForTab.
func AllText(t *table.Table, rowOrder, colOrder []int) string {
	var sb strings.Builder
	for i, col := range colOrder {
		if i > 0 {
			sb.WriteByte('\t')
		}
		sb.WriteString(sanitizeField(t.Columns[col]))
	}
	sb.WriteByte('\n')
	for _, row := range rowOrder {
		for i, col := range colOrder {
			if i > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(sanitizeField(cellAt(t, row, col).String()))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cellAt(t *table.Table, row, col int) table.Value {
	return t.RowAt(row).Values[col]
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tablescope/tablescope/internal/appstate"
	"github.com/tablescope/tablescope/internal/buffer"
	"github.com/tablescope/tablescope/internal/render"
	"github.com/tablescope/tablescope/internal/sqllang/printer"
	"github.com/tablescope/tablescope/internal/table"
)

var (
	styleDefault      = tcell.StyleDefault
	styleHeader       = tcell.StyleDefault.Bold(true).Reverse(true)
	styleStatus       = tcell.StyleDefault.Reverse(true)
	styleSelected     = tcell.StyleDefault.Reverse(true)
	styleSearchHit    = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleCurrentHit   = tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack)
)

// Draw renders one full frame: the command/input line, the result grid
// (or an empty-state message), the status line, and whatever transient
// mode overlay is on top of the mode stack.
func (a *App) Draw(screen tcell.Screen) {
	screen.Clear()
	cols, rows := screen.Size()
	a.SetScreenSize(cols, rows)

	a.drawInputLine(screen, cols)
	a.drawResults(screen, cols, rows)
	a.drawStatusLine(screen, cols, rows)
	a.drawOverlay(screen, cols, rows)

	screen.Show()
}

func putStr(screen tcell.Screen, x, y int, s string, style tcell.Style) int {
	i := x
	for _, r := range s {
		screen.SetContent(i, y, r, nil, style)
		i++
	}
	return i
}

func (a *App) drawInputLine(screen tcell.Screen, cols int) {
	b := a.Manager.Current()
	if b == nil {
		return
	}

	prompt := "> "
	mode := a.State.Modes.Current()
	if w := a.currentWidget(); w != nil {
		prompt = searchPrompt(mode) + w.Pattern
		putStr(screen, 0, 0, render.TruncateToWidth(prompt, cols), styleDefault)
		return
	}

	text := b.Text
	if mode == appstate.History {
		prompt = "history> " + a.historyInput
	} else if mode == appstate.JumpToRow {
		prompt = "go to row: " + a.jumpInput
	} else {
		prompt += text
		if mode == appstate.Command {
			if ctx, ok := a.currentCursorContext(); ok {
				if s := autocompleteSuggestions(b, ctx); len(s) > 0 {
					prompt += "  [" + strings.Join(s, " ") + "]"
				}
			}
		}
	}
	putStr(screen, 0, 0, render.TruncateToWidth(prompt, cols), styleDefault)
}

func searchPrompt(m appstate.Mode) string {
	switch m {
	case appstate.Search:
		return "/"
	case appstate.Filter:
		return "filter/"
	case appstate.FuzzyFilter:
		return "fuzzy'"
	case appstate.ColumnSearch:
		return "col/"
	default:
		return "> "
	}
}

// drawResults renders the column header and every visible row of the
// current buffer's result viewport, starting at screen row 1 (row 0 is
// the input line) and leaving the final row for the status line.
func (a *App) drawResults(screen tcell.Screen, cols, rows int) {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		putStr(screen, 0, 1, "(no query executed yet)", styleDefault)
		return
	}

	vp := a.currentViewport()
	headerY := 1
	x := 0
	for i, col := range vp.ColumnOrder {
		if x >= cols {
			break
		}
		name := b.Result.Columns[col]
		style := styleHeader
		if i < vp.PinnedCount {
			style = style.Underline(true)
		}
		text := render.TruncateToWidth(name, vp.Widths[i])
		putStr(screen, x, headerY, padTo(text, vp.Widths[i]), style)
		x += vp.Widths[i]
	}

	visible := rows - reservedRows
	if visible < 1 {
		visible = 1
	}
	for i := 0; i < visible && b.Scroll.RowTop+i < len(vp.RowOrder); i++ {
		a.drawResultRow(screen, b, vp, i, headerY+1+i, cols)
	}
}

func (a *App) drawResultRow(screen tcell.Screen, b *buffer.Buffer, vp render.Viewport, viewportRow, y, cols int) {
	row := vp.RowOrder[b.Scroll.RowTop+viewportRow]
	x := 0
	for i, col := range vp.ColumnOrder {
		if x >= cols {
			break
		}
		value := b.Result.RowAt(row).Values[col]
		style := styleDefault
		switch render.ClassifyCell(row, col, -1, -1, &b.Search) {
		case render.HighlightCurrentMatch:
			style = styleCurrentHit
		case render.HighlightSearchMatch:
			style = styleSearchHit
		}
		if b.Scroll.RowTop+viewportRow == b.SelectedRow && i == b.SelectedCol {
			style = styleSelected
		}
		text := render.TruncateToWidth(a.formatCell(value), vp.Widths[i])
		putStr(screen, x, y, padTo(text, vp.Widths[i]), style)
		x += vp.Widths[i]
	}
}

// formatCell renders a cell for the grid, applying the configured
// display timezone/format to KindTime values; every other Kind falls
// back to Value.String()'s fixed rendering.
func (a *App) formatCell(v table.Value) string {
	if v.Kind != table.KindTime {
		return v.String()
	}
	loc := displayLocation(a.Settings.DisplayTimezone)
	layout := a.Settings.TimestampDisplayFormat
	if layout == "" {
		layout = "2006-01-02 15:04:05"
	}
	return v.Time.In(loc).Format(layout)
}

func displayLocation(tz string) *time.Location {
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc
	}
	return time.Local
}

func padTo(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}

func (a *App) drawStatusLine(screen tcell.Screen, cols, rows int) {
	y := rows - 1
	status := a.status
	if status == "" {
		status = fmt.Sprintf("mode: %s", a.currentMode())
	}
	putStr(screen, 0, y, padTo(render.TruncateToWidth(status, cols), cols), styleStatus)
}

// drawOverlay renders whatever additional content a transient mode
// needs on top of the base frame: Help text, the Debug log, the
// pretty-printed current query, the cache list, or column stats.
func (a *App) drawOverlay(screen tcell.Screen, cols, rows int) {
	switch a.State.Modes.Current() {
	case appstate.Help:
		drawLines(screen, cols, rows, helpText)
	case appstate.Debug:
		a.drawDebug(screen, cols, rows)
	case appstate.PrettyQuery:
		a.drawPrettyQuery(screen, cols, rows)
	case appstate.CacheList:
		a.drawCacheList(screen, cols, rows)
	case appstate.ColumnStats:
		a.drawColumnStats(screen, cols, rows)
	case appstate.History:
		a.drawHistoryMatches(screen, cols, rows)
	}
}

var helpText = []string{
	"i          enter command mode",
	"Enter      execute query",
	"/          search   f  filter   '  fuzzy filter   c  column search",
	"p / P      pin current column / clear pins",
	"s / S      sort by current column / reverse",
	"g          jump to row   t  column stats   v  toggle cell selection",
	"yy/yc/ya/yv  yank row/column/all/cell",
	"Ctrl+R     command history   Ctrl+P  pretty-print query",
	"Ctrl+N     accept autocomplete suggestion",
	"F1 or ?    this screen   F5  debug log   Escape  close",
}

func drawLines(screen tcell.Screen, cols, rows int, lines []string) {
	top := 2
	for i, line := range lines {
		if top+i >= rows-1 {
			break
		}
		putStr(screen, 2, top+i, render.TruncateToWidth(line, cols-2), styleDefault)
	}
}

func (a *App) drawDebug(screen tcell.Screen, cols, rows int) {
	d := a.State.Debug()
	if d == nil {
		return
	}
	entries := d.Entries()
	top := 2
	start := 0
	maxLines := rows - 3
	if len(entries) > maxLines {
		start = len(entries) - maxLines
	}
	for i, e := range entries[start:] {
		line := fmt.Sprintf("[%s] %s: %s", e.Level, e.Component, e.Message)
		putStr(screen, 2, top+i, render.TruncateToWidth(line, cols-2), styleDefault)
	}
}

func (a *App) drawPrettyQuery(screen tcell.Screen, cols, rows int) {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	pretty, err := printer.Print(b.Text, printer.DefaultOptions())
	if err != nil {
		putStr(screen, 2, 2, fmt.Sprintf("parse error: %v", err), styleDefault)
		return
	}
	drawLines(screen, cols, rows, splitLines(pretty))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func (a *App) drawCacheList(screen tcell.Screen, cols, rows int) {
	entries := a.State.Cache.List()
	top := 2
	for i, e := range entries {
		if top+i >= rows-1 {
			break
		}
		style := styleDefault
		if i == a.cacheCursor {
			style = styleSelected
		}
		line := fmt.Sprintf("%s (%d rows): %s", e.TableName, e.Rows, e.Query)
		putStr(screen, 2, top+i, padTo(render.TruncateToWidth(line, cols-2), cols-2), style)
	}
}

func (a *App) drawColumnStats(screen tcell.Screen, cols, rows int) {
	b := a.Manager.Current()
	if b == nil || b.Result == nil || a.columnStatsCol >= b.Result.NumCols() {
		return
	}
	stats := b.Result.ColumnStats(a.columnStatsCol)
	lines := []string{
		"column: " + stats.Column,
		"distinct values: " + strconv.Itoa(stats.Distinct),
	}
	if stats.HasMin {
		lines = append(lines, "min: "+stats.Min.String(), "max: "+stats.Max.String())
	}
	drawLines(screen, cols, rows, lines)
}

func (a *App) drawHistoryMatches(screen tcell.Screen, cols, rows int) {
	matches := a.State.History.Matches()
	selected := a.State.History.Selected()
	top := 2
	for i, m := range matches {
		if top+i >= rows-1 {
			break
		}
		style := styleDefault
		if i == selected {
			style = styleSelected
		}
		putStr(screen, 2, top+i, padTo(render.TruncateToWidth(m, cols-2), cols-2), style)
	}
}

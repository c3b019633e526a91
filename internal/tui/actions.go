package tui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/tablescope/tablescope/internal/appstate"
	"github.com/tablescope/tablescope/internal/buffer"
	"github.com/tablescope/tablescope/internal/clipboard"
	"github.com/tablescope/tablescope/internal/searchmodes"
)

// flavorOf maps the current mode to the search-mode widget flavor that
// owns it, or ok=false outside the four search-like modes.
func flavorOf(m appstate.Mode) (searchmodes.Flavor, bool) {
	switch m {
	case appstate.Search:
		return searchmodes.SearchFlavor, true
	case appstate.Filter:
		return searchmodes.FilterFlavor, true
	case appstate.FuzzyFilter:
		return searchmodes.FuzzyFilterFlavor, true
	case appstate.ColumnSearch:
		return searchmodes.ColumnSearchFlavor, true
	default:
		return 0, false
	}
}

func (a *App) currentWidget() *searchmodes.Widget {
	flavor, ok := flavorOf(a.State.Modes.Current())
	if !ok {
		return nil
	}
	return a.search[flavor]
}

// run executes the action string resolved by keys.Dispatcher for the
// current mode. An empty action means the key had no binding; in a
// text-editing mode that is interpreted as literal character input.
func (a *App) run(action string, ev *tcell.EventKey) {
	if action == "" {
		a.literalInput(ev)
		return
	}

	switch action {
	case "command.execute":
		a.executeCurrentQuery()
	case "app.quit.maybe":
		a.quitMaybe()
	case "mode.enter.history":
		a.enterHistory()

	case "input.backspace":
		a.backspace()
	case "input.delete":
		a.deleteForward()
	case "input.left":
		a.moveCursor(-1)
	case "input.right":
		a.moveCursor(1)
	case "input.home":
		a.setCursor(0)
	case "input.end":
		a.setCursorEnd()
	case "input.word.backward":
		if b := a.Manager.Current(); b != nil {
			a.setCursor(b.MoveWordBackward())
		}
	case "input.word.forward":
		if b := a.Manager.Current(); b != nil {
			a.setCursor(b.MoveWordForward())
		}
	case "input.kill.word.backward":
		if b := a.Manager.Current(); b != nil {
			b.DeleteWordBackward()
		}
	case "input.kill.line":
		if b := a.Manager.Current(); b != nil {
			b.KillLine()
		}
	case "input.kill.line.backward":
		if b := a.Manager.Current(); b != nil {
			b.KillLineBackward()
		}
	case "input.expand.asterisk":
		if b := a.Manager.Current(); b != nil {
			b.ExpandAsterisk()
		}
	case "input.accept.suggestion":
		a.acceptSuggestion()

	case "mode.enter.help":
		a.State.Modes.Enter(appstate.Help)
	case "mode.enter.debug":
		a.State.Modes.Enter(appstate.Debug)
	case "mode.enter.prettyquery":
		a.State.Modes.Enter(appstate.PrettyQuery)
	case "mode.exit":
		a.exitMode()

	case "results.cursor.up":
		a.moveResultCursor(-1, 0)
	case "results.cursor.down":
		a.moveResultCursor(1, 0)
	case "results.cursor.left":
		a.moveResultCursor(0, -1)
	case "results.cursor.right":
		a.moveResultCursor(0, 1)
	case "results.page.up":
		a.moveResultCursor(-a.visibleRows(), 0)
	case "results.page.down":
		a.moveResultCursor(a.visibleRows(), 0)
	case "results.jump.top":
		a.jumpResultRow(0)
	case "results.jump.bottom":
		a.jumpResultRow(-1)
	case "mode.enter.command":
		a.State.Modes.ReplaceBase(appstate.Command)
	case "results.escape":
		a.resultsEscape()
	case "mode.enter.search":
		a.enterSearchLike(appstate.Search)
	case "mode.enter.filter":
		a.enterSearchLike(appstate.Filter)
	case "mode.enter.fuzzyfilter":
		a.enterSearchLike(appstate.FuzzyFilter)
	case "mode.enter.columnsearch":
		a.enterSearchLike(appstate.ColumnSearch)
	case "results.pin.current":
		a.pinCurrentColumn()
	case "results.pin.clear":
		if b := a.Manager.Current(); b != nil {
			b.ClearPins()
		}
	case "results.sort.current":
		a.sortByCurrentColumn(false)
	case "results.sort.current.reverse":
		a.sortByCurrentColumn(true)
	case "search.next":
		a.searchStep(true)
	case "search.prev":
		a.searchStep(false)
	case "mode.enter.jumptorow":
		a.jumpInput = ""
		a.State.Modes.Enter(appstate.JumpToRow)
	case "mode.enter.columnstats":
		if b := a.Manager.Current(); b != nil {
			a.columnStatsCol = b.SelectedCol
		}
		a.State.Modes.Enter(appstate.ColumnStats)
	case "results.cellselection.toggle":
		a.cellSelection = !a.cellSelection
	case "mode.enter.cachelist":
		a.cacheCursor = 0
		a.State.Modes.Enter(appstate.CacheList)

	case "searchmode.apply":
		a.searchModeApply()
	case "searchmode.cancel":
		a.searchModeCancel()
	case "searchmode.next":
		a.searchModeCycle(1)
	case "searchmode.prev":
		a.searchModeCycle(-1)

	case "history.accept":
		a.historyAccept()
	case "history.cancel":
		a.historyCancel()
	case "history.cursor.up":
		a.State.History.MoveSelection(-1)
	case "history.cursor.down":
		a.State.History.MoveSelection(1)

	case "cache.load.selected":
		a.cacheLoadSelected()
	case "cache.cursor.up":
		a.cacheMoveCursor(-1)
	case "cache.cursor.down":
		a.cacheMoveCursor(1)
	case "cache.delete.selected":
		a.cacheDeleteSelected()

	case "jumptorow.apply":
		a.jumpToRowApply()

	case "columnstats.prev":
		a.moveColumnStats(-1)
	case "columnstats.next":
		a.moveColumnStats(1)

	case "yank.row":
		a.yankRow()
	case "yank.column":
		a.yankColumn()
	case "yank.all":
		a.yankAll()
	case "yank.cell":
		a.yankCell()
	}
}

// literalInput applies a plain, unbound rune as typed text in whatever
// mode currently owns a single-line editor: Command edits the buffer,
// the four search-like modes edit their widget's pattern, History and
// JumpToRow edit their own scratch input.
func (a *App) literalInput(ev *tcell.EventKey) {
	if ev.Key() != tcell.KeyRune || ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
		return
	}
	r := ev.Rune()

	switch a.State.Modes.Current() {
	case appstate.Command:
		if b := a.Manager.Current(); b != nil {
			b.Insert(string(r))
		}
	case appstate.Search, appstate.Filter, appstate.FuzzyFilter, appstate.ColumnSearch:
		if w := a.currentWidget(); w != nil {
			w.Type(r)
		}
	case appstate.History:
		a.historyInput += string(r)
		a.State.History.SetQuery(a.historyInput)
	case appstate.JumpToRow:
		if r >= '0' && r <= '9' {
			a.jumpInput += string(r)
		}
	}
}

func (a *App) backspace() {
	switch a.State.Modes.Current() {
	case appstate.Command:
		if b := a.Manager.Current(); b != nil {
			b.DeleteBackward()
		}
	case appstate.Search, appstate.Filter, appstate.FuzzyFilter, appstate.ColumnSearch:
		if w := a.currentWidget(); w != nil {
			w.Backspace()
		}
	case appstate.History:
		if n := len(a.historyInput); n > 0 {
			a.historyInput = a.historyInput[:n-1]
			a.State.History.SetQuery(a.historyInput)
		}
	case appstate.JumpToRow:
		if n := len(a.jumpInput); n > 0 {
			a.jumpInput = a.jumpInput[:n-1]
		}
	}
}

func (a *App) deleteForward() {
	b := a.Manager.Current()
	if b == nil || b.Cursor >= len(b.Text) {
		return
	}
	b.Cursor++
	b.DeleteBackward()
}

func (a *App) moveCursor(delta int) {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	a.setCursor(b.Cursor + delta)
}

func (a *App) setCursor(pos int) {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.Text) {
		pos = len(b.Text)
	}
	b.Cursor = pos
}

func (a *App) setCursorEnd() {
	if b := a.Manager.Current(); b != nil {
		a.setCursor(len(b.Text))
	}
}

// quitMaybe asks for confirmation once before quitting from Command
// mode on Escape; a second Escape with no other key in between
// confirms.
func (a *App) quitMaybe() {
	if a.quitConfirm {
		a.quit = true
		return
	}
	a.quitConfirm = true
	a.setStatus("press Escape again to quit")
}

func (a *App) enterHistory() {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	a.historyInput = ""
	a.State.History.Start(b.Text, a.State.CommandHistory())
	a.State.Modes.Enter(appstate.History)
}

func (a *App) historyAccept() {
	b := a.Manager.Current()
	cmd, ok := a.State.History.Accept()
	a.State.Modes.Exit()
	if !ok || b == nil {
		return
	}
	b.Insert(cmd)
}

func (a *App) historyCancel() {
	b := a.Manager.Current()
	text := a.State.History.Cancel()
	a.State.Modes.Exit()
	if b != nil {
		b.Text = text
		b.Cursor = len(text)
	}
}

// exitMode pops the current transient mode: Help, Debug, PrettyQuery,
// CacheList, JumpToRow, and ColumnStats all exit this way, none of
// them owning any editable input to restore.
func (a *App) exitMode() {
	a.State.Modes.Exit()
}

func (a *App) searchModeApply() {
	if w := a.currentWidget(); w != nil {
		w.Apply()
	}
	a.State.Modes.Exit()
}

func (a *App) searchModeCancel() {
	if w := a.currentWidget(); w != nil {
		w.Cancel()
		if b := a.Manager.Current(); b != nil {
			b.Text, b.Cursor = w.Restore()
		}
	}
	a.State.Modes.Exit()
}

// searchModeCycle moves between the four search-like modes with
// Tab/Shift+Tab without leaving Results, carrying the buffer's saved
// input over to the next widget.
func (a *App) searchModeCycle(dir int) {
	order := []appstate.Mode{appstate.Search, appstate.Filter, appstate.FuzzyFilter, appstate.ColumnSearch}
	cur := a.State.Modes.Current()
	idx := 0
	for i, m := range order {
		if m == cur {
			idx = i
			break
		}
	}
	next := order[(idx+dir+len(order))%len(order)]

	w := a.currentWidget()
	var savedText string
	var savedCursor int
	if w != nil {
		savedText, savedCursor = w.Restore()
	}
	a.State.Modes.Exit()
	a.State.Modes.Enter(next)
	if nw, ok := flavorOf(next); ok {
		a.search[nw].Enter(savedText, savedCursor)
	}
}

func (a *App) enterSearchLike(m appstate.Mode) {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	flavor, _ := flavorOf(m)
	a.search[flavor].Enter(b.Text, b.Cursor)
	a.State.Modes.Enter(m)
}

func (a *App) resultsEscape() {
	if a.cellSelection {
		a.cellSelection = false
		return
	}
	a.State.Modes.ReplaceBase(appstate.Command)
}

// moveResultCursor shifts the selected (row, column) position within
// the current viewport, clamping to its bounds, then scrolls to keep
// the selection visible.
func (a *App) moveResultCursor(dRow, dCol int) {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	vp := a.currentViewport()
	if len(vp.RowOrder) == 0 {
		return
	}
	b.SelectedRow = clampInt(b.SelectedRow+dRow, 0, len(vp.RowOrder)-1)
	if len(vp.ColumnOrder) > 0 {
		b.SelectedCol = clampInt(b.SelectedCol+dCol, 0, len(vp.ColumnOrder)-1)
	}
	a.ensureRowVisible(b, len(vp.RowOrder))
}

func (a *App) jumpResultRow(pos int) {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	vp := a.currentViewport()
	if len(vp.RowOrder) == 0 {
		return
	}
	if pos < 0 {
		pos = len(vp.RowOrder) - 1
	}
	b.SelectedRow = clampInt(pos, 0, len(vp.RowOrder)-1)
	a.ensureRowVisible(b, len(vp.RowOrder))
}

func (a *App) ensureRowVisible(b *buffer.Buffer, total int) {
	visible := a.visibleRows()
	if b.SelectedRow < b.Scroll.RowTop {
		b.Scroll.RowTop = b.SelectedRow
	}
	if b.SelectedRow >= b.Scroll.RowTop+visible {
		b.Scroll.RowTop = b.SelectedRow - visible + 1
	}
	maxTop := total - visible
	if maxTop < 0 {
		maxTop = 0
	}
	b.Scroll.RowTop = clampInt(b.Scroll.RowTop, 0, maxTop)
}

func (a *App) pinCurrentColumn() {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return
	}
	vp := a.currentViewport()
	if b.SelectedCol >= len(vp.ColumnOrder) {
		return
	}
	col := vp.ColumnOrder[b.SelectedCol]
	b.PinColumn(b.Result.Columns[col])
}

func (a *App) sortByCurrentColumn(reverse bool) {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return
	}
	vp := a.currentViewport()
	if b.SelectedCol >= len(vp.ColumnOrder) {
		return
	}
	col := b.Result.Columns[vp.ColumnOrder[b.SelectedCol]]
	if b.SortColumn == col {
		b.SortDescending = !b.SortDescending
	} else {
		b.SortColumn = col
		b.SortDescending = reverse
	}
}

func (a *App) searchStep(forward bool) {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	if forward {
		if m, ok := b.Search.Next(); ok {
			a.selectMatch(b, m.Row, m.Col)
		}
		return
	}
	if m, ok := b.Search.Prev(); ok {
		a.selectMatch(b, m.Row, m.Col)
	}
}

func (a *App) selectMatch(b *buffer.Buffer, row, col int) {
	vp := a.currentViewport()
	for i, r := range vp.RowOrder {
		if r == row {
			b.SelectedRow = i
			a.ensureRowVisible(b, len(vp.RowOrder))
			break
		}
	}
	for i, c := range vp.ColumnOrder {
		if c == col {
			b.SelectedCol = i
			break
		}
	}
}

func (a *App) cacheMoveCursor(delta int) {
	entries := a.State.Cache.List()
	if len(entries) == 0 {
		a.cacheCursor = 0
		return
	}
	a.cacheCursor = clampInt(a.cacheCursor+delta, 0, len(entries)-1)
}

func (a *App) cacheLoadSelected() {
	entries := a.State.Cache.List()
	if a.cacheCursor >= len(entries) {
		a.State.Modes.Exit()
		return
	}
	entry := entries[a.cacheCursor]
	if result, ok := a.State.Cache.Get(entry.Key); ok {
		if b := a.Manager.Current(); b != nil {
			b.SetResult(result, entry.Query)
			a.State.Modes.ReplaceBase(appstate.Results)
		}
	}
	a.State.Modes.Exit()
}

func (a *App) cacheDeleteSelected() {
	entries := a.State.Cache.List()
	if a.cacheCursor >= len(entries) {
		return
	}
	a.State.Cache.Delete(entries[a.cacheCursor].Key)
	if remaining := a.State.Cache.List(); a.cacheCursor >= len(remaining) && a.cacheCursor > 0 {
		a.cacheCursor--
	}
}

func (a *App) jumpToRowApply() {
	n, err := strconv.Atoi(strings.TrimSpace(a.jumpInput))
	a.State.Modes.Exit()
	if err != nil {
		a.setStatus("invalid row number %q", a.jumpInput)
		return
	}
	a.jumpResultRow(n)
}

func (a *App) moveColumnStats(delta int) {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return
	}
	a.columnStatsCol = clampInt(a.columnStatsCol+delta, 0, len(b.Result.Columns)-1)
}

func (a *App) yankRow() {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return
	}
	vp := a.currentViewport()
	if b.SelectedRow >= len(vp.RowOrder) {
		return
	}
	text := clipboard.RowText(b.Result, vp.RowOrder[b.SelectedRow], vp.ColumnOrder)
	a.yank(text)
}

func (a *App) yankColumn() {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return
	}
	vp := a.currentViewport()
	if b.SelectedCol >= len(vp.ColumnOrder) {
		return
	}
	text := clipboard.ColumnText(b.Result, vp.RowOrder, vp.ColumnOrder[b.SelectedCol])
	a.yank(text)
}

func (a *App) yankAll() {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return
	}
	vp := a.currentViewport()
	a.yank(clipboard.AllText(b.Result, vp.RowOrder, vp.ColumnOrder))
}

func (a *App) yankCell() {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return
	}
	vp := a.currentViewport()
	if b.SelectedRow >= len(vp.RowOrder) || b.SelectedCol >= len(vp.ColumnOrder) {
		return
	}
	text := clipboard.CellText(b.Result, vp.RowOrder[b.SelectedRow], vp.ColumnOrder[b.SelectedCol])
	a.yank(text)
}

func (a *App) yank(text string) {
	if err := a.Clip.Write(text); err != nil {
		a.setStatus("yank failed: %v", err)
		return
	}
	a.setStatus("yanked")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

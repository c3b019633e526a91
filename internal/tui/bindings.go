package tui

import "github.com/tablescope/tablescope/internal/keys"

// defaultBindings installs the per-mode key -> action tables: Command
// edits and executes the SQL input; Results navigates/sorts/pins/yanks
// the result grid;
// the four search-like modes share the single-line-editor actions that
// searchmodes.Widget understands; History, Help, Debug, CacheList,
// JumpToRow, ColumnStats, PrettyQuery each get the small action set
// their mode needs.
func defaultBindings(d *keys.Dispatcher) {
	d.Bind("Command", keys.Map{
		"Enter":      "command.execute",
		"Escape":     "app.quit.maybe",
		"Ctrl+R":     "mode.enter.history",
		"Backspace":  "input.backspace",
		"Delete":     "input.delete",
		"Left":       "input.left",
		"Right":      "input.right",
		"Home":       "input.home",
		"End":        "input.end",
		"Ctrl+A":     "input.home",
		"Ctrl+E":     "input.end",
		"Ctrl+B":     "input.word.backward",
		"Ctrl+F":     "input.word.forward",
		"Ctrl+W":     "input.kill.word.backward",
		"Ctrl+K":     "input.kill.line",
		"Ctrl+U":     "input.kill.line.backward",
		"Tab":        "input.expand.asterisk",
		"Ctrl+N":     "input.accept.suggestion",
		"F1":         "mode.enter.help",
		"?":          "mode.enter.help",
		"F5":         "mode.enter.debug",
		"Ctrl+P":     "mode.enter.prettyquery",
	})

	d.Bind("Results", keys.Map{
		"Up":         "results.cursor.up",
		"Down":       "results.cursor.down",
		"Left":       "results.cursor.left",
		"Right":      "results.cursor.right",
		"PgUp":       "results.page.up",
		"PgDn":       "results.page.down",
		"Home":       "results.jump.top",
		"End":        "results.jump.bottom",
		"i":          "mode.enter.command",
		"Escape":     "results.escape",
		"/":          "mode.enter.search",
		"f":          "mode.enter.filter",
		"'":          "mode.enter.fuzzyfilter",
		"c":          "mode.enter.columnsearch",
		"p":          "results.pin.current",
		"P":          "results.pin.clear",
		"s":          "results.sort.current",
		"S":          "results.sort.current.reverse",
		"n":          "search.next",
		"N":          "search.prev",
		"g":          "mode.enter.jumptorow",
		"t":          "mode.enter.columnstats",
		"v":          "results.cellselection.toggle",
		"F1":         "mode.enter.help",
		"?":          "mode.enter.help",
		"F5":         "mode.enter.debug",
		"Ctrl+L":     "mode.enter.cachelist",
	})

	searchLike := keys.Map{
		"Enter":     "searchmode.apply",
		"Escape":    "searchmode.cancel",
		"Backspace": "input.backspace",
		"Left":      "input.left",
		"Right":     "input.right",
		"Home":      "input.home",
		"End":       "input.end",
		"Tab":       "searchmode.next",
		"Shift+Tab": "searchmode.prev",
	}
	d.Bind("Search", searchLike)
	d.Bind("Filter", searchLike)
	d.Bind("FuzzyFilter", searchLike)
	d.Bind("ColumnSearch", searchLike)

	d.Bind("History", keys.Map{
		"Enter":     "history.accept",
		"Escape":    "history.cancel",
		"Backspace": "input.backspace",
		"Up":        "history.cursor.up",
		"Down":      "history.cursor.down",
	})

	d.Bind("Help", keys.Map{
		"Escape": "mode.exit",
		"F1":     "mode.exit",
		"?":      "mode.exit",
	})
	d.Bind("Debug", keys.Map{
		"Escape": "mode.exit",
		"F5":     "mode.exit",
	})
	d.Bind("PrettyQuery", keys.Map{
		"Escape": "mode.exit",
		"Ctrl+P": "mode.exit",
	})
	d.Bind("CacheList", keys.Map{
		"Escape": "mode.exit",
		"Enter":  "cache.load.selected",
		"Up":     "cache.cursor.up",
		"Down":   "cache.cursor.down",
		"d":      "cache.delete.selected",
	})
	d.Bind("JumpToRow", keys.Map{
		"Enter":     "jumptorow.apply",
		"Escape":    "mode.exit",
		"Backspace": "input.backspace",
	})
	d.Bind("ColumnStats", keys.Map{
		"Escape": "mode.exit",
		"Left":   "columnstats.prev",
		"Right":  "columnstats.next",
	})
}

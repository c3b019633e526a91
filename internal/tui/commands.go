package tui

import (
	"github.com/google/shlex"

	"github.com/tablescope/tablescope/internal/appstate"
)

// runCommand tokenizes and dispatches a leading-":" command-palette
// line, the same syntax the "Enter" key runs from Command mode instead
// of a SQL query: :help, :exit/:quit, :tui, and :cache
// save/load/list/clear. Shell-style quoting lets a saved cache entry's
// id or query contain spaces.
func (a *App) runCommand(line string) {
	b := a.Manager.Current()
	clear := func() {
		if b != nil {
			b.Text = ""
			b.Cursor = 0
		}
	}

	args, err := shlex.Split(line[1:])
	if err != nil || len(args) == 0 {
		a.setStatus("command: %v", err)
		clear()
		return
	}

	switch args[0] {
	case "help":
		a.State.Modes.Enter(appstate.Help)
	case "exit", "quit":
		a.quit = true
	case "tui":
		a.setStatus("already in the TUI")
	case "cache":
		a.runCacheCommand(args[1:])
	default:
		a.setStatus("unknown command %q", args[0])
	}
	clear()
}

// runCacheCommand implements the :cache subcommands: save [id] [query],
// load <id>, list, clear.
func (a *App) runCacheCommand(args []string) {
	b := a.Manager.Current()
	if len(args) == 0 {
		a.setStatus("usage: :cache save|load|list|clear")
		return
	}

	switch args[0] {
	case "save":
		if b == nil || b.Result == nil {
			a.setStatus("cache save: no result to save")
			return
		}
		query := b.LastExecutedQuery
		id := query
		if len(args) > 1 {
			id = args[1]
		}
		if len(args) > 2 {
			query = args[2]
		}
		key := appstate.Fingerprint(normalizeQueryText(id), b.Name)
		a.State.Cache.Store(key, query, b.Name, b.Result)
		a.setStatus("cache: saved %q", id)

	case "load":
		if len(args) < 2 {
			a.setStatus("usage: :cache load <id>")
			return
		}
		if b == nil {
			return
		}
		key := appstate.Fingerprint(normalizeQueryText(args[1]), b.Name)
		result, ok := a.State.Cache.Get(key)
		if !ok {
			a.setStatus("cache: no entry %q", args[1])
			return
		}
		b.SetResult(result, args[1])
		a.State.Modes.ReplaceBase(appstate.Results)
		a.setStatus("cache: loaded %q", args[1])

	case "list":
		a.cacheCursor = 0
		a.State.Modes.Enter(appstate.CacheList)

	case "clear":
		a.State.Cache.Clear()
		a.setStatus("cache: cleared")

	default:
		a.setStatus("unknown cache command %q", args[0])
	}
}

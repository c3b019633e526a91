// Package tui is the event loop and terminal boundary: apart from
// cmd/tablescope, which only creates the tcell screen, the only package
// in this module that imports github.com/gdamore/tcell/v2. It wires keys.Dispatcher, render.Compute, buffer.Manager,
// appstate.Container, searchmodes.Widget, dataload, clipboard, and
// config into the single-threaded loop described by BreachLine's
// design and grounded concretely on peco's own Screen-abstraction
// pattern (a Peco struct holding a screen field driven by one
// dispatch loop) and gravwell-gravwell's migrate/gui.go tcell usage.
package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tablescope/tablescope/internal/appstate"
	"github.com/tablescope/tablescope/internal/buffer"
	"github.com/tablescope/tablescope/internal/clipboard"
	"github.com/tablescope/tablescope/internal/config"
	"github.com/tablescope/tablescope/internal/dataload"
	"github.com/tablescope/tablescope/internal/keys"
	"github.com/tablescope/tablescope/internal/searchmodes"
)

// App is the whole program's state: everything the event loop reads
// and mutates on its single thread.
type App struct {
	Settings config.Settings

	Manager *buffer.Manager
	State   *appstate.Container
	Keys    *keys.Dispatcher
	Clip    *clipboard.Clipboard

	search map[searchmodes.Flavor]*searchmodes.Widget

	caseInsensitive bool
	cellSelection   bool
	status          string
	quit            bool
	quitConfirm     bool

	historyInput   string
	jumpInput      string
	cacheCursor    int
	columnStatsCol int

	screenRows int
	screenCols int
}

// reservedRows is the number of terminal rows the frame spends on
// chrome (column header, status line, input line) outside the
// scrollable result grid.
const reservedRows = 3

// visibleRows returns how many result rows currently fit on screen.
func (a *App) visibleRows() int {
	n := a.screenRows - reservedRows
	if n < 1 {
		return 1
	}
	return n
}

// SetScreenSize records the current terminal dimensions, used to keep
// the selected cell within the scrolled window.
func (a *App) SetScreenSize(cols, rows int) {
	a.screenCols = cols
	a.screenRows = rows
}

// NewApp wires every collaborator together and installs the default
// key bindings. Callers load data sources afterward via LoadSource.
func NewApp(settings config.Settings) *App {
	a := &App{
		Settings:        settings,
		Manager:         buffer.NewManager(),
		caseInsensitive: true,
	}
	a.State = appstate.NewContainer(cacheCapacity(settings))
	debug := appstate.NewDebugService(1000)
	a.State.AttachDebugService(debug)

	a.Keys = keys.NewDispatcher(func(key, action string) {
		a.State.LogKeyPress(key, action)
	})
	defaultBindings(a.Keys)

	a.Clip = clipboard.New()
	a.search = newSearchWidgets(a)

	if settings.HistoryFile != "" {
		if err := a.State.LoadHistory(settings.HistoryFile, settings.MaxHistoryLen); err != nil {
			a.setStatus("history: %v", err)
		}
	}
	return a
}

// Shutdown persists the command history file. Called once as the
// event loop exits.
func (a *App) Shutdown() error {
	if a.Settings.HistoryFile == "" {
		return nil
	}
	return a.State.SaveHistory(a.Settings.HistoryFile)
}

func cacheCapacity(s config.Settings) int {
	if s.CacheSizeLimitMB <= 0 {
		return 100
	}
	return s.CacheSizeLimitMB
}

// newSearchWidgets builds the four shared search-mode widgets, one per
// flavor, each wired to mutate the current buffer's matching view
// transform field on debounce/apply.
func newSearchWidgets(a *App) map[searchmodes.Flavor]*searchmodes.Widget {
	delay := 120 * time.Millisecond
	widgets := make(map[searchmodes.Flavor]*searchmodes.Widget, 4)

	widgets[searchmodes.SearchFlavor] = searchmodes.NewWidget(searchmodes.SearchFlavor, delay, func(pattern string) {
		a.applySearch(pattern)
	})
	widgets[searchmodes.FilterFlavor] = searchmodes.NewWidget(searchmodes.FilterFlavor, delay, func(pattern string) {
		if b := a.Manager.Current(); b != nil {
			b.FilterPattern = pattern
		}
	})
	widgets[searchmodes.FuzzyFilterFlavor] = searchmodes.NewWidget(searchmodes.FuzzyFilterFlavor, delay, func(pattern string) {
		if b := a.Manager.Current(); b != nil {
			b.FuzzyPattern = pattern
		}
	})
	widgets[searchmodes.ColumnSearchFlavor] = searchmodes.NewWidget(searchmodes.ColumnSearchFlavor, delay, func(pattern string) {
		a.applyColumnSearch(pattern)
	})
	return widgets
}

// LoadSource loads path (a file or, with isDirectory, a directory of
// files) into a new buffer, appends it to the manager, and switches to
// it. Per the CLI entry contract, single-file mode seeds the buffer's
// input with a default SELECT * query and auto-executes it when the
// setting calls for that.
func (a *App) LoadSource(path string, isDirectory bool) error {
	opts := dataload.DefaultOptions()
	opts.IsDirectory = isDirectory
	opts.IngestTimezoneOverride = a.Settings.DefaultIngestTimezone
	if isDirectory {
		opts.MaxFiles = a.Settings.MaxDirectoryFiles
	}

	name, tbl, err := dataload.Load(path, opts)
	if err != nil {
		return fmt.Errorf("tui: loading %s: %w", path, err)
	}

	tableName := sanitizeTableName(name)
	b := buffer.New(tableName, tbl.Columns, tbl)
	b.Text = fmt.Sprintf("SELECT * FROM %s", tableName)
	b.Cursor = len(b.Text)
	if idx := dataload.DetectTimestampColumn(tbl.Columns); idx >= 0 {
		if a.Settings.PinTimestampColumn {
			b.PinColumn(tbl.Columns[idx])
		}
		if a.Settings.SortByTime {
			b.SortColumn = tbl.Columns[idx]
			b.SortDescending = a.Settings.SortDescending
		}
	}
	a.Manager.Add(b)

	if a.Settings.AutoExecuteOnLoad {
		a.executeCurrentQuery()
	}
	return nil
}

// sanitizeTableName derives a SQL-safe table identifier from a file
// stem (the name without a .gz/.bz2/.xz suffix and its last extension):
// every character outside [A-Za-z0-9_] becomes an underscore.
func sanitizeTableName(name string) string {
	stem := name
	for _, ext := range []string{".gz", ".bz2", ".xz"} {
		if len(stem) > len(ext) && stem[len(stem)-len(ext):] == ext {
			stem = stem[:len(stem)-len(ext)]
			break
		}
	}
	for i := len(stem) - 1; i >= 0; i-- {
		if stem[i] == '.' {
			stem = stem[:i]
			break
		}
	}
	out := make([]byte, len(stem))
	for i := 0; i < len(stem); i++ {
		c := stem[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// currentMode returns the active mode's String() form, the key
// keys.Dispatcher binds actions under.
func (a *App) currentMode() string {
	return a.State.Modes.Current().String()
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
}

// HandleKey normalizes a tcell key event, dispatches it to an action
// name, and runs that action. Returns false once the app has decided
// to quit.
func (a *App) HandleKey(ev *tcell.EventKey, now time.Time) bool {
	k := normalizeKey(ev)
	if k != "Escape" {
		a.quitConfirm = false
	}
	resultsMode := a.State.Modes.Current() == appstate.Results
	action := a.Keys.Dispatch(a.currentMode(), k, now, resultsMode, a.cellSelection)
	if action == "chord.pending" {
		return !a.quit
	}
	a.run(action, ev)
	return !a.quit
}

// Tick runs once per event-loop iteration before polling for the next
// key: it lets any settled search-mode debounce fire.
func (a *App) Tick() {
	for _, w := range a.search {
		w.Poll()
	}
}

package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tablescope/tablescope/internal/appstate"
	"github.com/tablescope/tablescope/internal/buffer"
	"github.com/tablescope/tablescope/internal/config"
	"github.com/tablescope/tablescope/internal/table"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	s := config.Default()
	s.HistoryFile = ""
	a := NewApp(s)

	cols := []string{"level", "count"}
	rows := []table.Row{
		{Values: []table.Value{table.Str("info"), table.Int(3)}},
		{Values: []table.Value{table.Str("error"), table.Int(1)}},
		{Values: []table.Value{table.Str("warn"), table.Int(2)}},
	}
	b := buffer.New("events", cols, table.New(cols, rows))
	a.Manager.Add(b)
	return a
}

func sendKey(a *App, ev *tcell.EventKey) bool {
	return a.HandleKey(ev, time.Now())
}

func TestSanitizeTableName(t *testing.T) {
	cases := map[string]string{
		"events.csv":     "events",
		"my report.json": "my_report",
		"a-b.c.csv.gz":   "a_b_c",
	}
	for in, want := range cases {
		if got := sanitizeTableName(in); got != want {
			t.Fatalf("sanitizeTableName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExecuteCurrentQueryTransitionsToResults(t *testing.T) {
	a := newTestApp(t)
	b := a.Manager.Current()
	b.Text = "SELECT * FROM events WHERE count > 1 ORDER BY count DESC"
	b.Cursor = len(b.Text)

	a.executeCurrentQuery()

	if a.State.Modes.Base() != appstate.Results {
		t.Fatalf("Base = %v, want Results", a.State.Modes.Base())
	}
	if b.Result == nil || b.Result.NumRows() != 2 {
		t.Fatalf("Result = %+v", b.Result)
	}
}

func TestExecuteCurrentQueryCachesSecondRun(t *testing.T) {
	a := newTestApp(t)
	b := a.Manager.Current()
	b.Text = "SELECT * FROM events"
	b.Cursor = len(b.Text)

	a.executeCurrentQuery()
	first := b.Result

	b.Text = "SELECT   *   FROM   events"
	b.Cursor = len(b.Text)
	a.executeCurrentQuery()

	if b.Result != first {
		t.Fatalf("second run with equivalent whitespace should hit the cache and reuse the same table")
	}
}

func TestHandleKeyTypingBuildsUpQuery(t *testing.T) {
	a := newTestApp(t)
	for _, r := range "SELECT" {
		sendKey(a, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	if a.Manager.Current().Text != "SELECT" {
		t.Fatalf("Text = %q", a.Manager.Current().Text)
	}
}

func TestResultsCursorDownEntersResultsMode(t *testing.T) {
	a := newTestApp(t)
	b := a.Manager.Current()
	b.Text = "SELECT * FROM events"
	b.Cursor = len(b.Text)
	a.executeCurrentQuery()

	sendKey(a, tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	if a.currentMode() != "Results" {
		t.Fatalf("mode = %s, want Results", a.currentMode())
	}
	if b.SelectedRow != 1 {
		t.Fatalf("SelectedRow = %d, want 1", b.SelectedRow)
	}
}

func TestColumnPinAndSort(t *testing.T) {
	a := newTestApp(t)
	b := a.Manager.Current()
	b.Text = "SELECT * FROM events"
	b.Cursor = len(b.Text)
	a.executeCurrentQuery()

	sendKey(a, tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone))
	if len(b.PinnedColumns) != 1 {
		t.Fatalf("PinnedColumns = %v", b.PinnedColumns)
	}

	sendKey(a, tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	if b.SortColumn == "" {
		t.Fatalf("expected a sort column to be set")
	}
}

func TestQuitRequiresTwoEscapes(t *testing.T) {
	a := newTestApp(t)
	if !sendKey(a, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("first Escape should not quit")
	}
	if sendKey(a, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("second Escape should quit")
	}
	if !a.quit {
		t.Fatalf("expected App.quit to be true")
	}
}

func TestColonCommandExit(t *testing.T) {
	a := newTestApp(t)
	b := a.Manager.Current()
	b.Text = ":exit"
	b.Cursor = len(b.Text)
	a.executeCurrentQuery()
	if !a.quit {
		t.Fatalf("expected :exit to set quit")
	}
}

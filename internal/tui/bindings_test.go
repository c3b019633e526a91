package tui

import (
	"testing"
	"time"

	"github.com/tablescope/tablescope/internal/keys"
)

func TestDefaultBindingsResolveCoreActions(t *testing.T) {
	d := keys.NewDispatcher(nil)
	defaultBindings(d)

	cases := []struct {
		mode   string
		key    keys.Key
		action string
	}{
		{"Command", "Enter", "command.execute"},
		{"Command", "Ctrl+R", "mode.enter.history"},
		{"Results", "p", "results.pin.current"},
		{"Results", "/", "mode.enter.search"},
		{"Search", "Enter", "searchmode.apply"},
		{"Help", "Escape", "mode.exit"},
		{"ColumnStats", "Left", "columnstats.prev"},
	}
	now := time.Now()
	for _, c := range cases {
		got := d.Dispatch(c.mode, c.key, now, c.mode == "Results", false)
		if got != c.action {
			t.Fatalf("Dispatch(%s, %s) = %q, want %q", c.mode, c.key, got, c.action)
		}
	}
}

func TestResultsYankChordRequiresTwoKeys(t *testing.T) {
	d := keys.NewDispatcher(nil)
	defaultBindings(d)

	now := time.Now()
	if got := d.Dispatch("Results", "y", now, true, false); got != "chord.pending" {
		t.Fatalf("first y = %q, want chord.pending", got)
	}
	if got := d.Dispatch("Results", "y", now, true, false); got != "yank.row" {
		t.Fatalf("yy = %q, want yank.row", got)
	}
}

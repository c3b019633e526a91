package keys

import (
	"testing"
	"time"
)

func TestNormalizeAlias(t *testing.T) {
	if got := Normalize("Alt+Up"); got != "Ctrl+P" {
		t.Fatalf("Normalize(Alt+Up) = %q, want Ctrl+P", got)
	}
	if got := Normalize("a"); got != "a" {
		t.Fatalf("Normalize(a) = %q, want a", got)
	}
}

func TestDispatchLooksUpBoundMode(t *testing.T) {
	var logged []string
	d := NewDispatcher(func(key, action string) { logged = append(logged, key+"="+action) })
	d.Bind("Command", Map{"Enter": "execute", "Ctrl+R": "history"})

	action := d.Dispatch("Command", "Enter", time.Now(), false, false)
	if action != "execute" {
		t.Fatalf("action = %q, want execute", action)
	}
	if len(logged) != 1 || logged[0] != "Enter=execute" {
		t.Fatalf("logged = %v", logged)
	}
}

func TestDispatchUnboundModeReturnsEmpty(t *testing.T) {
	d := NewDispatcher(nil)
	if action := d.Dispatch("Help", "q", time.Now(), false, false); action != "" {
		t.Fatalf("action = %q, want empty", action)
	}
}

func TestChordCompletesWithinWindow(t *testing.T) {
	d := NewDispatcher(nil)
	now := time.Now()
	if action := d.Dispatch("Results", "y", now, true, false); action != "chord.pending" {
		t.Fatalf("first y action = %q, want chord.pending", action)
	}
	action := d.Dispatch("Results", "y", now.Add(10*time.Millisecond), true, false)
	if action != "yank.row" {
		t.Fatalf("yy action = %q, want yank.row", action)
	}
}

func TestChordVariants(t *testing.T) {
	cases := []struct {
		second Key
		want   string
	}{
		{"c", "yank.column"},
		{"a", "yank.all"},
		{"v", "yank.cell"},
	}
	for _, tc := range cases {
		d := NewDispatcher(nil)
		now := time.Now()
		d.Dispatch("Results", "y", now, true, false)
		action := d.Dispatch("Results", tc.second, now.Add(5*time.Millisecond), true, false)
		if action != tc.want {
			t.Fatalf("y%s action = %q, want %q", tc.second, action, tc.want)
		}
	}
}

func TestChordExpiresAfterGraceWindow(t *testing.T) {
	d := NewDispatcher(nil)
	d.Bind("Results", Map{"c": "some.other.action"})
	now := time.Now()
	d.Dispatch("Results", "y", now, true, false)
	action := d.Dispatch("Results", "c", now.Add(chordGraceWindow+time.Millisecond), true, false)
	if action != "some.other.action" {
		t.Fatalf("expired chord action = %q, want fallthrough to bound map", action)
	}
}

func TestChordSuppressedInCellSelection(t *testing.T) {
	d := NewDispatcher(nil)
	d.Bind("Results", Map{"y": "yank.cell.direct"})
	action := d.Dispatch("Results", "y", time.Now(), true, true)
	if action != "yank.cell.direct" {
		t.Fatalf("action = %q, want yank.cell.direct (chords suppressed in cell selection)", action)
	}
}

func TestChordOnlyAppliesInResultsMode(t *testing.T) {
	d := NewDispatcher(nil)
	d.Bind("Command", Map{"y": "some.command.action"})
	action := d.Dispatch("Command", "y", time.Now(), false, false)
	if action != "some.command.action" {
		t.Fatalf("action = %q, want some.command.action", action)
	}
}

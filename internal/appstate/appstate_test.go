package appstate

import (
	"path/filepath"
	"testing"

	"github.com/tablescope/tablescope/internal/table"
)

func TestModeStackBaseInvariant(t *testing.T) {
	s := NewModeStack()
	s.Enter(Search)
	s.Enter(Help)
	if s.Current() != Help {
		t.Fatalf("Current = %v, want Help", s.Current())
	}
	if s.Base() != Command {
		t.Fatalf("Base = %v, want Command", s.Base())
	}
	s.Exit()
	if s.Current() != Search {
		t.Fatalf("Current after Exit = %v, want Search", s.Current())
	}
}

func TestModeStackExitRefusesToPopBase(t *testing.T) {
	s := NewModeStack()
	if _, ok := s.Exit(); ok {
		t.Fatalf("Exit should refuse to pop the base mode")
	}
	if s.Current() != Command {
		t.Fatalf("Current = %v, want Command", s.Current())
	}
}

func TestCacheEvictsOldestOnFull(t *testing.T) {
	c := NewCache(2)
	t1 := table.New([]string{"a"}, nil)
	t2 := table.New([]string{"a"}, nil)
	t3 := table.New([]string{"a"}, nil)
	c.Store("k1", "q1", "t", t1)
	c.Store("k2", "q2", "t", t2)
	c.Store("k3", "q3", "t", t3)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("k1"); ok {
		t.Fatalf("k1 should have been evicted")
	}
	if _, ok := c.Get("k3"); !ok {
		t.Fatalf("k3 should still be cached")
	}
}

func TestCacheGetRefreshesLRU(t *testing.T) {
	c := NewCache(2)
	c.Store("k1", "q1", "t", table.New(nil, nil))
	c.Store("k2", "q2", "t", table.New(nil, nil))
	c.Get("k1") // k1 is now most-recently-used
	c.Store("k3", "q3", "t", table.New(nil, nil))
	if _, ok := c.Get("k2"); ok {
		t.Fatalf("k2 should have been evicted (it was least recently used)")
	}
	if _, ok := c.Get("k1"); !ok {
		t.Fatalf("k1 should still be cached")
	}
}

func TestFingerprintIncludesTableName(t *testing.T) {
	a := Fingerprint("SELECT * FROM t", "logs")
	b := Fingerprint("SELECT * FROM t", "events")
	if a == b {
		t.Fatalf("fingerprints should differ when table name differs")
	}
}

func TestCacheListAndDelete(t *testing.T) {
	c := NewCache(4)
	c.Store("k1", "SELECT * FROM t", "t", table.New([]string{"a"}, nil))
	c.Store("k2", "SELECT a FROM t", "t", table.New([]string{"a"}, nil))

	entries := c.List()
	if len(entries) != 2 {
		t.Fatalf("List = %v, want 2 entries", entries)
	}
	if entries[0].Key != "k2" {
		t.Fatalf("List[0].Key = %q, want k2 (most recently used)", entries[0].Key)
	}

	c.Delete("k2")
	if _, ok := c.Get("k2"); ok {
		t.Fatalf("k2 should be gone after Delete")
	}
	if len(c.List()) != 1 {
		t.Fatalf("List after Delete = %v", c.List())
	}
}

func TestCommandHistoryRecordSaveLoadRoundTrip(t *testing.T) {
	c := NewContainer(10)
	c.RecordCommand("SELECT * FROM t")
	c.RecordCommand("SELECT a FROM t")
	c.RecordCommand("SELECT a FROM t") // immediate repeat, deduplicated

	path := filepath.Join(t.TempDir(), "history")
	if err := c.SaveHistory(path); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}

	c2 := NewContainer(10)
	if err := c2.LoadHistory(path, 10); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	got := c2.CommandHistory()
	want := []string{"SELECT * FROM t", "SELECT a FROM t"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("CommandHistory = %v, want %v", got, want)
	}
}

func TestLoadHistoryMissingFileIsNotError(t *testing.T) {
	c := NewContainer(10)
	if err := c.LoadHistory(filepath.Join(t.TempDir(), "missing"), 10); err != nil {
		t.Fatalf("LoadHistory on missing file: %v", err)
	}
	if len(c.CommandHistory()) != 0 {
		t.Fatalf("expected empty history")
	}
}

func TestHistorySearchAcceptAndCancel(t *testing.T) {
	var h HistorySearch
	h.Start("original text", []string{"SELECT a FROM t", "SELECT b FROM t"})
	h.SetQuery("a")
	if len(h.Matches()) != 1 {
		t.Fatalf("Matches = %v", h.Matches())
	}
	if cmd := h.Cancel(); cmd != "original text" {
		t.Fatalf("Cancel = %q, want original text", cmd)
	}

	h.Start("original text", []string{"SELECT a FROM t"})
	h.SetQuery("a")
	cmd, ok := h.Accept()
	if !ok || cmd != "SELECT a FROM t" {
		t.Fatalf("Accept = %q/%v", cmd, ok)
	}
}

package buffer

import "testing"

func TestInsertAndUndoRedo(t *testing.T) {
	b := New("t", nil, nil)
	b.Insert("SELECT")
	if b.Text != "SELECT" || b.Cursor != 6 {
		t.Fatalf("Text/Cursor = %q/%d", b.Text, b.Cursor)
	}
	b.Insert(" * FROM t")
	if !b.Undo() {
		t.Fatalf("Undo returned false")
	}
	if b.Text != "SELECT" {
		t.Fatalf("after Undo Text = %q, want SELECT", b.Text)
	}
	if !b.Redo() {
		t.Fatalf("Redo returned false")
	}
	if b.Text != "SELECT * FROM t" {
		t.Fatalf("after Redo Text = %q", b.Text)
	}
}

func TestRedoStackClearedOnNewEditAfterUndo(t *testing.T) {
	b := New("t", nil, nil)
	b.Insert("a")
	b.Insert("b")
	b.Undo()
	b.Insert("c")
	if b.Redo() {
		t.Fatalf("Redo should fail: new edit after undo must clear redo stack")
	}
}

func TestKillLineAndYank(t *testing.T) {
	b := New("t", nil, nil)
	b.Insert("hello world")
	b.Cursor = 5
	b.KillLine()
	if b.Text != "hello" {
		t.Fatalf("Text = %q, want hello", b.Text)
	}
	b.Yank()
	if b.Text != "hello world" {
		t.Fatalf("Text after Yank = %q", b.Text)
	}
}

func TestExpandAsterisk(t *testing.T) {
	b := New("t", []string{"a", "b", "c"}, nil)
	b.Insert("SELECT * FROM t")
	if !b.ExpandAsterisk() {
		t.Fatalf("ExpandAsterisk returned false")
	}
	want := "SELECT a, b, c FROM t"
	if b.Text != want {
		t.Fatalf("Text = %q, want %q", b.Text, want)
	}
}

func TestPinColumnRefusesFifth(t *testing.T) {
	b := New("t", nil, nil)
	for _, c := range []string{"a", "b", "c", "d"} {
		if !b.PinColumn(c) {
			t.Fatalf("PinColumn(%q) failed", c)
		}
	}
	if b.PinColumn("e") {
		t.Fatalf("expected fifth pin to be refused")
	}
	if len(b.PinnedColumns) != 4 {
		t.Fatalf("PinnedColumns = %v", b.PinnedColumns)
	}
}

func TestManagerCloseRefusesLast(t *testing.T) {
	m := NewManager()
	m.Add(New("only", nil, nil))
	if err := m.Close(0); err == nil {
		t.Fatalf("expected error closing the last buffer")
	}
}

func TestManagerQuickSwitch(t *testing.T) {
	m := NewManager()
	m.Add(New("a", nil, nil))
	m.Add(New("b", nil, nil))
	m.Add(New("c", nil, nil))
	if m.Current().Name != "c" {
		t.Fatalf("Current = %q, want c", m.Current().Name)
	}
	if err := m.QuickSwitch(); err != nil {
		t.Fatalf("QuickSwitch: %v", err)
	}
	if m.Current().Name != "b" {
		t.Fatalf("Current after QuickSwitch = %q, want b", m.Current().Name)
	}
	if err := m.QuickSwitch(); err != nil {
		t.Fatalf("QuickSwitch: %v", err)
	}
	if m.Current().Name != "c" {
		t.Fatalf("Current after second QuickSwitch = %q, want c", m.Current().Name)
	}
}

func TestManagerNextWraps(t *testing.T) {
	m := NewManager()
	m.Add(New("a", nil, nil))
	m.Add(New("b", nil, nil))
	if err := m.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if m.Current().Name != "a" {
		t.Fatalf("Current = %q, want a (wrapped)", m.Current().Name)
	}
}

func TestSetResultResetsScrollAndSelection(t *testing.T) {
	b := New("t", []string{"a"}, nil)
	b.Scroll.RowTop = 5
	b.SelectedRow = 3
	b.FuzzyPattern = "xyz"

	b.SetResult(nil, "SELECT * FROM t")
	if b.Scroll.RowTop != 0 || b.SelectedRow != 0 {
		t.Fatalf("scroll/selection not reset: %+v / %d", b.Scroll, b.SelectedRow)
	}
	if b.LastExecutedQuery != "SELECT * FROM t" {
		t.Fatalf("LastExecutedQuery = %q", b.LastExecutedQuery)
	}
}

func TestViewConfigReflectsBufferFields(t *testing.T) {
	b := New("t", []string{"a"}, nil)
	b.FilterPattern = "err"
	b.SortColumn = "a"
	b.SortDescending = true
	b.PinnedColumns = []string{"a"}

	cfg := b.ViewConfig()
	if cfg.FilterPattern != "err" || cfg.SortColumn != "a" || !cfg.SortDescending {
		t.Fatalf("ViewConfig = %+v", cfg)
	}
	if len(cfg.PinnedColumns) != 1 || cfg.PinnedColumns[0] != "a" {
		t.Fatalf("PinnedColumns = %v", cfg.PinnedColumns)
	}
}

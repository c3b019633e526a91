package table

import "testing"

func sampleTable() *Table {
	cols := []string{"level", "count"}
	rows := []Row{
		{BaseIndex: 0, Values: []Value{Str("info"), Int(3)}},
		{BaseIndex: 1, Values: []Value{Str("error"), Int(1)}},
		{BaseIndex: 2, Values: []Value{Str("info"), Int(7)}},
	}
	return New(cols, rows)
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int float equal", Int(3), Float(3.0), true},
		{"string mismatch", Str("a"), Str("b"), false},
		{"null not equal to null-typed float", Null(), Float(0), false},
		{"null equal to null", Null(), Null(), true},
		{"float epsilon", Float(1.0000000001), Float(1.0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFilterTransform(t *testing.T) {
	tbl := sampleTable()
	filtered := NewFilter("level=info", func(tb *Table, i int) bool {
		v, _ := tb.Cell(i, "level")
		return v.String() == "info"
	}).Apply(tbl)

	if filtered.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", filtered.NumRows())
	}
	if tbl.NumRows() != 3 {
		t.Fatalf("base table mutated: NumRows = %d, want 3", tbl.NumRows())
	}
}

func TestSortTransform(t *testing.T) {
	tbl := sampleTable()
	sorted := NewSort(SortKey{Column: "count", Descending: true}).Apply(tbl)
	v, _ := sorted.Cell(0, "count")
	if v.Int != 7 {
		t.Fatalf("Cell(0, count) = %v, want 7", v)
	}
}

func TestPinMovesColumnWithoutMutatingBase(t *testing.T) {
	tbl := sampleTable()
	pinned := Pin(tbl, "count")
	if pinned.Columns[0] != "count" {
		t.Fatalf("Columns[0] = %q, want count", pinned.Columns[0])
	}
	if tbl.Columns[0] != "level" {
		t.Fatalf("base table column order mutated: %v", tbl.Columns)
	}
}

func TestCompareNullOrdering(t *testing.T) {
	if c := Int(5).Compare(Null()); c >= 0 {
		t.Fatalf("Int(5).Compare(Null()) = %d, want negative (non-null sorts before null)", c)
	}
	if c := Null().Compare(Int(5)); c <= 0 {
		t.Fatalf("Null().Compare(Int(5)) = %d, want positive (null sorts after non-null)", c)
	}
	if c := Null().Compare(Null()); c != 0 {
		t.Fatalf("Null().Compare(Null()) = %d, want 0", c)
	}
}

func TestSortTransformNullsLastAscending(t *testing.T) {
	tbl := New([]string{"count"}, []Row{
		{BaseIndex: 0, Values: []Value{Int(3)}},
		{BaseIndex: 1, Values: []Value{Null()}},
		{BaseIndex: 2, Values: []Value{Int(1)}},
	})
	sorted := NewSort(SortKey{Column: "count"}).Apply(tbl)
	last, _ := sorted.Cell(2, "count")
	if !last.IsNull() {
		t.Fatalf("Cell(2, count) = %v, want null sorting last ascending", last)
	}
}

func TestColumnStats(t *testing.T) {
	tbl := sampleTable()
	stats := tbl.ColumnStats(tbl.ColumnIndex("count"))
	if stats.Distinct != 3 {
		t.Fatalf("Distinct = %d, want 3", stats.Distinct)
	}
	if stats.Min.Int != 1 || stats.Max.Int != 7 {
		t.Fatalf("Min/Max = %v/%v, want 1/7", stats.Min, stats.Max)
	}
}

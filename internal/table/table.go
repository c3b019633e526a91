package table

import (
	"fmt"

	"github.com/google/uuid"
)

// Row is one record of a Table: a fixed-width slice of Values aligned to
// the owning Table's Columns, plus the index it held in the base table
// (preserved across every view Transform so the renderer can still
// report "row 482 of 10000" after filtering).
type Row struct {
	BaseIndex int
	Values    []Value
}

// Table is an immutable columnar result set. Every view Transform
// produces a new Table that shares the underlying Rows slice of its
// parent rather than copying cell data, and differs only in which row
// indices are visible and in what order.
type Table struct {
	ID      string
	Columns []string
	rows    []Row
	order   []int // indices into rows, in display order
	colIdx  map[string]int
}

// New builds a base Table from freshly-loaded columns and rows. order
// is initialized to identity (row i displays at position i).
func New(columns []string, rows []Row) *Table {
	colIdx := make(map[string]int, len(columns))
	for i, c := range columns {
		colIdx[c] = i
	}
	order := make([]int, len(rows))
	for i := range rows {
		order[i] = i
	}
	return &Table{
		ID:      uuid.NewString(),
		Columns: columns,
		rows:    rows,
		order:   order,
		colIdx:  colIdx,
	}
}

// deriveWithOrder returns a new Table sharing this Table's row storage
// but with a different display order (used by every view Transform).
func (t *Table) deriveWithOrder(order []int) *Table {
	return &Table{
		ID:      uuid.NewString(),
		Columns: t.Columns,
		rows:    t.rows,
		order:   order,
		colIdx:  t.colIdx,
	}
}

// NumRows returns the number of rows currently visible (post-transform).
func (t *Table) NumRows() int { return len(t.order) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.Columns) }

// ColumnIndex returns the position of name in Columns, case-sensitive,
// or -1 if the column does not exist.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.colIdx[name]; ok {
		return i
	}
	return -1
}

// RowAt returns the row displayed at visible position i (0-based).
func (t *Table) RowAt(i int) Row {
	return t.rows[t.order[i]]
}

// BaseRowCount returns the number of rows in the underlying storage,
// independent of any filter/search view currently applied.
func (t *Table) BaseRowCount() int { return len(t.rows) }

// Cell returns the value at visible row i, column name.
func (t *Table) Cell(i int, name string) (Value, error) {
	ci := t.ColumnIndex(name)
	if ci < 0 {
		return Value{}, fmt.Errorf("table: unknown column %q", name)
	}
	return t.RowAt(i).Values[ci], nil
}

// ColumnStats computes min/max/distinct-count for column i over the
// currently visible rows. Supplemented from original_source (see
// SPEC_FULL.md); computed lazily, only when a caller (Debug/ColumnStats
// mode) actually asks.
type ColumnStats struct {
	Column   string
	Distinct int
	Min, Max Value
	HasMin   bool
}

func (t *Table) ColumnStats(i int) ColumnStats {
	stats := ColumnStats{Column: t.Columns[i]}
	seen := make(map[string]struct{})
	for pos := 0; pos < t.NumRows(); pos++ {
		v := t.RowAt(pos).Values[i]
		seen[v.String()] = struct{}{}
		if v.IsNull() {
			continue
		}
		if !stats.HasMin {
			stats.Min, stats.Max = v, v
			stats.HasMin = true
			continue
		}
		if v.Compare(stats.Min) < 0 {
			stats.Min = v
		}
		if v.Compare(stats.Max) > 0 {
			stats.Max = v
		}
	}
	stats.Distinct = len(seen)
	return stats
}

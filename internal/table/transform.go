package table

import "sort"

// Transform derives a new display order from a Table's current one.
// Filter (NewFilter) and sort (NewSort) are the Transforms in this
// package; a Pipeline composes several in sequence, mirroring
// BreachLine's PipelineStage chain (app/query.PipelineStage) without
// ever touching the base rows.
type Transform interface {
	Name() string
	Apply(t *Table) *Table
}

// Pipeline runs a fixed sequence of Transforms over a base Table,
// returning the final derived Table. Stages are applied in the order
// they were passed to NewPipeline.
type Pipeline struct {
	stages []Transform
}

func NewPipeline(stages ...Transform) *Pipeline {
	return &Pipeline{stages: stages}
}

func (p *Pipeline) Run(base *Table) *Table {
	cur := base
	for _, s := range p.stages {
		cur = s.Apply(cur)
	}
	return cur
}

// FilterFunc is a row predicate over a Table's currently visible rows,
// called once per visible row by a filter Transform.
type FilterFunc func(t *Table, visibleIndex int) bool

type filterTransform struct {
	name string
	fn   FilterFunc
}

func NewFilter(name string, fn FilterFunc) Transform {
	return &filterTransform{name: name, fn: fn}
}

func (f *filterTransform) Name() string { return f.name }

func (f *filterTransform) Apply(t *Table) *Table {
	order := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if f.fn(t, i) {
			order = append(order, t.order[i])
		}
	}
	return t.deriveWithOrder(order)
}

// SortKey names a column and direction for a multi-key sort.
type SortKey struct {
	Column     string
	Descending bool
}

type sortTransform struct {
	keys []SortKey
}

func NewSort(keys ...SortKey) Transform {
	return &sortTransform{keys: keys}
}

func (s *sortTransform) Name() string { return "sort" }

func (s *sortTransform) Apply(t *Table) *Table {
	colIdx := make([]int, len(s.keys))
	for i, k := range s.keys {
		colIdx[i] = t.ColumnIndex(k.Column)
	}
	order := make([]int, len(t.order))
	copy(order, t.order)
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := t.rows[order[a]], t.rows[order[b]]
		for i, k := range s.keys {
			ci := colIdx[i]
			if ci < 0 {
				continue
			}
			c := ra.Values[ci].Compare(rb.Values[ci])
			if c == 0 {
				continue
			}
			if k.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return t.deriveWithOrder(order)
}

// Pin moves the named columns to the front of the Table's column list,
// without reordering any other column or any row. Pin returns a new
// Table whose rows are copies with their values laid out in the new
// column order; the input Table is left unchanged.
func Pin(t *Table, names ...string) *Table {
	pinnedSet := make(map[string]bool, len(names))
	newCols := make([]string, 0, len(t.Columns))
	for _, n := range names {
		if t.ColumnIndex(n) < 0 || pinnedSet[n] {
			continue
		}
		pinnedSet[n] = true
		newCols = append(newCols, n)
	}
	for _, c := range t.Columns {
		if !pinnedSet[c] {
			newCols = append(newCols, c)
		}
	}
	remap := make([]int, len(newCols))
	for i, c := range newCols {
		remap[i] = t.ColumnIndex(c)
	}
	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		vals := make([]Value, len(newCols))
		for j, from := range remap {
			vals[j] = r.Values[from]
		}
		rows[i] = Row{BaseIndex: r.BaseIndex, Values: vals}
	}
	order := make([]int, len(t.order))
	copy(order, t.order)
	nt := New(newCols, rows)
	nt.order = order
	return nt
}

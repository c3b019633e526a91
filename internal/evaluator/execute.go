package evaluator

import (
	"fmt"
	"sort"

	"github.com/tablescope/tablescope/internal/sqllang/ast"
	"github.com/tablescope/tablescope/internal/table"
)

// Execute runs a parsed SELECT statement against base and returns the
// resulting table: WHERE filters rows, the select list projects
// columns (or passes every column through for SELECT *), ORDER BY
// sorts, and LIMIT/OFFSET slice the final row set. This generalizes
// BreachLine's QueryExecutor.ExecuteQuery (app/query/integration.go),
// which drives the same filter/sort/limit shape through a
// PipelineStage chain instead of evaluating a parsed AST directly.
func Execute(base *table.Table, stmt *ast.SelectStatement, caseInsensitive bool) (*table.Table, error) {
	columns, colIdx, err := projectedColumns(base.Columns, stmt)
	if err != nil {
		return nil, err
	}

	e := New(base.Columns, caseInsensitive)

	var kept []table.Row
	for i := 0; i < base.NumRows(); i++ {
		row := base.RowAt(i)
		if stmt.Where != nil {
			ok, err := e.Eval(row, stmt.Where)
			if err != nil {
				return nil, fmt.Errorf("evaluator: row %d: %w", i, err)
			}
			if !ok {
				continue
			}
		}
		kept = append(kept, row)
	}

	if len(stmt.OrderBy) > 0 {
		if err := sortRows(kept, base.Columns, stmt.OrderBy); err != nil {
			return nil, err
		}
	}

	kept = applyLimitOffset(kept, stmt.Limit, stmt.Offset)

	rows := make([]table.Row, len(kept))
	for i, r := range kept {
		rows[i] = table.Row{BaseIndex: r.BaseIndex, Values: project(r.Values, colIdx)}
	}

	return table.New(columns, rows), nil
}

// projectedColumns resolves the select list against base's schema,
// returning the projected column names and their indices into a base
// row's Values. SELECT * (Star, or an empty column list) passes every
// base column through unchanged.
func projectedColumns(base []string, stmt *ast.SelectStatement) ([]string, []int, error) {
	if stmt.Star || len(stmt.Columns) == 0 {
		idx := make([]int, len(base))
		for i := range base {
			idx[i] = i
		}
		return append([]string(nil), base...), idx, nil
	}

	index := make(map[string]int, len(base))
	for i, c := range base {
		index[c] = i
	}

	columns := make([]string, 0, len(stmt.Columns))
	colIdx := make([]int, 0, len(stmt.Columns))
	for _, name := range stmt.Columns {
		i, ok := index[name]
		if !ok {
			return nil, nil, &SchemaError{Column: name}
		}
		columns = append(columns, name)
		colIdx = append(colIdx, i)
	}
	return columns, colIdx, nil
}

func project(values []table.Value, colIdx []int) []table.Value {
	out := make([]table.Value, len(colIdx))
	for i, src := range colIdx {
		out[i] = values[src]
	}
	return out
}

// sortRows stably sorts rows by the ORDER BY term list, later terms
// breaking ties left by earlier ones.
func sortRows(rows []table.Row, columns []string, order []ast.OrderTerm) error {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	resolved := make([]struct {
		idx  int
		desc bool
	}, len(order))
	for i, term := range order {
		idx, ok := index[term.Column]
		if !ok {
			return &SchemaError{Column: term.Column}
		}
		resolved[i].idx = idx
		resolved[i].desc = term.Descending
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, term := range resolved {
			cmp := rows[i].Values[term.idx].Compare(rows[j].Values[term.idx])
			if cmp == 0 {
				continue
			}
			if term.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return nil
}

func applyLimitOffset(rows []table.Row, limit, offset *int) []table.Row {
	start := 0
	if offset != nil && *offset > 0 {
		start = *offset
	}
	if start >= len(rows) {
		return nil
	}
	rows = rows[start:]
	if limit != nil && *limit >= 0 && *limit < len(rows) {
		rows = rows[:*limit]
	}
	return rows
}

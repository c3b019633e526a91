package evaluator

import (
	"testing"

	"github.com/tablescope/tablescope/internal/sqllang/parser"
	"github.com/tablescope/tablescope/internal/table"
)

func execTable() *table.Table {
	cols := []string{"name", "age"}
	rows := []table.Row{
		{Values: []table.Value{table.Str("bob"), table.Int(30)}},
		{Values: []table.Value{table.Str("amy"), table.Int(25)}},
		{Values: []table.Value{table.Str("cid"), table.Int(40)}},
	}
	return table.New(cols, rows)
}

func TestExecuteFilterAndProject(t *testing.T) {
	base := execTable()
	stmt, err := parser.Parse(`SELECT name FROM t WHERE age > 27`, parser.WithKnownColumns(base.Columns))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	result, err := Execute(base, stmt, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.NumCols() != 1 || result.Columns[0] != "name" {
		t.Fatalf("Columns = %v", result.Columns)
	}
	if result.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", result.NumRows())
	}
}

func TestExecuteOrderByDescending(t *testing.T) {
	base := execTable()
	stmt, err := parser.Parse(`SELECT * FROM t ORDER BY age DESC`, parser.WithKnownColumns(base.Columns))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	result, err := Execute(base, stmt, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	ageIdx := result.ColumnIndex("age")
	if result.RowAt(0).Values[ageIdx].Int != 40 {
		t.Fatalf("first row age = %d, want 40", result.RowAt(0).Values[ageIdx].Int)
	}
}

func TestExecuteLimitOffset(t *testing.T) {
	base := execTable()
	stmt, err := parser.Parse(`SELECT * FROM t ORDER BY age LIMIT 1 OFFSET 1`, parser.WithKnownColumns(base.Columns))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	result, err := Execute(base, stmt, false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.NumRows() != 1 {
		t.Fatalf("NumRows = %d, want 1", result.NumRows())
	}
	nameIdx := result.ColumnIndex("name")
	if result.RowAt(0).Values[nameIdx].Str != "bob" {
		t.Fatalf("row = %q, want bob", result.RowAt(0).Values[nameIdx].Str)
	}
}

func TestExecuteUnknownProjectedColumnErrors(t *testing.T) {
	base := execTable()
	stmt, err := parser.Parse(`SELECT name FROM t`, parser.WithKnownColumns(base.Columns))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stmt.Columns = []string{"nope"}
	if _, err := Execute(base, stmt, false); err == nil {
		t.Fatalf("expected a SchemaError for an unknown projected column")
	}
}

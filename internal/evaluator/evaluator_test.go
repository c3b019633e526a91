package evaluator

import (
	"testing"

	"github.com/tablescope/tablescope/internal/sqllang/ast"
	"github.com/tablescope/tablescope/internal/sqllang/parser"
	"github.com/tablescope/tablescope/internal/table"
)

func evalWhere(t *testing.T, columns []string, row table.Row, query string, caseInsensitive bool) bool {
	t.Helper()
	stmt, err := parser.Parse(query)
	if err != nil {
		t.Fatalf("Parse(%q): %v", query, err)
	}
	ev := New(columns, caseInsensitive)
	ok, err := ev.Eval(row, stmt.Where)
	if err != nil {
		t.Fatalf("Eval(%q): %v", query, err)
	}
	return ok
}

func TestNumericComparison(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Int(5)}}
	if !evalWhere(t, []string{"n"}, row, `SELECT * FROM t WHERE n > 3`, false) {
		t.Errorf("expected n > 3 to match")
	}
	if evalWhere(t, []string{"n"}, row, `SELECT * FROM t WHERE n > 10`, false) {
		t.Errorf("expected n > 10 to not match")
	}
}

func TestStringComparisonCaseInsensitive(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Str("ERROR")}}
	if !evalWhere(t, []string{"level"}, row, `SELECT * FROM t WHERE level = 'error'`, true) {
		t.Errorf("expected case-insensitive match")
	}
}

func TestLikePattern(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Str("hello world")}}
	if !evalWhere(t, []string{"s"}, row, `SELECT * FROM t WHERE s LIKE '%wor_d%'`, false) {
		t.Errorf("expected LIKE pattern to match")
	}
}

func TestBetweenInclusive(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Int(10)}}
	if !evalWhere(t, []string{"n"}, row, `SELECT * FROM t WHERE n BETWEEN 10 AND 20`, false) {
		t.Errorf("expected inclusive lower bound to match")
	}
}

func TestNotInWithNullIsTrue(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Null()}}
	if !evalWhere(t, []string{"n"}, row, `SELECT * FROM t WHERE n NOT IN (1, 2, 3)`, false) {
		t.Errorf("NULL NOT IN (...) should be true (NULL is never a list member)")
	}
}

func TestEqualityOnNullIsFalse(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Null()}}
	if evalWhere(t, []string{"n"}, row, `SELECT * FROM t WHERE n = NULL`, false) {
		t.Errorf("col = NULL should be false")
	}
}

func TestIsNull(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Null()}}
	if !evalWhere(t, []string{"n"}, row, `SELECT * FROM t WHERE n IS NULL`, false) {
		t.Errorf("IS NULL should be true for a null cell")
	}
}

func TestMethodCallChainContains(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Str("HELLO")}}
	if !evalWhere(t, []string{"s"}, row, `SELECT * FROM t WHERE s.ToLower().Contains('ell')`, false) {
		t.Errorf("expected chained ToLower().Contains() to match")
	}
}

func TestIsNullOrEmptyWhitespaceIsNotEmpty(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Str("   ")}}
	stmt, err := parser.Parse(`SELECT * FROM t WHERE s.IsNullOrEmpty()`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	call, ok := stmt.Where.(*ast.MethodCall)
	if !ok {
		t.Fatalf("Where = %T", stmt.Where)
	}
	ev := New([]string{"s"}, false)
	v, err := ev.evalMethodCall(row, call)
	if err != nil {
		t.Fatalf("evalMethodCall: %v", err)
	}
	if v.Bool {
		t.Errorf("whitespace-only string should not be IsNullOrEmpty")
	}
}

func TestAndShortCircuits(t *testing.T) {
	row := table.Row{Values: []table.Value{table.Int(1), table.Str("x")}}
	// right side references an unknown column; AND must not evaluate it
	// once the left side is already false.
	ev := New([]string{"n", "s"}, false)
	stmt, err := parser.Parse(`SELECT * FROM t WHERE n = 2 AND missing = 1`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ok, err := ev.Eval(row, stmt.Where)
	if err != nil {
		t.Fatalf("expected no error from short-circuited AND, got %v", err)
	}
	if ok {
		t.Errorf("expected false")
	}
}

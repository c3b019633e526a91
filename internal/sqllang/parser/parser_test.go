package parser

import (
	"testing"

	"github.com/tablescope/tablescope/internal/sqllang/ast"
)

func TestParseSimpleSelect(t *testing.T) {
	stmt, err := Parse(`SELECT a, b FROM t WHERE a = 1`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.From != "t" {
		t.Errorf("From = %q", stmt.From)
	}
	if len(stmt.Columns) != 2 || stmt.Columns[0] != "a" || stmt.Columns[1] != "b" {
		t.Errorf("Columns = %v", stmt.Columns)
	}
	cmp, ok := stmt.Where.(*ast.Comparison)
	if !ok {
		t.Fatalf("Where = %T, want *ast.Comparison", stmt.Where)
	}
	if cmp.Op != ast.OpEq {
		t.Errorf("Op = %v, want OpEq", cmp.Op)
	}
}

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !stmt.Star {
		t.Errorf("Star = false, want true")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	// OR < AND < NOT: "a=1 OR b=2 AND NOT c=3" should parse as
	// Or(a=1, And(b=2, Not(c=3))).
	stmt, err := Parse(`SELECT * FROM t WHERE a = 1 OR b = 2 AND NOT c = 3`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	or, ok := stmt.Where.(*ast.Or)
	if !ok {
		t.Fatalf("Where = %T, want *ast.Or", stmt.Where)
	}
	and, ok := or.Right.(*ast.And)
	if !ok {
		t.Fatalf("Or.Right = %T, want *ast.And", or.Right)
	}
	if _, ok := and.Right.(*ast.Not); !ok {
		t.Fatalf("And.Right = %T, want *ast.Not", and.Right)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE (a = 1 OR b = 2) AND c = 3`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	and, ok := stmt.Where.(*ast.And)
	if !ok {
		t.Fatalf("Where = %T, want *ast.And", stmt.Where)
	}
	paren, ok := and.Left.(*ast.Paren)
	if !ok {
		t.Fatalf("And.Left = %T, want *ast.Paren", and.Left)
	}
	if _, ok := paren.Inner.(*ast.Or); !ok {
		t.Fatalf("Paren.Inner = %T, want *ast.Or", paren.Inner)
	}
}

func TestMethodCallChain(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE col.ToLower().Contains('x')`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outer, ok := stmt.Where.(*ast.MethodCall)
	if !ok || outer.Method != "Contains" {
		t.Fatalf("Where = %#v, want outer Contains call", stmt.Where)
	}
	inner, ok := outer.Receiver.(*ast.MethodCall)
	if !ok || inner.Method != "ToLower" {
		t.Fatalf("Receiver = %#v, want inner ToLower call", outer.Receiver)
	}
}

func TestQuotedArgBecomesStringLiteralInMethodCall(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE Country.Contains("USA")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	call, ok := stmt.Where.(*ast.MethodCall)
	if !ok {
		t.Fatalf("Where = %T", stmt.Where)
	}
	if len(call.Args) != 1 {
		t.Fatalf("Args = %v", call.Args)
	}
	lit, ok := call.Args[0].(*ast.Literal)
	if !ok || lit.Kind != ast.LitString || lit.Str != "USA" {
		t.Fatalf("Args[0] = %#v, want string literal USA", call.Args[0])
	}
}

func TestDateTimeNoArgs(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE d = DateTime()`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cmp := stmt.Where.(*ast.Comparison)
	if _, ok := cmp.Right.(*ast.DateTimeCall); !ok {
		t.Fatalf("Right = %T", cmp.Right)
	}
}

func TestDateTimeBadArgCount(t *testing.T) {
	_, err := Parse(`SELECT * FROM t WHERE d = DateTime(2024, 1)`)
	if err == nil {
		t.Fatalf("expected error for DateTime with 2 args")
	}
}

func TestBetween(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE a BETWEEN 1 AND 10`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, ok := stmt.Where.(*ast.Between)
	if !ok {
		t.Fatalf("Where = %T", stmt.Where)
	}
	if b.Negate {
		t.Errorf("Negate = true, want false")
	}
}

func TestNotInList(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE a NOT IN (1, 2, 3)`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in, ok := stmt.Where.(*ast.InList)
	if !ok {
		t.Fatalf("Where = %T", stmt.Where)
	}
	if !in.Negate {
		t.Errorf("Negate = false, want true")
	}
	if len(in.List) != 3 {
		t.Errorf("List = %v", in.List)
	}
}

func TestIsNull(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE a IS NOT NULL`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	isn, ok := stmt.Where.(*ast.IsNull)
	if !ok || !isn.Negate {
		t.Fatalf("Where = %#v", stmt.Where)
	}
}

func TestUnbalancedParenMissingClose(t *testing.T) {
	_, err := Parse(`SELECT * FROM t WHERE (a = 1`)
	if err == nil {
		t.Fatalf("expected error for missing closing paren")
	}
}

func TestUnbalancedParenExtraClose(t *testing.T) {
	_, err := Parse(`SELECT * FROM t WHERE a = 1)`)
	if err == nil {
		t.Fatalf("expected error for extra closing paren")
	}
}

func TestNumericColumnReparsedWithKnownColumns(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t WHERE 202204 = 1`, WithKnownColumns([]string{"202204"}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cmp := stmt.Where.(*ast.Comparison)
	col, ok := cmp.Left.(*ast.Column)
	if !ok || col.Name != "202204" {
		t.Fatalf("Left = %#v, want column 202204", cmp.Left)
	}
}

func TestOrderByWithDirection(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t ORDER BY a DESC, b ASC`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(stmt.OrderBy) != 2 {
		t.Fatalf("OrderBy = %v", stmt.OrderBy)
	}
	if !stmt.OrderBy[0].Descending || stmt.OrderBy[1].Descending {
		t.Fatalf("OrderBy directions = %v", stmt.OrderBy)
	}
}

func TestLimitOffset(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM t LIMIT 10 OFFSET 5`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.Limit == nil || *stmt.Limit != 10 {
		t.Fatalf("Limit = %v", stmt.Limit)
	}
	if stmt.Offset == nil || *stmt.Offset != 5 {
		t.Fatalf("Offset = %v", stmt.Offset)
	}
}

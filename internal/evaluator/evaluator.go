// Package evaluator runs a parsed WHERE expression against table rows.
// One Evaluator is built per query (not per row), carrying the table
// schema and the case-insensitive flag, generalizing BreachLine's
// ExprNode.Eval(row, evalCondition) visitor (app/query/filter_expr.go)
// from boolean-literal-only conditions to typed table.Value comparisons,
// following original_source/sql-cli's recursive_where_evaluator.rs for
// coercion order and method-call semantics.
package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tablescope/tablescope/internal/sqllang/ast"
	"github.com/tablescope/tablescope/internal/table"
)

// Evaluator evaluates a WHERE ast.Expr against rows of a fixed schema.
type Evaluator struct {
	columnIndex   map[string]int
	caseInsensitive bool
}

// New builds an Evaluator over the given column list.
func New(columns []string, caseInsensitive bool) *Evaluator {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Evaluator{columnIndex: idx, caseInsensitive: caseInsensitive}
}

// SchemaError reports a reference to a column absent from the schema
// the Evaluator was built with.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string { return fmt.Sprintf("unknown column %q", e.Column) }

// Eval returns whether row matches expr.
func (e *Evaluator) Eval(row table.Row, expr ast.Expr) (bool, error) {
	switch n := expr.(type) {
	case *ast.And:
		// Short-circuit: AND returns false when left is false without
		// evaluating right.
		left, err := e.Eval(row, n.Left)
		if err != nil {
			return false, err
		}
		if !left {
			return false, nil
		}
		return e.Eval(row, n.Right)

	case *ast.Or:
		left, err := e.Eval(row, n.Left)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return e.Eval(row, n.Right)

	case *ast.Not:
		v, err := e.Eval(row, n.Expr)
		if err != nil {
			return false, err
		}
		return !v, nil

	case *ast.Paren:
		return e.Eval(row, n.Inner)

	case *ast.Comparison:
		return e.evalComparison(row, n)

	case *ast.Between:
		return e.evalBetween(row, n)

	case *ast.InList:
		return e.evalInList(row, n)

	case *ast.IsNull:
		v, err := e.value(row, n.Expr)
		if err != nil {
			return false, err
		}
		isNull := v.IsNull()
		if n.Negate {
			return !isNull, nil
		}
		return isNull, nil

	default:
		// A bare value (e.g. a boolean column or method call used
		// standalone) is truthy when it equals boolean true.
		v, err := e.value(row, expr)
		if err != nil {
			return false, err
		}
		return v.Kind == table.KindBool && v.Bool, nil
	}
}

func (e *Evaluator) evalComparison(row table.Row, n *ast.Comparison) (bool, error) {
	left, err := e.value(row, n.Left)
	if err != nil {
		return false, err
	}
	right, err := e.value(row, n.Right)
	if err != nil {
		return false, err
	}

	if n.Op == ast.OpLike {
		return likeMatch(left.String(), right.String()), nil
	}

	if dt, str, ok := dateTimeOperand(n.Left, n.Right, left, right); ok {
		return compareDateTime(dt, str, n.Op), nil
	}

	// Equality on null is false, regardless of operator, except a pure
	// null == null never arises from user syntax here.
	if left.IsNull() || right.IsNull() {
		return false, nil
	}

	cmp := e.compareValues(left, right)
	switch n.Op {
	case ast.OpEq:
		return cmp == 0, nil
	case ast.OpNeq:
		return cmp != 0, nil
	case ast.OpLt:
		return cmp < 0, nil
	case ast.OpGt:
		return cmp > 0, nil
	case ast.OpLe:
		return cmp <= 0, nil
	case ast.OpGe:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unsupported comparison operator")
	}
}

// compareValues implements the type-coercion rule: if both operands
// parse as finite f64, compare numerically within table.Value.Equal's
// epsilon tolerance; otherwise compare as strings (case-insensitive if
// the flag is set).
func (e *Evaluator) compareValues(a, b table.Value) int {
	if af, aok := asFinite(a); aok {
		if bf, bok := asFinite(b); bok {
			switch {
			case a.Equal(b):
				return 0
			case af < bf:
				return -1
			default:
				return 1
			}
		}
	}
	as, bs := a.String(), b.String()
	if e.caseInsensitive {
		as, bs = strings.ToLower(as), strings.ToLower(bs)
	}
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func asFinite(v table.Value) (float64, bool) {
	switch v.Kind {
	case table.KindInt:
		return float64(v.Int), true
	case table.KindFloat:
		return v.Float, true
	case table.KindString, table.KindInternedString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, false
		}
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return 0, false
	}
}

func (e *Evaluator) evalBetween(row table.Row, n *ast.Between) (bool, error) {
	v, err := e.value(row, n.Expr)
	if err != nil {
		return false, err
	}
	lo, err := e.value(row, n.Low)
	if err != nil {
		return false, err
	}
	hi, err := e.value(row, n.High)
	if err != nil {
		return false, err
	}
	result := e.compareValues(v, lo) >= 0 && e.compareValues(v, hi) <= 0
	if n.Negate {
		return !result, nil
	}
	return result, nil
}

func (e *Evaluator) evalInList(row table.Row, n *ast.InList) (bool, error) {
	v, err := e.value(row, n.Expr)
	if err != nil {
		return false, err
	}
	// NULL is not in any list, so `x NOT IN (...)` is true when x is
	// NULL — SQL three-valued logic deliberately not followed here (see
	// DESIGN.md's recorded Open Question).
	if v.IsNull() {
		return n.Negate, nil
	}
	found := false
	for _, item := range n.List {
		iv, err := e.value(row, item)
		if err != nil {
			return false, err
		}
		if e.compareValues(v, iv) == 0 {
			found = true
			break
		}
	}
	if n.Negate {
		return !found, nil
	}
	return found, nil
}

// value resolves any Expr (column, literal, method call, DateTime call)
// to a concrete table.Value for the given row.
func (e *Evaluator) value(row table.Row, expr ast.Expr) (table.Value, error) {
	switch n := expr.(type) {
	case *ast.Column:
		idx, ok := e.columnIndex[n.Name]
		if !ok {
			return table.Value{}, &SchemaError{Column: n.Name}
		}
		return row.Values[idx], nil

	case *ast.Literal:
		switch n.Kind {
		case ast.LitString:
			return table.Str(n.Str), nil
		case ast.LitNumber:
			if n.IsInt {
				return table.Int(int64(n.Num)), nil
			}
			return table.Float(n.Num), nil
		default:
			return table.Null(), nil
		}

	case *ast.DateTimeCall:
		return e.evalDateTimeCall(row, n)

	case *ast.MethodCall:
		return e.evalMethodCall(row, n)

	case *ast.Paren:
		return e.value(row, n.Inner)

	default:
		return table.Value{}, fmt.Errorf("cannot evaluate %T as a value", expr)
	}
}

func (e *Evaluator) evalDateTimeCall(row table.Row, n *ast.DateTimeCall) (table.Value, error) {
	if len(n.Args) == 0 {
		now := time.Now()
		return table.Time(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)), nil
	}
	nums := make([]int, len(n.Args))
	for i, a := range n.Args {
		v, err := e.value(row, a)
		if err != nil {
			return table.Value{}, err
		}
		switch v.Kind {
		case table.KindInt:
			nums[i] = int(v.Int)
		case table.KindFloat:
			nums[i] = int(v.Float)
		default:
			return table.Value{}, fmt.Errorf("DateTime() argument %d is not numeric", i)
		}
	}
	for len(nums) < 6 {
		nums = append(nums, 0)
	}
	t := time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], nums[4], nums[5], 0, time.UTC)
	return table.Time(t), nil
}

func (e *Evaluator) evalMethodCall(row table.Row, n *ast.MethodCall) (table.Value, error) {
	recv, err := e.value(row, n.Receiver)
	if err != nil {
		return table.Value{}, err
	}
	args := make([]table.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.value(row, a)
		if err != nil {
			return table.Value{}, err
		}
		args[i] = v
	}

	switch n.Method {
	case "Contains":
		return table.Bool(containsFold(recv.String(), argStr(args, 0))), nil
	case "StartsWith":
		return table.Bool(strings.HasPrefix(strings.ToLower(recv.String()), strings.ToLower(argStr(args, 0)))), nil
	case "EndsWith":
		return table.Bool(strings.HasSuffix(strings.ToLower(recv.String()), strings.ToLower(argStr(args, 0)))), nil
	case "Length":
		return table.Int(int64(len(recv.String()))), nil
	case "IndexOf":
		idx := indexOfFold(recv.String(), argStr(args, 0))
		return table.Int(int64(idx)), nil
	case "ToLower":
		return table.Str(strings.ToLower(recv.String())), nil
	case "ToUpper":
		return table.Str(strings.ToUpper(recv.String())), nil
	case "IsNullOrEmpty":
		// whitespace-only is not empty
		return table.Bool(recv.IsNull() || recv.String() == ""), nil
	default:
		return table.Value{}, fmt.Errorf("unknown method %q", n.Method)
	}
}

func argStr(args []table.Value, i int) string {
	if i >= len(args) {
		return ""
	}
	return args[i].String()
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func indexOfFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}

// likeMatch implements SQL LIKE with % (any run) and _ (any single
// character), always case-insensitive.
func likeMatch(s, pattern string) bool {
	s = strings.ToLower(s)
	pattern = strings.ToLower(pattern)
	return likeMatchRunes([]rune(s), []rune(pattern))
}

func likeMatchRunes(s, p []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	switch p[0] {
	case '%':
		if likeMatchRunes(s, p[1:]) {
			return true
		}
		for i := 0; i < len(s); i++ {
			if likeMatchRunes(s[i+1:], p[1:]) {
				return true
			}
		}
		return false
	case '_':
		if len(s) == 0 {
			return false
		}
		return likeMatchRunes(s[1:], p[1:])
	default:
		if len(s) == 0 || s[0] != p[0] {
			return false
		}
		return likeMatchRunes(s[1:], p[1:])
	}
}

// dateTimeOperand reports whether one side is a DateTimeCall and the
// other a string-valued cell, returning the parsed reference time and
// the raw string to parse against it.
func dateTimeOperand(leftExpr, rightExpr ast.Expr, left, right table.Value) (time.Time, string, bool) {
	if _, ok := leftExpr.(*ast.DateTimeCall); ok && left.Kind == table.KindTime {
		if right.Kind == table.KindString || right.Kind == table.KindInternedString {
			return left.Time, right.Str, true
		}
	}
	if _, ok := rightExpr.(*ast.DateTimeCall); ok && right.Kind == table.KindTime {
		if left.Kind == table.KindString || left.Kind == table.KindInternedString {
			return right.Time, left.Str, true
		}
	}
	return time.Time{}, "", false
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCellTime(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		loc := time.UTC
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func compareDateTime(ref time.Time, raw string, op ast.BinOp) bool {
	parsed, ok := parseCellTime(raw)
	if !ok {
		return false
	}
	switch op {
	case ast.OpEq:
		return parsed.Equal(ref)
	case ast.OpNeq:
		return !parsed.Equal(ref)
	case ast.OpLt:
		return parsed.Before(ref)
	case ast.OpGt:
		return parsed.After(ref)
	case ast.OpLe:
		return parsed.Before(ref) || parsed.Equal(ref)
	case ast.OpGe:
		return parsed.After(ref) || parsed.Equal(ref)
	default:
		return false
	}
}

// Package cursorctx classifies the cursor position in an in-progress
// query so the input widget can drive autocomplete. New relative to
// BreachLine (which has no autocomplete), built in its idiom of
// defensive, bounded byte scanning, with rule order resolved against
// original_source/sql-cli's recursive_parser.rs for cases with more
// than one plausible classification.
package cursorctx

import (
	"strings"
	"unicode/utf8"
)

// Kind enumerates the possible cursor contexts.
type Kind uint8

const (
	Unknown Kind = iota
	SelectClause
	FromClause
	WhereClause
	OrderByClause
	AfterColumn
	AfterLogicalOp
	AfterComparisonOp
	InMethodCall
	InExpression
)

// Context is the classifier's result: a Kind plus whatever structured
// detail that Kind carries, and the partial identifier being typed.
type Context struct {
	Kind       Kind
	Column     string // AfterColumn, AfterComparisonOp
	Op         string // AfterComparisonOp, AfterLogicalOp ("AND"/"OR")
	Object     string // InMethodCall
	Method     string // InMethodCall
	Partial    string // partial identifier/word at the cursor, if any
}

var comparisonOps = []string{"<=", ">=", "<>", "!=", "=", "<", ">"}

// Classify returns the cursor context for (query, cursorByte). cursorByte
// is clamped to the nearest rune boundary at or before the requested
// offset, never panicking on a UTF-8 boundary split.
func Classify(query string, cursorByte int) Context {
	if cursorByte > len(query) {
		cursorByte = len(query)
	}
	if cursorByte < 0 {
		cursorByte = 0
	}
	for cursorByte > 0 && cursorByte < len(query) && !utf8.RuneStart(query[cursorByte]) {
		cursorByte--
	}
	truncated := query[:cursorByte]

	// Rule 1: a recent comparison operator whose left side is a bare
	// identifier and whose right side is empty or an incomplete
	// identifier.
	if ctx, ok := afterComparisonOp(truncated); ok {
		return ctx
	}

	// Rule 2: the last '.' in the truncated text is followed only by
	// identifier characters (no '(') and preceded by an identifier or a
	// closing quote — but only when the text does not end with AND/OR.
	if !endsWithLogicalOp(truncated) {
		if ctx, ok := afterColumnDot(truncated); ok {
			return ctx
		}
	}

	// Rule 3: ends with (or contains a recent) AND/OR beyond the cursor.
	if ctx, ok := afterLogicalOp(truncated); ok {
		return ctx
	}

	// Rule 4: the cursor sits inside an unclosed '(' — either a method
	// call's argument list (InMethodCall) or a bare grouping/IN-list
	// expression (InExpression).
	if ctx, ok := inOpenParen(truncated); ok {
		return ctx
	}

	// Rule 5: fall back to clause detection.
	return clauseFallback(truncated)
}

func lastWord(s string) (word string, start int) {
	i := len(s)
	for i > 0 && isWordByte(s[i-1]) {
		i--
	}
	return s[i:], i
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func trimTrailingSpace(s string) string {
	i := len(s)
	for i > 0 && isSpaceByte(s[i-1]) {
		i--
	}
	return s[:i]
}

func isSpaceByte(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// afterComparisonOp detects a recent comparison operator whose left
// side is a bare identifier and whose right side is empty or an
// incomplete identifier.
func afterComparisonOp(s string) (Context, bool) {
	// Case A: cursor sits directly after the operator (possibly with
	// trailing whitespace already typed) — right side is empty.
	if op, left, ok := splitTrailingOp(trimTrailingSpace(s)); ok {
		if col, ok := lastIdentifier(left); ok {
			return Context{Kind: AfterComparisonOp, Column: col, Op: op}, true
		}
	}

	// Case B: cursor sits inside a partial identifier typed right after
	// the operator with no space.
	partial, wstart := lastWord(s)
	if partial != "" {
		if op, left, ok := splitTrailingOp(trimTrailingSpace(s[:wstart])); ok {
			if col, ok := lastIdentifier(left); ok {
				return Context{Kind: AfterComparisonOp, Column: col, Op: op, Partial: partial}, true
			}
		}
	}
	return Context{}, false
}

// splitTrailingOp reports whether s ends with a comparison operator,
// preferring two-character operators over their single-character
// prefixes, and returns the text before that operator.
func splitTrailingOp(s string) (op, left string, ok bool) {
	for _, o := range comparisonOps {
		if strings.HasSuffix(s, o) {
			return o, s[:len(s)-len(o)], true
		}
	}
	return "", "", false
}

func lastIdentifier(s string) (string, bool) {
	word, _ := lastWord(trimTrailingSpace(s))
	if word == "" {
		return "", false
	}
	return word, true
}

func endsWithLogicalOp(s string) bool {
	trimmed := trimTrailingSpace(s)
	upper := strings.ToUpper(trimmed)
	return strings.HasSuffix(upper, " AND") || strings.HasSuffix(upper, " OR") ||
		upper == "AND" || upper == "OR"
}

func afterColumnDot(s string) (Context, bool) {
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		return Context{}, false
	}
	after := s[dot+1:]
	if strings.ContainsAny(after, "( ") {
		return Context{}, false
	}
	before := s[:dot]
	col, ok := columnBeforeDot(before)
	if !ok {
		return Context{}, false
	}
	return Context{Kind: AfterColumn, Column: col, Partial: after}, true
}

// columnBeforeDot extracts the identifier (or quoted identifier)
// immediately preceding a '.', scanning backward for the matching
// opening quote when the identifier ends in a closing quote.
func columnBeforeDot(s string) (string, bool) {
	trimmed := trimTrailingSpace(s)
	if trimmed == "" {
		return "", false
	}
	if trimmed[len(trimmed)-1] == '"' {
		open := strings.LastIndexByte(trimmed[:len(trimmed)-1], '"')
		if open < 0 {
			return "", false
		}
		return trimmed[open+1 : len(trimmed)-1], true
	}
	word, _ := lastWord(trimmed)
	if word == "" {
		return "", false
	}
	return word, true
}

func afterLogicalOp(s string) (Context, bool) {
	upper := strings.ToUpper(s)
	idx := -1
	op := ""
	for _, candidate := range []string{" AND ", " OR "} {
		if i := strings.LastIndex(upper, candidate); i > idx {
			idx = i
			op = strings.TrimSpace(candidate)
		}
	}
	trimmed := trimTrailingSpace(s)
	trimmedUpper := strings.ToUpper(trimmed)
	if strings.HasSuffix(trimmedUpper, " AND") {
		idx = len(trimmed) - 3
		op = "AND"
	} else if strings.HasSuffix(trimmedUpper, " OR") {
		idx = len(trimmed) - 2
		op = "OR"
	}
	if idx < 0 {
		return Context{}, false
	}
	partial := strings.TrimLeft(s[idx+len(op):], " \t")
	if strings.ContainsAny(partial, "()") {
		return Context{}, false
	}
	return Context{Kind: AfterLogicalOp, Op: op, Partial: partial}, true
}

// unmatchedOpenParen returns the byte offset of the innermost '(' in s
// that has no matching ')' before the end of s, or ok=false if every
// paren in s is balanced.
func unmatchedOpenParen(s string) (int, bool) {
	var stack []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 {
		return -1, false
	}
	return stack[len(stack)-1], true
}

// inOpenParen detects a cursor sitting inside an unclosed '(': a method
// call's argument list (`col.Contains(`) classifies as InMethodCall
// with the receiver object and method name; any other unmatched '('
// (a bare grouping or an IN-list) classifies as InExpression. Either
// way the partial word immediately before the cursor, if any, is
// carried as the in-progress argument/operand being typed.
func inOpenParen(s string) (Context, bool) {
	openAt, ok := unmatchedOpenParen(s)
	if !ok {
		return Context{}, false
	}
	before := trimTrailingSpace(s[:openAt])
	args := s[openAt+1:]
	partial, _ := lastWord(trimTrailingSpace(args))

	method, mstart := lastWord(before)
	if method != "" && mstart > 0 && before[mstart-1] == '.' {
		if obj, ok := columnBeforeDot(before[:mstart-1]); ok {
			return Context{Kind: InMethodCall, Object: obj, Method: method, Partial: partial}, true
		}
	}
	return Context{Kind: InExpression, Partial: partial}, true
}

func clauseFallback(s string) Context {
	upper := strings.ToUpper(s)
	type hit struct {
		pos  int
		kind Kind
	}
	best := hit{pos: -1, kind: Unknown}
	for _, c := range []struct {
		tok  string
		kind Kind
	}{
		{"WHERE", WhereClause},
		{"ORDER BY", OrderByClause},
		{"FROM", FromClause},
		{"SELECT", SelectClause},
	} {
		if i := strings.LastIndex(upper, c.tok); i > best.pos {
			best = hit{pos: i, kind: c.kind}
		}
	}
	if best.pos < 0 {
		return Context{Kind: Unknown}
	}
	partial, _ := lastWord(trimTrailingSpace(s))
	return Context{Kind: best.kind, Partial: partial}
}

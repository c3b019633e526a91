// Package parser implements a recursive-descent parser, generalizing
// BreachLine's filter_expr.go
// (FilterExprParser: parseOr -> parseAnd -> parseNot -> parsePrimary,
// precedence by nested calls rather than a table) to a full SELECT
// statement grammar at the scale of ha1tch-tsqlparser's parser/ast
// packages.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tablescope/tablescope/internal/sqllang/ast"
	"github.com/tablescope/tablescope/internal/sqllang/lexer"
)

// Error is the structured parse error: expected vs. actual token and
// the current parenthesis depth.
type Error struct {
	Expected   string
	ActualKind lexer.Kind
	ActualText string
	Pos        int
	ParenDepth int
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at byte %d: expected %s, got %q (paren depth %d)",
		e.Pos, e.Expected, e.ActualText, e.ParenDepth)
}

// Parser consumes a token slice produced by lexer.Lexer.Tokenize.
type Parser struct {
	toks         []lexer.Token
	pos          int
	parenDepth   int
	knownColumns map[string]bool
	inMethodArgs int
}

// Option configures optional parser behavior.
type Option func(*Parser)

// WithKnownColumns supplies the schema's column names. When set, a
// numeric-literal token whose text exactly matches a known column name
// is reparsed as a column reference (supports columns like "202204").
func WithKnownColumns(cols []string) Option {
	return func(p *Parser) {
		p.knownColumns = make(map[string]bool, len(cols))
		for _, c := range cols {
			p.knownColumns[c] = true
		}
	}
}

// Parse tokenizes and parses src into a SelectStatement.
func Parse(src string, opts ...Option) (*ast.SelectStatement, error) {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	for _, o := range opts {
		o(p)
	}
	return p.parseSelect()
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(expected string) error {
	t := p.cur()
	return &Error{Expected: expected, ActualKind: t.Kind, ActualText: t.Text, Pos: t.Start, ParenDepth: p.parenDepth}
}

func (p *Parser) expect(k lexer.Kind, expected string) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, p.errorf(expected)
	}
	return p.advance(), nil
}

func (p *Parser) parseSelect() (*ast.SelectStatement, error) {
	if _, err := p.expect(lexer.Select, "SELECT"); err != nil {
		return nil, err
	}
	stmt := &ast.SelectStatement{}

	if p.cur().Kind == lexer.Star {
		p.advance()
		stmt.Star = true
	} else {
		for {
			name, quoted, err := p.parseColumnName()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, name)
			_ = quoted
			if p.cur().Kind != lexer.Comma {
				break
			}
			p.advance()
		}
	}

	if p.cur().Kind == lexer.From {
		p.advance()
		name, _, err := p.parseColumnName()
		if err != nil {
			return nil, p.errorf("table name")
		}
		stmt.From = name
	}

	if p.cur().Kind == lexer.Where {
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	if p.cur().Kind == lexer.OrderBy {
		p.advance()
		for {
			name, _, err := p.parseColumnName()
			if err != nil {
				return nil, err
			}
			term := ast.OrderTerm{Column: name}
			if p.cur().Kind == lexer.Asc {
				p.advance()
			} else if p.cur().Kind == lexer.Desc {
				p.advance()
				term.Descending = true
			}
			stmt.OrderBy = append(stmt.OrderBy, term)
			if p.cur().Kind != lexer.Comma {
				break
			}
			p.advance()
		}
	}

	if p.cur().Kind == lexer.GroupBy {
		p.advance()
		for {
			name, _, err := p.parseColumnName()
			if err != nil {
				return nil, err
			}
			stmt.GroupBy = append(stmt.GroupBy, name)
			if p.cur().Kind != lexer.Comma {
				break
			}
			p.advance()
		}
	}

	if p.cur().Kind == lexer.Limit {
		p.advance()
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Limit = &n
	}

	if p.cur().Kind == lexer.Offset {
		p.advance()
		n, err := p.parseIntLiteral()
		if err != nil {
			return nil, err
		}
		stmt.Offset = &n
	}

	if p.cur().Kind == lexer.RParen {
		return nil, fmt.Errorf("extra closing parenthesis at byte %d", p.cur().Start)
	}
	if p.cur().Kind != lexer.EOF {
		return nil, p.errorf("end of query")
	}
	if p.parenDepth > 0 {
		return nil, fmt.Errorf("missing %d closing parentheses", p.parenDepth)
	}
	return stmt, nil
}

func (p *Parser) parseIntLiteral() (int, error) {
	t, err := p.expect(lexer.NumberLit, "number")
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(t.Text)
	if convErr != nil {
		return 0, &Error{Expected: "integer", ActualText: t.Text, Pos: t.Start, ParenDepth: p.parenDepth}
	}
	return n, nil
}

// parseColumnName accepts a bare identifier or a quoted identifier.
func (p *Parser) parseColumnName() (name string, quoted bool, err error) {
	switch p.cur().Kind {
	case lexer.Ident:
		t := p.advance()
		return t.Text, false, nil
	case lexer.QuotedIdent:
		t := p.advance()
		return t.Text, true, nil
	default:
		return "", false, p.errorf("identifier")
	}
}

// parseOr handles `and_expr ( OR and_expr )*`.
func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Or {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Or{Left: left, Right: right}
	}
	return left, nil
}

// parseAnd handles `not_expr ( AND not_expr )*`.
func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.And {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.And{Left: left, Right: right}
	}
	return left, nil
}

// parseNot handles `[NOT] compare`.
func (p *Parser) parseNot() (ast.Expr, error) {
	if p.cur().Kind == lexer.Not {
		p.advance()
		child, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Expr: child}, nil
	}
	return p.parseCompare()
}

var binOps = map[lexer.Kind]ast.BinOp{
	lexer.Eq:   ast.OpEq,
	lexer.Neq:  ast.OpNeq,
	lexer.Lt:   ast.OpLt,
	lexer.Gt:   ast.OpGt,
	lexer.Le:   ast.OpLe,
	lexer.Ge:   ast.OpGe,
	lexer.Like: ast.OpLike,
}

// parseCompare handles:
//
//	postfix ( (= | != | <> | < | > | <= | >= | LIKE) compare
//	        | BETWEEN primary AND primary
//	        | [NOT] IN ( expr_list )  )?
func (p *Parser) parseCompare() (ast.Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	if p.cur().Kind == lexer.Is {
		p.advance()
		negate := false
		if p.cur().Kind == lexer.Not {
			p.advance()
			negate = true
		}
		if _, err := p.expect(lexer.Null, "NULL"); err != nil {
			return nil, err
		}
		return &ast.IsNull{Expr: left, Negate: negate}, nil
	}

	if op, ok := binOps[p.cur().Kind]; ok {
		p.advance()
		right, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		return &ast.Comparison{Op: op, Left: left, Right: right}, nil
	}

	negate := false
	if p.cur().Kind == lexer.Not {
		save := p.pos
		p.advance()
		if p.cur().Kind != lexer.Between && p.cur().Kind != lexer.In {
			p.pos = save
		} else {
			negate = true
		}
	}

	if p.cur().Kind == lexer.Between {
		p.advance()
		low, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.And, "AND"); err != nil {
			return nil, err
		}
		high, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &ast.Between{Expr: left, Low: low, High: high, Negate: negate}, nil
	}

	if p.cur().Kind == lexer.In {
		p.advance()
		if _, err := p.expect(lexer.LParen, "("); err != nil {
			return nil, err
		}
		p.parenDepth++
		var list []ast.Expr
		for {
			item, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			list = append(list, item)
			if p.cur().Kind != lexer.Comma {
				break
			}
			p.advance()
		}
		if _, err := p.expect(lexer.RParen, ")"); err != nil {
			return nil, err
		}
		p.parenDepth--
		return &ast.InList{Expr: left, List: list, Negate: negate}, nil
	}

	return left, nil
}

// parsePostfix handles `primary ( '.' IDENT '(' arg_list? ')' )*`.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Dot {
		p.advance()
		nameTok, err := p.expect(lexer.Ident, "method name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.LParen, "("); err != nil {
			return nil, err
		}
		p.parenDepth++
		p.inMethodArgs++
		var args []ast.Expr
		if p.cur().Kind != lexer.RParen {
			for {
				arg, err := p.parsePrimary()
				if err != nil {
					p.inMethodArgs--
					return nil, err
				}
				args = append(args, arg)
				if p.cur().Kind != lexer.Comma {
					break
				}
				p.advance()
			}
		}
		p.inMethodArgs--
		if _, err := p.expect(lexer.RParen, ")"); err != nil {
			return nil, err
		}
		p.parenDepth--
		node = &ast.MethodCall{Receiver: node, Method: nameTok.Text, Args: args}
	}
	return node, nil
}

// parsePrimary handles `column | literal | DATETIME ( args ) | '(' or_expr ')'`.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	t := p.cur()
	switch t.Kind {
	case lexer.LParen:
		p.advance()
		p.parenDepth++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, ")"); err != nil {
			return nil, p.errorf("closing parenthesis")
		}
		p.parenDepth--
		return &ast.Paren{Inner: inner}, nil

	case lexer.DateTimeKW:
		p.advance()
		if _, err := p.expect(lexer.LParen, "("); err != nil {
			return nil, err
		}
		p.parenDepth++
		var args []ast.Expr
		if p.cur().Kind != lexer.RParen {
			for {
				arg, err := p.parsePrimary()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur().Kind != lexer.Comma {
					break
				}
				p.advance()
			}
		}
		if _, err := p.expect(lexer.RParen, ")"); err != nil {
			return nil, err
		}
		p.parenDepth--
		if n := len(args); n != 0 && n != 3 && n != 4 && n != 5 && n != 6 {
			return nil, fmt.Errorf("DateTime() accepts 0, 3, 4, 5, or 6 arguments, got %d", n)
		}
		return &ast.DateTimeCall{Args: args}, nil

	case lexer.StringLit:
		p.advance()
		return &ast.Literal{Kind: ast.LitString, Str: t.Text}, nil

	case lexer.QuotedIdent:
		p.advance()
		// Inside method-call argument lists, a double-quoted token is a
		// string literal, not an identifier — this lets
		// Country.Contains("USA") parse the same as Contains('USA').
		if p.inMethodArgs > 0 {
			return &ast.Literal{Kind: ast.LitString, Str: t.Text}, nil
		}
		return &ast.Column{Name: t.Text, Quoted: true}, nil

	case lexer.NumberLit:
		p.advance()
		if p.knownColumns != nil && p.knownColumns[t.Text] {
			return &ast.Column{Name: t.Text}, nil
		}
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return nil, &Error{Expected: "number", ActualText: t.Text, Pos: t.Start, ParenDepth: p.parenDepth}
		}
		_, isInt := isIntegerLiteral(t.Text)
		return &ast.Literal{Kind: ast.LitNumber, Num: f, IsInt: isInt}, nil

	case lexer.Null:
		p.advance()
		return &ast.Literal{Kind: ast.LitNull}, nil

	case lexer.Ident:
		p.advance()
		return &ast.Column{Name: t.Text}, nil

	default:
		return nil, p.errorf("column, literal, or parenthesized expression")
	}
}

func isIntegerLiteral(s string) (int64, bool) {
	if !strings.ContainsAny(s, ".eE") {
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Package printer pretty-prints a query string, preserving original
// parenthesization and operator grouping while normalizing whitespace
// and keyword casing. It splices the original source using the token
// position list from internal/sqllang/lexer, a technique with no
// analogue in BreachLine (which never pretty-prints its filter
// expressions) — built in the lexer/parser's own idiom of byte-offset
// bookkeeping.
package printer

import (
	"strings"

	"github.com/tablescope/tablescope/internal/sqllang/lexer"
)

// Options controls SELECT-list wrapping.
type Options struct {
	// ColumnsPerLine wraps the SELECT list to this many entries per
	// line; user-configurable 1-15.
	ColumnsPerLine int
}

func DefaultOptions() Options { return Options{ColumnsPerLine: 4} }

// Print re-lexes src and emits the normalized, re-wrapped query text.
// A lex error is returned unchanged. The input is only lexed, not
// parsed, so a query with a syntax error still prints.
func Print(src string, opts Options) (string, error) {
	if opts.ColumnsPerLine <= 0 {
		opts.ColumnsPerLine = 4
	}
	if opts.ColumnsPerLine > 15 {
		opts.ColumnsPerLine = 15
	}
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return "", err
	}

	p := &printState{src: src, toks: toks, opts: opts}
	return p.run(), nil
}

type printState struct {
	src  string
	toks []lexer.Token
	opts Options
	out  strings.Builder
	pos  int // index into toks
	depth int
}

var breakBefore = map[lexer.Kind]bool{
	lexer.From:    true,
	lexer.Where:   true,
	lexer.OrderBy: true,
	lexer.GroupBy: true,
}

func (p *printState) run() string {
	selectCol := 0
	inSelectList := false

	for p.pos < len(p.toks) && p.toks[p.pos].Kind != lexer.EOF {
		t := p.toks[p.pos]

		if t.Kind == lexer.Select {
			p.out.WriteString("SELECT")
			p.pos++
			p.writeSpaceIfNeeded()
			inSelectList = true
			selectCol = 0
			continue
		}

		if breakBefore[t.Kind] {
			inSelectList = false
			p.out.WriteString("\n")
			p.out.WriteString(strings.ToUpper(normalizedKeywordText(t)))
			p.pos++
			p.writeSpaceIfNeeded()
			continue
		}

		if t.Kind == lexer.Comma {
			p.out.WriteString(",")
			p.pos++
			if inSelectList {
				selectCol++
				if selectCol >= p.opts.ColumnsPerLine {
					p.out.WriteString("\n  ")
					selectCol = 0
				} else {
					p.out.WriteString(" ")
				}
			} else {
				p.out.WriteString(" ")
			}
			continue
		}

		if t.Kind == lexer.And || t.Kind == lexer.Or {
			if p.depth == 0 {
				p.out.WriteString("\n" + strings.ToUpper(t.Text) + " ")
			} else {
				p.out.WriteString(strings.ToUpper(t.Text) + " ")
			}
			p.pos++
			continue
		}

		if t.Kind == lexer.LParen {
			p.depth++
			p.out.WriteString("(")
			p.pos++
			continue
		}
		if t.Kind == lexer.RParen {
			p.depth--
			p.out.WriteString(")")
			p.pos++
			p.writeSpaceIfNeeded()
			continue
		}

		p.writeToken(t)
		p.pos++
		p.writeSpaceIfNeeded()
	}
	return p.out.String()
}

// writeToken emits the canonical text for t: keywords uppercased,
// identifiers/strings/numbers spliced verbatim from the original
// source so parenthesization-adjacent text round-trips exactly.
func (p *printState) writeToken(t lexer.Token) {
	switch t.Kind {
	case lexer.QuotedIdent:
		p.out.WriteString(`"` + t.Text + `"`)
	case lexer.StringLit:
		p.out.WriteString("'" + t.Text + "'")
	case lexer.Dot, lexer.Star:
		p.out.WriteString(t.Text)
	default:
		if isKeyword(t.Kind) {
			p.out.WriteString(strings.ToUpper(t.Text))
		} else {
			p.out.WriteString(p.src[t.Start:t.End])
		}
	}
}

// writeSpaceIfNeeded inserts a single space before the next token
// unless it is a delimiter that should hug the previous token.
func (p *printState) writeSpaceIfNeeded() {
	if p.pos >= len(p.toks) {
		return
	}
	next := p.toks[p.pos]
	switch next.Kind {
	case lexer.Comma, lexer.RParen, lexer.Dot, lexer.EOF:
		return
	}
	if p.out.Len() > 0 {
		last := p.out.String()
		if strings.HasSuffix(last, "(") || strings.HasSuffix(last, ".") {
			return
		}
	}
	p.out.WriteString(" ")
}

func normalizedKeywordText(t lexer.Token) string {
	switch t.Kind {
	case lexer.OrderBy:
		return "ORDER BY"
	case lexer.GroupBy:
		return "GROUP BY"
	default:
		return t.Text
	}
}

func isKeyword(k lexer.Kind) bool {
	switch k {
	case lexer.Select, lexer.From, lexer.Where, lexer.And, lexer.Or, lexer.Not,
		lexer.In, lexer.Between, lexer.Like, lexer.Is, lexer.Null, lexer.OrderBy,
		lexer.GroupBy, lexer.Having, lexer.Asc, lexer.Desc, lexer.Limit,
		lexer.Offset, lexer.DateTimeKW:
		return true
	default:
		return false
	}
}

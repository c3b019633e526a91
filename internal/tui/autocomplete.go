package tui

import (
	"sort"
	"strings"

	"github.com/tablescope/tablescope/internal/buffer"
	"github.com/tablescope/tablescope/internal/sqllang/cursorctx"
)

// methodNames lists the dialect's column method-call names, the
// completion pool offered right after a column dot, matching the set
// evaluator.evalMethodCall understands.
var methodNames = []string{
	"Contains", "StartsWith", "EndsWith", "Length", "IndexOf",
	"ToLower", "ToUpper", "IsNullOrEmpty",
}

// currentCursorContext classifies the active buffer's input text at its
// cursor position — the hook that drives autocomplete.
func (a *App) currentCursorContext() (cursorctx.Context, bool) {
	b := a.Manager.Current()
	if b == nil {
		return cursorctx.Context{}, false
	}
	return cursorctx.Classify(b.Text, b.Cursor), true
}

// autocompleteSuggestions returns the ranked candidate completions for
// a cursor context: column names in clause/expression contexts, method
// names right after a column dot. Contexts with no enumerable
// candidates (inside a method call's arguments, after a comparison
// operator's value) yield nil. Candidates are filtered to those with
// ctx.Partial as a case-insensitive prefix and sorted alphabetically.
func autocompleteSuggestions(b *buffer.Buffer, ctx cursorctx.Context) []string {
	var pool []string
	switch ctx.Kind {
	case cursorctx.SelectClause, cursorctx.WhereClause, cursorctx.OrderByClause,
		cursorctx.AfterLogicalOp, cursorctx.InExpression:
		pool = b.Columns
	case cursorctx.AfterColumn:
		pool = methodNames
	default:
		return nil
	}

	partial := strings.ToLower(ctx.Partial)
	var out []string
	for _, c := range pool {
		if partial == "" || strings.HasPrefix(strings.ToLower(c), partial) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// acceptSuggestion completes the buffer's in-progress partial at the
// cursor with the best-ranked suggestion, a no-op when there is none or
// the partial is already a full match.
func (a *App) acceptSuggestion() {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	ctx, ok := a.currentCursorContext()
	if !ok {
		return
	}
	suggestions := autocompleteSuggestions(b, ctx)
	if len(suggestions) == 0 {
		return
	}
	best := suggestions[0]
	if len(best) <= len(ctx.Partial) {
		return
	}
	b.Insert(best[len(ctx.Partial):])
}

package tui

import (
	"strings"

	"github.com/tablescope/tablescope/internal/appstate"
	"github.com/tablescope/tablescope/internal/evaluator"
	"github.com/tablescope/tablescope/internal/render"
	"github.com/tablescope/tablescope/internal/sqllang/parser"
)

// executeCurrentQuery parses and runs the current buffer's input text
// against its base table, consulting the results cache first and
// storing a successful result back into it, then switches the base
// mode from Command to Results once a query executes successfully.
func (a *App) executeCurrentQuery() {
	b := a.Manager.Current()
	if b == nil {
		return
	}
	query := strings.TrimSpace(b.Text)
	if query == "" {
		return
	}
	if strings.HasPrefix(query, ":") {
		a.runCommand(query)
		return
	}

	fingerprint := appstate.Fingerprint(normalizeQueryText(query), b.Name)
	if cached, ok := a.State.Cache.Get(fingerprint); ok {
		b.SetResult(cached, query)
		a.State.Modes.ReplaceBase(appstate.Results)
		a.State.RecordCommand(query)
		a.setStatus("(cached) %d rows", cached.NumRows())
		return
	}

	stmt, err := parser.Parse(query, parser.WithKnownColumns(b.Columns))
	if err != nil {
		a.setStatus("parse error: %v", err)
		return
	}

	result, err := evaluator.Execute(b.Base, stmt, a.caseInsensitive)
	if err != nil {
		a.setStatus("error: %v", err)
		return
	}

	a.State.Cache.Store(fingerprint, query, b.Name, result)
	b.SetResult(result, query)
	a.State.Modes.ReplaceBase(appstate.Results)
	a.State.RecordCommand(query)
	a.setStatus("%d rows", result.NumRows())
}

// currentViewport computes the active buffer's Viewport from its
// current result table and view configuration, or a zero Viewport if
// no query has been executed yet.
func (a *App) currentViewport() render.Viewport {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return render.Viewport{}
	}
	return render.Compute(b.Result, b.ViewConfig())
}

// normalizeQueryText collapses incidental whitespace differences before
// fingerprinting so two queries differing only in spacing share a
// cache entry.
func normalizeQueryText(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

// applySearch rebuilds the active buffer's in-cell search match list
// against its current viewport row order.
func (a *App) applySearch(pattern string) {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return
	}
	vp := a.currentViewport()
	b.Search.Start(b.Result, vp.RowOrder, pattern, b.FilterCaseSens)
}

func (a *App) applyColumnSearch(pattern string) {
	b := a.Manager.Current()
	if b == nil || b.Result == nil {
		return
	}
	b.ColumnSearch.Start(b.Result, pattern)
}

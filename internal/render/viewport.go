// Package render derives the row and column display order from a table
// and its view-transform configuration (filter, sort, fuzzy filter,
// pins), and computes the column widths, width-bounded truncation, and
// search highlights needed to draw a frame. It owns no
// terminal I/O itself: the concrete screen is an external collaborator
// wired in by internal/tui.
package render

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tablescope/tablescope/internal/table"
)

// ScrollOffset is the row/column window origin, plus the viewport-lock
// behavior that keeps the cursor at a fixed row while scrolling.
type ScrollOffset struct {
	RowTop             int
	ScrollableColLeft  int
	Locked             bool
	AnchorRow          int
}

// Config bundles the per-buffer view-transform state render needs: the
// filter and fuzzy-filter patterns, sort key, pinned columns, and
// current scroll offset. internal/buffer stores the same fields on
// Buffer; Config is assembled from them by the caller so this package
// stays free of a dependency on internal/buffer.
type Config struct {
	FilterPattern  string
	FilterColumn   string // empty = search every column
	CaseSensitive  bool

	FuzzyPattern string

	SortColumn     string
	SortDescending bool

	PinnedColumns []string

	Scroll ScrollOffset

	Compact       bool
	ShowRowNumber bool
}

// Viewport is the fully derived, ready-to-render state: the final row
// order (after filter, fuzzy filter, and sort), the column order (pins
// first), and the computed widths.
type Viewport struct {
	RowOrder    []int // indices into t (post filter/sort/fuzzy)
	ColumnOrder []int // indices into t.Columns(), pinned columns first
	PinnedCount int
	Widths      []int // parallel to ColumnOrder
}

// clampWidth bounds are named directly, not derived from a shared
// constant table, because normal and compact mode clamp to distinct
// ranges.
const (
	minWidth          = 4
	maxWidthNormal    = 50
	maxWidthCompact   = 20
	paddingNormal     = 2
	paddingCompact    = 1
	widthSampleRows   = 100
)

// cellAt returns the value at visible row position row, column index
// col. table.Table.Cell addresses columns by name; this package works
// in column-index space throughout, so it reads the row directly.
func cellAt(t *table.Table, row, col int) table.Value {
	return t.RowAt(row).Values[col]
}

// Compute derives a Viewport for t under cfg.
func Compute(t *table.Table, cfg Config) Viewport {
	rows := filterRows(t, cfg)
	rows = sortRows(t, cfg, rows)
	rows = fuzzyFilterRows(t, cfg, rows)

	cols := orderColumns(t, cfg.PinnedColumns)
	widths := sampleWidths(t, rows, cols, cfg.Compact)

	return Viewport{
		RowOrder:    rows,
		ColumnOrder: cols,
		PinnedCount: len(cfg.PinnedColumns),
		Widths:      widths,
	}
}

func filterRows(t *table.Table, cfg Config) []int {
	base := make([]int, t.NumRows())
	for i := range base {
		base[i] = i
	}
	if cfg.FilterPattern == "" {
		return base
	}
	re, err := compilePattern(cfg.FilterPattern, cfg.CaseSensitive)
	if err != nil {
		return base
	}
	colIdx := -1
	if cfg.FilterColumn != "" {
		colIdx = t.ColumnIndex(cfg.FilterColumn)
	}
	out := base[:0]
	for _, r := range base {
		if rowMatches(t, r, colIdx, re) {
			out = append(out, r)
		}
	}
	return out
}

func rowMatches(t *table.Table, row, colIdx int, re *regexp.Regexp) bool {
	if colIdx >= 0 {
		return re.MatchString(cellAt(t, row, colIdx).String())
	}
	for c := 0; c < t.NumCols(); c++ {
		if re.MatchString(cellAt(t, row, c).String()) {
			return true
		}
	}
	return false
}

func compilePattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

func sortRows(t *table.Table, cfg Config, rows []int) []int {
	if cfg.SortColumn == "" {
		return rows
	}
	col := t.ColumnIndex(cfg.SortColumn)
	if col < 0 {
		return rows
	}
	out := append([]int(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := cellAt(t, out[i], col), cellAt(t, out[j], col)
		cmp := a.Compare(b)
		if cfg.SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

// fuzzyFilterRows applies the second pattern layer on top of the
// already-filtered row set: a leading ' switches to case-insensitive
// substring containment over the row's cells joined by a single space;
// otherwise subsequence fuzzy scoring (score > 0 survives), ordered by
// score descending.
func fuzzyFilterRows(t *table.Table, cfg Config, rows []int) []int {
	if cfg.FuzzyPattern == "" {
		return rows
	}
	if strings.HasPrefix(cfg.FuzzyPattern, "'") {
		needle := strings.ToLower(cfg.FuzzyPattern[1:])
		out := rows[:0:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(joinRow(t, r)), needle) {
				out = append(out, r)
			}
		}
		return out
	}

	type scored struct {
		row   int
		score int
	}
	var matches []scored
	for _, r := range rows {
		if s := fuzzyScore(joinRow(t, r), cfg.FuzzyPattern); s > 0 {
			matches = append(matches, scored{r, s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.row
	}
	return out
}

func joinRow(t *table.Table, row int) string {
	var sb strings.Builder
	for c := 0; c < t.NumCols(); c++ {
		if c > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(cellAt(t, row, c).String())
	}
	return sb.String()
}

// FuzzyScore scores haystack as a case-insensitive subsequence match of
// pattern: every pattern rune must occur in order; the score rewards
// consecutive-run matches and an early first-match position, returning
// 0 when pattern is not a subsequence of haystack at all. Exported so
// appstate's history search can reuse the same scoring as cell fuzzy
// filtering.
func FuzzyScore(haystack, pattern string) int {
	return fuzzyScore(haystack, pattern)
}

func fuzzyScore(haystack, pattern string) int {
	if pattern == "" {
		return 0
	}
	h := []rune(strings.ToLower(haystack))
	p := []rune(strings.ToLower(pattern))

	hi := 0
	score := 0
	consecutive := 0
	firstMatch := -1
	for _, pr := range p {
		found := false
		for ; hi < len(h); hi++ {
			if h[hi] == pr {
				if firstMatch < 0 {
					firstMatch = hi
				}
				consecutive++
				score += 1 + consecutive
				hi++
				found = true
				break
			}
			consecutive = 0
		}
		if !found {
			return 0
		}
	}
	if firstMatch > 0 {
		score -= firstMatch
	}
	if score < 1 {
		score = 1
	}
	return score
}

// orderColumns returns column indices with the pinned columns first (in
// pin order), then the remaining columns in their original order.
func orderColumns(t *table.Table, pinned []string) []int {
	pinnedSet := make(map[int]bool, len(pinned))
	out := make([]int, 0, t.NumCols())
	for _, name := range pinned {
		idx := t.ColumnIndex(name)
		if idx < 0 || pinnedSet[idx] {
			continue
		}
		pinnedSet[idx] = true
		out = append(out, idx)
	}
	for c := 0; c < t.NumCols(); c++ {
		if !pinnedSet[c] {
			out = append(out, c)
		}
	}
	return out
}

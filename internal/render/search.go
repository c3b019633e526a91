package render

import (
	"strings"

	"github.com/tablescope/tablescope/internal/table"
)

// MatchPos is one (row, column) cell containing a search hit, addressed
// by row/column index into the underlying table (not the viewport's
// post-filter order), so matches stay valid as the viewport is
// recomputed.
type MatchPos struct {
	Row int
	Col int
}

// SearchState is the in-cell regex search match list and cursor used by
// Search mode: rebuilt on every pattern change, then stepped with
// Next/Prev which wrap around.
type SearchState struct {
	Pattern       string
	CaseSensitive bool
	Matches       []MatchPos
	Current       int
}

// Start rebuilds the match list for pattern against the rows currently
// visible in viewOrder (the already filtered/sorted row indices).
func (s *SearchState) Start(t *table.Table, viewOrder []int, pattern string, caseSensitive bool) {
	s.Pattern = pattern
	s.CaseSensitive = caseSensitive
	s.Matches = nil
	s.Current = 0
	if pattern == "" {
		return
	}
	re, err := compilePattern(pattern, caseSensitive)
	if err != nil {
		return
	}
	for _, row := range viewOrder {
		for c := 0; c < t.NumCols(); c++ {
			if re.MatchString(cellAt(t, row, c).String()) {
				s.Matches = append(s.Matches, MatchPos{Row: row, Col: c})
			}
		}
	}
}

func (s *SearchState) Active() bool { return len(s.Matches) > 0 }

// Next advances to the next match, wrapping around.
func (s *SearchState) Next() (MatchPos, bool) {
	if len(s.Matches) == 0 {
		return MatchPos{}, false
	}
	s.Current = (s.Current + 1) % len(s.Matches)
	return s.Matches[s.Current], true
}

// Prev steps to the previous match, wrapping around.
func (s *SearchState) Prev() (MatchPos, bool) {
	if len(s.Matches) == 0 {
		return MatchPos{}, false
	}
	s.Current = (s.Current - 1 + len(s.Matches)) % len(s.Matches)
	return s.Matches[s.Current], true
}

// ColumnSearchState matches a pattern against column names rather than
// cell contents, used by Column search mode.
type ColumnSearchState struct {
	Pattern string
	Matches []int // column indices
	Current int
}

func (s *ColumnSearchState) Start(t *table.Table, pattern string) {
	s.Pattern = pattern
	s.Matches = nil
	s.Current = 0
	if pattern == "" {
		return
	}
	needle := strings.ToLower(pattern)
	for c, name := range t.Columns {
		if strings.Contains(strings.ToLower(name), needle) {
			s.Matches = append(s.Matches, c)
		}
	}
}

func (s *ColumnSearchState) Next() (int, bool) {
	if len(s.Matches) == 0 {
		return 0, false
	}
	s.Current = (s.Current + 1) % len(s.Matches)
	return s.Matches[s.Current], true
}

func (s *ColumnSearchState) Prev() (int, bool) {
	if len(s.Matches) == 0 {
		return 0, false
	}
	s.Current = (s.Current - 1 + len(s.Matches)) % len(s.Matches)
	return s.Matches[s.Current], true
}

// Highlight classifies a single cell for overlay styling: selection,
// an active search match, the current search match, or plain.
type Highlight uint8

const (
	HighlightNone Highlight = iota
	HighlightSelected
	HighlightSearchMatch
	HighlightCurrentMatch
	HighlightFuzzyHit
)

// ClassifyCell returns the highlight to apply to (row, col) given the
// current selection and search state.
func ClassifyCell(row, col, selRow, selCol int, search *SearchState) Highlight {
	if row == selRow && col == selCol {
		return HighlightSelected
	}
	if search != nil && len(search.Matches) > 0 {
		for i, m := range search.Matches {
			if m.Row == row && m.Col == col {
				if i == search.Current {
					return HighlightCurrentMatch
				}
				return HighlightSearchMatch
			}
		}
	}
	return HighlightNone
}

// FuzzyMatchPositions computes the within-cell rune indices that
// matched a fuzzy subsequence pattern, for underline-style fuzzy-hit
// highlighting in the joined-row overlay.
func FuzzyMatchPositions(haystack, pattern string) []int {
	if pattern == "" {
		return nil
	}
	h := []rune(strings.ToLower(haystack))
	p := []rune(strings.ToLower(pattern))
	var positions []int
	hi := 0
	for _, pr := range p {
		for ; hi < len(h); hi++ {
			if h[hi] == pr {
				positions = append(positions, hi)
				hi++
				break
			}
		}
	}
	return positions
}

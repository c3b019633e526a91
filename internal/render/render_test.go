package render

import (
	"testing"

	"github.com/tablescope/tablescope/internal/table"
)

func sampleTable() *table.Table {
	cols := []string{"level", "message"}
	rows := []table.Row{
		{Values: []table.Value{table.Str("info"), table.Str("starting up")}},
		{Values: []table.Value{table.Str("error"), table.Str("disk full")}},
		{Values: []table.Value{table.Str("info"), table.Str("listening on 8080")}},
	}
	return table.New(cols, rows)
}

func TestComputeFiltersRows(t *testing.T) {
	tb := sampleTable()
	vp := Compute(tb, Config{FilterPattern: "error"})
	if len(vp.RowOrder) != 1 || vp.RowOrder[0] != 1 {
		t.Fatalf("RowOrder = %v, want [1]", vp.RowOrder)
	}
}

func TestComputeSortsRows(t *testing.T) {
	tb := sampleTable()
	vp := Compute(tb, Config{SortColumn: "level"})
	var levels []string
	for _, r := range vp.RowOrder {
		levels = append(levels, cellAt(tb, r, 0).String())
	}
	if levels[0] != "error" {
		t.Fatalf("levels = %v, want error first ascending", levels)
	}
}

func TestComputePinnedColumnsFirst(t *testing.T) {
	tb := sampleTable()
	vp := Compute(tb, Config{PinnedColumns: []string{"message"}})
	if vp.ColumnOrder[0] != 1 || vp.PinnedCount != 1 {
		t.Fatalf("ColumnOrder = %v, PinnedCount = %d", vp.ColumnOrder, vp.PinnedCount)
	}
}

func TestComputeFuzzyFilterSubsequence(t *testing.T) {
	tb := sampleTable()
	vp := Compute(tb, Config{FuzzyPattern: "dskfl"})
	if len(vp.RowOrder) != 1 || vp.RowOrder[0] != 1 {
		t.Fatalf("fuzzy RowOrder = %v, want [1]", vp.RowOrder)
	}
}

func TestComputeFuzzySubstringPrefix(t *testing.T) {
	tb := sampleTable()
	vp := Compute(tb, Config{FuzzyPattern: "'8080"})
	if len(vp.RowOrder) != 1 || vp.RowOrder[0] != 2 {
		t.Fatalf("substring RowOrder = %v, want [2]", vp.RowOrder)
	}
}

func TestSampleWidthsClampsAndPads(t *testing.T) {
	tb := sampleTable()
	widths := sampleWidths(tb, []int{0, 1, 2}, []int{0, 1}, false)
	if widths[0] < minWidth || widths[0] > maxWidthNormal {
		t.Fatalf("width[0] = %d out of range", widths[0])
	}
	// "listening on 8080" (17 chars) + pad 2 = 19 (header "message" is shorter)
	if widths[1] != 19 {
		t.Fatalf("width[1] = %d, want 19", widths[1])
	}
}

func TestSampleWidthsCompactClampsLower(t *testing.T) {
	wide := []table.Row{{Values: []table.Value{table.Str("this is a very long cell value indeed")}}}
	tb := table.New([]string{"c"}, wide)
	widths := sampleWidths(tb, []int{0}, []int{0}, true)
	if widths[0] != maxWidthCompact {
		t.Fatalf("width = %d, want clamp to %d", widths[0], maxWidthCompact)
	}
}

func TestTruncateToWidthAddsEllipsis(t *testing.T) {
	out := TruncateToWidth("abcdefghij", 5)
	if out != "abcd…" {
		t.Fatalf("TruncateToWidth = %q", out)
	}
}

func TestTruncateToWidthNoopWhenFits(t *testing.T) {
	if out := TruncateToWidth("abc", 10); out != "abc" {
		t.Fatalf("TruncateToWidth = %q", out)
	}
}

func TestSearchStateNextPrevWraps(t *testing.T) {
	tb := sampleTable()
	var s SearchState
	s.Start(tb, []int{0, 1, 2}, "info", false)
	if len(s.Matches) != 2 {
		t.Fatalf("Matches = %v, want 2", s.Matches)
	}
	m, _ := s.Next()
	if m != s.Matches[1] {
		t.Fatalf("Next did not advance")
	}
	m, _ = s.Next()
	if m != s.Matches[0] {
		t.Fatalf("Next did not wrap: got %v", m)
	}
	m, _ = s.Prev()
	if m != s.Matches[1] {
		t.Fatalf("Prev did not wrap backward: got %v", m)
	}
}

func TestColumnSearchStateMatchesNames(t *testing.T) {
	tb := sampleTable()
	var s ColumnSearchState
	s.Start(tb, "mess")
	if len(s.Matches) != 1 || s.Matches[0] != 1 {
		t.Fatalf("Matches = %v, want [1]", s.Matches)
	}
}

func TestClassifyCellSelectionTakesPriority(t *testing.T) {
	var s SearchState
	s.Matches = []MatchPos{{Row: 1, Col: 1}}
	if h := ClassifyCell(1, 1, 1, 1, &s); h != HighlightSelected {
		t.Fatalf("ClassifyCell = %v, want HighlightSelected", h)
	}
}

func TestClassifyCellCurrentVsOtherMatch(t *testing.T) {
	var s SearchState
	s.Matches = []MatchPos{{Row: 0, Col: 0}, {Row: 1, Col: 1}}
	s.Current = 1
	if h := ClassifyCell(0, 0, -1, -1, &s); h != HighlightSearchMatch {
		t.Fatalf("ClassifyCell = %v, want HighlightSearchMatch", h)
	}
	if h := ClassifyCell(1, 1, -1, -1, &s); h != HighlightCurrentMatch {
		t.Fatalf("ClassifyCell = %v, want HighlightCurrentMatch", h)
	}
}

func TestFuzzyMatchPositions(t *testing.T) {
	positions := FuzzyMatchPositions("disk full", "dskfl")
	if len(positions) != 5 {
		t.Fatalf("positions = %v, want 5 entries", positions)
	}
}

package render

import (
	"github.com/mattn/go-runewidth"

	"github.com/tablescope/tablescope/internal/table"
)

// sampleWidths computes the display width of each column in cols: the
// widest cell among up to widthSampleRows evenly-spaced rows from the
// visible set, plus the header, padded and clamped per mode. Display
// width (not byte length) is measured with go-runewidth so
// double-width CJK cells and zero-width combining marks size correctly
// in a terminal cell grid.
func sampleWidths(t *table.Table, rows, cols []int, compact bool) []int {
	sample := sampleIndices(rows, widthSampleRows)

	maxW, pad := maxWidthNormal, paddingNormal
	if compact {
		maxW, pad = maxWidthCompact, paddingCompact
	}

	widths := make([]int, len(cols))
	for i, col := range cols {
		w := runewidth.StringWidth(t.Columns[col])
		for _, r := range sample {
			if cw := runewidth.StringWidth(cellAt(t, r, col).String()); cw > w {
				w = cw
			}
		}
		w += pad
		if w < minWidth {
			w = minWidth
		}
		if w > maxW {
			w = maxW
		}
		widths[i] = w
	}
	return widths
}

// sampleIndices picks up to n evenly-spaced entries from rows,
// preserving order, without mutating rows.
func sampleIndices(rows []int, n int) []int {
	if len(rows) <= n {
		return rows
	}
	out := make([]int, 0, n)
	step := float64(len(rows)) / float64(n)
	for i := 0; i < n; i++ {
		idx := int(float64(i) * step)
		if idx >= len(rows) {
			idx = len(rows) - 1
		}
		out = append(out, rows[idx])
	}
	return out
}

// TruncateToWidth shortens s to fit within width display columns,
// appending an ellipsis when truncated. Truncation walks grapheme
// clusters via rivo/uniseg so a combining accent or an emoji sequence
// is never split in the middle.
func TruncateToWidth(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return truncateRaw(s, width)
	}
	target := width - 1 // room for the ellipsis rune
	var out []rune
	w := 0
	gr := newGraphemeIterator(s)
	for gr.Next() {
		cluster := gr.Str()
		cw := runewidth.StringWidth(cluster)
		if w+cw > target {
			break
		}
		out = append(out, []rune(cluster)...)
		w += cw
	}
	return string(out) + "…"
}

func truncateRaw(s string, width int) string {
	gr := newGraphemeIterator(s)
	w := 0
	var out []rune
	for gr.Next() {
		cluster := gr.Str()
		cw := runewidth.StringWidth(cluster)
		if w+cw > width {
			break
		}
		out = append(out, []rune(cluster)...)
		w += cw
	}
	return string(out)
}

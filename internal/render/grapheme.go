package render

import "github.com/rivo/uniseg"

// graphemeIterator walks a string one grapheme cluster at a time,
// wrapping github.com/rivo/uniseg.Graphemes so the rest of this package
// never reasons about combining marks directly.
type graphemeIterator struct {
	g *uniseg.Graphemes
}

func newGraphemeIterator(s string) *graphemeIterator {
	return &graphemeIterator{g: uniseg.NewGraphemes(s)}
}

func (it *graphemeIterator) Next() bool { return it.g.Next() }
func (it *graphemeIterator) Str() string { return it.g.Str() }

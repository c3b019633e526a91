package clipboard

import (
	"testing"

	"github.com/tablescope/tablescope/internal/table"
)

func sampleTable() *table.Table {
	cols := []string{"level", "message"}
	rows := []table.Row{
		{Values: []table.Value{table.Str("info"), table.Str("line\twith\ttabs")}},
		{Values: []table.Value{table.Str("error"), table.Str("disk\nfull")}},
	}
	return table.New(cols, rows)
}

func TestCellTextSanitizesTabs(t *testing.T) {
	tb := sampleTable()
	if got := CellText(tb, 0, 1); got != "line with tabs" {
		t.Fatalf("CellText = %q", got)
	}
}

func TestRowTextTabSeparated(t *testing.T) {
	tb := sampleTable()
	if got := RowText(tb, 1, []int{0, 1}); got != "error\tdisk full" {
		t.Fatalf("RowText = %q", got)
	}
}

func TestColumnTextIncludesHeader(t *testing.T) {
	tb := sampleTable()
	got := ColumnText(tb, []int{0, 1}, 0)
	want := "level\ninfo\nerror\n"
	if got != want {
		t.Fatalf("ColumnText = %q, want %q", got, want)
	}
}

func TestAllTextFullGrid(t *testing.T) {
	tb := sampleTable()
	got := AllText(tb, []int{0, 1}, []int{0, 1})
	want := "level\tmessage\ninfo\tline with tabs\nerror\tdisk full\n"
	if got != want {
		t.Fatalf("AllText = %q, want %q", got, want)
	}
}

func TestWriteRejectsOversizedPayload(t *testing.T) {
	c := New()
	huge := make([]byte, maxSize+1)
	err := c.Write(string(huge))
	if err == nil {
		t.Fatalf("expected an error for an oversized payload")
	}
}

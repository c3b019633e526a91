package dataload

import (
	"strconv"
	"strings"

	"github.com/tablescope/tablescope/internal/table"
)

// inferCell converts a raw text field into a typed Value: integers and
// floats parse as numbers, "true"/"false" (any case) as booleans, an
// empty string as null, everything else as a string. Low-cardinality
// columns are interned by the caller after a full column pass, not
// here, since cardinality is only known once every row is read.
func inferCell(col, raw string) table.Value {
	if raw == "" {
		return table.Null()
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return table.Int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return table.Float(f)
	}
	switch strings.ToLower(raw) {
	case "true":
		return table.Bool(true)
	case "false":
		return table.Bool(false)
	}
	return table.Str(raw)
}

// internLowCardinalityColumns rewrites string cells in columns whose
// distinct-value count is small relative to the row count into interned
// values, matching the low-cardinality heuristic named for
// internal/table's interner.
func internLowCardinalityColumns(columns []string, rows []table.Row) {
	if len(rows) < 32 {
		return
	}
	for c, name := range columns {
		distinct := make(map[string]struct{})
		for _, r := range rows {
			if r.Values[c].Kind == table.KindString {
				distinct[r.Values[c].String()] = struct{}{}
			}
		}
		if len(distinct) == 0 || len(distinct)*4 > len(rows) {
			continue
		}
		for i := range rows {
			if rows[i].Values[c].Kind == table.KindString {
				rows[i].Values[c] = table.Interned(name, rows[i].Values[c].String())
			}
		}
	}
}

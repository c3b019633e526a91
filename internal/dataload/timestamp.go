package dataload

import (
	"strings"
	"time"

	"github.com/tablescope/tablescope/internal/table"
)

// timestampLayouts is the cascade of absolute-time layouts attempted in
// order, trimmed from BreachLine's much longer ParseFlexibleTime
// cascade (app/timestamps/parsing.go) down to the formats actually
// produced by common log/CSV/JSON exporters.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.000Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp tries each layout in timestampLayouts in turn,
// interpreting a layout with no zone offset in loc. It reports ok=false
// rather than an error, since a failed parse just means "not a
// timestamp column" to its caller.
func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	ss := strings.TrimSpace(raw)
	if ss == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ss, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DetectTimestampColumn picks the most likely timestamp column by name
// from a loaded table's header, for callers (the buffer-open path) that
// want to pin it without re-deriving the heuristic.
func DetectTimestampColumn(columns []string) int { return detectTimestampColumn(columns) }

// detectTimestampColumn picks the most likely timestamp column by name,
// grounded on BreachLine's DetectTimestampIndex (app/timestamps/detection.go):
// an exact-name match ("@timestamp", "timestamp", "time") wins over a
// substring match, and -1 means no candidate column.
func detectTimestampColumn(columns []string) int {
	lower := make([]string, len(columns))
	for i, c := range columns {
		lower[i] = strings.ToLower(strings.TrimSpace(c))
	}
	for _, exact := range []string{"@timestamp", "timestamp", "time"} {
		for i, c := range lower {
			if c == exact {
				return i
			}
		}
	}
	for _, substr := range []string{"@timestamp", "timestamp", "datetime", "date", "time", "ts"} {
		for i, c := range lower {
			if strings.Contains(c, substr) {
				return i
			}
		}
	}
	return -1
}

// resolveIngestLocation maps opts.IngestTimezoneOverride to a
// *time.Location, falling back to Local for an empty or unrecognized
// name rather than failing the whole load over a bad setting.
func resolveIngestLocation(tz string) *time.Location {
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc
	}
	return time.Local
}

// promoteTimestampColumn re-parses the detected timestamp column's
// string cells into table.KindTime values in place. It only commits the
// promotion if every non-null cell in the column parses successfully —
// a single unparseable value means the column was misdetected (e.g. a
// free-text "date" column), and the raw strings are left untouched.
func promoteTimestampColumn(columns []string, rows []table.Row, opts Options) {
	col := detectTimestampColumn(columns)
	if col < 0 || len(rows) == 0 {
		return
	}
	loc := resolveIngestLocation(opts.IngestTimezoneOverride)

	parsed := make([]table.Value, len(rows))
	for i, r := range rows {
		v := r.Values[col]
		if v.IsNull() {
			parsed[i] = v
			continue
		}
		if v.Kind != table.KindString && v.Kind != table.KindInternedString {
			return
		}
		t, ok := parseTimestamp(v.String(), loc)
		if !ok {
			return
		}
		parsed[i] = table.Time(t)
	}
	for i := range rows {
		rows[i].Values[col] = parsed[i]
	}
}

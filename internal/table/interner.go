package table

import "sync"

// internedString is the shared storage behind a KindInternedString Value,
// so repeated low-cardinality cell text (e.g. a log level column) is
// stored once per distinct string rather than once per row.
type internedString struct {
	col, text string
}

var (
	internMu    sync.Mutex
	internTable = map[string]map[string]*internedString{}
)

func internFor(col, text string) *internedString {
	internMu.Lock()
	defer internMu.Unlock()
	byText, ok := internTable[col]
	if !ok {
		byText = map[string]*internedString{}
		internTable[col] = byText
	}
	if s, ok := byText[text]; ok {
		return s
	}
	s := &internedString{col: col, text: text}
	byText[text] = s
	return s
}

package appstate

import (
	"bufio"
	"os"
	"sort"
	"time"

	"github.com/tablescope/tablescope/internal/render"
)

// KeyLogEntry pairs a raw key name with the action it dispatched to,
// used by Debug mode.
type KeyLogEntry struct {
	Seq    int64
	Key    string
	Action string
}

// HistorySearch is the fuzzy-search-over-command-history mini state
// machine.
type HistorySearch struct {
	active      bool
	originalText string
	query       string
	candidates  []string
	matches     []string
	selected    int
}

func (h *HistorySearch) Start(originalText string, candidates []string) {
	h.active = true
	h.originalText = originalText
	h.query = ""
	h.candidates = candidates
	h.matches = append([]string(nil), candidates...)
	h.selected = 0
}

func (h *HistorySearch) Active() bool { return h.active }

// SetQuery rescores the candidate list against q using the same
// subsequence fuzzy scorer as cell fuzzy filtering (render.FuzzyScore),
// keeping only candidates that match at all and ranking best score
// first. An empty query matches every candidate in its original order.
func (h *HistorySearch) SetQuery(q string) {
	h.query = q
	if q == "" {
		h.matches = append([]string(nil), h.candidates...)
		if h.selected >= len(h.matches) {
			h.selected = 0
		}
		return
	}

	type scored struct {
		text  string
		score int
	}
	var hits []scored
	for _, c := range h.candidates {
		if s := render.FuzzyScore(c, q); s > 0 {
			hits = append(hits, scored{c, s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	h.matches = h.matches[:0]
	for _, hit := range hits {
		h.matches = append(h.matches, hit.text)
	}
	if h.selected >= len(h.matches) {
		h.selected = 0
	}
}

func (h *HistorySearch) Matches() []string { return h.matches }

func (h *HistorySearch) Selected() int { return h.selected }

// MoveSelection shifts the selected match index by delta, clamping to
// the current match list's bounds.
func (h *HistorySearch) MoveSelection(delta int) {
	if len(h.matches) == 0 {
		h.selected = 0
		return
	}
	h.selected += delta
	if h.selected < 0 {
		h.selected = 0
	}
	if h.selected >= len(h.matches) {
		h.selected = len(h.matches) - 1
	}
}

// Accept returns the selected command and deactivates the search.
func (h *HistorySearch) Accept() (string, bool) {
	if !h.active || len(h.matches) == 0 {
		h.active = false
		return h.originalText, false
	}
	selected := h.matches[h.selected]
	h.active = false
	return selected, true
}

// Cancel deactivates the search, restoring the original input.
func (h *HistorySearch) Cancel() string {
	h.active = false
	return h.originalText
}

// Container is the single process-wide application state object: mode
// stack, history search, results cache, debug service, key-press log,
// command history.
type Container struct {
	Modes   *ModeStack
	Cache   *Cache
	History HistorySearch

	debug   *DebugService
	keyLog  []KeyLogEntry
	keyLogCap int
	nextKeySeq int64

	commandHistory []string
	maxHistoryLen  int
}

// NewContainer constructs a Container with the given cache size. The
// debug service is acquired later via AttachDebugService (delayed
// injection) so the container — and anything wired into it, like
// Cache — is constructible before any debug sink exists.
func NewContainer(cacheSize int) *Container {
	return &Container{
		Modes:         NewModeStack(),
		Cache:         NewCache(cacheSize),
		keyLogCap:     500,
		maxHistoryLen: 1000,
	}
}

// LoadHistory reads a newline-delimited command history file, capping
// the in-memory list at maxLen entries (most recent kept). A missing
// file is not an error — the container-wide history starts empty until
// the first query is recorded.
func (c *Container) LoadHistory(path string, maxLen int) error {
	if maxLen > 0 {
		c.maxHistoryLen = maxLen
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(lines) > c.maxHistoryLen {
		lines = lines[len(lines)-c.maxHistoryLen:]
	}
	c.commandHistory = lines
	return nil
}

// SaveHistory writes the in-memory command history back to path,
// one query per line.
func (c *Container) SaveHistory(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, q := range c.commandHistory {
		if _, err := w.WriteString(q + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// RecordCommand appends query to the history, deduplicating an
// immediate repeat of the previous entry and trimming to the
// configured cap.
func (c *Container) RecordCommand(query string) {
	if query == "" {
		return
	}
	if n := len(c.commandHistory); n > 0 && c.commandHistory[n-1] == query {
		return
	}
	c.commandHistory = append(c.commandHistory, query)
	if len(c.commandHistory) > c.maxHistoryLen {
		c.commandHistory = c.commandHistory[len(c.commandHistory)-c.maxHistoryLen:]
	}
}

// CommandHistory returns the recorded command history, oldest first.
func (c *Container) CommandHistory() []string {
	out := make([]string, len(c.commandHistory))
	copy(out, c.commandHistory)
	return out
}

// AttachDebugService wires the debug service into every component that
// wants to log, mirroring BreachLine's cache.SetLogger delayed
// injection.
func (c *Container) AttachDebugService(d *DebugService) {
	c.debug = d
	c.Cache.SetLogger(d)
	c.Modes.SetLogger(d)
}

func (c *Container) Debug() *DebugService { return c.debug }

// LogKeyPress appends a key/action pair to the bounded key-press log.
func (c *Container) LogKeyPress(key, action string) {
	entry := KeyLogEntry{Seq: c.nextKeySeq, Key: key, Action: action}
	c.nextKeySeq++
	c.keyLog = append(c.keyLog, entry)
	if len(c.keyLog) > c.keyLogCap {
		c.keyLog = c.keyLog[len(c.keyLog)-c.keyLogCap:]
	}
	if c.debug != nil {
		c.debug.Logf(LevelDebug, "keys", "%s -> %s", key, action)
	}
}

func (c *Container) KeyLog() []KeyLogEntry {
	out := make([]KeyLogEntry, len(c.keyLog))
	copy(out, c.keyLog)
	return out
}

// tickInterval is the event loop's key-poll timeout.
const tickInterval = 50 * time.Millisecond

func TickInterval() time.Duration { return tickInterval }

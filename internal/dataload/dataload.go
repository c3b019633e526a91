package dataload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tablescope/tablescope/internal/table"
)

// FileKind is the detected inner file format, independent of any
// compression wrapper.
type FileKind int

const (
	KindUnknown FileKind = iota
	KindCSV
	KindJSON
)

// detectFileKind extension-sniffs path (after stripping any compression
// suffix), matching BreachLine's DetectFileTypeAndCompression. Unlike
// BreachLine, there is no plugin registry to consult afterward — CSV
// and JSON are the only two tabular formats this core's dialect
// operates over.
func detectFileKind(path string) FileKind {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return KindCSV
	case strings.HasSuffix(lower, ".json"):
		return KindJSON
	default:
		return KindUnknown
	}
}

// Load opens path — a single file or, when opts.IsDirectory is set, a
// directory to glob-expand with opts.FilePattern — and returns the
// table name (the base filename) and the loaded Table.
func Load(path string, opts Options) (string, *table.Table, error) {
	var columns []string
	var rows []table.Row
	var err error

	if opts.IsDirectory {
		columns, rows, err = loadDirectory(path, opts)
	} else {
		columns, rows, err = loadFile(path, opts)
	}
	if err != nil {
		return "", nil, err
	}
	promoteTimestampColumn(columns, rows, opts)

	name := filepath.Base(path)
	return name, table.New(columns, rows), nil
}

// loadFile loads a single file, decompressing it first if needed.
func loadFile(path string, opts Options) ([]string, []table.Row, error) {
	compression, innerPath := detectCompression(path)
	data, err := readAllDecompressed(path, compression)
	if err != nil {
		return nil, nil, err
	}

	switch detectFileKind(innerPath) {
	case KindCSV:
		return loadCSV(data, opts)
	case KindJSON:
		return loadJSON(data, opts.JSONPath)
	default:
		return nil, nil, fmt.Errorf("dataload: unrecognized file type for %s", path)
	}
}

// Exists reports whether path names a readable file or directory, used
// by the buffer-open command to fail fast with a status-bar message
// rather than a deferred load error.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

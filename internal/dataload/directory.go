package dataload

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tablescope/tablescope/internal/table"
)

type loadedFile struct {
	path    string
	columns []string
	rows    []table.Row
}

// loadDirectory expands pattern under dir (doublestar syntax, e.g.
// "**/*.csv.gz"), loads every match, and unions their column sets into
// one unified schema before remapping each file's rows into it — a
// later file naming a column the first file didn't have still keeps
// that column, matching BreachLine's DirectoryReader building a
// unifiedHeader over every file before mapping any row
// (app/fileloader/directory.go). When opts.IncludeSourceColumn is set,
// a "_source_file" column records which match produced each row.
func loadDirectory(dir string, opts Options) ([]string, []table.Row, error) {
	pattern := opts.FilePattern
	if pattern == "" {
		pattern = "*"
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, nil, fmt.Errorf("dataload: globbing %s/%s: %w", dir, pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("dataload: no files matched %s/%s", dir, pattern)
	}
	if opts.MaxFiles > 0 && len(matches) > opts.MaxFiles {
		matches = matches[:opts.MaxFiles]
	}

	files := make([]loadedFile, 0, len(matches))
	for _, path := range matches {
		cols, rows, err := loadFile(path, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("dataload: loading %s: %w", path, err)
		}
		files = append(files, loadedFile{path: path, columns: cols, rows: rows})
	}

	columns := unionColumns(files)

	var rows []table.Row
	for _, f := range files {
		for _, r := range f.rows {
			row := remapRow(f.columns, columns, r)
			if opts.IncludeSourceColumn {
				row.Values = append(row.Values, table.Str(f.path))
			}
			rows = append(rows, row)
		}
	}
	if opts.IncludeSourceColumn {
		columns = append(columns, "_source_file")
	}

	return columns, rows, nil
}

// unionColumns returns every column name across files, in first-seen
// order.
func unionColumns(files []loadedFile) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		for _, c := range f.columns {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// remapRow reorders a row built against fileCols into unifiedCols
// order, filling missing columns with null, so files with slightly
// different schemas still concatenate into one table.
func remapRow(fileCols, unifiedCols []string, row table.Row) table.Row {
	if sameColumns(fileCols, unifiedCols) {
		return table.Row{Values: append([]table.Value(nil), row.Values...)}
	}
	index := make(map[string]int, len(fileCols))
	for i, c := range fileCols {
		index[c] = i
	}
	values := make([]table.Value, len(unifiedCols))
	for i, c := range unifiedCols {
		if src, ok := index[c]; ok {
			values[i] = row.Values[src]
		} else {
			values[i] = table.Null()
		}
	}
	return table.Row{Values: values}
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

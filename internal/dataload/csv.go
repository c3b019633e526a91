package dataload

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/tablescope/tablescope/internal/table"
)

// loadCSV parses decompressed CSV bytes into columns/rows. A CSV reader
// with FieldsPerRecord = -1 tolerates rows with a differing field count
// rather than aborting the whole load over one malformed line, matching
// BreachLine's GetCSVReader.
func loadCSV(data []byte, opts Options) ([]string, []table.Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	firstRow, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("dataload: reading CSV header: %w", err)
	}

	var columns []string
	var pendingFirstRow []string
	if opts.NoHeaderRow {
		columns = normalizeHeaders(make([]string, len(firstRow)))
		pendingFirstRow = firstRow
	} else {
		columns = normalizeHeaders(firstRow)
	}

	var rows []table.Row
	if pendingFirstRow != nil {
		rows = append(rows, csvRecordToRow(columns, pendingFirstRow))
	}
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		rows = append(rows, csvRecordToRow(columns, record))
	}

	internLowCardinalityColumns(columns, rows)
	return columns, rows, nil
}

func csvRecordToRow(columns []string, record []string) table.Row {
	values := make([]table.Value, len(columns))
	for i := range columns {
		if i < len(record) {
			values[i] = inferCell(columns[i], record[i])
		} else {
			values[i] = table.Null()
		}
	}
	return table.Row{Values: values}
}

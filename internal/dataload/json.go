package dataload

import (
	"fmt"
	"sort"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/tablescope/tablescope/internal/table"
)

// loadJSON parses decompressed JSON bytes into columns/rows. If
// jsonPath is set, it selects the record array with an ojg jp
// expression (e.g. "$.results"; the first match must be the array
// itself) before flattening; otherwise the
// document itself must already be an array of objects, matching the
// BreachLine's PreviewJSONWithExpression/ApplyJSONPath pair in
// app/fileloader/json_path.go.
func loadJSON(data []byte, jsonPath string) ([]string, []table.Row, error) {
	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("dataload: parsing JSON: %w", err)
	}

	records := parsed
	if jsonPath != "" {
		expr, err := jp.ParseString(jsonPath)
		if err != nil {
			return nil, nil, fmt.Errorf("dataload: invalid JSONPath %q: %w", jsonPath, err)
		}
		results := expr.Get(parsed)
		if len(results) == 0 {
			return nil, nil, fmt.Errorf("dataload: JSONPath %q matched nothing", jsonPath)
		}
		records = results[0]
	}

	arr, ok := records.([]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("dataload: JSON source must resolve to an array of objects, got %T", records)
	}

	columns := collectJSONColumns(arr)
	rows := make([]table.Row, 0, len(arr))
	for _, rec := range arr {
		obj, _ := rec.(map[string]interface{})
		values := make([]table.Value, len(columns))
		for i, col := range columns {
			values[i] = jsonValueToCell(col, obj[col])
		}
		rows = append(rows, table.Row{Values: values})
	}

	internLowCardinalityColumns(columns, rows)
	return columns, rows, nil
}

// collectJSONColumns unions every key seen across the record array
// (source objects need not share a schema) and sorts it for a stable,
// reproducible column order.
func collectJSONColumns(arr []interface{}) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, rec := range arr {
		obj, ok := rec.(map[string]interface{})
		if !ok {
			continue
		}
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// jsonValueToCell converts a decoded JSON value to a table Value; a
// missing field (raw == nil, the key absent from that record) becomes
// null, matching the Row invariant that missing JSON fields are null
// cells. Nested objects/arrays are re-marshaled to their compact JSON
// text rather than flattened, since the dialect has no dotted-path
// column addressing for nested structures.
func jsonValueToCell(col string, raw interface{}) table.Value {
	switch v := raw.(type) {
	case nil:
		return table.Null()
	case bool:
		return table.Bool(v)
	case int64:
		return table.Int(v)
	case float64:
		return table.Float(v)
	case string:
		return table.Str(v)
	case map[string]interface{}, []interface{}:
		b, err := oj.Marshal(v)
		if err != nil {
			return table.Str(fmt.Sprintf("%v", v))
		}
		return table.Str(string(b))
	default:
		return table.Str(fmt.Sprintf("%v", v))
	}
}

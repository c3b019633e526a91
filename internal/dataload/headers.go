package dataload

import "strings"

// excelColumnName converts a 0-based index to an Excel-style column
// name: 0 -> A, 25 -> Z, 26 -> AA.
func excelColumnName(index int) string {
	result := ""
	index++
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
}

// normalizeHeaders replaces empty or whitespace-only headers with
// Excel-style synthetic names (Unnamed_A, Unnamed_B, ...) for CSV
// headers, whether the file is loaded alone or from a directory. JSON
// sources take their column names from the record keys.
func normalizeHeaders(header []string) []string {
	normalized := make([]string, len(header))
	empty := 0
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			normalized[i] = "Unnamed_" + excelColumnName(empty)
			empty++
		} else {
			normalized[i] = h
		}
	}
	return normalized
}

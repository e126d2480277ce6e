package exports

import "strings"

// FormatCSV renders headers and rows as comma-separated text. Every cell is
// quoted and embedded quotes are doubled, so commas, quotes, and newlines
// inside values all round-trip through a standard CSV reader.
func FormatCSV(headers []string, rows [][]string) string {
	var b strings.Builder
	writeCSVRow(&b, headers)
	for _, row := range rows {
		writeCSVRow(&b, row)
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

package exports

import (
	"strconv"
	"strings"
)

// Cell is one SpreadsheetML value. Numeric cells are written with the Number
// type so Excel treats scores and amounts as numbers, not text.
type Cell struct {
	Value   string
	Numeric bool
}

func StringCell(v string) Cell  { return Cell{Value: v} }
func NumberCell(v float64) Cell { return Cell{Value: trimFloat(v), Numeric: true} }
func IntCell(v int) Cell        { return Cell{Value: strconv.Itoa(v), Numeric: true} }

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatSpreadsheetML renders a single-worksheet XML Spreadsheet 2003
// document. The mso-application instruction makes Windows open it in Excel
// despite the .xls extension.
func FormatSpreadsheetML(sheetName string, headers []string, rows [][]Cell) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?>` + "\n")
	b.WriteString(`<?mso-application progid="Excel.Sheet"?>` + "\n")
	b.WriteString(`<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"` + "\n")
	b.WriteString(` xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">` + "\n")
	b.WriteString(` <Styles>` + "\n")
	b.WriteString(`  <Style ss:ID="Header"><Font ss:Bold="1"/></Style>` + "\n")
	b.WriteString(` </Styles>` + "\n")
	b.WriteString(` <Worksheet ss:Name="` + escapeXML(sheetName) + `">` + "\n")
	b.WriteString(`  <Table>` + "\n")

	b.WriteString(`   <Row>` + "\n")
	for _, h := range headers {
		b.WriteString(`    <Cell ss:StyleID="Header"><Data ss:Type="String">`)
		b.WriteString(escapeXML(h))
		b.WriteString(`</Data></Cell>` + "\n")
	}
	b.WriteString(`   </Row>` + "\n")

	for _, row := range rows {
		b.WriteString(`   <Row>` + "\n")
		for _, cell := range row {
			cellType := "String"
			if cell.Numeric {
				cellType = "Number"
			}
			b.WriteString(`    <Cell><Data ss:Type="` + cellType + `">`)
			b.WriteString(escapeXML(cell.Value))
			b.WriteString(`</Data></Cell>` + "\n")
		}
		b.WriteString(`   </Row>` + "\n")
	}

	b.WriteString(`  </Table>` + "\n")
	b.WriteString(` </Worksheet>` + "\n")
	b.WriteString(`</Workbook>` + "\n")
	return b.String()
}

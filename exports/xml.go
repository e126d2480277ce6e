package exports

import (
	"strconv"
	"strings"
	"time"
)

// ReportMetadata heads the XML compliance report.
type ReportMetadata struct {
	ReportType   string
	GeneratedBy  string
	GeneratedAt  time.Time
	TotalRecords int
}

// FormatComplianceXML renders the compliance report as a standalone XML
// document: a Metadata block followed by one element per record. Element
// names come from the headers with spaces squeezed out.
func FormatComplianceXML(meta ReportMetadata, headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<SpazaComplianceReport>\n")

	b.WriteString("  <Metadata>\n")
	writeElement(&b, "    ", "ReportType", meta.ReportType)
	writeElement(&b, "    ", "GeneratedBy", meta.GeneratedBy)
	writeElement(&b, "    ", "GeneratedDate", meta.GeneratedAt.Format("2006-01-02"))
	writeElement(&b, "    ", "TotalRecords", strconv.Itoa(meta.TotalRecords))
	b.WriteString("  </Metadata>\n")

	tags := make([]string, len(headers))
	for i, h := range headers {
		tags[i] = elementName(h)
	}

	b.WriteString("  <Shops>\n")
	for _, row := range rows {
		b.WriteString("    <Shop>\n")
		for i, cell := range row {
			if i >= len(tags) {
				break
			}
			writeElement(&b, "      ", tags[i], cell)
		}
		b.WriteString("    </Shop>\n")
	}
	b.WriteString("  </Shops>\n")
	b.WriteString("</SpazaComplianceReport>\n")
	return b.String()
}

func writeElement(b *strings.Builder, indent, tag, value string) {
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(tag)
	b.WriteByte('>')
	b.WriteString(escapeXML(value))
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">\n")
}

// elementName turns a column header like "Owner ID Number" into a legal XML
// element name.
func elementName(header string) string {
	parts := strings.Fields(header)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	name := strings.Join(parts, "")
	if name == "" {
		return "Field"
	}
	return name
}

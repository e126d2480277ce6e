// Package exports renders filtered record sets into downloadable report
// files: quoted CSV, a compliance XML document, SpreadsheetML for older
// Excel, and real XLSX workbooks.
package exports

import "strings"

// xmlEscaper covers the five characters XML 1.0 reserves. One escaper is
// shared by the XML and SpreadsheetML writers so their coverage cannot
// drift apart.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

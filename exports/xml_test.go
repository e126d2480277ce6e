package exports

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

var exportNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func TestEscapeXML_CoversAllFiveReserved(t *testing.T) {
	got := escapeXML(`Tom & Jerry's <Spaza> "Shop"`)
	want := `Tom &amp; Jerry&apos;s &lt;Spaza&gt; &quot;Shop&quot;`
	if got != want {
		t.Fatalf("escapeXML mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestFormatComplianceXML_WellFormed(t *testing.T) {
	out := FormatComplianceXML(ReportMetadata{
		ReportType:   "spaza_compliance",
		GeneratedBy:  "coordinator@example.org",
		GeneratedAt:  exportNow,
		TotalRecords: 2,
	}, []string{"Shop Name", "Owner Name"}, [][]string{
		{"Tom & Jerry's", "T. O'Brien"},
		{"<Corner> Spaza", `say "hi"`},
	})

	var doc struct {
		XMLName  xml.Name `xml:"SpazaComplianceReport"`
		Metadata struct {
			ReportType    string `xml:"ReportType"`
			GeneratedBy   string `xml:"GeneratedBy"`
			GeneratedDate string `xml:"GeneratedDate"`
			TotalRecords  int    `xml:"TotalRecords"`
		} `xml:"Metadata"`
		Shops struct {
			Shop []struct {
				ShopName  string `xml:"ShopName"`
				OwnerName string `xml:"OwnerName"`
			} `xml:"Shop"`
		} `xml:"Shops"`
	}
	if err := xml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("generated XML did not parse: %v\n%s", err, out)
	}

	if doc.Metadata.GeneratedDate != "2026-01-15" || doc.Metadata.TotalRecords != 2 {
		t.Fatalf("metadata wrong: %+v", doc.Metadata)
	}
	if len(doc.Shops.Shop) != 2 {
		t.Fatalf("expected 2 shop elements, got %d", len(doc.Shops.Shop))
	}
	if doc.Shops.Shop[0].ShopName != "Tom & Jerry's" {
		t.Fatalf("escaping did not round-trip: %s", doc.Shops.Shop[0].ShopName)
	}
	if doc.Shops.Shop[1].ShopName != "<Corner> Spaza" {
		t.Fatalf("escaping did not round-trip: %s", doc.Shops.Shop[1].ShopName)
	}
}

func TestFormatSpreadsheetML_Structure(t *testing.T) {
	out := FormatSpreadsheetML("Compliance", []string{"Shop"}, [][]Cell{
		{StringCell("Mama & Sons")},
		{IntCell(85)},
	})

	if !strings.HasPrefix(out, "<?xml version=\"1.0\"?>\n<?mso-application progid=\"Excel.Sheet\"?>") {
		t.Fatalf("missing mso-application instruction:\n%s", out)
	}
	if !strings.Contains(out, `<Worksheet ss:Name="Compliance">`) {
		t.Fatalf("worksheet name missing:\n%s", out)
	}
	if !strings.Contains(out, `<Data ss:Type="Number">85</Data>`) {
		t.Fatalf("numeric cell not typed as Number:\n%s", out)
	}
	if !strings.Contains(out, "Mama &amp; Sons") {
		t.Fatalf("string cell not escaped:\n%s", out)
	}
}

func TestFilename_UsesInjectedClock(t *testing.T) {
	if got := Filename("spaza_compliance", CSV, exportNow); got != "spaza_compliance_20260115.csv" {
		t.Fatalf("unexpected filename %s", got)
	}
	if got := Filename("nef_funding", XLSX, exportNow); got != "nef_funding_20260115.xlsx" {
		t.Fatalf("unexpected filename %s", got)
	}
}

func TestContentType(t *testing.T) {
	if ContentType(CSV) != "text/csv" || ContentType(XML) != "application/xml" {
		t.Fatal("unexpected content types")
	}
	if ContentType("weird") != "application/octet-stream" {
		t.Fatal("unknown formats should fall back to octet-stream")
	}
}

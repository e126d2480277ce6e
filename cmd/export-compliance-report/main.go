package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/exports"
	"bitbucket.org/kwahlelwa/spazaops_backend/platform"
)

// Generates the shop compliance report from the command line, for scheduled
// jobs that mail or archive it outside the API.
func main() {
	format := flag.String("format", exports.CSV, "Output format: csv, xml or xls")
	includePII := flag.Bool("include-pii", false, "Include owner id number and phone number columns")
	outDir := flag.String("out", ".", "Directory to write the report into")
	flag.Parse()

	switch *format {
	case exports.CSV, exports.XML, exports.XLS:
	default:
		fmt.Fprintln(os.Stderr, "unsupported format:", *format)
		os.Exit(1)
	}

	client, err := platform.NewClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "platform client:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	shops, err := client.ListShops(ctx, "-created_date", 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list shops:", err)
		os.Exit(1)
	}

	now := time.Now()
	headers := exports.ShopReportHeaders(*includePII)

	var body string
	switch *format {
	case exports.CSV:
		body = exports.FormatCSV(headers, exports.ShopReportRows(shops, *includePII))
	case exports.XML:
		body = exports.FormatComplianceXML(exports.ReportMetadata{
			ReportType:   "spaza_compliance",
			GeneratedBy:  "cli",
			GeneratedAt:  now,
			TotalRecords: len(shops),
		}, headers, exports.ShopReportRows(shops, *includePII))
	case exports.XLS:
		body = exports.FormatSpreadsheetML("Compliance", headers, exports.ShopReportCells(shops, *includePII))
	}

	path := *outDir + "/" + exports.Filename("spaza_compliance", *format, now)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write report:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d shops to %s\n", len(shops), path)
}

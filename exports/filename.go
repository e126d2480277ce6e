package exports

import (
	"fmt"
	"time"
)

// Report formats a caller can request.
const (
	CSV  = "csv"
	XML  = "xml"
	XLS  = "xls"
	XLSX = "xlsx"
)

// Filename builds the download name, e.g. "spaza_compliance_20260115.csv".
// The clock is a parameter so the date stamp is testable.
func Filename(report, format string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", report, now.Format("20060102"), format)
}

// ContentType returns the MIME type served with a report download.
func ContentType(format string) string {
	switch format {
	case CSV:
		return "text/csv"
	case XML:
		return "application/xml"
	case XLS:
		return "application/vnd.ms-excel"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

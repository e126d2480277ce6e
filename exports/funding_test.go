package exports

import (
	"testing"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"github.com/shopspring/decimal"
)

func TestBuildFundingReport_FiltersAndTotals(t *testing.T) {
	shops := []models.Shop{
		{
			ShopName:      "Funded One",
			FundingStatus: models.FundingStatusFunded,
			FundingAmount: decimal.RequireFromString("15000.50"),
		},
		{
			ShopName:      "Eligible Two",
			FundingStatus: models.FundingStatusEligible,
			FundingAmount: decimal.RequireFromString("4999.50"),
		},
		{
			ShopName:      "Not Eligible",
			FundingStatus: models.FundingStatusNotEligible,
			FundingAmount: decimal.RequireFromString("99999"),
		},
	}

	report := BuildFundingReport(shops)
	if len(report.Rows) != 2 {
		t.Fatalf("expected 2 funding rows, got %d", len(report.Rows))
	}
	if !report.Total.Equal(decimal.RequireFromString("20000.00")) {
		t.Fatalf("expected total 20000.00, got %s", report.Total)
	}
	if report.Rows[0][0] != "Funded One" || report.Rows[0][4] != "15000.50" {
		t.Fatalf("unexpected first row: %v", report.Rows[0])
	}
}

func TestShopReportRows_PIIToggle(t *testing.T) {
	shops := []models.Shop{{
		ShopName:      "Spaza A",
		OwnerIdNumber: "8001015009087",
		PhoneNumber:   "+27831234567",
	}}

	withoutPII := ShopReportRows(shops, false)
	if len(withoutPII[0]) != len(ShopReportHeaders(false)) {
		t.Fatalf("row width mismatch without PII")
	}
	for _, cell := range withoutPII[0] {
		if cell == "8001015009087" || cell == "+27831234567" {
			t.Fatalf("PII leaked into non-PII export: %v", withoutPII[0])
		}
	}

	withPII := ShopReportRows(shops, true)
	if len(withPII[0]) != len(ShopReportHeaders(true)) {
		t.Fatalf("row width mismatch with PII")
	}
	last := withPII[0][len(withPII[0])-1]
	if last != "+27831234567" {
		t.Fatalf("expected phone number last, got %s", last)
	}
}

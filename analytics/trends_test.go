package analytics

import (
	"testing"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
)

func monthInspection(year int, month time.Month, score int) models.Inspection {
	return models.Inspection{
		ShopId:      "s1",
		TotalScore:  intPtr(score),
		CreatedDate: time.Date(year, month, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestMonthlyTrend_BucketsByMonth(t *testing.T) {
	points := MonthlyTrend([]models.Inspection{
		monthInspection(2025, time.November, 60),
		monthInspection(2025, time.December, 70),
		monthInspection(2025, time.December, 90),
	})

	if len(points) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(points))
	}
	if points[0].Period != "2025-11" || points[1].Period != "2025-12" {
		t.Fatalf("periods out of order: %s, %s", points[0].Period, points[1].Period)
	}
	if points[1].Inspections != 2 || points[1].AverageScore != 80 {
		t.Fatalf("december bucket wrong: %+v", points[1])
	}
	if points[1].PassRate != 1 {
		t.Fatalf("expected december pass rate 1, got %f", points[1].PassRate)
	}
	if points[0].PassRate != 0 {
		t.Fatalf("expected november pass rate 0, got %f", points[0].PassRate)
	}
}

func TestTrendDirection(t *testing.T) {
	up := []TrendPoint{{AverageScore: 50}, {AverageScore: 52}, {AverageScore: 70}, {AverageScore: 72}}
	if got := TrendDirection(up); got != TrendUp {
		t.Fatalf("expected up, got %s", got)
	}

	down := []TrendPoint{{AverageScore: 80}, {AverageScore: 78}, {AverageScore: 60}, {AverageScore: 55}}
	if got := TrendDirection(down); got != TrendDown {
		t.Fatalf("expected down, got %s", got)
	}

	flat := []TrendPoint{{AverageScore: 70}, {AverageScore: 71}}
	if got := TrendDirection(flat); got != TrendStable {
		t.Fatalf("expected stable, got %s", got)
	}

	if got := TrendDirection(nil); got != TrendStable {
		t.Fatalf("expected stable for empty series, got %s", got)
	}
}

func TestRollupByMunicipality(t *testing.T) {
	shops := []models.Shop{
		{Municipality: "Buffalo City", ComplianceStatus: models.ComplianceStatusCompliant, ComplianceScore: 90, RiskLevel: models.RiskLevelLow},
		{Municipality: "Buffalo City", ComplianceStatus: models.ComplianceStatusNonCompliant, ComplianceScore: 30, RiskLevel: models.RiskLevelCritical},
		{Municipality: "Enoch Mgijima", ComplianceStatus: models.ComplianceStatusPending, ComplianceScore: 0, RiskLevel: models.RiskLevelMedium},
		{ComplianceStatus: models.ComplianceStatusPending},
	}

	rollup := RollupByMunicipality(shops)
	if len(rollup) != 3 {
		t.Fatalf("expected 3 areas, got %d", len(rollup))
	}

	bc := rollup[0]
	if bc.Area != "Buffalo City" || bc.Shops != 2 {
		t.Fatalf("unexpected first area: %+v", bc)
	}
	if bc.Compliant != 1 || bc.NonCompliant != 1 {
		t.Fatalf("unexpected status counts: %+v", bc)
	}
	if bc.AverageScore != 60 {
		t.Fatalf("expected average 60, got %f", bc.AverageScore)
	}
	if bc.HighRiskShare != 0.5 {
		t.Fatalf("expected high-risk share 0.5, got %f", bc.HighRiskShare)
	}

	if rollup[2].Area != "Unknown" {
		t.Fatalf("expected shops without municipality grouped under Unknown, got %s", rollup[2].Area)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	shops := []models.Shop{
		{ComplianceStatus: models.ComplianceStatusCompliant, ComplianceScore: 90, FundingStatus: models.FundingStatusEligible},
		{ComplianceStatus: models.ComplianceStatusNonCompliant, ComplianceScore: 30, RiskLevel: models.RiskLevelHigh},
	}
	inspections := []models.Inspection{
		monthInspection(2026, time.January, 80),
		monthInspection(2025, time.December, 70),
	}

	got := Summarize(shops, inspections, now)
	if got.TotalShops != 2 || got.CompliantShops != 1 || got.NonCompliantShops != 1 {
		t.Fatalf("unexpected shop counts: %+v", got)
	}
	if got.HighRiskShops != 1 {
		t.Fatalf("expected 1 high-risk shop, got %d", got.HighRiskShops)
	}
	if got.AverageScore != 60 {
		t.Fatalf("expected average 60, got %f", got.AverageScore)
	}
	if got.InspectionsThisMonth != 1 {
		t.Fatalf("expected 1 inspection this month, got %d", got.InspectionsThisMonth)
	}
	if got.FundingEligibleShops != 1 {
		t.Fatalf("expected 1 funding-eligible shop, got %d", got.FundingEligibleShops)
	}
}

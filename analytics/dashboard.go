package analytics

import (
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"github.com/shopspring/decimal"
)

// DashboardSummary is the headline card set on the coordinator dashboard.
type DashboardSummary struct {
	TotalShops           int             `json:"total_shops"`
	CompliantShops       int             `json:"compliant_shops"`
	NonCompliantShops    int             `json:"non_compliant_shops"`
	PendingShops         int             `json:"pending_shops"`
	HighRiskShops        int             `json:"high_risk_shops"`
	AverageScore         float64         `json:"average_score"`
	InspectionsThisMonth int             `json:"inspections_this_month"`
	FundingEligibleShops int             `json:"funding_eligible_shops"`
	FundingCommitted     decimal.Decimal `json:"funding_committed"`
}

// Summarize computes the headline numbers from the full shop and inspection
// collections. now decides what "this month" means.
func Summarize(shops []models.Shop, inspections []models.Inspection, now time.Time) DashboardSummary {
	summary := DashboardSummary{
		TotalShops:       len(shops),
		FundingCommitted: decimal.Zero,
	}

	scoreSum := 0
	for _, shop := range shops {
		scoreSum += shop.ComplianceScore
		switch shop.ComplianceStatus {
		case models.ComplianceStatusCompliant:
			summary.CompliantShops++
		case models.ComplianceStatusNonCompliant:
			summary.NonCompliantShops++
		case models.ComplianceStatusPending:
			summary.PendingShops++
		}
		if shop.RiskLevel == models.RiskLevelHigh || shop.RiskLevel == models.RiskLevelCritical {
			summary.HighRiskShops++
		}
		switch shop.FundingStatus {
		case models.FundingStatusEligible, models.FundingStatusFunded:
			summary.FundingEligibleShops++
			summary.FundingCommitted = summary.FundingCommitted.Add(shop.FundingAmount)
		}
	}
	if len(shops) > 0 {
		summary.AverageScore = float64(scoreSum) / float64(len(shops))
	}

	year, month, _ := now.Date()
	for _, insp := range inspections {
		y, m, _ := insp.CreatedDate.Date()
		if y == year && m == month {
			summary.InspectionsThisMonth++
		}
	}
	return summary
}

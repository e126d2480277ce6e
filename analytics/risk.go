// Package analytics holds the pure derivation functions behind the dashboard:
// risk scoring, agent leaderboards, trend bucketing, and area rollups. All of
// them recompute from full in-memory collections fetched off the platform;
// nothing here touches the network or the database.
package analytics

import (
	"sort"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
)

const (
	riskBaseScore       = 50
	staleInspectionDays = 90

	riskBucketHigh   = 70
	riskBucketMedium = 50
)

// RiskFactor is one contributor to a shop's risk score, kept human-readable
// for the risk panel.
type RiskFactor struct {
	Label  string `json:"label"`
	Impact string `json:"impact"`
	Points int    `json:"points"`
}

type RiskAssessment struct {
	ShopId   string           `json:"shop_id"`
	ShopName string           `json:"shop_name"`
	Score    int              `json:"score"`
	Bucket   models.RiskLevel `json:"bucket"`
	Factors  []RiskFactor     `json:"factors"`
}

// ScoreShop applies the program's fixed-weight risk heuristic to one shop and
// its inspection history. The weights are an expert-chosen default policy,
// not a fitted model; same inputs always give the same score.
func ScoreShop(shop models.Shop, inspections []models.Inspection) RiskAssessment {
	return ScoreShopAt(shop, inspections, time.Now())
}

// ScoreShopAt is ScoreShop with the clock injected so boundary cases around
// the 90-day staleness cutoff can be tested deterministically.
func ScoreShopAt(shop models.Shop, inspections []models.Inspection, now time.Time) RiskAssessment {
	score := riskBaseScore
	var factors []RiskFactor

	add := func(label string, points int) {
		score += points
		impact := "low"
		switch {
		case points >= 20:
			impact = "high"
		case points >= 10:
			impact = "medium"
		}
		factors = append(factors, RiskFactor{Label: label, Impact: impact, Points: points})
	}

	switch shop.ComplianceStatus {
	case models.ComplianceStatusNonCompliant:
		add("Currently non-compliant", 25)
	case models.ComplianceStatusPartiallyCompliant:
		add("Partially compliant", 15)
	}

	if declining(inspections) {
		add("Declining score between last two inspections", 15)
	}

	last := lastInspectionDate(shop, inspections)
	if last == nil {
		add("Never inspected", 20)
	} else if utils.DaysSince(*last, now) > staleInspectionDays {
		add("Last inspection more than 90 days ago", 10)
	}

	switch shop.RiskLevel {
	case models.RiskLevelCritical:
		add("Declared critical risk level", 20)
	case models.RiskLevelHigh:
		add("Declared high risk level", 10)
	}

	if shop.TenureSecurityStatus.Insecure() {
		add("Insecure tenure", 5)
	}

	if !shop.HasCoa && shop.TradingPermitNumber == "" {
		add("Missing core documentation", 10)
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return RiskAssessment{
		ShopId:   shop.ID,
		ShopName: shop.ShopName,
		Score:    score,
		Bucket:   riskBucket(score),
		Factors:  factors,
	}
}

// ScoreShops assesses every shop against its own inspections, returned
// highest-score first with ties left in shop order.
func ScoreShops(shops []models.Shop, inspections []models.Inspection, now time.Time) []RiskAssessment {
	byShop := make(map[string][]models.Inspection, len(shops))
	for _, insp := range inspections {
		byShop[insp.ShopId] = append(byShop[insp.ShopId], insp)
	}

	out := make([]RiskAssessment, 0, len(shops))
	for _, shop := range shops {
		out = append(out, ScoreShopAt(shop, byShop[shop.ID], now))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func riskBucket(score int) models.RiskLevel {
	switch {
	case score >= riskBucketHigh:
		return models.RiskLevelHigh
	case score >= riskBucketMedium:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// declining reports whether the most recent inspection scored lower than the
// one before it. Inspections without a total score are skipped.
func declining(inspections []models.Inspection) bool {
	scored := make([]models.Inspection, 0, len(inspections))
	for _, insp := range inspections {
		if insp.TotalScore != nil {
			scored = append(scored, insp)
		}
	}
	if len(scored) < 2 {
		return false
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CreatedDate.After(scored[j].CreatedDate)
	})
	return *scored[0].TotalScore < *scored[1].TotalScore
}

func lastInspectionDate(shop models.Shop, inspections []models.Inspection) *time.Time {
	var last *time.Time
	for i := range inspections {
		d := inspections[i].CreatedDate
		if last == nil || d.After(*last) {
			last = &inspections[i].CreatedDate
		}
	}
	if last == nil {
		return shop.LastInspectionDate
	}
	return last
}

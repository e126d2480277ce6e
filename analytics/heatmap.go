package analytics

import "bitbucket.org/kwahlelwa/spazaops_backend/models"

// AreaSummary is a geographic rollup row for the compliance heatmap, grouped
// by municipality or ward.
type AreaSummary struct {
	Area               string  `json:"area"`
	Shops              int     `json:"shops"`
	Compliant          int     `json:"compliant"`
	PartiallyCompliant int     `json:"partially_compliant"`
	NonCompliant       int     `json:"non_compliant"`
	Pending            int     `json:"pending"`
	AverageScore       float64 `json:"average_score"`
	HighRiskShare      float64 `json:"high_risk_share"`
}

// RollupByMunicipality groups shops per municipality in encountered order.
func RollupByMunicipality(shops []models.Shop) []AreaSummary {
	return rollup(shops, func(s models.Shop) string { return s.Municipality })
}

// RollupByWard groups shops per ward in encountered order.
func RollupByWard(shops []models.Shop) []AreaSummary {
	return rollup(shops, func(s models.Shop) string { return s.Ward })
}

func rollup(shops []models.Shop, areaOf func(models.Shop) string) []AreaSummary {
	type accum struct {
		summary  AreaSummary
		scoreSum int
		highRisk int
	}

	order := make([]string, 0)
	byArea := make(map[string]*accum)
	for _, shop := range shops {
		area := areaOf(shop)
		if area == "" {
			area = "Unknown"
		}
		a, ok := byArea[area]
		if !ok {
			a = &accum{summary: AreaSummary{Area: area}}
			byArea[area] = a
			order = append(order, area)
		}
		a.summary.Shops++
		a.scoreSum += shop.ComplianceScore
		switch shop.ComplianceStatus {
		case models.ComplianceStatusCompliant:
			a.summary.Compliant++
		case models.ComplianceStatusPartiallyCompliant:
			a.summary.PartiallyCompliant++
		case models.ComplianceStatusNonCompliant:
			a.summary.NonCompliant++
		default:
			a.summary.Pending++
		}
		if shop.RiskLevel == models.RiskLevelHigh || shop.RiskLevel == models.RiskLevelCritical {
			a.highRisk++
		}
	}

	out := make([]AreaSummary, 0, len(order))
	for _, area := range order {
		a := byArea[area]
		a.summary.AverageScore = float64(a.scoreSum) / float64(a.summary.Shops)
		a.summary.HighRiskShare = float64(a.highRisk) / float64(a.summary.Shops)
		out = append(out, a.summary)
	}
	return out
}

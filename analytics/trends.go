package analytics

import (
	"sort"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
)

// TrendPoint is one month of inspection activity on the compliance trend
// chart. Period is "YYYY-MM".
type TrendPoint struct {
	Period       string  `json:"period"`
	Inspections  int     `json:"inspections"`
	AverageScore float64 `json:"average_score"`
	PassRate     float64 `json:"pass_rate"`
}

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// passing threshold for a single inspection on the trend chart.
const trendPassScore = 70

// MonthlyTrend buckets inspections by calendar month, oldest first.
func MonthlyTrend(inspections []models.Inspection) []TrendPoint {
	type accum struct {
		count    int
		scoreSum int
		scored   int
		passed   int
	}

	byPeriod := make(map[string]*accum)
	for _, insp := range inspections {
		if insp.CreatedDate.IsZero() {
			continue
		}
		period := insp.CreatedDate.Format("2006-01")
		a, ok := byPeriod[period]
		if !ok {
			a = &accum{}
			byPeriod[period] = a
		}
		a.count++
		if insp.TotalScore != nil {
			a.scoreSum += *insp.TotalScore
			a.scored++
			if *insp.TotalScore >= trendPassScore {
				a.passed++
			}
		}
	}

	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	points := make([]TrendPoint, 0, len(periods))
	for _, p := range periods {
		a := byPeriod[p]
		avg, passRate := 0.0, 0.0
		if a.scored > 0 {
			avg = float64(a.scoreSum) / float64(a.scored)
			passRate = float64(a.passed) / float64(a.scored)
		}
		points = append(points, TrendPoint{
			Period:       p,
			Inspections:  a.count,
			AverageScore: avg,
			PassRate:     passRate,
		})
	}
	return points
}

// TrendDirection compares the average score of the later half of the series
// against the earlier half. Differences under two points read as stable.
func TrendDirection(points []TrendPoint) string {
	if len(points) < 2 {
		return TrendStable
	}
	mid := len(points) / 2
	early := averageOf(points[:mid])
	late := averageOf(points[mid:])

	switch {
	case late-early > 2:
		return TrendUp
	case early-late > 2:
		return TrendDown
	default:
		return TrendStable
	}
}

func averageOf(points []TrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.AverageScore
	}
	return sum / float64(len(points))
}

// ComplianceDistribution counts shops per compliance status for the summary
// donut chart.
func ComplianceDistribution(shops []models.Shop) map[models.ComplianceStatus]int {
	dist := make(map[models.ComplianceStatus]int, 4)
	for _, shop := range shops {
		dist[shop.ComplianceStatus]++
	}
	return dist
}

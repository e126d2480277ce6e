package analytics

import (
	"math"
	"sort"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
)

// AgentPerformance is one leaderboard row, keyed by the inspector's email
// because the platform HR records carry no foreign keys.
type AgentPerformance struct {
	AgentEmail    string  `json:"agent_email"`
	Inspections   int     `json:"inspections"`
	Completed     int     `json:"completed"`
	DistinctShops int     `json:"distinct_shops"`
	AverageScore  float64 `json:"average_score"`
	Score         int     `json:"score"`
}

// Leaderboard metrics a caller can sort by.
const (
	MetricScore       = "score"
	MetricInspections = "inspections"
	MetricAverage     = "average"
)

// AgentLeaderboard folds the full inspection collection into per-agent rows,
// sorted by the overall score descending. Agents appear in the order their
// first inspection was encountered, and ties keep that order.
func AgentLeaderboard(inspections []models.Inspection) []AgentPerformance {
	rows := aggregateAgents(inspections)
	SortLeaderboard(rows, MetricScore)
	return rows
}

// SortLeaderboard orders rows by the chosen metric descending, stable so
// encountered order breaks ties. Unknown metrics fall back to the score.
func SortLeaderboard(rows []AgentPerformance, metric string) {
	key := func(r AgentPerformance) float64 {
		switch metric {
		case MetricInspections:
			return float64(r.Inspections)
		case MetricAverage:
			return r.AverageScore
		default:
			return float64(r.Score)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return key(rows[i]) > key(rows[j]) })
}

func aggregateAgents(inspections []models.Inspection) []AgentPerformance {
	type accum struct {
		count     int
		completed int
		scoreSum  int
		scored    int
		shops     map[string]struct{}
	}

	order := make([]string, 0)
	byAgent := make(map[string]*accum)
	for _, insp := range inspections {
		email := insp.InspectorEmail
		if email == "" {
			continue
		}
		a, ok := byAgent[email]
		if !ok {
			a = &accum{shops: make(map[string]struct{})}
			byAgent[email] = a
			order = append(order, email)
		}
		a.count++
		if insp.Status == models.InspectionStatusCompleted {
			a.completed++
		}
		if insp.TotalScore != nil {
			a.scoreSum += *insp.TotalScore
			a.scored++
		}
		if insp.ShopId != "" {
			a.shops[insp.ShopId] = struct{}{}
		}
	}

	rows := make([]AgentPerformance, 0, len(order))
	for _, email := range order {
		a := byAgent[email]
		avg := 0.0
		if a.scored > 0 {
			avg = float64(a.scoreSum) / float64(a.scored)
		}
		rows = append(rows, AgentPerformance{
			AgentEmail:    email,
			Inspections:   a.count,
			Completed:     a.completed,
			DistinctShops: len(a.shops),
			AverageScore:  avg,
			Score:         performanceScore(a.count, avg, len(a.shops)),
		})
	}
	return rows
}

// performanceScore weights volume, quality, and coverage into a single
// 0-100 number shown on the leaderboard.
func performanceScore(inspections int, avgScore float64, distinctShops int) int {
	raw := 10*float64(inspections) + 0.5*avgScore + 5*float64(distinctShops)
	score := int(math.Round(raw))
	if score > 100 {
		score = 100
	}
	return score
}

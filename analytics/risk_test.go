package analytics

import (
	"testing"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
)

var riskNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func inspectionAt(shopId string, score int, daysAgo int) models.Inspection {
	return models.Inspection{
		ShopId:      shopId,
		TotalScore:  intPtr(score),
		Status:      models.InspectionStatusCompleted,
		CreatedDate: riskNow.AddDate(0, 0, -daysAgo),
	}
}

func TestScoreShop_WorstCaseClampsToHundred(t *testing.T) {
	shop := models.Shop{
		ID:               "shop-1",
		ShopName:         "Worst Case Trading",
		ComplianceStatus: models.ComplianceStatusNonCompliant,
		RiskLevel:        models.RiskLevelCritical,
		// No CoA, no trading permit, never inspected.
	}

	got := ScoreShopAt(shop, nil, riskNow)
	// 50 + 25 + 20 + 20 + 10 = 125, clamped.
	if got.Score != 100 {
		t.Fatalf("expected score 100, got %d", got.Score)
	}
	if got.Bucket != models.RiskLevelHigh {
		t.Fatalf("expected high bucket, got %s", got.Bucket)
	}
}

func TestScoreShop_Weights(t *testing.T) {
	cases := []struct {
		name        string
		shop        models.Shop
		inspections []models.Inspection
		expected    int
	}{
		{
			name: "compliant shop recently inspected scores base only",
			shop: models.Shop{
				ComplianceStatus:    models.ComplianceStatusCompliant,
				RiskLevel:           models.RiskLevelLow,
				HasCoa:              true,
				TradingPermitNumber: "TP-100",
			},
			inspections: []models.Inspection{inspectionAt("s", 90, 10)},
			expected:    50,
		},
		{
			name: "partially compliant adds fifteen",
			shop: models.Shop{
				ComplianceStatus:    models.ComplianceStatusPartiallyCompliant,
				HasCoa:              true,
				TradingPermitNumber: "TP-100",
			},
			inspections: []models.Inspection{inspectionAt("s", 70, 10)},
			expected:    65,
		},
		{
			name: "declining trend between last two inspections adds fifteen",
			shop: models.Shop{
				ComplianceStatus:    models.ComplianceStatusCompliant,
				HasCoa:              true,
				TradingPermitNumber: "TP-100",
			},
			inspections: []models.Inspection{
				inspectionAt("s", 80, 30),
				inspectionAt("s", 60, 5),
			},
			expected: 65,
		},
		{
			name: "stale inspection adds ten",
			shop: models.Shop{
				ComplianceStatus:    models.ComplianceStatusCompliant,
				HasCoa:              true,
				TradingPermitNumber: "TP-100",
			},
			inspections: []models.Inspection{inspectionAt("s", 85, 120)},
			expected:    60,
		},
		{
			name: "insecure tenure and missing docs add fifteen combined",
			shop: models.Shop{
				ComplianceStatus:     models.ComplianceStatusCompliant,
				TenureSecurityStatus: models.TenureStatusInsecure,
			},
			inspections: []models.Inspection{inspectionAt("s", 85, 10)},
			expected:    65,
		},
		{
			name: "trading permit alone satisfies documentation",
			shop: models.Shop{
				ComplianceStatus:    models.ComplianceStatusCompliant,
				TradingPermitNumber: "TP-200",
			},
			inspections: []models.Inspection{inspectionAt("s", 85, 10)},
			expected:    50,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreShopAt(tc.shop, tc.inspections, riskNow)
			if got.Score != tc.expected {
				t.Fatalf("expected score %d, got %d (factors %v)", tc.expected, got.Score, got.Factors)
			}
		})
	}
}

func TestScoreShop_Deterministic(t *testing.T) {
	shop := models.Shop{ComplianceStatus: models.ComplianceStatusNonCompliant}
	inspections := []models.Inspection{inspectionAt("s", 40, 200), inspectionAt("s", 55, 300)}

	first := ScoreShopAt(shop, inspections, riskNow)
	for i := 0; i < 10; i++ {
		again := ScoreShopAt(shop, inspections, riskNow)
		if again.Score != first.Score || again.Bucket != first.Bucket {
			t.Fatalf("score not deterministic: %d/%s vs %d/%s", first.Score, first.Bucket, again.Score, again.Bucket)
		}
	}
}

func TestRiskBucket_Boundaries(t *testing.T) {
	cases := []struct {
		score    int
		expected models.RiskLevel
	}{
		{0, models.RiskLevelLow},
		{49, models.RiskLevelLow},
		{50, models.RiskLevelMedium},
		{69, models.RiskLevelMedium},
		{70, models.RiskLevelHigh},
		{100, models.RiskLevelHigh},
	}
	for _, tc := range cases {
		if got := riskBucket(tc.score); got != tc.expected {
			t.Fatalf("riskBucket(%d) expected %s, got %s", tc.score, tc.expected, got)
		}
	}
}

func TestScoreShops_SortedByScoreDescending(t *testing.T) {
	shops := []models.Shop{
		{ID: "a", ComplianceStatus: models.ComplianceStatusCompliant, HasCoa: true, TradingPermitNumber: "TP-1"},
		{ID: "b", ComplianceStatus: models.ComplianceStatusNonCompliant},
	}
	inspections := []models.Inspection{
		inspectionAt("a", 90, 5),
		{ShopId: "a", TotalScore: intPtr(90), CreatedDate: riskNow.AddDate(0, 0, -40)},
	}

	got := ScoreShops(shops, inspections, riskNow)
	if len(got) != 2 {
		t.Fatalf("expected 2 assessments, got %d", len(got))
	}
	if got[0].ShopId != "b" {
		t.Fatalf("expected riskiest shop first, got %s", got[0].ShopId)
	}
	if got[0].Score < got[1].Score {
		t.Fatalf("assessments out of order: %d before %d", got[0].Score, got[1].Score)
	}
}

package exports

import (
	"strconv"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"github.com/shopspring/decimal"
)

// FundingReport is the NEF funding-readiness export: shops that are eligible
// for or already receiving funding, with exact rand totals.
type FundingReport struct {
	Headers []string
	Rows    [][]string
	Total   decimal.Decimal
}

// BuildFundingReport filters the shop collection down to funding-relevant
// records and totals the committed amounts with decimal arithmetic.
func BuildFundingReport(shops []models.Shop) FundingReport {
	report := FundingReport{
		Headers: []string{
			"Shop Name",
			"Owner Name",
			"Municipality",
			"Funding Status",
			"Funding Amount",
			"Monthly Rent",
			"Trading Months",
			"Bank Account",
			"SARS Registered",
			"Compliance Score",
		},
		Total: decimal.Zero,
	}

	for _, shop := range shops {
		switch shop.FundingStatus {
		case models.FundingStatusEligible, models.FundingStatusFunded, models.FundingStatusPendingReview:
		default:
			continue
		}
		report.Rows = append(report.Rows, []string{
			shop.ShopName,
			shop.OwnerName,
			shop.Municipality,
			string(shop.FundingStatus),
			shop.FundingAmount.StringFixed(2),
			shop.MonthlyRent.StringFixed(2),
			strconv.Itoa(shop.TradingMonths),
			yesNo(shop.HasBusinessBankAccount),
			yesNo(shop.IsSarsRegistered),
			strconv.Itoa(shop.ComplianceScore),
		})
		report.Total = report.Total.Add(shop.FundingAmount)
	}
	return report
}

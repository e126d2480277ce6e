package exports

import (
	"strconv"

	"bitbucket.org/kwahlelwa/spazaops_backend/models"
)

// ShopReportHeaders lists the compliance-report columns in output order.
// Owner ID number and phone number are personal information and only appear
// when the caller asks for them.
func ShopReportHeaders(includePII bool) []string {
	headers := []string{
		"Shop Name",
		"Owner Name",
		"Municipality",
		"Ward",
		"Structure Type",
		"Compliance Status",
		"Compliance Score",
		"Risk Level",
		"Funding Status",
		"Has CoA",
		"SARS Registered",
		"Trading Permit",
		"Last Inspection Date",
		"Created Date",
	}
	if includePII {
		headers = append(headers, "Owner ID Number", "Phone Number")
	}
	return headers
}

// ShopReportRows renders shops into string cells matching ShopReportHeaders.
func ShopReportRows(shops []models.Shop, includePII bool) [][]string {
	rows := make([][]string, 0, len(shops))
	for _, shop := range shops {
		lastInspection := ""
		if shop.LastInspectionDate != nil {
			lastInspection = shop.LastInspectionDate.Format("2006-01-02")
		}
		created := ""
		if !shop.CreatedDate.IsZero() {
			created = shop.CreatedDate.Format("2006-01-02")
		}
		row := []string{
			shop.ShopName,
			shop.OwnerName,
			shop.Municipality,
			shop.Ward,
			shop.StructureType,
			string(shop.ComplianceStatus),
			strconv.Itoa(shop.ComplianceScore),
			string(shop.RiskLevel),
			string(shop.FundingStatus),
			yesNo(shop.HasCoa),
			yesNo(shop.IsSarsRegistered),
			shop.TradingPermitNumber,
			lastInspection,
			created,
		}
		if includePII {
			row = append(row, shop.OwnerIdNumber, shop.PhoneNumber)
		}
		rows = append(rows, row)
	}
	return rows
}

// ShopReportCells is ShopReportRows with numeric typing preserved for the
// SpreadsheetML and XLSX writers.
func ShopReportCells(shops []models.Shop, includePII bool) [][]Cell {
	stringRows := ShopReportRows(shops, includePII)
	scoreCol := 6 // Compliance Score
	rows := make([][]Cell, 0, len(stringRows))
	for _, sr := range stringRows {
		row := make([]Cell, len(sr))
		for i, v := range sr {
			if i == scoreCol {
				row[i] = Cell{Value: v, Numeric: true}
			} else {
				row[i] = StringCell(v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

package exports

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// BuildWorkbook writes headers and typed cells into a real XLSX workbook.
// The caller streams it with (*excelize.File).Write.
func BuildWorkbook(sheetName string, headers []string, rows [][]Cell) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		// excelize always creates Sheet1; drop it so the report sheet is alone.
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowNo, row := range rows {
		for col, c := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNo+2)
			if err != nil {
				return nil, err
			}
			if c.Numeric {
				if n, convErr := strconv.ParseFloat(c.Value, 64); convErr == nil {
					if err := f.SetCellValue(sheetName, cell, n); err != nil {
						return nil, err
					}
					continue
				}
			}
			if err := f.SetCellValue(sheetName, cell, c.Value); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/nestcut/internal/model"
)

// ExportXLSX writes the nesting result as a spreadsheet: a summary sheet
// with per-board statistics and a cut-list sheet with one row per placed
// part.
func ExportXLSX(path string, result model.NestResult) error {
	if len(result.Boards) == 0 {
		return fmt.Errorf("no boards to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	const cutListSheet = "Cut List"

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}
	if _, err := f.NewSheet(cutListSheet); err != nil {
		return fmt.Errorf("creating cut list sheet: %w", err)
	}

	// Summary sheet
	summaryHeaders := []string{"Board", "Material", "Stock Width (mm)", "Stock Height (mm)", "Parts", "Used Area (mm²)", "Waste (%)"}
	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return err
		}
	}
	for row, board := range result.Boards {
		values := []interface{}{
			board.ID,
			board.Material,
			board.Width,
			board.Height,
			len(board.Parts),
			board.UsedArea(),
			board.WastePercentage(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
	}
	totalRow := len(result.Boards) + 3
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetCellValue(summarySheet, cell, fmt.Sprintf("Overall efficiency: %.1f%%", result.TotalEfficiency())); err != nil {
		return err
	}

	// Cut list sheet
	cutHeaders := []string{"Part", "Material", "Width (mm)", "Height (mm)", "Board", "X (mm)", "Y (mm)", "Rotated"}
	for i, h := range cutHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(cutListSheet, cell, h); err != nil {
			return err
		}
	}
	row := 2
	for _, board := range result.Boards {
		for _, pi := range board.Parts {
			values := []interface{}{
				pi.Part.Name,
				board.Material,
				pi.Part.Width,
				pi.Part.Height,
				board.ID,
				pi.X,
				pi.Y,
				pi.Rotated,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(cutListSheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "G", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(cutListSheet, "A", "H", 14); err != nil {
		return err
	}

	return f.SaveAs(path)
}

package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
)

// Report sheet names.
const (
	RisksSheet   = "Risks"
	SkippedSheet = "Skipped"
)

var riskHeaders = []string{"Severity", "Type", "Date", "Events", "Explanation", "Suggestion"}

// NewRiskReport builds a workbook listing every risk in evaluation order,
// plus the comparisons that were skipped.
func NewRiskReport(eval types.ScheduleRiskEvaluation) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeRisksSheet(f, eval); err != nil {
		return nil, fmt.Errorf("writing risks sheet: %w", err)
	}
	if err := writeSkippedSheet(f, eval); err != nil {
		return nil, fmt.Errorf("writing skipped sheet: %w", err)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(RisksSheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// WriteRiskReport saves the report for eval to path.
func WriteRiskReport(path string, eval types.ScheduleRiskEvaluation) error {
	f, err := NewRiskReport(eval)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

func writeRisksSheet(f *excelize.File, eval types.ScheduleRiskEvaluation) error {
	sheet := RisksSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, riskHeaders); err != nil {
		return err
	}

	errorStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
	})
	warningStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFEB9C"}},
	})

	for i, r := range eval.Risks {
		row := i + 2
		var date string
		names := make([]string, 0, len(r.AffectedEvents))
		for _, ev := range r.AffectedEvents {
			if date == "" {
				date = ev.Date
			}
			names = append(names, ev.DisplayName)
		}
		values := []interface{}{string(r.Severity), string(r.RiskType), date, strings.Join(names, ", "), r.Explanation, r.Suggestion}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}

		style := 0
		switch r.Severity {
		case types.SeverityError:
			style = errorStyle
		case types.SeverityWarning:
			style = warningStyle
		}
		if style != 0 {
			if err := f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), style); err != nil {
				return err
			}
		}
	}

	widths := []float64{10, 22, 12, 36, 80, 60}
	for i, w := range widths {
		col := colLetter(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func writeSkippedSheet(f *excelize.File, eval types.ScheduleRiskEvaluation) error {
	sheet := SkippedSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []string{"Events", "Reason"}); err != nil {
		return err
	}
	for i, s := range eval.Skipped {
		if err := setRow(f, sheet, i+2, []interface{}{strings.Join(s.EventIDs, ", "), s.Reason}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 80)
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), headerStyle)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	return f.SetSheetRow(sheet, cellRef(1, row), &values)
}

func cellRef(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func colLetter(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

// Package export writes the dashboard grid as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/grid"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the only sheet in the workbook.
const SheetName = "Dashboard"

// MaxLessonColumns is the widest package size shown.
const MaxLessonColumns = model.PackageSizeLarge

// FileName returns the download name for a size filter (0 = all sizes).
func FileName(size int) string {
	switch size {
	case model.PackageSizeSmall:
		return "tuition_dashboard_4-lesson.xlsx"
	case model.PackageSizeLarge:
		return "tuition_dashboard_8-lesson.xlsx"
	default:
		return "tuition_dashboard_all.xlsx"
	}
}

// WriteDashboard renders rows into a workbook with lessonColumns lesson
// columns and writes it to w. The first lesson of an unpaid package is red,
// manual overrides are suffixed with "(M)".
func WriteDashboard(w io.Writer, rows []grid.Row, lessonColumns int) error {
	if lessonColumns <= 0 || lessonColumns > MaxLessonColumns {
		lessonColumns = MaxLessonColumns
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	unpaidStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "DC2626"}})
	if err != nil {
		return fmt.Errorf("create unpaid style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	headers := []interface{}{"Name", "CEFR", "Group", "Days", "Package"}
	for i := 1; i <= lessonColumns; i++ {
		headers = append(headers, fmt.Sprintf("Lesson %d", i))
	}
	headers = append(headers, "Paid")
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		r := i + 2
		cells := rowCells(row, lessonColumns)
		start, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(SheetName, start, &cells); err != nil {
			return fmt.Errorf("write row %s: %w", row.Key, err)
		}

		if row.Kind == grid.RowPackage && row.HighlightFirst && len(row.Lessons) > 0 && row.Lessons[0] != nil {
			cell, _ := excelize.CoordinatesToCellName(6, r)
			if err := f.SetCellStyle(SheetName, cell, cell, unpaidStyle); err != nil {
				return fmt.Errorf("style row %s: %w", row.Key, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func rowCells(row grid.Row, lessonColumns int) []interface{} {
	cells := make([]interface{}, 0, 6+lessonColumns)
	s := row.Student

	switch row.Kind {
	case grid.RowMakeup:
		cells = append(cells, "", "", "", "", "Make-up")
		for i := 0; i < lessonColumns; i++ {
			if i < len(row.Lessons) {
				cells = append(cells, row.Lessons[i].Date.String())
			} else {
				cells = append(cells, "")
			}
		}
		return append(cells, "")
	case grid.RowPlaceholder:
		cells = append(cells, s.Name, s.CEFR, s.Group, weekdayLabel(s), "")
		for i := 0; i < lessonColumns; i++ {
			cells = append(cells, "")
		}
		return append(cells, "")
	}

	if row.IsFirstForStudent {
		cells = append(cells, s.Name, s.CEFR, s.Group, weekdayLabel(s))
	} else {
		cells = append(cells, "", "", "", "")
	}
	cells = append(cells, fmt.Sprintf("#%d (%d)", row.Package.ID, row.Package.Size))
	for i := 0; i < lessonColumns; i++ {
		cells = append(cells, lessonCell(row.Lessons, i))
	}
	paid := "No"
	if row.Package.PaymentStatus {
		paid = "Yes"
	}
	return append(cells, paid)
}

func lessonCell(lessons []*model.Lesson, i int) string {
	if i >= len(lessons) || lessons[i] == nil {
		return ""
	}
	l := lessons[i]
	if l.IsManualOverride {
		return l.Date.String() + " (M)"
	}
	return l.Date.String()
}

func weekdayLabel(s *model.Student) string {
	days := s.Weekdays()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

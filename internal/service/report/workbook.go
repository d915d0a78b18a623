package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/report"
)

const (
	summarySheet = "Summary"
	dailySheet   = "Daily"
)

var (
	summaryHeader = []interface{}{"Name", "Email", "Working Days", "Total Hours", "Leave"}
	dailyHeader   = []interface{}{"Email", "Day", "Check In", "Check Out", "Hours"}
)

type employeePeriod struct {
	report.EmployeePeriodRow
	Days []attendance.DaySummary
}

func buildWorkbook(rows []employeePeriod) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeHeader(f, summarySheet, summaryHeader, bold); err != nil {
		return nil, err
	}
	if err := writeHeader(f, dailySheet, dailyHeader, bold); err != nil {
		return nil, err
	}

	dailyRow := 2
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		err := f.SetSheetRow(summarySheet, cell, &[]interface{}{
			r.Name,
			r.Email,
			r.WorkingDays,
			hours(r.TotalWorkedSeconds),
			r.TotalLeave,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}

		for _, d := range r.Days {
			cell, _ := excelize.CoordinatesToCellName(1, dailyRow)
			err := f.SetSheetRow(dailySheet, cell, &[]interface{}{
				r.Email,
				d.Day.Format(attendance.DateLayout),
				attendance.FormatClock(d.FirstCheckIn),
				attendance.FormatClock(d.LastCheckOut),
				hours(d.WorkedSeconds),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to write daily row: %w", err)
			}
			dailyRow++
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "B", 30); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(dailySheet, "A", "A", 30); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, header []interface{}, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func hours(seconds int64) float64 {
	return float64(seconds/36) / 100
}

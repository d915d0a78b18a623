package attendance

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
)

var (
	reportHeader = []string{"Day", "Check In", "Check Out", "Total Hours"}
	eventsHeader = []string{"user_email", "action", "event_time", "latitude", "longitude", "location_text"}
)

// EncodeReportCSV renders one row per day of the report.
func EncodeReportCSV(report attendance.PeriodReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportHeader); err != nil {
		return nil, err
	}
	for _, d := range report.Days {
		row := []string{
			d.Day.Format(attendance.DateLayout),
			attendance.FormatClock(d.FirstCheckIn),
			attendance.FormatClock(d.LastCheckOut),
			attendance.FormatWorked(d.WorkedSeconds),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// EncodeEventsCSV renders raw events, one row each.
func EncodeEventsCSV(events []attendance.Event) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(eventsHeader); err != nil {
		return nil, err
	}
	for _, e := range events {
		row := []string{
			e.EmployeeEmail,
			string(e.Action),
			e.Timestamp.Format(attendance.StampLayout),
			formatCoord(e.Latitude),
			formatCoord(e.Longitude),
			deref(e.LocationText),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

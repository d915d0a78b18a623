package attendance

import (
	"sort"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
)

const (
	periodStartDay = 21
	periodEndDay   = 20
)

// PeriodCalculator derives attendance periods and per-period reports.
// It has no state and never reads the wall clock.
type PeriodCalculator struct {
}

func NewPeriodCalculator() *PeriodCalculator {
	return &PeriodCalculator{}
}

// PeriodFor returns the 21st-to-20th period containing ref.
func (c *PeriodCalculator) PeriodFor(ref time.Time) attendance.Period {
	y, m, d := ref.Date()
	loc := ref.Location()

	// time.Date normalizes month 0 and month 13 across the year boundary
	if d > periodEndDay {
		return attendance.Period{
			StartDate: time.Date(y, m, periodStartDay, 0, 0, 0, 0, loc),
			EndDate:   time.Date(y, m+1, periodEndDay, 0, 0, 0, 0, loc),
		}
	}

	return attendance.Period{
		StartDate: time.Date(y, m-1, periodStartDay, 0, 0, 0, 0, loc),
		EndDate:   time.Date(y, m, periodEndDay, 0, 0, 0, 0, loc),
	}
}

// Summarize groups events by calendar date and aggregates them into a report.
// Events are expected to be pre-filtered to the period; boundaries are not
// re-checked. Any unrecognized action fails the whole call.
func (c *PeriodCalculator) Summarize(events []attendance.Event, period attendance.Period) (attendance.PeriodReport, error) {
	for _, e := range events {
		if !e.Action.IsValid() {
			return attendance.PeriodReport{}, &attendance.InvalidInputError{EventID: e.ID, Action: e.Action}
		}
	}

	byDay := make(map[string]*attendance.DaySummary)
	var keys []string

	for _, e := range events {
		key := e.Timestamp.Format(attendance.DateLayout)
		summary, ok := byDay[key]
		if !ok {
			y, m, d := e.Timestamp.Date()
			summary = &attendance.DaySummary{Day: time.Date(y, m, d, 0, 0, 0, 0, e.Timestamp.Location())}
			byDay[key] = summary
			keys = append(keys, key)
		}

		ts := e.Timestamp
		switch e.Action {
		case attendance.ActionCheckIn:
			if summary.FirstCheckIn == nil || ts.Before(*summary.FirstCheckIn) {
				summary.FirstCheckIn = &ts
			}
		case attendance.ActionCheckOut:
			if summary.LastCheckOut == nil || ts.After(*summary.LastCheckOut) {
				summary.LastCheckOut = &ts
			}
		}
	}

	// ISO dates sort chronologically as strings
	sort.Strings(keys)

	report := attendance.PeriodReport{
		Period: period,
		Days:   make([]attendance.DaySummary, 0, len(keys)),
	}

	for _, key := range keys {
		summary := byDay[key]
		if summary.FirstCheckIn != nil && summary.LastCheckOut != nil && summary.LastCheckOut.After(*summary.FirstCheckIn) {
			summary.WorkedSeconds = int64(summary.LastCheckOut.Sub(*summary.FirstCheckIn) / time.Second)
		}
		if summary.FirstCheckIn != nil {
			report.WorkingDayCount++
		}
		report.TotalWorkedSeconds += summary.WorkedSeconds
		report.Days = append(report.Days, *summary)
	}

	return report, nil
}

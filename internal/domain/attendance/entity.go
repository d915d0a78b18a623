package attendance

import "time"

type Action string

const (
	ActionCheckIn  Action = "check-in"
	ActionCheckOut Action = "check-out"
)

// IsValid reports whether a is one of the two recognized actions.
func (a Action) IsValid() bool {
	return a == ActionCheckIn || a == ActionCheckOut
}

type Source string

const (
	SourceGeofence Source = "geofence"
	SourceManual   Source = "manual"
)

// ManualLocationText marks rows inserted by HR instead of a geofenced submission.
const ManualLocationText = "Manual Entry by HR"

// Event is one stored check-in or check-out. Events are append-only.
type Event struct {
	ID            string
	EmployeeEmail string
	Action        Action
	Timestamp     time.Time
	Latitude      *float64
	Longitude     *float64
	LocationText  *string
	Source        Source
	CreatedAt     time.Time
}

// Period is an inclusive range of calendar dates, each carried as midnight in
// the location of the reference date it was derived from. The attendance
// cycle (21st to 20th) comes from PeriodCalculator.PeriodFor; LastDays builds
// the rolling window used by the recent report.
type Period struct {
	StartDate time.Time
	EndDate   time.Time
}

// LastDays returns the days-long range ending on the calendar date of today.
func LastDays(today time.Time, days int) Period {
	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return Period{StartDate: end.AddDate(0, 0, -(days - 1)), EndDate: end}
}

// Contains reports whether the calendar date of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, p.StartDate.Location())
	return !day.Before(p.StartDate) && !day.After(p.EndDate)
}

// Bounds returns the half-open instant range [from, to) covering the period,
// suitable for range queries against stored timestamps.
func (p Period) Bounds() (from, to time.Time) {
	return p.StartDate, p.EndDate.AddDate(0, 0, 1)
}

type DaySummary struct {
	Day           time.Time
	FirstCheckIn  *time.Time
	LastCheckOut  *time.Time
	WorkedSeconds int64
}

type PeriodReport struct {
	Period             Period
	Days               []DaySummary
	TotalWorkedSeconds int64
	WorkingDayCount    int
}

// CheckedIn reports whether the report has a check-in on the given date.
func (r PeriodReport) CheckedIn(day time.Time) bool {
	key := day.Format(DateLayout)
	for _, d := range r.Days {
		if d.Day.Format(DateLayout) == key {
			return d.FirstCheckIn != nil
		}
	}
	return false
}

const (
	DateLayout    = "2006-01-02"
	ClockLayout   = "15:04"
	DisplayLayout = "03:04 PM"
	StampLayout   = "2006-01-02 15:04:05"
)

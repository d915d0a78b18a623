package attendance

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// WindowPolicy holds the check-in and check-out time rules for one deployment.
// All comparisons use the wall clock of the time passed in, so callers convert
// to the office location first.
type WindowPolicy struct {
	MorningStart   TimeOfDay
	MorningEnd     TimeOfDay
	AfternoonStart TimeOfDay
	AfternoonEnd   TimeOfDay
	CheckOutMin    TimeOfDay
}

// DefaultWindowPolicy returns the office's standard windows.
func DefaultWindowPolicy() WindowPolicy {
	return WindowPolicy{
		MorningStart:   TimeOfDay{Hour: 9, Minute: 10},
		MorningEnd:     TimeOfDay{Hour: 19, Minute: 45},
		AfternoonStart: TimeOfDay{Hour: 13, Minute: 30},
		AfternoonEnd:   TimeOfDay{Hour: 13, Minute: 45},
		CheckOutMin:    TimeOfDay{Hour: 19, Minute: 15},
	}
}

// CheckInAllowed reports whether t lies in the morning or the afternoon window.
// Both windows are inclusive at their start and end minute.
func (p WindowPolicy) CheckInAllowed(t time.Time) bool {
	s := secondsOfDay(t)
	inMorning := s >= p.MorningStart.seconds() && s <= p.MorningEnd.seconds()
	inAfternoon := s >= p.AfternoonStart.seconds() && s <= p.AfternoonEnd.seconds()
	return inMorning || inAfternoon
}

// CheckOutAllowed reports whether t is at or after the minimum check-out time.
func (p WindowPolicy) CheckOutAllowed(t time.Time) bool {
	return secondsOfDay(t) >= p.CheckOutMin.seconds()
}

// Validate checks that each window is well ordered.
func (p WindowPolicy) Validate() error {
	if p.MorningEnd.seconds() < p.MorningStart.seconds() {
		return fmt.Errorf("morning window ends (%s) before it starts (%s)", p.MorningEnd, p.MorningStart)
	}
	if p.AfternoonEnd.seconds() < p.AfternoonStart.seconds() {
		return fmt.Errorf("afternoon window ends (%s) before it starts (%s)", p.AfternoonEnd, p.AfternoonStart)
	}
	return nil
}

package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(h, m, s int) time.Time {
	return time.Date(2024, 5, 1, h, m, s, 0, time.UTC)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:10")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 10}, tod)
	assert.Equal(t, "09:10", tod.String())

	_, err = ParseTimeOfDay("9.10")
	assert.Error(t, err)
}

func TestWindowPolicy_CheckInAllowed(t *testing.T) {
	policy := WindowPolicy{
		MorningStart:   TimeOfDay{Hour: 9, Minute: 10},
		MorningEnd:     TimeOfDay{Hour: 11, Minute: 0},
		AfternoonStart: TimeOfDay{Hour: 13, Minute: 30},
		AfternoonEnd:   TimeOfDay{Hour: 13, Minute: 45},
		CheckOutMin:    TimeOfDay{Hour: 19, Minute: 15},
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before morning window", clock(9, 9, 59), false},
		{"morning window start", clock(9, 10, 0), true},
		{"inside morning window", clock(10, 30, 0), true},
		{"morning window end minute", clock(11, 0, 0), true},
		{"seconds past morning end", clock(11, 0, 30), false},
		{"between windows", clock(12, 0, 0), false},
		{"afternoon window start", clock(13, 30, 0), true},
		{"inside afternoon window", clock(13, 40, 10), true},
		{"after afternoon window", clock(13, 46, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.CheckInAllowed(tt.at))
		})
	}
}

func TestWindowPolicy_CheckOutAllowed(t *testing.T) {
	policy := DefaultWindowPolicy()

	assert.False(t, policy.CheckOutAllowed(clock(19, 14, 59)))
	assert.True(t, policy.CheckOutAllowed(clock(19, 15, 0)))
	assert.True(t, policy.CheckOutAllowed(clock(22, 0, 0)))
}

func TestWindowPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultWindowPolicy().Validate())

	bad := DefaultWindowPolicy()
	bad.MorningEnd = TimeOfDay{Hour: 8, Minute: 0}
	assert.Error(t, bad.Validate())

	bad = DefaultWindowPolicy()
	bad.AfternoonEnd = TimeOfDay{Hour: 13, Minute: 0}
	assert.Error(t, bad.Validate())
}

func TestPeriod_ContainsAndBounds(t *testing.T) {
	p := Period{
		StartDate: time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, p.Contains(time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2024, 5, 20, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 4, 20, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC)))

	from, to := p.Bounds()
	assert.Equal(t, p.StartDate, from)
	assert.Equal(t, time.Date(2024, 5, 21, 0, 0, 0, 0, time.UTC), to)
}

func TestLastDays(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name      string
		today     time.Time
		days      int
		wantStart time.Time
	}{
		{"thirty days across a month", time.Date(2024, 3, 5, 9, 30, 0, 0, ist), 30, time.Date(2024, 2, 5, 0, 0, 0, 0, ist)},
		{"single day", time.Date(2024, 3, 5, 23, 59, 0, 0, ist), 1, time.Date(2024, 3, 5, 0, 0, 0, 0, ist)},
		{"week across a year", time.Date(2024, 1, 3, 8, 0, 0, 0, ist), 7, time.Date(2023, 12, 28, 0, 0, 0, 0, ist)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := LastDays(tt.today, tt.days)
			y, m, d := tt.today.Date()

			assert.Equal(t, tt.wantStart, p.StartDate)
			assert.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, ist), p.EndDate)
			assert.True(t, p.Contains(tt.today))
			assert.False(t, p.Contains(tt.wantStart.AddDate(0, 0, -1)))

			_, to := p.Bounds()
			assert.Equal(t, time.Date(y, m, d+1, 0, 0, 0, 0, ist), to)
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	ts := time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "06:30 PM", FormatClock(&ts))
	assert.Equal(t, "-", FormatClock(nil))
	assert.Equal(t, "9h 25m", FormatWorked(33900))
	assert.Equal(t, "-", FormatWorked(0))
}

func TestInvalidInputError(t *testing.T) {
	err := &InvalidInputError{Action: "lunch-break"}
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "lunch-break")
}

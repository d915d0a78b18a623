package attendance

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/auth"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/geo"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/storage"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/validator"
	"github.com/zugo-hr/attendance-backend-go/internal/repository/memory"
	"github.com/zugo-hr/attendance-backend-go/internal/repository/roster"
)

var ist = time.FixedZone("IST", 5*3600+1800)

const (
	officeLat = 11.120529
	officeLon = 77.3398681
)

type serviceFixture struct {
	svc       *AttendanceServiceImpl
	events    *memory.AttendanceStore
	employees *memory.EmployeeStore
	storage   *storage.LocalStorage
	jwt       *jwt.JWTService
	clock     time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	events := memory.NewAttendanceStore()
	employees := memory.NewEmployeeStore().LinkAttendance(events)
	files, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)

	f := &serviceFixture{
		events:    events,
		employees: employees,
		storage:   files,
		jwt:       jwt.NewJWTService("test-secret", "1h"),
		clock:     time.Date(2024, 3, 5, 9, 30, 0, 0, ist),
	}

	r := roster.New(employee.RosterEntry{Email: "anu@zugo.in", Name: "Anu"})
	fence := geo.Fence{Latitude: officeLat, Longitude: officeLon, RadiusMeters: 100}
	f.svc = NewAttendanceService(events, employees, r, fence, attendance.DefaultWindowPolicy(), files, ist).
		WithClock(func() time.Time { return f.clock })

	ctx := context.Background()
	for _, e := range []employee.Employee{
		{Name: "HR", Email: "hr@zugo.in", Role: employee.RoleHR},
		{Name: "Ravi", Email: "ravi@zugo.in", Role: employee.RoleEmployee},
		{Name: "Anu", Email: "anu@zugo.in", Role: employee.RoleEmployee},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}
	return f
}

func (f *serviceFixture) as(t *testing.T, email string, role employee.Role) context.Context {
	t.Helper()
	ctx, err := jwt.NewContext(context.Background(), f.jwt.JWTAuth(), email, role)
	require.NoError(t, err)
	return ctx
}

func (f *serviceFixture) set(hh, mm int) {
	f.clock = time.Date(f.clock.Year(), f.clock.Month(), f.clock.Day(), hh, mm, 0, 0, ist)
}

func atOffice(action string) attendance.CheckRequest {
	lat, lon := officeLat, officeLon
	return attendance.CheckRequest{Action: action, Latitude: &lat, Longitude: &lon}
}

func TestAttendanceService_Record(t *testing.T) {
	f := newServiceFixture(t)
	ravi := f.as(t, "ravi@zugo.in", employee.RoleEmployee)

	t.Run("unknown action", func(t *testing.T) {
		_, err := f.svc.Record(ravi, atOffice("lunch"))
		var invalid *attendance.InvalidInputError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, attendance.Action("lunch"), invalid.Action)
	})

	t.Run("missing location", func(t *testing.T) {
		var err error
		assert.NotPanics(t, func() {
			_, err = f.svc.Record(ravi, attendance.CheckRequest{Action: "check-in"})
		})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.ToMap(), "location")
	})

	t.Run("latitude out of range", func(t *testing.T) {
		lat, lon := 95.0, officeLon
		_, err := f.svc.Record(ravi, attendance.CheckRequest{Action: "check-in", Latitude: &lat, Longitude: &lon})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.ToMap(), "latitude")
	})

	t.Run("outside office", func(t *testing.T) {
		lat, lon := 11.13, officeLon
		_, err := f.svc.Record(ravi, attendance.CheckRequest{Action: "check-in", Latitude: &lat, Longitude: &lon})
		assert.ErrorIs(t, err, attendance.ErrOutsideOffice)
	})

	t.Run("check-in before window", func(t *testing.T) {
		f.set(8, 0)
		_, err := f.svc.Record(ravi, atOffice("check-in"))
		assert.ErrorIs(t, err, attendance.ErrCheckInWindowClosed)
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		f.set(19, 30)
		_, err := f.svc.Record(ravi, atOffice("check-out"))
		assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
	})

	t.Run("check-in", func(t *testing.T) {
		f.set(9, 30)
		resp, err := f.svc.Record(ravi, atOffice("check-in"))
		require.NoError(t, err)
		assert.Equal(t, "check-in", resp.Action)
		assert.Equal(t, "2024-03-05T09:30:00+05:30", resp.EventTime)
		require.NotNil(t, resp.LocationText)
		assert.Equal(t, "11.120529, 77.339868", *resp.LocationText)

		stored, err := f.employees.GetByEmail(context.Background(), "ravi@zugo.in")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.TotalWorking)
	})

	t.Run("second check-in", func(t *testing.T) {
		f.set(10, 0)
		_, err := f.svc.Record(ravi, atOffice("check-in"))
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	})

	t.Run("check-out too early", func(t *testing.T) {
		f.set(19, 0)
		_, err := f.svc.Record(ravi, atOffice("check-out"))
		assert.ErrorIs(t, err, attendance.ErrCheckOutTooEarly)
	})

	t.Run("check-out", func(t *testing.T) {
		f.set(19, 20)
		_, err := f.svc.Record(ravi, atOffice("check-out"))
		require.NoError(t, err)

		_, err = f.svc.Record(ravi, atOffice("check-out"))
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	})

	t.Run("today", func(t *testing.T) {
		today, err := f.svc.Today(ravi)
		require.NoError(t, err)
		require.Len(t, today, 2)
		assert.Equal(t, "check-in", today[0].Action)
		assert.Equal(t, "check-out", today[1].Action)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := f.svc.Record(context.Background(), atOffice("check-in"))
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestAttendanceService_AddManual(t *testing.T) {
	f := newServiceFixture(t)
	hr := f.as(t, "hr@zugo.in", employee.RoleHR)

	req := attendance.ManualAttendanceRequest{
		EmployeeEmail: "anu@zugo.in",
		Date:          "2024-03-04",
		Time:          "09:05",
		Action:        "check-in",
	}

	resp, err := f.svc.AddManual(hr, req)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.SourceManual), resp.Source)
	require.NotNil(t, resp.LocationText)
	assert.Equal(t, attendance.ManualLocationText, *resp.LocationText)
	assert.Equal(t, "2024-03-04T09:05:00+05:30", resp.EventTime)

	_, err = f.svc.AddManual(hr, req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	out := req
	out.Action = "check-out"
	out.Time = "18:30"
	_, err = f.svc.AddManual(hr, out)
	require.NoError(t, err)

	ghost := req
	ghost.EmployeeEmail = "ghost@zugo.in"
	_, err = f.svc.AddManual(hr, ghost)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.AddManual(f.as(t, "ravi@zugo.in", employee.RoleEmployee), req)
	assert.ErrorIs(t, err, auth.ErrHRAccessRequired)
}

func TestAttendanceService_AddManual_Validation(t *testing.T) {
	f := newServiceFixture(t)
	hr := f.as(t, "hr@zugo.in", employee.RoleHR)

	tests := []struct {
		name  string
		req   attendance.ManualAttendanceRequest
		field string
	}{
		{"empty request", attendance.ManualAttendanceRequest{}, "employee_email"},
		{"bad date", attendance.ManualAttendanceRequest{EmployeeEmail: "anu@zugo.in", Date: "04-03-2024", Time: "09:05", Action: "check-in"}, "attendance_date"},
		{"bad time", attendance.ManualAttendanceRequest{EmployeeEmail: "anu@zugo.in", Date: "2024-03-04", Time: "9am", Action: "check-in"}, "attendance_time"},
		{"missing action", attendance.ManualAttendanceRequest{EmployeeEmail: "anu@zugo.in", Date: "2024-03-04", Time: "09:05"}, "action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddManual(hr, tt.req)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}

	stored, err := f.events.ListByEmployee(context.Background(), "anu@zugo.in", time.Time{}, time.Date(2100, 1, 1, 0, 0, 0, 0, ist))
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestAttendanceService_Record_ConcurrentCheckIns(t *testing.T) {
	f := newServiceFixture(t)
	ravi := f.as(t, "ravi@zugo.in", employee.RoleEmployee)

	const workers = 12
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Record(ravi, atOffice("check-in"))
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, succeeded)

	today, err := f.svc.Today(ravi)
	require.NoError(t, err)
	assert.Len(t, today, 1)
}

func seed(t *testing.T, f *serviceFixture, email string, action attendance.Action, ts time.Time) {
	t.Helper()
	_, err := f.events.Create(context.Background(), attendance.Event{EmployeeEmail: email, Action: action, Timestamp: ts})
	require.NoError(t, err)
}

func TestAttendanceService_MyReport(t *testing.T) {
	f := newServiceFixture(t)
	ravi := f.as(t, "ravi@zugo.in", employee.RoleEmployee)

	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 3, 4, 9, 5, 0, 0, ist))
	seed(t, f, "ravi@zugo.in", attendance.ActionCheckOut, time.Date(2024, 3, 4, 18, 30, 0, 0, ist))
	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 3, 5, 9, 30, 0, 0, ist))
	// previous period
	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 2, 20, 9, 30, 0, 0, ist))
	// stored as UTC, still 2024-03-01 in IST
	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 2, 29, 19, 0, 0, 0, time.UTC))

	report, err := f.svc.MyReport(ravi, f.clock)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-21", report.PeriodStart)
	assert.Equal(t, "2024-03-20", report.PeriodEnd)
	assert.Equal(t, 3, report.WorkingDayCount)
	assert.Equal(t, int64(33900), report.TotalWorkedSeconds)
	require.Len(t, report.Days, 3)
	assert.Equal(t, "2024-03-01", report.Days[0].Day)
	assert.Equal(t, "09:05 AM", report.Days[1].CheckIn)
	assert.Equal(t, "06:30 PM", report.Days[1].CheckOut)
	assert.Equal(t, "9h 25m", report.Days[1].TotalHours)
	assert.Equal(t, "-", report.Days[2].CheckOut)
}

func TestAttendanceService_RecentReport(t *testing.T) {
	f := newServiceFixture(t)
	ravi := f.as(t, "ravi@zugo.in", employee.RoleEmployee)

	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 2, 10, 9, 30, 0, 0, ist))
	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 1, 1, 9, 30, 0, 0, ist))
	// one day before the 30-day window
	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 2, 4, 23, 30, 0, 0, ist))

	report, err := f.svc.RecentReport(ravi, 0)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-05", report.PeriodStart)
	assert.Equal(t, "2024-03-05", report.PeriodEnd)
	assert.Equal(t, 1, report.WorkingDayCount)

	report, err = f.svc.RecentReport(ravi, 7)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-28", report.PeriodStart)
	assert.Zero(t, report.WorkingDayCount)
}

func TestAttendanceService_ExportCSV(t *testing.T) {
	f := newServiceFixture(t)
	ravi := f.as(t, "ravi@zugo.in", employee.RoleEmployee)

	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 3, 4, 9, 5, 0, 0, ist))
	seed(t, f, "ravi@zugo.in", attendance.ActionCheckOut, time.Date(2024, 3, 4, 18, 30, 0, 0, ist))

	data, filename, err := f.svc.ExportCSV(ravi, f.clock)
	require.NoError(t, err)
	assert.Equal(t, "attendance_report_2024-02-21_2024-03-20.csv", filename)
	assert.Equal(t, "Day,Check In,Check Out,Total Hours\n2024-03-04,09:05 AM,06:30 PM,9h 25m\n", string(data))
}

func TestAttendanceService_MarkAbsentees(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 3, 5, 9, 30, 0, 0, ist))

	marked, err := f.svc.MarkAbsentees(ctx, f.clock)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	anu, _ := f.employees.GetByEmail(ctx, "anu@zugo.in")
	ravi, _ := f.employees.GetByEmail(ctx, "ravi@zugo.in")
	hr, _ := f.employees.GetByEmail(ctx, "hr@zugo.in")
	assert.Equal(t, 1, anu.TotalLeave)
	assert.Zero(t, ravi.TotalLeave)
	assert.Zero(t, hr.TotalLeave)

	require.NoError(t, f.svc.ResetTotals(ctx))
	anu, _ = f.employees.GetByEmail(ctx, "anu@zugo.in")
	assert.Zero(t, anu.TotalLeave)
}

func TestAttendanceService_Archive(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	cutoff := time.Date(2023, 3, 5, 0, 0, 0, 0, ist)

	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2022, 5, 2, 9, 30, 0, 0, ist))
	seed(t, f, "ravi@zugo.in", attendance.ActionCheckOut, time.Date(2022, 5, 2, 19, 30, 0, 0, ist))
	seed(t, f, "ravi@zugo.in", attendance.ActionCheckIn, time.Date(2024, 3, 5, 9, 30, 0, 0, ist))

	result, err := f.svc.Archive(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Archived)
	assert.True(t, strings.HasPrefix(result.ObjectKey, "archive/attendance_before_2023-03-05_"))

	rc, err := f.storage.Download(ctx, result.ObjectKey)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "user_email,action,event_time,latitude,longitude,location_text", lines[0])
	assert.Equal(t, "ravi@zugo.in,check-in,2022-05-02 09:30:00,,,", lines[1])

	_, err = f.svc.Archive(ctx, cutoff)
	assert.ErrorIs(t, err, attendance.ErrNothingToArchive)

	remaining, err := f.events.ListBetween(ctx, time.Time{}, time.Date(2030, 1, 1, 0, 0, 0, 0, ist))
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/repository/postgresql"
)

func TestAttendanceRepository_Ranges(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	base := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	lat, lon := 11.120529, 77.3398681
	manual := attendance.ManualLocationText

	seed := []attendance.Event{
		{EmployeeEmail: "ravi@zugo.in", Action: attendance.ActionCheckOut, Timestamp: base.Add(9 * time.Hour), Source: attendance.SourceGeofence},
		{EmployeeEmail: "ravi@zugo.in", Action: attendance.ActionCheckIn, Timestamp: base, Latitude: &lat, Longitude: &lon, Source: attendance.SourceGeofence},
		{EmployeeEmail: "anu@zugo.in", Action: attendance.ActionCheckIn, Timestamp: base.Add(time.Hour), LocationText: &manual, Source: attendance.SourceManual},
		{EmployeeEmail: "ravi@zugo.in", Action: attendance.ActionCheckIn, Timestamp: base.AddDate(0, 0, 1), Source: attendance.SourceGeofence},
	}
	for _, ev := range seed {
		_, err := repo.Create(ctx, ev)
		require.NoError(t, err)
	}

	dayFrom, dayTo := base.Truncate(24*time.Hour), base.Truncate(24*time.Hour).AddDate(0, 0, 1)

	ravi, err := repo.ListByEmployee(ctx, "ravi@zugo.in", dayFrom, dayTo)
	require.NoError(t, err)
	require.Len(t, ravi, 2)
	assert.Equal(t, attendance.ActionCheckIn, ravi[0].Action)
	assert.Equal(t, lat, *ravi[0].Latitude)
	assert.Equal(t, attendance.ActionCheckOut, ravi[1].Action)

	all, err := repo.ListBetween(ctx, dayFrom, dayTo)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	emails, err := repo.CheckedInEmails(ctx, dayFrom, dayTo)
	require.NoError(t, err)
	assert.Equal(t, []string{"anu@zugo.in", "ravi@zugo.in"}, emails)

	old, err := repo.ListBefore(ctx, dayTo)
	require.NoError(t, err)
	assert.Len(t, old, 3)

	deleted, err := repo.DeleteBefore(ctx, dayTo)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	remaining, err := repo.ListBetween(ctx, dayFrom, dayTo.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestWithTransaction_RollsBack(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()
	ts := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, attendance.Event{EmployeeEmail: "ravi@zugo.in", Action: attendance.ActionCheckIn, Timestamp: ts, Source: attendance.SourceGeofence}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	events, err := repo.ListBetween(ctx, ts.Add(-time.Hour), ts.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
)

func TestEmployeeStore_CreateDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewEmployeeStore()

	created, err := store.Create(ctx, employee.Employee{Name: "Priya", Email: "Priya@Zugo.in"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "priya@zugo.in", created.Email)

	_, err = store.Create(ctx, employee.Employee{Name: "Other", Email: "priya@zugo.in"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = store.Create(ctx, employee.Employee{Name: "priya", Email: "p2@zugo.in"})
	assert.ErrorIs(t, err, employee.ErrNameExists)
}

func TestEmployeeStore_Update(t *testing.T) {
	ctx := context.Background()
	events := NewAttendanceStore()
	store := NewEmployeeStore().LinkAttendance(events)

	_, err := store.Create(ctx, employee.Employee{Name: "Priya", Email: "priya@zugo.in", PasswordHash: "hash"})
	require.NoError(t, err)
	_, err = store.Create(ctx, employee.Employee{Name: "Ravi", Email: "ravi@zugo.in"})
	require.NoError(t, err)
	_, err = events.Create(ctx, attendance.Event{EmployeeEmail: "priya@zugo.in", Action: attendance.ActionCheckIn, Timestamp: time.Now()})
	require.NoError(t, err)

	t.Run("name taken by someone else", func(t *testing.T) {
		_, err := store.Update(ctx, "priya@zugo.in", employee.Employee{Name: "RAVI", Email: "priya@zugo.in"})
		assert.ErrorIs(t, err, employee.ErrNameExists)
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := store.Update(ctx, "priya@zugo.in", employee.Employee{Name: "Priya", Email: "ravi@zugo.in"})
		assert.ErrorIs(t, err, employee.ErrEmailExists)
	})

	t.Run("rename keeps hash and moves events", func(t *testing.T) {
		updated, err := store.Update(ctx, "priya@zugo.in", employee.Employee{Name: "Priya K", Email: "priya.k@zugo.in"})
		require.NoError(t, err)
		assert.Equal(t, "hash", updated.PasswordHash)

		_, err = store.GetByEmail(ctx, "priya@zugo.in")
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

		moved, err := events.ListByEmployee(ctx, "priya.k@zugo.in", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, moved, 1)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.Update(ctx, "ghost@zugo.in", employee.Employee{Name: "Ghost", Email: "ghost@zugo.in"})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestEmployeeStore_Totals(t *testing.T) {
	ctx := context.Background()
	store := NewEmployeeStore()
	_, err := store.Create(ctx, employee.Employee{Name: "Priya", Email: "priya@zugo.in"})
	require.NoError(t, err)

	require.NoError(t, store.SetTotalWorking(ctx, "priya@zugo.in", 4))
	require.NoError(t, store.IncrementLeave(ctx, "PRIYA@zugo.in"))

	got, err := store.GetByEmail(ctx, "priya@zugo.in")
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalWorking)
	assert.Equal(t, 1, got.TotalLeave)

	require.NoError(t, store.ResetTotals(ctx))
	got, _ = store.GetByEmail(ctx, "priya@zugo.in")
	assert.Zero(t, got.TotalWorking)
	assert.Zero(t, got.TotalLeave)

	assert.ErrorIs(t, store.IncrementLeave(ctx, "ghost@zugo.in"), employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "ghost@zugo.in"), employee.ErrEmployeeNotFound)
}

func TestAttendanceStore_Ranges(t *testing.T) {
	ctx := context.Background()
	store := NewAttendanceStore()
	base := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	for _, ev := range []attendance.Event{
		{EmployeeEmail: "ravi@zugo.in", Action: attendance.ActionCheckOut, Timestamp: base.Add(9 * time.Hour)},
		{EmployeeEmail: "ravi@zugo.in", Action: attendance.ActionCheckIn, Timestamp: base},
		{EmployeeEmail: "anu@zugo.in", Action: attendance.ActionCheckIn, Timestamp: base.Add(time.Hour)},
		{EmployeeEmail: "ravi@zugo.in", Action: attendance.ActionCheckIn, Timestamp: base.AddDate(0, 0, 1)},
	} {
		_, err := store.Create(ctx, ev)
		require.NoError(t, err)
	}

	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	ravi, err := store.ListByEmployee(ctx, "ravi@zugo.in", from, to)
	require.NoError(t, err)
	require.Len(t, ravi, 2)
	assert.Equal(t, attendance.ActionCheckIn, ravi[0].Action)

	emails, err := store.CheckedInEmails(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{"anu@zugo.in", "ravi@zugo.in"}, emails)

	deleted, err := store.DeleteBefore(ctx, to)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	rest, err := store.ListBetween(ctx, from, to.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

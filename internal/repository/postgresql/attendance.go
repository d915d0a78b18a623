package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/database"
)

const eventColumns = `id, employee_email, action, event_time, latitude, longitude, location_text, source, created_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanEvents(rows pgx.Rows) ([]attendance.Event, error) {
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		var ev attendance.Event
		err := rows.Scan(
			&ev.ID, &ev.EmployeeEmail, &ev.Action, &ev.Timestamp,
			&ev.Latitude, &ev.Longitude, &ev.LocationText, &ev.Source, &ev.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	query := `
		INSERT INTO attendance_events (
			id, employee_email, action, event_time, latitude, longitude, location_text, source
		) VALUES (
			$1, LOWER($2), $3, $4, $5, $6, $7, $8
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		event.ID, event.EmployeeEmail, event.Action, event.Timestamp,
		event.Latitude, event.Longitude, event.LocationText, event.Source,
	).Scan(&event.CreatedAt)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to create attendance event: %w", err)
	}

	return event, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, email string, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE employee_email = LOWER($1) AND event_time >= $2 AND event_time < $3
		ORDER BY event_time, created_at
	`

	rows, err := q.Query(ctx, query, email, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for %s: %w", email, err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance for %s: %w", email, err)
	}
	return events, nil
}

// ListBetween implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListBetween(ctx context.Context, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE event_time >= $1 AND event_time < $2
		ORDER BY event_time, created_at
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	return events, nil
}

// ListBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListBefore(ctx context.Context, cutoff time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE event_time < $1
		ORDER BY event_time, created_at
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance before %s: %w", cutoff.Format(time.DateOnly), err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	return events, nil
}

// CheckedInEmails implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckedInEmails(ctx context.Context, from, to time.Time) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT DISTINCT employee_email
		FROM attendance_events
		WHERE action = $1 AND event_time >= $2 AND event_time < $3
		ORDER BY employee_email
	`

	rows, err := q.Query(ctx, query, attendance.ActionCheckIn, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list checked-in employees: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return emails, nil
}

// DeleteBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_events WHERE event_time < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attendance before %s: %w", cutoff.Format(time.DateOnly), err)
	}
	return tag.RowsAffected(), nil
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
)

type AttendanceStore struct {
	mu     sync.RWMutex
	events []attendance.Event
	now    func() time.Time
}

func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{now: time.Now}
}

var _ attendance.AttendanceRepository = (*AttendanceStore)(nil)

func (s *AttendanceStore) Create(ctx context.Context, ev attendance.Event) (attendance.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.EmployeeEmail = key(ev.EmployeeEmail)
	ev.CreatedAt = s.now()
	s.events = append(s.events, ev)
	return ev, nil
}

func (s *AttendanceStore) ListByEmployee(ctx context.Context, email string, from, to time.Time) ([]attendance.Event, error) {
	email = key(email)
	return s.filter(func(ev attendance.Event) bool {
		return ev.EmployeeEmail == email && inRange(ev.Timestamp, from, to)
	}), nil
}

func (s *AttendanceStore) ListBetween(ctx context.Context, from, to time.Time) ([]attendance.Event, error) {
	return s.filter(func(ev attendance.Event) bool {
		return inRange(ev.Timestamp, from, to)
	}), nil
}

func (s *AttendanceStore) ListBefore(ctx context.Context, cutoff time.Time) ([]attendance.Event, error) {
	return s.filter(func(ev attendance.Event) bool {
		return ev.Timestamp.Before(cutoff)
	}), nil
}

func (s *AttendanceStore) CheckedInEmails(ctx context.Context, from, to time.Time) ([]string, error) {
	seen := make(map[string]bool)
	var emails []string
	for _, ev := range s.filter(func(ev attendance.Event) bool {
		return ev.Action == attendance.ActionCheckIn && inRange(ev.Timestamp, from, to)
	}) {
		if !seen[ev.EmployeeEmail] {
			seen[ev.EmployeeEmail] = true
			emails = append(emails, ev.EmployeeEmail)
		}
	}
	sort.Strings(emails)
	return emails, nil
}

func (s *AttendanceStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, ev := range s.events {
		if ev.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	return deleted, nil
}

// Rename moves events recorded under one email to another.
func (s *AttendanceStore) Rename(from, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, to = key(from), key(to)
	for i := range s.events {
		if s.events[i].EmployeeEmail == from {
			s.events[i].EmployeeEmail = to
		}
	}
}

func (s *AttendanceStore) filter(keep func(attendance.Event) bool) []attendance.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []attendance.Event
	for _, ev := range s.events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

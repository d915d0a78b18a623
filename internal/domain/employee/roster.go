package employee

import (
	"strings"
	"time"
)

// RosterEntry is the fallback record for an authorized employee, maintained
// outside the database.
type RosterEntry struct {
	Email          string
	Name           string
	Photo          string
	JobRole        string
	Phone          string
	ParentPhone    string
	DOB            *time.Time
	Gender         Gender
	EmployeeNumber string
	Aadhar         string
	JoiningDate    *time.Time
	Native         string
	Address        string
	PanCard        string
	BankDetails    string
}

// RosterSource is the read-only list of authorized employees.
type RosterSource interface {
	Lookup(email string) (RosterEntry, bool)
	All() []RosterEntry
}

// Resolve merges a stored employee with its roster entry.
//
// Field precedence: the stored value wins unless it is empty, then the roster
// value is used. A stored photo equal to DefaultPhoto counts as empty. When
// only the roster entry exists the result is built from it alone. Identity,
// credentials and counters always come from the stored record.
func Resolve(stored *Employee, fallback *RosterEntry) (Employee, error) {
	if stored == nil && fallback == nil {
		return Employee{}, ErrEmployeeNotFound
	}

	var merged Employee
	if stored != nil {
		merged = *stored
	} else {
		merged = Employee{
			Email: strings.ToLower(strings.TrimSpace(fallback.Email)),
			Role:  RoleEmployee,
		}
	}

	if fallback != nil {
		merged.Name = firstNonEmpty(merged.Name, fallback.Name)
		merged.JobRole = firstNonEmpty(merged.JobRole, fallback.JobRole)
		merged.Phone = firstNonEmpty(merged.Phone, fallback.Phone)
		merged.ParentPhone = firstNonEmpty(merged.ParentPhone, fallback.ParentPhone)
		merged.EmployeeNumber = firstNonEmpty(merged.EmployeeNumber, fallback.EmployeeNumber)
		merged.Aadhar = firstNonEmpty(merged.Aadhar, fallback.Aadhar)
		merged.Native = firstNonEmpty(merged.Native, fallback.Native)
		merged.Address = firstNonEmpty(merged.Address, fallback.Address)
		merged.PanCard = firstNonEmpty(merged.PanCard, fallback.PanCard)
		merged.BankDetails = firstNonEmpty(merged.BankDetails, fallback.BankDetails)
		if merged.Gender == "" {
			merged.Gender = fallback.Gender
		}
		if merged.DOB == nil {
			merged.DOB = fallback.DOB
		}
		if merged.JoiningDate == nil {
			merged.JoiningDate = fallback.JoiningDate
		}
		if merged.Photo == "" || merged.Photo == DefaultPhoto {
			merged.Photo = fallback.Photo
		}
	}

	if merged.Photo == "" {
		merged.Photo = DefaultPhoto
	}
	if merged.JobRole == "" {
		merged.JobRole = DefaultJobRole
	}
	if merged.Role == "" {
		merged.Role = RoleEmployee
	}

	return merged, nil
}

func firstNonEmpty(stored, fallback string) string {
	if strings.TrimSpace(stored) != "" {
		return stored
	}
	return fallback
}

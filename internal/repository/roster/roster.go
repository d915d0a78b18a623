// Package roster loads the authorized-employee list that backs login and
// signup when no stored record exists.
package roster

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/validator"
	"gopkg.in/yaml.v3"
)

type record struct {
	Email          string `yaml:"email"`
	Name           string `yaml:"name"`
	Photo          string `yaml:"photo"`
	JobRole        string `yaml:"job_role"`
	Phone          string `yaml:"phone"`
	ParentPhone    string `yaml:"parent_phone"`
	DOB            string `yaml:"dob"`
	Gender         string `yaml:"gender"`
	EmployeeNumber string `yaml:"employee_number"`
	Aadhar         string `yaml:"aadhar"`
	JoiningDate    string `yaml:"joining_date"`
	Native         string `yaml:"native"`
	Address        string `yaml:"address"`
	PanCard        string `yaml:"pan_card"`
	BankDetails    string `yaml:"bank_details"`
}

type document struct {
	Employees []record `yaml:"employees"`
}

// Roster is an immutable, case-insensitive lookup of roster entries.
type Roster struct {
	entries map[string]employee.RosterEntry
}

var _ employee.RosterSource = (*Roster)(nil)

// New builds a roster from entries. Later duplicates replace earlier ones.
func New(entries ...employee.RosterEntry) *Roster {
	r := &Roster{entries: make(map[string]employee.RosterEntry, len(entries))}
	for _, e := range entries {
		e.Email = strings.ToLower(strings.TrimSpace(e.Email))
		r.entries[e.Email] = e
	}
	return r
}

// Parse decodes a YAML roster document.
func Parse(data []byte) (*Roster, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	entries := make([]employee.RosterEntry, 0, len(doc.Employees))
	for i, rec := range doc.Employees {
		entry, err := rec.toEntry()
		if err != nil {
			return nil, fmt.Errorf("employee #%d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	return New(entries...), nil
}

// LoadFile reads a roster from disk.
func LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	return Parse(data)
}

// ParameterGetter is the subset of the SSM client used to fetch a roster.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// LoadSSM reads a roster stored as a (possibly encrypted) SSM parameter.
func LoadSSM(ctx context.Context, client ParameterGetter, name string) (*Roster, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter: %w", err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s has no value", name)
	}
	return Parse([]byte(*out.Parameter.Value))
}

func (r *Roster) Lookup(email string) (employee.RosterEntry, bool) {
	e, ok := r.entries[strings.ToLower(strings.TrimSpace(email))]
	return e, ok
}

// All returns the entries ordered by name.
func (r *Roster) All() []employee.RosterEntry {
	all := make([]employee.RosterEntry, 0, len(r.entries))
	for _, e := range r.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name == all[j].Name {
			return all[i].Email < all[j].Email
		}
		return all[i].Name < all[j].Name
	})
	return all
}

func (r *Roster) Len() int {
	return len(r.entries)
}

func (rec record) toEntry() (employee.RosterEntry, error) {
	if !validator.IsValidEmail(strings.TrimSpace(rec.Email)) {
		return employee.RosterEntry{}, fmt.Errorf("%w: invalid email %q", employee.ErrRosterEntryInvalid, rec.Email)
	}

	dob, err := parseDate(rec.DOB)
	if err != nil {
		return employee.RosterEntry{}, fmt.Errorf("%w: dob: %v", employee.ErrRosterEntryInvalid, err)
	}
	joined, err := parseDate(rec.JoiningDate)
	if err != nil {
		return employee.RosterEntry{}, fmt.Errorf("%w: joining_date: %v", employee.ErrRosterEntryInvalid, err)
	}

	return employee.RosterEntry{
		Email:          rec.Email,
		Name:           strings.TrimSpace(rec.Name),
		Photo:          rec.Photo,
		JobRole:        rec.JobRole,
		Phone:          rec.Phone,
		ParentPhone:    rec.ParentPhone,
		DOB:            dob,
		Gender:         employee.Gender(rec.Gender),
		EmployeeNumber: rec.EmployeeNumber,
		Aadhar:         rec.Aadhar,
		JoiningDate:    joined,
		Native:         rec.Native,
		Address:        rec.Address,
		PanCard:        rec.PanCard,
		BankDetails:    rec.BankDetails,
	}, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

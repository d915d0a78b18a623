package employee

import (
	"time"
)

type Employee struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
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
	TotalLeave     int
	TotalWorking   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Role string

const (
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

const (
	DefaultPhoto   = "profile.jpg"
	DefaultJobRole = "Employee"
)

func (e Employee) IsHR() bool {
	return e.Role == RoleHR
}

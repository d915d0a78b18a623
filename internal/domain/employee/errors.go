package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrNameExists         = errors.New("employee name already exists")
	ErrCannotDeleteHR     = errors.New("cannot delete HR account")
	ErrInvalidPhoneNumber = errors.New("phone number must be a valid 10 digit mobile number")
	ErrInvalidGender      = errors.New("gender must be Male or Female")
	ErrRosterEntryInvalid = errors.New("roster entry is invalid")
)

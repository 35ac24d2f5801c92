package fleet

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// Field names of the user form.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldRole      = "role"
)

var (
	ErrRequired     = errors.New("required")
	ErrInvalidEmail = errors.New("invalid email")
)

// FieldError reports a problem with one form field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }

func (e *FieldError) Unwrap() error { return e.Err }

// Message is the inline hint shown under the field.
func (e *FieldError) Message() string {
	if errors.Is(e.Err, ErrInvalidEmail) {
		return "Please enter a valid email"
	}
	switch e.Field {
	case FieldFirstName:
		return "First name is required"
	case FieldLastName:
		return "Last name is required"
	case FieldEmail:
		return "Email is required"
	case FieldPhone:
		return "Phone number is required"
	case FieldRole:
		return "Role is required"
	}
	return e.Error()
}

// Validate checks every field of the request and returns the problems in
// form order, nil when the request is valid.
func (r CreateUserRequest) Validate() []*FieldError {
	var errs []*FieldError
	required := func(field, v string) bool {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, &FieldError{Field: field, Err: ErrRequired})
			return false
		}
		return true
	}
	required(FieldFirstName, r.FirstName)
	required(FieldLastName, r.LastName)
	if required(FieldEmail, r.Email) && !validEmail(r.Email) {
		errs = append(errs, &FieldError{Field: FieldEmail, Err: ErrInvalidEmail})
	}
	required(FieldPhone, r.Phone)
	required(FieldRole, r.Role)
	return errs
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && at < len(s)-1
}

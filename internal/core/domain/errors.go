package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrEmailInUse         = errors.New("email is already in use")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	// ErrStoreUnavailable marks a failed read made while checking input,
	// as opposed to a failed write.
	ErrStoreUnavailable = errors.New("user store unavailable")
)

// RequiredFieldsError is returned when a request omits one of the fields the
// operation requires. Fields keeps the full required set in display order.
type RequiredFieldsError struct {
	Fields []string
}

func (e *RequiredFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Message renders the required set as a sentence, e.g.
// "Email, password, and role are required."
func (e *RequiredFieldsError) Message() string {
	if len(e.Fields) == 0 {
		return "Required fields are missing."
	}
	var b strings.Builder
	switch len(e.Fields) {
	case 1:
		b.WriteString(e.Fields[0])
		b.WriteString(" is required.")
		return capitalize(b.String())
	case 2:
		b.WriteString(e.Fields[0] + " and " + e.Fields[1])
	default:
		last := len(e.Fields) - 1
		b.WriteString(strings.Join(e.Fields[:last], ", "))
		b.WriteString(", and " + e.Fields[last])
	}
	b.WriteString(" are required.")
	return capitalize(b.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ValidationError carries per-field messages produced either by input
// validation or by a constraint rejected in the store.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

package custom_error

import "fmt"

type CustomError interface {
	Error() string
}

// ValidationError covers missing or malformed request fields. It is raised
// before any storage call is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (v *ValidationError) Error() string {
	if v.Field != "" {
		return fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return v.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

// ReferentialIntegrityError is the application-level delete guard failure:
// the row still has dependents of DependentType.
type ReferentialIntegrityError struct {
	Resource      string
	DependentType string
	Count         int
}

func (r *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s: %d dependent %s record(s) exist", r.Resource, r.Count, r.DependentType)
}

func NewReferentialIntegrityError(resource, dependentType string, count int) *ReferentialIntegrityError {
	return &ReferentialIntegrityError{Resource: resource, DependentType: dependentType, Count: count}
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (n *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", n.Resource, n.Key)
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// MalformedInputError rejects a whole CSV file before any row is processed
// (missing required headers, unreadable content).
type MalformedInputError struct {
	Message string
}

func (m *MalformedInputError) Error() string {
	return m.Message
}

func NewMalformedInputError(message string) *MalformedInputError {
	return &MalformedInputError{Message: message}
}

func WrapDBError(message, code string) CustomError {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

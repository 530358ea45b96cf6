package application

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrForbidden is returned when the acting principal does not own the
	// targeted resource.
	ErrForbidden = errors.New("application: forbidden")
	// ErrUnauthorized is returned when no valid credential accompanies the
	// operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrInvalidCredentials is returned when a presented password is wrong.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrTokenExpired is returned when a token's effective expiry has passed.
	ErrTokenExpired = errors.New("application: token expired")
	// ErrAlreadyExists is returned when a created resource collides with an
	// existing one.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrConflict is the base error for uniqueness and overlap violations.
	ErrConflict = errors.New("application: conflict")
)

// ConflictError carries a caller-facing description of which uniqueness
// rule fired. It unwraps to ErrConflict so callers can match the class.
type ConflictError struct {
	Message string
}

// Error implements the error interface.
func (c *ConflictError) Error() string {
	if c == nil || c.Message == "" {
		return ErrConflict.Error()
	}
	return c.Message
}

// Unwrap ties ConflictError into the ErrConflict class.
func (c *ConflictError) Unwrap() error {
	return ErrConflict
}

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

func validationError(field, message string) *ValidationError {
	vErr := &ValidationError{}
	vErr.add(field, message)
	return vErr
}

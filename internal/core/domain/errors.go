package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrMissingToken       = errors.New("not authenticated")
	ErrAccountLocked      = errors.New("too many failed login attempts")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already registered")
	ErrProjectNotFound    = errors.New("project not found")
	ErrOwnerNotFound      = errors.New("owner not found")
)

// ValidationError reports a request that does not match the expected shape.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// LockedError carries the remaining cooldown of a locked account.
type LockedError struct {
	RetryAfterSeconds int
}

func (e *LockedError) Error() string {
	return ErrAccountLocked.Error()
}

func (e *LockedError) Unwrap() error {
	return ErrAccountLocked
}

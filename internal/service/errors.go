package service

import (
	"errors"
	"fmt"
)

// ErrInternal marks failures where an operation's own preconditions were
// violated or an upstream dependency misbehaved unexpectedly. Handlers map
// it to the generic error page with a 500.
var ErrInternal = errors.New("internal error")

// ErrEmailExists is returned by registration when the directory already
// holds an account for the email.
var ErrEmailExists = errors.New("email already registered")

// ErrInvalidCredentials is returned by login when the email or password is
// wrong. The two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrPasswordMismatch is returned by registration when the repeated
// password differs from the password.
var ErrPasswordMismatch = errors.New("passwords do not match")

// ErrAlreadyInFamily is returned when an operation requires the account to
// have no family yet.
var ErrAlreadyInFamily = errors.New("account already belongs to a family")

// NotFoundError reports a required entity that was missing where its
// presence was mandatory for the operation to proceed. Plain lookups model
// absence as a nil result instead.
type NotFoundError struct {
	// Entity names what was missing ("owner", "inviter", "family").
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// notFound builds a NotFoundError for the given entity.
func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// internal wraps a precondition violation as an ErrInternal.
func internal(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInternal)...)
}

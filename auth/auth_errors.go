package auth

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNoRefreshToken       = errors.New("no refresh token available")
	ErrRefreshRejected      = errors.New("refresh rejected")
	ErrRegistrationRejected = errors.New("registration rejected")
)

// Error carries one of the sentinel kinds above together with the message the
// user should see. errors.Is matches on the kind.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

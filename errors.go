package toxin

import "errors"

var (
	// ErrInvalidCredentials is returned by SignIn for an unknown username and
	// for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned by Resolve when a token has no usable session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrStoreUnavailable wraps account store and session store failures.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrAccountNotFound is returned when no account matches an id.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is returned when a username is already taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountInvalid is returned for an empty username or password.
	ErrAccountInvalid = errors.New("invalid account request")
	// ErrEngineNotReady is returned by methods called on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

package session

import "errors"

var (
	// ErrInvalidCredentials is returned when the backend rejects a login.
	ErrInvalidCredentials = errors.New("session: invalid credentials")
	// ErrUnauthenticated marks a backend rejection of the bearer token.
	ErrUnauthenticated = errors.New("session: token rejected")
	// ErrMalformedUser is returned when the backend user record cannot be used.
	ErrMalformedUser = errors.New("session: malformed user record")
	// ErrLoginSuperseded is returned when a logout overtook a login in flight.
	ErrLoginSuperseded = errors.New("session: login superseded by logout")
)

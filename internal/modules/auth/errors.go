package auth

import "errors"

var (
	// ErrInvalidLogin covers both unknown email and wrong password so the
	// response never reveals whether an account exists.
	ErrInvalidLogin = errors.New("invalid login")
)

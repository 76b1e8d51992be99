package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrValidation         = errors.New("validation failed")
)

package auth

import "errors"

var (
	ErrNoRefreshToken  = errors.New("no refresh token cached")
	ErrEmptyCredential = errors.New("username and password are required")
)

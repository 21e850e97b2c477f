package service

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailExists           = errors.New("user with this email already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidOrExpiredToken = errors.New("password reset token is invalid or has expired")
)

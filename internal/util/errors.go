package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrPackageNotFound    = errors.New("exam package not found")
	ErrUnsupportedMime    = errors.New("unsupported media content type")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested tweet is not exists
	ErrNotFound = errors.New("tweet not found")
	// ErrUserNotFound will throw if a referenced user is not exists
	ErrUserNotFound = errors.New("user not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("missing or empty fields")
	// ErrCacheMiss will throw if the requested key is not cached
	ErrCacheMiss = errors.New("cache miss")
)

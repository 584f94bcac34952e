package service

import "errors"

var (
	// ErrForbidden means the actor may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput means the request failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited means the actor exceeded the mutation budget.
	ErrRateLimited = errors.New("rate limit exceeded")
)

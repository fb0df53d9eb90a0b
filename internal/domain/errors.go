package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrUnknownCall  = errors.New("domain: unknown call id")
	ErrInvalidEvent = errors.New("domain: invalid event")
)

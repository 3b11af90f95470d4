package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNoGroupRegistered = errors.New("no destination group registered")

	// ErrStore wraps persistence failures so callers can tell an
	// operational failure apart from a domain rejection.
	ErrStore = errors.New("store failure")

	// ErrDelivery wraps platform send/delete/role-query failures.
	ErrDelivery = errors.New("delivery failure")
)

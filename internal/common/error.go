package common

import "errors"

var (
	// ErrorNotFound is returned when an entity lookup by identity fails.
	ErrorNotFound = errors.New("not found")

	// ErrorUnauthorized signals a missing or insufficient session.
	ErrorUnauthorized = errors.New("unauthorized")
)

package database

import "errors"

var (
	// ErrNotFound is returned when a lookup by primary key matches no row.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidEntity is returned when an entity fails validation before reaching the store.
	ErrInvalidEntity = errors.New("invalid entity")
)

package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional write finds the entity in a
	// different state than expected (lost-update detection).
	ErrConflict = errors.New("conflicting concurrent update")
)

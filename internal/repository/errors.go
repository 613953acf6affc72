// Package repository contains the MongoDB-backed persistence layer for
// the three collections the scheduling engine owns: directions (C2),
// programs (C4), and tasks (C8).
package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup by id/name finds nothing.
	ErrNotFound = errors.New("repository: not found")

	// ErrDuplicateName is returned when a program name already exists.
	ErrDuplicateName = errors.New("repository: program name already exists")
)

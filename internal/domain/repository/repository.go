package repository

import "errors"

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrParentNotFound is returned by guarded writes when the referenced
	// parent row is missing or soft-deleted. Nothing is written.
	ErrParentNotFound = errors.New("parent record not found")
	// ErrDuplicate is returned when a unique constraint rejects the write.
	ErrDuplicate = errors.New("duplicate record")
)

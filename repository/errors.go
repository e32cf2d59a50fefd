package repository

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an account with the same email exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotOwner is returned when the requester may not modify the record.
	ErrNotOwner = errors.New("requester does not own the record")
)

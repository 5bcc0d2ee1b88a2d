package database

import "errors"

var (
	// ErrNotFound is returned when the database file does not exist and
	// creation was not requested.
	ErrNotFound = errors.New("history database not found")

	// ErrLocked is returned when another process holds the history lock.
	ErrLocked = errors.New("another analysis is writing to the history database")
)

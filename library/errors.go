package library

import "errors"

var (
	// ErrNotFound is returned when no book or borrower matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrInvalidBookID is returned when a book id is not one letter followed by four digits.
	ErrInvalidBookID = errors.New("invalid book id: want one letter followed by four digits")
)

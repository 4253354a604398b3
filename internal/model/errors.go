package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrPasswordMismatch = errors.New("password and confirmation do not match")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length")
	ErrInvalidID        = errors.New("identifier contains invalid characters")

	// Identity errors
	ErrUnauthenticated = errors.New("authentication required")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account identifier already exists")

	// Character errors
	ErrCharacterNotFound = errors.New("character not found")
	ErrCharacterExists   = errors.New("character identifier already exists")
	ErrNotOwner          = errors.New("caller does not own this character")

	// Item errors
	ErrItemNotFound = errors.New("item not found")
	ErrItemExists   = errors.New("item code already exists")
)

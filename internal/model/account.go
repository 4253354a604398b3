package model

import "time"

// AccountID is the identifier an account holder picks at registration
type AccountID string

// Account is a registered login identity
type Account struct {
	ID           AccountID
	PasswordHash string // bcrypt hash, never leaves the server
	Name         string
	CreatedAt    time.Time
}

// Identity is the verified caller resolved from a bearer token
type Identity struct {
	AccountID AccountID
	Name      string
}

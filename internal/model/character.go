package model

import "time"

// CharacterID uniquely identifies a character across all accounts
type CharacterID string

// Starting stats for a newly created character
const (
	DefaultCharacterHealth = 500
	DefaultCharacterPower  = 100
	DefaultCharacterMoney  = 10000
)

// Character is a game character owned by exactly one account
type Character struct {
	ID        CharacterID
	OwnerID   AccountID // set once at creation from the verified caller
	Health    int
	Power     int
	Money     int64 // owner-private
	CreatedAt time.Time
}

// OwnedBy reports whether the identity owns the character.
// A nil identity (anonymous caller) owns nothing.
func (c *Character) OwnedBy(id *Identity) bool {
	return id != nil && id.AccountID != "" && id.AccountID == c.OwnerID
}

package character

import "github.com/mcoot/charvault/internal/model"

// View is a character as a particular caller is allowed to see it.
// Money is nil unless the caller owns the character.
type View struct {
	ID      model.CharacterID
	OwnerID model.AccountID
	Health  int
	Power   int
	Money   *int64
}

// IsFull reports whether the view includes owner-private fields
func (v View) IsFull() bool {
	return v.Money != nil
}

// Project returns the full record for the owner and a redacted one for
// anyone else, including anonymous callers (nil caller).
func Project(c *model.Character, caller *model.Identity) View {
	view := View{
		ID:      c.ID,
		OwnerID: c.OwnerID,
		Health:  c.Health,
		Power:   c.Power,
	}
	if c.OwnedBy(caller) {
		money := c.Money
		view.Money = &money
	}
	return view
}

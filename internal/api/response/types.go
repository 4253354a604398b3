package response

import (
	"time"

	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/services/auth"
	"github.com/mcoot/charvault/internal/services/character"
	"github.com/mcoot/charvault/internal/services/item"
)

// Account represents an account in API responses. The hash is never included.
type Account struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{AccountID: string(a.ID), Name: a.Name}
}

// AccountFromIdentity converts a verified identity
func AccountFromIdentity(id *model.Identity) Account {
	return Account{AccountID: string(id.AccountID), Name: id.Name}
}

// Token is the response for a successful login
type Token struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   Account   `json:"account"`
}

// TokenFromSession creates a Token from a login session
func TokenFromSession(s *auth.Session) Token {
	return Token{
		Token:     s.Token,
		TokenType: "Bearer",
		ExpiresAt: s.ExpiresAt,
		Account:   AccountFromIdentity(&s.Identity),
	}
}

// Character represents a character in API responses.
// Money is omitted unless the caller owns the character.
type Character struct {
	CharacterID string `json:"character_id"`
	AccountID   string `json:"account_id"`
	Health      int    `json:"health"`
	Power       int    `json:"power"`
	Money       *int64 `json:"money,omitempty"`
}

// CharacterFromView converts an ownership-scoped view
func CharacterFromView(v character.View) Character {
	return Character{
		CharacterID: string(v.ID),
		AccountID:   string(v.OwnerID),
		Health:      v.Health,
		Power:       v.Power,
		Money:       v.Money,
	}
}

// CharacterList is the response for listing the caller's characters
type CharacterList struct {
	Characters []Character `json:"characters"`
}

// CharacterListFromViews converts a list of views
func CharacterListFromViews(views []character.View) CharacterList {
	list := CharacterList{Characters: make([]Character, 0, len(views))}
	for _, v := range views {
		list.Characters = append(list.Characters, CharacterFromView(v))
	}
	return list
}

// CharacterDeleted confirms a deletion
type CharacterDeleted struct {
	CharacterID string `json:"character_id"`
	Deleted     bool   `json:"deleted"`
}

// Item represents a catalog item in API responses
type Item struct {
	ItemCode int    `json:"item_code"`
	ItemName string `json:"item_name"`
	Atk      int    `json:"atk"`
	Price    int    `json:"price"`
}

// ItemFromModel converts a model.Item
func ItemFromModel(it *model.Item) Item {
	return Item{
		ItemCode: int(it.Code),
		ItemName: it.Name,
		Atk:      it.Atk,
		Price:    it.Price,
	}
}

// ItemSummary is a catalog listing entry
type ItemSummary struct {
	ItemCode int    `json:"item_code"`
	ItemName string `json:"item_name"`
	Price    int    `json:"price"`
}

// ItemList is the response for listing the catalog
type ItemList struct {
	Items []ItemSummary `json:"items"`
}

// ItemListFromSummaries converts catalog summaries
func ItemListFromSummaries(summaries []item.Summary) ItemList {
	list := ItemList{Items: make([]ItemSummary, 0, len(summaries))}
	for _, s := range summaries {
		list.Items = append(list.Items, ItemSummary{
			ItemCode: int(s.Code),
			ItemName: s.Name,
			Price:    s.Price,
		})
	}
	return list
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}

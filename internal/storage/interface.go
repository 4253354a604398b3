package storage

import (
	"context"

	"github.com/mcoot/charvault/internal/model"
)

// AccountStore persists accounts keyed by their identifier
type AccountStore interface {
	// CreateAccount inserts the account only if the identifier is free.
	// Returns model.ErrAccountExists otherwise; the check and the insert are atomic.
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
}

// CharacterStore persists characters with a reference to their owning account
type CharacterStore interface {
	// CreateCharacter inserts the character only if the identifier is free.
	// Returns model.ErrCharacterExists on collision and model.ErrAccountNotFound
	// if the owner does not exist.
	CreateCharacter(ctx context.Context, character *model.Character) error
	GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error)
	ListCharactersByOwner(ctx context.Context, owner model.AccountID) ([]*model.Character, error)
	// DeleteCharacter returns model.ErrCharacterNotFound if nothing was deleted
	DeleteCharacter(ctx context.Context, id model.CharacterID) error
}

// ItemStore persists the item catalog
type ItemStore interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, code model.ItemCode) (*model.Item, error)
	// ListItems returns all items ordered by code
	ListItems(ctx context.Context) ([]*model.Item, error)
	// UpdateItem replaces name and atk of an existing item
	UpdateItem(ctx context.Context, code model.ItemCode, name string, atk int) (*model.Item, error)
}

// Storage defines the interface for data persistence
type Storage interface {
	AccountStore
	CharacterStore
	ItemStore

	// Close releases the backend's connections
	Close() error
}

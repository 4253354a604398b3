package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts   map[model.AccountID]*model.Account
	characters map[model.CharacterID]*model.Character
	ownerIndex map[model.AccountID]map[model.CharacterID]struct{}
	items      map[model.ItemCode]*model.Item
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:   make(map[model.AccountID]*model.Account),
		characters: make(map[model.CharacterID]*model.Character),
		ownerIndex: make(map[model.AccountID]map[model.CharacterID]struct{}),
		items:      make(map[model.ItemCode]*model.Item),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op for the in-memory store
func (s *Storage) Close() error {
	return nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; ok {
		return model.ErrAccountExists
	}
	stored := *account
	s.accounts[account.ID] = &stored
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	result := *account
	return &result, nil
}

// Character operations

func (s *Storage) CreateCharacter(ctx context.Context, character *model.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[character.OwnerID]; !ok {
		return model.ErrAccountNotFound
	}
	if _, ok := s.characters[character.ID]; ok {
		return model.ErrCharacterExists
	}
	stored := *character
	s.characters[character.ID] = &stored

	owned, ok := s.ownerIndex[character.OwnerID]
	if !ok {
		owned = make(map[model.CharacterID]struct{})
		s.ownerIndex[character.OwnerID] = owned
	}
	owned[character.ID] = struct{}{}
	return nil
}

func (s *Storage) GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	character, ok := s.characters[id]
	if !ok {
		return nil, model.ErrCharacterNotFound
	}
	result := *character
	return &result, nil
}

func (s *Storage) ListCharactersByOwner(ctx context.Context, owner model.AccountID) ([]*model.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	characters := make([]*model.Character, 0, len(s.ownerIndex[owner]))
	for id := range s.ownerIndex[owner] {
		c := *s.characters[id]
		characters = append(characters, &c)
	}
	sort.Slice(characters, func(i, j int) bool {
		return characters[i].ID < characters[j].ID
	})
	return characters, nil
}

func (s *Storage) DeleteCharacter(ctx context.Context, id model.CharacterID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	character, ok := s.characters[id]
	if !ok {
		return model.ErrCharacterNotFound
	}
	delete(s.characters, id)
	if owned, ok := s.ownerIndex[character.OwnerID]; ok {
		delete(owned, id)
		if len(owned) == 0 {
			delete(s.ownerIndex, character.OwnerID)
		}
	}
	return nil
}

// Item operations

func (s *Storage) CreateItem(ctx context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.Code]; ok {
		return model.ErrItemExists
	}
	stored := *item
	s.items[item.Code] = &stored
	return nil
}

func (s *Storage) GetItem(ctx context.Context, code model.ItemCode) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[code]
	if !ok {
		return nil, model.ErrItemNotFound
	}
	result := *item
	return &result, nil
}

func (s *Storage) ListItems(ctx context.Context) ([]*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*model.Item, 0, len(s.items))
	for _, item := range s.items {
		i := *item
		items = append(items, &i)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Code < items[j].Code
	})
	return items, nil
}

func (s *Storage) UpdateItem(ctx context.Context, code model.ItemCode, name string, atk int) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[code]
	if !ok {
		return nil, model.ErrItemNotFound
	}
	item.Name = name
	item.Atk = atk
	result := *item
	return &result, nil
}

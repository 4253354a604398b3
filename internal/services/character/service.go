package character

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/charvault/internal/dependencies/clock"
	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/storage"
)

// Service is the character registry. Ownership is always taken from the
// verified caller identity.
type Service struct {
	characters storage.CharacterStore
	clock      clock.Clock
	logger     *slog.Logger
}

// New creates a character service
func New(characters storage.CharacterStore, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		characters: characters,
		clock:      clk,
		logger:     logger,
	}
}

// Create registers a new character owned by the caller with starting stats.
func (s *Service) Create(ctx context.Context, caller *model.Identity, id model.CharacterID) (*model.Character, error) {
	if caller == nil || caller.AccountID == "" {
		return nil, model.ErrUnauthenticated
	}
	if strings.TrimSpace(string(id)) == "" {
		return nil, model.ErrMissingField
	}
	// Identifiers are addressed as a single path segment
	if strings.Contains(string(id), "/") {
		return nil, model.ErrInvalidID
	}

	character := &model.Character{
		ID:        id,
		OwnerID:   caller.AccountID,
		Health:    model.DefaultCharacterHealth,
		Power:     model.DefaultCharacterPower,
		Money:     model.DefaultCharacterMoney,
		CreatedAt: s.clock.Now(),
	}
	if err := s.characters.CreateCharacter(ctx, character); err != nil {
		return nil, err
	}

	s.logger.Info("character created", "character_id", id, "account_id", caller.AccountID)
	return character, nil
}

// Delete removes a character. Only its owner may delete it.
func (s *Service) Delete(ctx context.Context, caller *model.Identity, id model.CharacterID) error {
	if caller == nil || caller.AccountID == "" {
		return model.ErrUnauthenticated
	}

	character, err := s.characters.GetCharacter(ctx, id)
	if err != nil {
		return err
	}
	if !character.OwnedBy(caller) {
		s.logger.Warn("character delete refused",
			"character_id", id,
			"account_id", caller.AccountID,
		)
		return model.ErrNotOwner
	}

	// A concurrent delete between the lookup and here surfaces as ErrCharacterNotFound
	if err := s.characters.DeleteCharacter(ctx, id); err != nil {
		return err
	}

	s.logger.Info("character deleted", "character_id", id, "account_id", caller.AccountID)
	return nil
}

// Get returns the character as the caller may see it. caller may be nil.
func (s *Service) Get(ctx context.Context, caller *model.Identity, id model.CharacterID) (View, error) {
	character, err := s.characters.GetCharacter(ctx, id)
	if err != nil {
		return View{}, err
	}
	return Project(character, caller), nil
}

// ListMine returns every character owned by the caller, ordered by identifier.
func (s *Service) ListMine(ctx context.Context, caller *model.Identity) ([]View, error) {
	if caller == nil || caller.AccountID == "" {
		return nil, model.ErrUnauthenticated
	}

	characters, err := s.characters.ListCharactersByOwner(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(characters))
	for _, c := range characters {
		views = append(views, Project(c, caller))
	}
	return views, nil
}

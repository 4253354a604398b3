package item

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/storage"
)

// Summary is the catalog listing entry of an item
type Summary struct {
	Code  model.ItemCode
	Name  string
	Price int
}

// Service manages the shared item catalog
type Service struct {
	items  storage.ItemStore
	logger *slog.Logger
}

// New creates an item service
func New(items storage.ItemStore, logger *slog.Logger) *Service {
	return &Service{items: items, logger: logger}
}

// Create adds an item to the catalog. Codes must be positive and unique.
func (s *Service) Create(ctx context.Context, code model.ItemCode, name string, atk, price int) (*model.Item, error) {
	if code <= 0 || strings.TrimSpace(name) == "" {
		return nil, model.ErrMissingField
	}

	item := &model.Item{Code: code, Name: name, Atk: atk, Price: price}
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created", "item_code", int(code))
	return item, nil
}

// List returns code, name and price of every item ordered by code
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, Summary{Code: it.Code, Name: it.Name, Price: it.Price})
	}
	return summaries, nil
}

func (s *Service) Get(ctx context.Context, code model.ItemCode) (*model.Item, error) {
	return s.items.GetItem(ctx, code)
}

// Update changes name and atk. Price is fixed at creation.
func (s *Service) Update(ctx context.Context, code model.ItemCode, name string, atk int) (*model.Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, model.ErrMissingField
	}

	item, err := s.items.UpdateItem(ctx, code, name, atk)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item updated", "item_code", int(code))
	return item, nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Identifier uniqueness relies on SETNX, so concurrent creates of the same
// key never both succeed.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(ctx context.Context, cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, accountKey(account.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrAccountExists
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Character operations

func (s *Storage) CreateCharacter(ctx context.Context, character *model.Character) error {
	ownerExists, err := s.client.Exists(ctx, accountKey(character.OwnerID)).Result()
	if err != nil {
		return err
	}
	if ownerExists == 0 {
		return model.ErrAccountNotFound
	}

	data, err := json.Marshal(character)
	if err != nil {
		return err
	}

	key := characterKey(character.ID)
	created, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrCharacterExists
	}

	if err := s.client.SAdd(ctx, charactersForAccountIndexKey(character.OwnerID), key).Err(); err != nil {
		// Release the claimed identifier so no half-created character is visible
		_ = s.client.Del(ctx, key).Err()
		return err
	}
	return nil
}

func (s *Storage) GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	data, err := s.client.Get(ctx, characterKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCharacterNotFound
		}
		return nil, err
	}

	var character model.Character
	if err := json.Unmarshal(data, &character); err != nil {
		return nil, err
	}
	return &character, nil
}

func (s *Storage) ListCharactersByOwner(ctx context.Context, owner model.AccountID) ([]*model.Character, error) {
	keys, err := s.client.SMembers(ctx, charactersForAccountIndexKey(owner)).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []*model.Character{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	characters := make([]*model.Character, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Deleted between SMEMBERS and MGET
		}
		var character model.Character
		if err := json.Unmarshal([]byte(str), &character); err != nil {
			return nil, err
		}
		characters = append(characters, &character)
	}

	sort.Slice(characters, func(i, j int) bool {
		return characters[i].ID < characters[j].ID
	})
	return characters, nil
}

func (s *Storage) DeleteCharacter(ctx context.Context, id model.CharacterID) error {
	character, err := s.GetCharacter(ctx, id)
	if err != nil {
		return err
	}

	key := characterKey(id)

	// Delete record and index entry together
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, key)
	pipe.SRem(ctx, charactersForAccountIndexKey(character.OwnerID), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if del.Val() == 0 {
		return model.ErrCharacterNotFound
	}
	return nil
}

// Item operations

func (s *Storage) CreateItem(ctx context.Context, item *model.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	key := itemKey(item.Code)
	created, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrItemExists
	}

	if err := s.client.ZAdd(ctx, itemsIndexKey(), redis.Z{Score: float64(item.Code), Member: key}).Err(); err != nil {
		_ = s.client.Del(ctx, key).Err()
		return err
	}
	return nil
}

func (s *Storage) GetItem(ctx context.Context, code model.ItemCode) (*model.Item, error) {
	data, err := s.client.Get(ctx, itemKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrItemNotFound
		}
		return nil, err
	}

	var item model.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Storage) ListItems(ctx context.Context) ([]*model.Item, error) {
	keys, err := s.client.ZRange(ctx, itemsIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []*model.Item{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*model.Item, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var item model.Item
		if err := json.Unmarshal([]byte(str), &item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}

func (s *Storage) UpdateItem(ctx context.Context, code model.ItemCode, name string, atk int) (*model.Item, error) {
	key := itemKey(code)
	var updated model.Item

	// Optimistic read-modify-write; a concurrent write fails with redis.TxFailedErr
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrItemNotFound
			}
			return err
		}
		if err := json.Unmarshal(data, &updated); err != nil {
			return err
		}

		updated.Name = name
		updated.Atk = atk
		out, err := json.Marshal(&updated)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/storage"
)

// Storage is a PostgreSQL implementation of the storage interface.
// Uniqueness and owner references are enforced by table constraints.
type Storage struct {
	pool querier
}

// New creates a PostgreSQL storage over an open pool.
// The storage takes ownership of the pool and closes it on Close.
func New(pool querier) *Storage {
	return &Storage{pool: pool}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close closes the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// pgErrorCode returns the SQLSTATE of a PostgreSQL error, or "" for any other error
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (account_id, password_hash, name, created_at)
		VALUES ($1, $2, $3, $4)
	`, string(account.ID), account.PasswordHash, account.Name, account.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgerrcode.UniqueViolation {
			return model.ErrAccountExists
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("account_id", string(account.ID)).
			Wrap(err)
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	var (
		accountID, hash, name string
		createdAt             time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT account_id, password_hash, name, created_at
		FROM accounts
		WHERE account_id = $1
	`, string(id)).Scan(&accountID, &hash, &name, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").
			With("operation", "get account").
			With("account_id", string(id)).
			Wrap(err)
	}
	return &model.Account{
		ID:           model.AccountID(accountID),
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    createdAt,
	}, nil
}

// Character operations

func (s *Storage) CreateCharacter(ctx context.Context, character *model.Character) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO characters (character_id, account_id, health, power, money, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		string(character.ID),
		string(character.OwnerID),
		character.Health,
		character.Power,
		character.Money,
		character.CreatedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgerrcode.UniqueViolation:
			return model.ErrCharacterExists
		case pgerrcode.ForeignKeyViolation:
			return model.ErrAccountNotFound
		}
		return oops.Code("CHARACTER_CREATE_FAILED").
			With("operation", "insert character").
			With("character_id", string(character.ID)).
			Wrap(err)
	}
	return nil
}

func (s *Storage) GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT character_id, account_id, health, power, money, created_at
		FROM characters
		WHERE character_id = $1
	`, string(id))

	character, err := scanCharacter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCharacterNotFound
	}
	if err != nil {
		return nil, oops.Code("CHARACTER_GET_FAILED").
			With("operation", "get character").
			With("character_id", string(id)).
			Wrap(err)
	}
	return character, nil
}

func (s *Storage) ListCharactersByOwner(ctx context.Context, owner model.AccountID) ([]*model.Character, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT character_id, account_id, health, power, money, created_at
		FROM characters
		WHERE account_id = $1
		ORDER BY character_id
	`, string(owner))
	if err != nil {
		return nil, oops.Code("CHARACTER_LIST_FAILED").
			With("operation", "list characters").
			With("account_id", string(owner)).
			Wrap(err)
	}
	defer rows.Close()

	characters := []*model.Character{}
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			return nil, oops.Code("CHARACTER_LIST_FAILED").With("operation", "scan character").Wrap(err)
		}
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CHARACTER_LIST_FAILED").With("operation", "iterate characters").Wrap(err)
	}
	return characters, nil
}

func (s *Storage) DeleteCharacter(ctx context.Context, id model.CharacterID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM characters WHERE character_id = $1`, string(id))
	if err != nil {
		return oops.Code("CHARACTER_DELETE_FAILED").
			With("operation", "delete character").
			With("character_id", string(id)).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCharacterNotFound
	}
	return nil
}

func scanCharacter(row pgx.Row) (*model.Character, error) {
	var (
		id, owner     string
		health, power int
		money         int64
		createdAt     time.Time
	)
	if err := row.Scan(&id, &owner, &health, &power, &money, &createdAt); err != nil {
		return nil, err
	}
	return &model.Character{
		ID:        model.CharacterID(id),
		OwnerID:   model.AccountID(owner),
		Health:    health,
		Power:     power,
		Money:     money,
		CreatedAt: createdAt,
	}, nil
}

// Item operations

func (s *Storage) CreateItem(ctx context.Context, item *model.Item) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO items (item_code, item_name, atk, price)
		VALUES ($1, $2, $3, $4)
	`, int(item.Code), item.Name, item.Atk, item.Price)
	if err != nil {
		if pgErrorCode(err) == pgerrcode.UniqueViolation {
			return model.ErrItemExists
		}
		return oops.Code("ITEM_CREATE_FAILED").
			With("operation", "insert item").
			With("item_code", int(item.Code)).
			Wrap(err)
	}
	return nil
}

func (s *Storage) GetItem(ctx context.Context, code model.ItemCode) (*model.Item, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT item_code, item_name, atk, price
		FROM items
		WHERE item_code = $1
	`, int(code))

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, oops.Code("ITEM_GET_FAILED").
			With("operation", "get item").
			With("item_code", int(code)).
			Wrap(err)
	}
	return item, nil
}

func (s *Storage) ListItems(ctx context.Context) ([]*model.Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT item_code, item_name, atk, price
		FROM items
		ORDER BY item_code
	`)
	if err != nil {
		return nil, oops.Code("ITEM_LIST_FAILED").With("operation", "list items").Wrap(err)
	}
	defer rows.Close()

	items := []*model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, oops.Code("ITEM_LIST_FAILED").With("operation", "scan item").Wrap(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ITEM_LIST_FAILED").With("operation", "iterate items").Wrap(err)
	}
	return items, nil
}

func (s *Storage) UpdateItem(ctx context.Context, code model.ItemCode, name string, atk int) (*model.Item, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE items SET item_name = $2, atk = $3
		WHERE item_code = $1
		RETURNING item_code, item_name, atk, price
	`, int(code), name, atk)

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, oops.Code("ITEM_UPDATE_FAILED").
			With("operation", "update item").
			With("item_code", int(code)).
			Wrap(err)
	}
	return item, nil
}

func scanItem(row pgx.Row) (*model.Item, error) {
	var (
		code, atk, price int
		name             string
	)
	if err := row.Scan(&code, &name, &atk, &price); err != nil {
		return nil, err
	}
	return &model.Item{
		Code:  model.ItemCode(code),
		Name:  name,
		Atk:   atk,
		Price: price,
	}, nil
}

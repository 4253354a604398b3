package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/charvault/internal/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return New(mock), mock
}

var characterColumns = []string{"character_id", "account_id", "health", "power", "money", "created_at"}
var itemColumns = []string{"item_code", "item_name", "atk", "price"}

func TestStorage_CreateAccount(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	account := &model.Account{ID: "alice", PasswordHash: "hash", Name: "Alice", CreatedAt: now}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs("alice", "hash", "Alice", now).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation maps to account exists",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs("alice", "hash", "Alice", now).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: model.ErrAccountExists,
		},
		{
			name: "other errors are wrapped",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO accounts`).
					WithArgs("alice", "hash", "Alice", now).
					WillReturnError(errors.New("connection refused"))
			},
			errMsg: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStorage(t)
			tt.setupMock(mock)

			err := store.CreateAccount(context.Background(), account)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.NotErrorIs(t, err, model.ErrAccountExists)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestStorage_GetAccount(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectQuery(`SELECT account_id, password_hash, name, created_at\s+FROM accounts`).
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows([]string{"account_id", "password_hash", "name", "created_at"}).
				AddRow("alice", "hash", "Alice", now))

		account, err := store.GetAccount(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, model.AccountID("alice"), account.ID)
		assert.Equal(t, "hash", account.PasswordHash)
		assert.Equal(t, "Alice", account.Name)
		assert.Equal(t, now, account.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectQuery(`FROM accounts`).
			WithArgs("nobody").
			WillReturnError(pgx.ErrNoRows)

		_, err := store.GetAccount(context.Background(), "nobody")
		assert.ErrorIs(t, err, model.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_CreateCharacter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	character := &model.Character{ID: "c1", OwnerID: "alice", Health: 500, Power: 100, Money: 10000, CreatedAt: now}

	tests := []struct {
		name    string
		result  error
		wantErr error
	}{
		{name: "successful insert"},
		{name: "duplicate identifier", result: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, wantErr: model.ErrCharacterExists},
		{name: "unknown owner", result: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, wantErr: model.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStorage(t)
			exp := mock.ExpectExec(`INSERT INTO characters`).
				WithArgs("c1", "alice", 500, 100, int64(10000), now)
			if tt.result != nil {
				exp.WillReturnError(tt.result)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := store.CreateCharacter(context.Background(), character)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_GetCharacter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectQuery(`FROM characters\s+WHERE character_id = \$1`).
			WithArgs("c1").
			WillReturnRows(pgxmock.NewRows(characterColumns).AddRow("c1", "alice", 500, 100, int64(10000), now))

		character, err := store.GetCharacter(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, model.AccountID("alice"), character.OwnerID)
		assert.Equal(t, int64(10000), character.Money)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectQuery(`FROM characters`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := store.GetCharacter(context.Background(), "missing")
		assert.ErrorIs(t, err, model.ErrCharacterNotFound)
	})
}

func TestStorage_ListCharactersByOwner(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store, mock := newMockStorage(t)
	mock.ExpectQuery(`FROM characters\s+WHERE account_id = \$1\s+ORDER BY character_id`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(characterColumns).
			AddRow("amy", "alice", 500, 100, int64(1), now).
			AddRow("zed", "alice", 400, 90, int64(2), now))

	characters, err := store.ListCharactersByOwner(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, characters, 2)
	assert.Equal(t, model.CharacterID("amy"), characters[0].ID)
	assert.Equal(t, 400, characters[1].Health)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_DeleteCharacter(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectExec(`DELETE FROM characters`).
			WithArgs("c1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, store.DeleteCharacter(context.Background(), "c1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing deleted", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectExec(`DELETE FROM characters`).
			WithArgs("missing").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, store.DeleteCharacter(context.Background(), "missing"), model.ErrCharacterNotFound)
	})
}

func TestStorage_Items(t *testing.T) {
	t.Run("create duplicate", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectExec(`INSERT INTO items`).
			WithArgs(1, "Sword", 10, 100).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		err := store.CreateItem(context.Background(), &model.Item{Code: 1, Name: "Sword", Atk: 10, Price: 100})
		assert.ErrorIs(t, err, model.ErrItemExists)
	})

	t.Run("get", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectQuery(`FROM items\s+WHERE item_code = \$1`).
			WithArgs(1).
			WillReturnRows(pgxmock.NewRows(itemColumns).AddRow(1, "Sword", 10, 100))

		item, err := store.GetItem(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Sword", item.Name)
		assert.Equal(t, 100, item.Price)
	})

	t.Run("list", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectQuery(`FROM items\s+ORDER BY item_code`).
			WillReturnRows(pgxmock.NewRows(itemColumns).
				AddRow(1, "Sword", 10, 100).
				AddRow(2, "Bow", 8, 80))

		items, err := store.ListItems(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, model.ItemCode(2), items[1].Code)
	})

	t.Run("update", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectQuery(`UPDATE items SET item_name = \$2, atk = \$3`).
			WithArgs(1, "Great Sword", 20).
			WillReturnRows(pgxmock.NewRows(itemColumns).AddRow(1, "Great Sword", 20, 100))

		item, err := store.UpdateItem(context.Background(), 1, "Great Sword", 20)
		require.NoError(t, err)
		assert.Equal(t, 20, item.Atk)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update missing", func(t *testing.T) {
		store, mock := newMockStorage(t)
		mock.ExpectQuery(`UPDATE items`).
			WithArgs(9, "x", 1).
			WillReturnError(pgx.ErrNoRows)

		_, err := store.UpdateItem(context.Background(), 9, "x", 1)
		assert.ErrorIs(t, err, model.ErrItemNotFound)
	})
}

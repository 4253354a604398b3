package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/charvault/internal/dependencies/clock"
	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/storage"
)

// Login errors
var (
	ErrUnknownAccount = errors.New("account not found")
	ErrBadCredential  = errors.New("bad credential")
)

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	AccountID       model.AccountID
	Password        string
	ConfirmPassword string
	Name            string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	Identity  model.Identity
	ExpiresAt time.Time
}

// Service is the account directory: registration and login.
type Service struct {
	accounts storage.AccountStore
	hasher   Hasher
	tokens   *TokenIssuer
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates an account service
func New(accounts storage.AccountStore, hasher Hasher, tokens *TokenIssuer, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		clock:    clk,
		logger:   logger,
	}
}

// Register creates an account. The returned account never carries the hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	if in.AccountID == "" || in.Password == "" || in.ConfirmPassword == "" || in.Name == "" {
		return nil, model.ErrMissingField
	}
	if in.Password != in.ConfirmPassword {
		return nil, model.ErrPasswordMismatch
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, model.ErrPasswordTooLong
	}

	// Early exit for the common case; CreateAccount still enforces uniqueness.
	if _, err := s.accounts.GetAccount(ctx, in.AccountID); err == nil {
		return nil, model.ErrAccountExists
	} else if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:           in.AccountID,
		PasswordHash: hash,
		Name:         in.Name,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", "account_id", account.ID)

	result := *account
	result.PasswordHash = ""
	return &result, nil
}

// Login checks the credential and mints a bearer token.
func (s *Service) Login(ctx context.Context, id model.AccountID, password string) (*Session, error) {
	if id == "" || password == "" {
		return nil, model.ErrMissingField
	}

	account, err := s.accounts.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.logger.Info("login rejected", "account_id", id)
		return nil, ErrBadCredential
	}

	identity := model.Identity{AccountID: account.ID, Name: account.Name}
	issued, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     issued.Token,
		Identity:  identity,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// Verify resolves a bearer token to the identity it carries.
func (s *Service) Verify(token string) (*model.Identity, error) {
	return s.tokens.Verify(token)
}

package factory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/services/auth"
	"github.com/mcoot/charvault/internal/storage/memory"
	redisstorage "github.com/mcoot/charvault/internal/storage/redis"
)

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(context.Background(), Config{Auth: AuthConfig{JWTSecret: TestSecret}})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &memory.Storage{}, app.Storage)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: "sqlite", Auth: AuthConfig{JWTSecret: TestSecret}})
	assert.ErrorContains(t, err, "invalid StorageType")
}

func TestNewRequiresBackendConfig(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: StorageTypeRedis, Auth: AuthConfig{JWTSecret: TestSecret}})
	assert.ErrorContains(t, err, "RedisConfig required")

	_, err = New(context.Background(), Config{StorageType: StorageTypePostgres, Auth: AuthConfig{JWTSecret: TestSecret}})
	assert.ErrorContains(t, err, "PostgresConfig required")
}

func TestNewRejectsWeakAuthConfig(t *testing.T) {
	_, err := New(context.Background(), Config{Auth: AuthConfig{JWTSecret: []byte("short")}})
	assert.ErrorIs(t, err, auth.ErrWeakSecret)

	_, err = New(context.Background(), Config{Auth: AuthConfig{JWTSecret: TestSecret, BcryptCost: 4}})
	assert.ErrorIs(t, err, auth.ErrWeakCost)
}

func TestNewWithRedis(t *testing.T) {
	mini := miniredis.RunT(t)
	cfg := redisstorage.DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()

	app, err := New(context.Background(), Config{
		StorageType: StorageTypeRedis,
		RedisConfig: &cfg,
		Auth:        AuthConfig{JWTSecret: TestSecret},
	})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &redisstorage.Storage{}, app.Storage)
}

// IntegrationSuite drives the wired services end to end on shared storage
type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) join(id, name string) {
	_, err := s.app.AuthService.Register(s.ctx, auth.RegisterInput{
		AccountID: model.AccountID(id), Password: "pw", ConfirmPassword: "pw", Name: name,
	})
	s.Require().NoError(err)
}

func (s *IntegrationSuite) TestRegisterLoginCreateRead() {
	s.join("a1", "Ann")

	session, err := s.app.AuthService.Login(s.ctx, "a1", "pw")
	s.Require().NoError(err)

	identity, err := s.app.AuthService.Verify(session.Token)
	s.Require().NoError(err)

	created, err := s.app.CharacterService.Create(s.ctx, identity, "c1")
	s.Require().NoError(err)
	s.Equal(model.AccountID("a1"), created.OwnerID)

	anon, err := s.app.CharacterService.Get(s.ctx, nil, "c1")
	s.Require().NoError(err)
	s.False(anon.IsFull())

	owner, err := s.app.CharacterService.Get(s.ctx, identity, "c1")
	s.Require().NoError(err)
	s.True(owner.IsFull())
}

func (s *IntegrationSuite) TestTokenIDsComeFromGenerator() {
	s.join("a1", "Ann")

	_, err := s.app.AuthService.Login(s.ctx, "a1", "pw")
	s.Require().NoError(err)
	s.Equal(1, s.app.MockIDs.Issued())
}

func (s *IntegrationSuite) TestTokenExpiryFollowsMockClock() {
	s.join("a1", "Ann")
	session, err := s.app.AuthService.Login(s.ctx, "a1", "pw")
	s.Require().NoError(err)

	s.app.MockClock.Advance(auth.DefaultTokenTTL + time.Second)
	_, err = s.app.AuthService.Verify(session.Token)
	s.ErrorIs(err, auth.ErrTokenExpired)
}

func (s *IntegrationSuite) TestServicesShareStorage() {
	s.join("a1", "Ann")

	_, err := s.app.Memory.GetAccount(s.ctx, "a1")
	s.NoError(err)

	_, err = s.app.ItemService.Create(s.ctx, 7, "Lance", 12, 70)
	s.Require().NoError(err)
	_, err = s.app.Storage.GetItem(s.ctx, 7)
	s.NoError(err)
}

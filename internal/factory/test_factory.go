package factory

import (
	"time"

	"github.com/mcoot/charvault/internal/dependencies/mocks"
	"github.com/mcoot/charvault/internal/storage/memory"
	"github.com/mcoot/charvault/internal/testutil"
)

// TestSecret is the signing key used by NewTestApp
var TestSecret = []byte("test-secret-test-secret-test-secret!")

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDGenerator
	Memory    *memory.Storage
}

// NewTestApp creates an App on in-memory storage with a mocked clock and ids
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDGenerator()

	app, err := newWithDependencies(store, mockClock, mockIDs, AuthConfig{JWTSecret: TestSecret}, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
		Memory:    store,
	}
}

package idgen

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/mcoot/charvault/internal/dependencies/clock"
)

// Generator produces unique, lexically sortable identifiers.
// Token IDs (jti) are drawn from it.
type Generator interface {
	NewID() string
}

// ULIDGenerator produces ULIDs timestamped by the injected clock.
// Identifiers generated within the same millisecond stay monotonic.
type ULIDGenerator struct {
	clock   clock.Clock
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewULID creates a generator backed by crypto/rand.
func NewULID(clk clock.Clock) *ULIDGenerator {
	return &ULIDGenerator{
		clock:   clk,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewID returns a fresh ULID string
func (g *ULIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy).String()
}

package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/charvault/internal/dependencies/idgen"
)

// MockIDGenerator returns queued identifiers in order, then falls back to
// a numbered sequence once the queue is empty.
type MockIDGenerator struct {
	mu     sync.Mutex
	queue  []string
	issued int
}

var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a generator preloaded with ids
func NewMockIDGenerator(ids ...string) *MockIDGenerator {
	return &MockIDGenerator{queue: ids}
}

func (g *MockIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	if len(g.queue) > 0 {
		id := g.queue[0]
		g.queue = g.queue[1:]
		return id
	}
	return fmt.Sprintf("id-%d", g.issued)
}

// Queue appends ids to be returned by subsequent NewID calls
func (g *MockIDGenerator) Queue(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, ids...)
}

// Issued reports how many ids have been handed out
func (g *MockIDGenerator) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued
}

// Package agents provides the User-Agent pool for outbound requests.
//
// The pool ships with a static list of current desktop and mobile agents
// and hands them out at random.
package agents

import (
	"context"
	"math/rand"
	"sync"
)

// Getter hands out a User-Agent string per request.
type Getter interface {
	Get(ctx context.Context) (string, error)
}

var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
}

// Pool hands out random User-Agent strings from a fixed list.
type Pool struct {
	mu     sync.Mutex
	agents []string
	rng    *rand.Rand
}

// NewPool creates a pool with the default agent list.
func NewPool() *Pool {
	return NewPoolWith(defaultAgents, rand.Int63())
}

// NewPoolWith creates a pool with a custom agent list and seed.
// Useful for deterministic tests.
func NewPoolWith(agents []string, seed int64) *Pool {
	if len(agents) == 0 {
		agents = defaultAgents
	}
	return &Pool{
		agents: agents,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Get returns a random agent from the pool.
func (p *Pool) Get(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.agents[p.rng.Intn(len(p.agents))], nil
}

// Sample returns up to limit distinct agents in random order.
func (p *Pool) Sample(limit int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	perm := p.rng.Perm(len(p.agents))
	if limit <= 0 || limit > len(perm) {
		limit = len(perm)
	}

	out := make([]string, 0, limit)
	for _, i := range perm[:limit] {
		out = append(out, p.agents[i])
	}
	return out
}

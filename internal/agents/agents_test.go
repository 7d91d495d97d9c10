package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsKnownAgent(t *testing.T) {
	pool := NewPoolWith([]string{"agent-a", "agent-b"}, 1)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		agent, err := pool.Get(context.Background())
		require.NoError(t, err)
		seen[agent] = true
	}

	for agent := range seen {
		assert.Contains(t, []string{"agent-a", "agent-b"}, agent)
	}
}

func TestSampleDistinct(t *testing.T) {
	pool := NewPoolWith([]string{"a", "b", "c", "d"}, 42)

	sample := pool.Sample(3)
	require.Len(t, sample, 3)

	seen := map[string]bool{}
	for _, agent := range sample {
		assert.False(t, seen[agent], "sample should not repeat agents")
		seen[agent] = true
	}
}

func TestSampleLimitClamped(t *testing.T) {
	pool := NewPoolWith([]string{"a", "b"}, 7)

	assert.Len(t, pool.Sample(10), 2)
	assert.Len(t, pool.Sample(0), 2)
}

func TestDefaultPoolNonEmpty(t *testing.T) {
	pool := NewPool()
	agent, err := pool.Get(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, agent)
}

package solbc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPool(t *testing.T, urls ...string) *Client {
	t.Helper()
	c, err := NewClient(urls, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewClient_EmptyList(t *testing.T) {
	_, err := NewClient(nil, zap.NewNop())
	assert.Error(t, err)
}

func TestGetNextClient_RoundRobin(t *testing.T) {
	pool := newTestPool(t,
		"https://rpc-a.example.com",
		"https://rpc-b.example.com",
		"https://rpc-c.example.com")

	seen := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		seen = append(seen, pool.getNextClient().URL)
	}

	assert.Equal(t, []string{
		"https://rpc-b.example.com",
		"https://rpc-c.example.com",
		"https://rpc-a.example.com",
		"https://rpc-b.example.com",
		"https://rpc-c.example.com",
		"https://rpc-a.example.com",
	}, seen)
}

func TestGetNextClient_SkipsInactive(t *testing.T) {
	pool := newTestPool(t, "https://rpc-a.example.com", "https://rpc-b.example.com")
	pool.rpcClients[1].setActive(false)

	for i := 0; i < 4; i++ {
		assert.Equal(t, "https://rpc-a.example.com", pool.getNextClient().URL)
	}
}

func TestGetNextClient_ReactivatesExhaustedPool(t *testing.T) {
	pool := newTestPool(t, "https://rpc-a.example.com", "https://rpc-b.example.com")
	for _, client := range pool.rpcClients {
		client.setActive(false)
	}
	require.False(t, pool.hasActiveClients())

	got := pool.getNextClient()
	require.NotNil(t, got)
	assert.True(t, pool.hasActiveClients())
	for _, client := range pool.rpcClients {
		assert.True(t, client.isActive())
	}
}

func TestUpdateMetrics(t *testing.T) {
	client := &RPCClient{metrics: &RPCMetrics{}}

	client.updateMetrics(true, 100*time.Millisecond)
	client.updateMetrics(false, 300*time.Millisecond)

	assert.EqualValues(t, 1, client.metrics.successCount)
	assert.EqualValues(t, 1, client.metrics.errorCount)
	// Rolling average halves each step: (0+100)/2, then (50+300)/2.
	assert.Equal(t, 175*time.Millisecond, client.metrics.latency)
}

package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewSession_IntervalFallback(t *testing.T) {
	s := NewSession(nil, 0, zap.NewNop())
	assert.Equal(t, KeepAliveInterval, s.interval)

	s = NewSession(nil, 5*time.Second, zap.NewNop())
	assert.Equal(t, 5*time.Second, s.interval)
}

// The configured interval drives the ping loop, not the package default.
func TestStartKeepAlive_PingsAtConfiguredInterval(t *testing.T) {
	var pings atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pings.Add(1)
	}))
	defer server.Close()

	s := NewSession([]string{server.URL}, 10*time.Millisecond, zap.NewNop())
	s.StartKeepAlive(context.Background())

	deadline := time.After(2 * time.Second)
	for pings.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 pings, got %d", pings.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Close()
	settled := pings.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, pings.Load(), "pings must stop after Close")
}

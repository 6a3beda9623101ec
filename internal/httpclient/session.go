// ====================================
// File: internal/httpclient/session.go
// ====================================

// Package httpclient owns the process-wide outbound HTTP session. The
// transport is shared by every component and safe for concurrent use;
// no single swap attempt owns it.
package httpclient

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// KeepAliveInterval is the default delay between two ping rounds.
	KeepAliveInterval = 19 * time.Second

	pingTimeout     = 5 * time.Second
	idleConnTimeout = 300 * time.Second
)

// Session is the shared HTTP client plus its keep-alive pinger.
type Session struct {
	client   *http.Client
	targets  []string
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSession creates the shared session. targets are the endpoints the
// keep-alive loop keeps warm connections to; a zero interval falls back
// to the default.
func NewSession(targets []string, interval time.Duration, logger *zap.Logger) *Session {
	if interval <= 0 {
		interval = KeepAliveInterval
	}
	transport := &http.Transport{
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     idleConnTimeout,
	}
	return &Session{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		targets:  targets,
		interval: interval,
		logger:   logger.Named("session"),
	}
}

// Client returns the shared HTTP client.
func (s *Session) Client() *http.Client {
	return s.client
}

// StartKeepAlive launches the background ping loop. Fire-and-forget:
// ping failures are logged and swallowed, they never affect swap state.
func (s *Session) StartKeepAlive(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.pingAll(ctx)
			}
		}
	}()
}

// Close stops the keep-alive loop and drops idle connections.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	s.client.CloseIdleConnections()
}

func (s *Session) pingAll(ctx context.Context) {
	g, gCtx := errgroup.WithContext(ctx)
	for _, target := range s.targets {
		g.Go(func() error {
			s.ping(gCtx, target)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Session) ping(ctx context.Context, target string) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("Keep-alive ping failed", zap.String("target", target), zap.Error(err))
		return
	}
	resp.Body.Close()
}

package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/botkit/internal/config"
	"github.com/edgard/botkit/internal/logger"
)

type listenerFunc func(ctx context.Context)

func (f listenerFunc) Start(ctx context.Context) { f(ctx) }

func TestBotRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{Metrics: config.MetricsConfig{ListenAddr: "127.0.0.1:0"}}
	s := newTestScheduler(t, cfg.Scheduler, nil)

	listening := make(chan struct{})
	b := NewBot(logger.Discard(), cfg, listenerFunc(func(ctx context.Context) {
		close(listening)
		<-ctx.Done()
	}), s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	<-listening
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop")
	}
	assert.True(t, s.stopped)
}

func TestBotRunFailsWhenListenerExits(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	s := newTestScheduler(t, cfg.Scheduler, nil)

	b := NewBot(logger.Discard(), cfg, listenerFunc(func(context.Context) {}), s)

	err := b.Run(context.Background())
	require.ErrorContains(t, err, "stopped unexpectedly")
}

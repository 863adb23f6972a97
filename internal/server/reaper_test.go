package server

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaperEvictsIdleGames(t *testing.T) {
	t.Parallel()
	service := NewGameService(testLogger(), WithClock(quartz.NewReal()), WithSeed(1))
	_, err := service.Create("idle", nil)
	require.NoError(t, err)

	reaper := NewReaper(service, 20*time.Millisecond, 5*time.Millisecond, testLogger())
	require.True(t, reaper.Enabled())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reaper.Run(ctx) }()

	assert.Eventually(t, func() bool { return !service.Exists("idle") }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reaper did not stop")
	}
}

func TestReaperDisabled(t *testing.T) {
	t.Parallel()
	service, _ := newTestService(t)
	reaper := NewReaper(service, 0, time.Minute, testLogger())
	assert.False(t, reaper.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, reaper.Run(ctx))
}

package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New("every tuesday-ish", func(context.Context) error { return nil }, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNew_ValidSpecs(t *testing.T) {
	for _, spec := range []string{"@every 24h", "@daily", "0 6 * * 1-5"} {
		_, err := New(spec, func(context.Context) error { return nil }, zaptest.NewLogger(t))
		assert.NoError(t, err, spec)
	}
}

func TestTrigger_SkipsOverlappingRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	s, err := New("@every 1h", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return nil
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	done := make(chan bool)
	go func() { done <- s.Trigger(context.Background()) }()
	<-started

	assert.False(t, s.Trigger(context.Background()))
	close(release)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTrigger_FailedRunDoesNotBlockNext(t *testing.T) {
	var calls int32
	s, err := New("@every 1h", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("loadsheet not found")
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, s.Trigger(context.Background()))
	assert.True(t, s.Trigger(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestStart_RunsImmediately(t *testing.T) {
	ran := make(chan struct{}, 1)
	s, err := New("@every 1h", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not start")
	}
}

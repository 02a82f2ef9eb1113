package cron

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerRunsJobImmediately(t *testing.T) {
	s := NewScheduler(testLogger())

	var runs int32
	done := make(chan struct{})
	s.AddJob("counter", time.Hour, func(ctx context.Context) error {
		if atomic.AddInt32(&runs, 1) == 1 {
			close(done)
		}
		return nil
	})

	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestSchedulerTicks(t *testing.T) {
	s := NewScheduler(testLogger())

	var runs int32
	s.AddJob("ticker", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Immediate run plus several ticks.
	assert.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(2))
}

func TestSchedulerStopWaitsForJobs(t *testing.T) {
	s := NewScheduler(testLogger())

	var finished atomic.Bool
	s.AddJob("slow", time.Hour, func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	})

	s.Start()
	s.Stop()

	assert.True(t, finished.Load())
}

func TestSchedulerSurvivesFailingJob(t *testing.T) {
	s := NewScheduler(testLogger())

	var failures, successes int32
	s.AddJob("failing", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&failures, 1)
		return errors.New("boom")
	})
	s.AddJob("healthy", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&successes, 1)
		return nil
	})

	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// The failing job keeps being rescheduled and never takes the healthy
	// one down with it.
	assert.GreaterOrEqual(t, atomic.LoadInt32(&failures), int32(2))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&successes), int32(2))
}

func TestRunOnce(t *testing.T) {
	s := NewScheduler(testLogger())

	var runs int32
	s.AddJob("a", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})
	s.AddJob("b", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.RunOnce(context.Background())
	require.Equal(t, int32(2), atomic.LoadInt32(&runs))
}

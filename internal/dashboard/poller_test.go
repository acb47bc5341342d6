package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-dashboard/internal/logging"
)

// manualScheduler fires ticks only when the test says so.
type manualScheduler struct {
	mu        sync.Mutex
	fn        func()
	interval  time.Duration
	schedules int
	stops     int
}

func (s *manualScheduler) Every(interval time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
	s.interval = interval
	s.schedules++

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.fn = nil
			s.stops++
			s.mu.Unlock()
		})
	}
}

func (s *manualScheduler) fire() bool {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

func waitFor(t *testing.T, counter *atomic.Int32, n int32) {
	t.Helper()
	require.Eventually(t, func() bool { return counter.Load() >= n }, time.Second, time.Millisecond)
}

// fireUntil fires until counter reaches n. A fire that lands while the
// previous run is still unwinding is skipped by the poller, so retry.
func fireUntil(t *testing.T, sched *manualScheduler, counter *atomic.Int32, n int32) {
	t.Helper()
	require.Eventually(t, func() bool {
		if counter.Load() >= n {
			return true
		}
		sched.fire()
		return counter.Load() >= n
	}, time.Second, time.Millisecond)
}

func TestPollerRunsImmediatelyThenOnTicks(t *testing.T) {
	sched := &manualScheduler{}
	p := NewPoller(sched, logging.Discard())

	var runs atomic.Int32
	p.Start(context.Background(), 0, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	waitFor(t, &runs, 1)
	assert.Equal(t, DefaultInterval, sched.interval)

	fireUntil(t, sched, &runs, 2)
	fireUntil(t, sched, &runs, 3)
	assert.Equal(t, int32(3), runs.Load())
	assert.True(t, p.Running())
}

func TestPollerStopIsIdempotent(t *testing.T) {
	sched := &manualScheduler{}
	p := NewPoller(sched, logging.Discard())

	p.Stop()
	assert.False(t, p.Running())

	var runs atomic.Int32
	p.Start(context.Background(), time.Minute, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	waitFor(t, &runs, 1)

	p.Stop()
	p.Stop()
	assert.False(t, p.Running())
	assert.Equal(t, 1, sched.stops)
	assert.False(t, sched.fire(), "no tick after stop")
	assert.Equal(t, int32(1), runs.Load())
}

func TestPollerRestartReplacesLoop(t *testing.T) {
	sched := &manualScheduler{}
	p := NewPoller(sched, logging.Discard())

	var first, second atomic.Int32
	p.Start(context.Background(), time.Minute, func(context.Context) error {
		first.Add(1)
		return nil
	})
	waitFor(t, &first, 1)

	p.Start(context.Background(), 2*time.Minute, func(context.Context) error {
		second.Add(1)
		return nil
	})
	waitFor(t, &second, 1)

	assert.Equal(t, 2, sched.schedules)
	assert.Equal(t, 1, sched.stops, "the first loop was stopped")

	fireUntil(t, sched, &second, 2)
	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, 2*time.Minute, sched.interval)
}

func TestPollerErrorsDoNotStopLoop(t *testing.T) {
	sched := &manualScheduler{}
	var errs []error
	var mu sync.Mutex
	p := NewPoller(sched, logging.Discard(), WithErrorHandler(func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}))

	var runs atomic.Int32
	p.Start(context.Background(), time.Minute, func(context.Context) error {
		runs.Add(1)
		return errors.New("backend down")
	})
	waitFor(t, &runs, 1)

	fireUntil(t, sched, &runs, 2)
	fireUntil(t, sched, &runs, 3)

	// The handler runs after the task returns.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(errs) == 3
	}, time.Second, time.Millisecond)
	assert.True(t, p.Running())
	p.Stop()
}

func TestPollerSkipsOverlappingTicks(t *testing.T) {
	sched := &manualScheduler{}
	var skipped atomic.Int32
	p := NewPoller(sched, logging.Discard(), WithSkipHandler(func() { skipped.Add(1) }))

	release := make(chan struct{})
	var started, runs atomic.Int32
	p.Start(context.Background(), time.Minute, func(context.Context) error {
		started.Add(1)
		<-release
		runs.Add(1)
		return nil
	})
	waitFor(t, &started, 1)

	// The immediate run is still blocked; this tick must be dropped.
	require.True(t, sched.fire())
	assert.Equal(t, int32(1), skipped.Load())

	close(release)
	waitFor(t, &runs, 1)

	fireUntil(t, sched, &runs, 2)
	p.Stop()
}

func TestCronSchedulerTicksUntilStopped(t *testing.T) {
	if testing.Short() {
		t.Skip("waits on the wall clock")
	}

	var ticks atomic.Int32
	stop := CronScheduler{}.Every(time.Second, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
	stop()

	// A job dispatched right before stop may still land.
	time.Sleep(50 * time.Millisecond)
	after := ticks.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after stop")
}

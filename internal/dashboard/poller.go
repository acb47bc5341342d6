package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultInterval = 5 * time.Minute

// Scheduler runs fn every interval until the returned stop func is called.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// CronScheduler schedules with robfig/cron. Runs that would overlap a
// still-running one are skipped.
type CronScheduler struct{}

func (CronScheduler) Every(interval time.Duration, fn func()) func() {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(cron.Every(interval), cron.FuncJob(fn))
	c.Start()

	// Not waiting on the returned context: Stop may be called from inside
	// a running job.
	return func() { c.Stop() }
}

type Task func(ctx context.Context) error

type PollerOption func(*Poller)

// WithErrorHandler receives every error a tick returns.
func WithErrorHandler(fn func(error)) PollerOption {
	return func(p *Poller) { p.onError = fn }
}

// WithSkipHandler is called when a tick is dropped because the previous one
// is still running.
func WithSkipHandler(fn func()) PollerOption {
	return func(p *Poller) { p.onSkip = fn }
}

// Poller runs a task immediately and then on a fixed interval.
type Poller struct {
	sched   Scheduler
	logger  *slog.Logger
	onError func(error)
	onSkip  func()

	mu     sync.Mutex
	stop   func()
	cancel context.CancelFunc
}

func NewPoller(sched Scheduler, logger *slog.Logger, opts ...PollerOption) *Poller {
	if sched == nil {
		sched = CronScheduler{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		sched:  sched,
		logger: logger.With("component", "poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start stops any previous loop, runs task once right away (in its own
// goroutine) and then every interval. A non-positive interval means
// DefaultInterval.
func (p *Poller) Start(ctx context.Context, interval time.Duration, task Task) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	inFlight := &atomic.Bool{}
	run := func() { p.tick(runCtx, inFlight, task) }

	p.cancel = cancel
	p.stop = p.sched.Every(interval, run)

	p.logger.Debug("polling started", "interval", interval.String())
	go run()
}

// Stop ends the loop. It is a no-op when nothing is running.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

func (p *Poller) stopLocked() {
	if p.stop == nil {
		return
	}
	p.stop()
	p.cancel()
	p.stop = nil
	p.cancel = nil
	p.logger.Debug("polling stopped")
}

func (p *Poller) tick(ctx context.Context, inFlight *atomic.Bool, task Task) {
	if ctx.Err() != nil {
		return
	}
	if !inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("tick skipped, previous still running")
		if p.onSkip != nil {
			p.onSkip()
		}
		return
	}
	defer inFlight.Store(false)

	if err := task(ctx); err != nil && ctx.Err() == nil {
		p.logger.Warn("poll task failed", "error", err)
		if p.onError != nil {
			p.onError(err)
		}
	}
}

// Package dashboard is the "today" screen: the day's turnos as cards, the
// month counters, and the poller that keeps both fresh.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-dashboard/internal/dto"
	"github.com/BruksfildServices01/barber-dashboard/internal/httperr"
	"github.com/BruksfildServices01/barber-dashboard/internal/logging"
	"github.com/BruksfildServices01/barber-dashboard/internal/timezone"
)

var (
	ErrNotMounted = errors.New("dashboard not mounted")
	ErrNotFound   = errors.New("appointment not on the dashboard")
)

type TodayLoader interface {
	Execute(ctx context.Context, date string) ([]dto.AppointmentCardDTO, error)
}

type StatsLoader interface {
	Execute(ctx context.Context, start, end string) (domain.Snapshot, error)
}

// RefreshObserver is told the outcome of every refresh cycle.
type RefreshObserver interface {
	ObserveRefresh(result string, elapsed time.Duration)
	ObserveSkippedTick()
}

const (
	RefreshOK      = "ok"
	RefreshFailed  = "error"
	RefreshDropped = "stale"
)

type Options struct {
	Location *time.Location
	Interval time.Duration
	Now      func() time.Time
	Observer RefreshObserver
}

type View struct {
	today     TodayLoader
	stats     StatsLoader
	expansion *Expansion
	poller    *Poller
	loc       *time.Location
	interval  time.Duration
	now       func() time.Time
	observer  RefreshObserver
	logger    *slog.Logger

	// flight runs one refresh cycle per mount generation.
	flight singleflight.Group
	// waiting counts callers blocked on a refresh cycle.
	waiting atomic.Int32

	mu          sync.Mutex
	gen         uint64
	mounted     bool
	loading     bool
	date        string
	cards       []dto.AppointmentCardDTO
	snapshot    domain.Snapshot
	lastErr     error
	refreshedAt time.Time
}

func NewView(
	today TodayLoader,
	stats StatsLoader,
	sched Scheduler,
	logger *slog.Logger,
	opts Options,
) *View {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	v := &View{
		today:     today,
		stats:     stats,
		expansion: NewExpansion(),
		loc:       opts.Location,
		interval:  opts.Interval,
		now:       opts.Now,
		observer:  opts.Observer,
		logger:    logger.With("component", "dashboard"),
	}

	v.poller = NewPoller(sched, logger,
		WithErrorHandler(func(err error) {
			v.logger.Warn("scheduled refresh failed", "error", err)
		}),
		WithSkipHandler(func() {
			if v.observer != nil {
				v.observer.ObserveSkippedTick()
			}
		}),
	)
	return v
}

// Mount shows the dashboard: it refreshes now and then on every interval.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	v.gen++
	v.mounted = true
	v.loading = true
	v.mu.Unlock()

	v.poller.Start(ctx, v.interval, v.Refresh)
}

// Unmount stops polling and forgets everything shown. Refreshes still in
// flight are discarded when they land.
func (v *View) Unmount() {
	v.poller.Stop()

	v.mu.Lock()
	v.gen++
	v.mounted = false
	v.loading = false
	v.date = ""
	v.cards = nil
	v.snapshot = domain.Snapshot{}
	v.lastErr = nil
	v.refreshedAt = time.Time{}
	v.mu.Unlock()

	v.expansion.Clear()
}

func (v *View) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

// Refresh fetches today's turnos and the month counters concurrently and
// swaps both in once both are back. On failure the previous data stays and
// LastError is set.
//
// At most one cycle runs per mount: a caller arriving while a cycle is in
// flight, whether a poll tick or a manual refresh, waits for that cycle and
// gets its result.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return ErrNotMounted
	}
	gen := v.gen
	v.mu.Unlock()

	ch := v.flight.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		return nil, v.cycle(ctx, gen)
	})
	v.waiting.Add(1)
	defer v.waiting.Add(-1)

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *View) cycle(ctx context.Context, gen uint64) error {
	v.mu.Lock()
	if v.gen == gen {
		v.loading = true
	}
	v.mu.Unlock()

	now := v.now().In(v.loc)
	date := timezone.Date(now, v.loc)
	start, end := timezone.MonthBounds(now.Year(), now.Month())

	log := logging.FromContext(ctx, v.logger).With("refresh_id", uuid.NewString(), "date", date)
	ctx = logging.ContextWithLogger(ctx, log)
	began := time.Now()

	var (
		cards    []dto.AppointmentCardDTO
		snapshot domain.Snapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = v.today.Execute(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot, err = v.stats.Execute(gctx, start, end)
		return err
	})
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()

	// The result belongs to a dashboard that was unmounted or remounted
	// meanwhile. The error is still reported to the caller.
	if v.gen != gen {
		log.Debug("discarding refresh for an unmounted dashboard")
		v.observe(RefreshDropped, began)
		return err
	}

	v.loading = false
	if err != nil {
		v.lastErr = err
		log.Warn("refresh failed", "kind", httperr.KindOf(err), "error", err)
		v.observe(RefreshFailed, began)
		return err
	}

	v.date = date
	v.cards = cards
	v.snapshot = snapshot
	v.lastErr = nil
	v.refreshedAt = v.now()
	log.Info("refreshed", "turnos", len(cards), "total_mes", snapshot.Total)
	v.observe(RefreshOK, began)
	return nil
}

func (v *View) observe(result string, began time.Time) {
	if v.observer != nil {
		v.observer.ObserveRefresh(result, time.Since(began))
	}
}

// LastError is the user-facing message of the latest failed refresh, or "".
func (v *View) LastError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.lastErr == nil {
		return ""
	}
	return httperr.UserMessage(v.lastErr)
}

// Toggle flips the expansion of a card shown on the dashboard.
func (v *View) Toggle(id uint) (bool, error) {
	if _, ok := v.Card(id); !ok {
		return false, ErrNotFound
	}
	return v.expansion.Toggle(id), nil
}

// Card returns the shown card with id, expansion applied.
func (v *View) Card(id uint) (dto.AppointmentCardDTO, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, c := range v.cards {
		if c.ID == id {
			c.Expanded = v.expansion.IsExpanded(id)
			return c, true
		}
	}
	return dto.AppointmentCardDTO{}, false
}

func (v *View) Snapshot() dto.DashboardDTO {
	v.mu.Lock()
	defer v.mu.Unlock()

	cards := make([]dto.AppointmentCardDTO, 0, len(v.cards))
	for _, c := range v.cards {
		c.Expanded = v.expansion.IsExpanded(c.ID)
		cards = append(cards, c)
	}

	out := dto.DashboardDTO{
		Date:         v.date,
		Title:        Heading(v.now().In(v.loc)),
		Appointments: cards,
		Stats: dto.StatsDTO{
			Total:      v.snapshot.Total,
			Pending:    v.snapshot.Pending,
			Completed:  v.snapshot.Completed,
			InProgress: v.snapshot.InProgress,
		},
		Loading: v.loading,
	}
	if v.lastErr != nil {
		out.LastError = httperr.UserMessage(v.lastErr)
	}
	if !v.refreshedAt.IsZero() {
		at := v.refreshedAt
		out.RefreshedAt = &at
	}
	return out
}

var (
	weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	months   = [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

// Heading is the date line above the cards, e.g. "miércoles 05 de marzo".
func Heading(t time.Time) string {
	return fmt.Sprintf("%s %02d de %s", weekdays[t.Weekday()], t.Day(), months[t.Month()-1])
}

package calendar

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-dashboard/internal/dto"
	"github.com/BruksfildServices01/barber-dashboard/internal/logging"
	"github.com/BruksfildServices01/barber-dashboard/internal/timezone"
)

// MonthLoader returns turnos per day for one month.
type MonthLoader interface {
	Execute(ctx context.Context, year int, month time.Month) (map[string]int, error)
}

// DayLoader returns the turnos of one day.
type DayLoader interface {
	Execute(ctx context.Context, date string) (dto.DayDetailsDTO, error)
}

// View is the monthly calendar of one dashboard.
type View struct {
	months MonthLoader
	days   DayLoader
	cache  *MonthCache
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	shown   MonthKey
	counts  map[string]int
	loading bool
	lastErr error
}

func NewView(
	months MonthLoader,
	days DayLoader,
	cache *MonthCache,
	loc *time.Location,
	now func() time.Time,
	logger *slog.Logger,
) *View {
	if cache == nil {
		cache = NewMonthCache()
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	v := &View{
		months: months,
		days:   days,
		cache:  cache,
		loc:    loc,
		now:    now,
		logger: logger.With("component", "calendar"),
		counts: map[string]int{},
	}
	v.shown = MonthOf(v.today())
	return v
}

func (v *View) today() time.Time {
	return v.now().In(v.loc)
}

// Month is the month currently displayed.
func (v *View) Month() MonthKey {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shown
}

// Load (re)loads the displayed month.
func (v *View) Load(ctx context.Context) error {
	return v.Show(ctx, v.Month())
}

func (v *View) Next(ctx context.Context) error {
	return v.Show(ctx, v.Month().Next())
}

func (v *View) Prev(ctx context.Context) error {
	return v.Show(ctx, v.Month().Prev())
}

// Show displays key, serving it from the cache when possible. A fetch that
// completes after the user moved to another month is discarded.
func (v *View) Show(ctx context.Context, key MonthKey) error {
	v.mu.Lock()
	v.shown = key
	if counts, ok := v.cache.Get(key); ok {
		v.counts = counts
		v.loading = false
		v.lastErr = nil
		v.mu.Unlock()
		return nil
	}
	v.loading = true
	v.mu.Unlock()

	cacheGen := v.cache.Generation()
	log := logging.FromContext(ctx, v.logger).With("month", key.String())
	counts, err := v.months.Execute(ctx, key.Year, key.Month)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.shown != key {
		log.Debug("discarding stale month", "shown", v.shown.String())
		return nil
	}

	v.loading = false
	if err != nil {
		log.Warn("month load failed", "error", err)
		v.counts = map[string]int{}
		v.lastErr = err
		return err
	}

	// Counts read before a mutation are shown but not cached; the next Load
	// refetches them.
	if !v.cache.Put(key, counts, cacheGen) {
		log.Debug("month invalidated while loading, not cached")
	}
	v.counts = copyCounts(counts)
	v.lastErr = nil
	return nil
}

// Invalidate drops the cached month so the next Load refetches it.
func (v *View) Invalidate() {
	v.cache.Clear()
}

// InvalidateDate drops the cached counts of the month containing date. An
// unparseable date clears the cache.
func (v *View) InvalidateDate(date string) {
	t, err := time.ParseInLocation(timezone.DateLayout, date, v.loc)
	if err != nil {
		v.cache.Clear()
		return
	}
	v.cache.Invalidate(MonthOf(t))
}

// LastError is the error of the latest load of the displayed month.
func (v *View) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Weeks lays the displayed month out as Monday-first weeks, padded with the
// neighbouring months' days.
func (v *View) Weeks() [][]dto.DayCellDTO {
	v.mu.Lock()
	key := v.shown
	counts := v.counts
	v.mu.Unlock()

	today := timezone.Date(v.today(), v.loc)
	return grid(key, counts, today)
}

func (v *View) Snapshot() dto.CalendarDTO {
	v.mu.Lock()
	key := v.shown
	loading := v.loading
	v.mu.Unlock()

	return dto.CalendarDTO{
		Year:    key.Year,
		Month:   int(key.Month),
		Title:   key.Title(),
		Loading: loading,
		Weeks:   v.Weeks(),
	}
}

// DayDetails always fetches fresh. Failures yield an empty list.
func (v *View) DayDetails(ctx context.Context, date string) dto.DayDetailsDTO {
	details, err := v.days.Execute(ctx, date)
	if err != nil {
		logging.FromContext(ctx, v.logger).Warn("day details failed", "date", date, "error", err)
	}
	return details
}

func grid(key MonthKey, counts map[string]int, today string) [][]dto.DayCellDTO {
	first := key.First()
	last := first.AddDate(0, 1, -1)

	// Weekday() is Sunday-based; shift to Monday-based.
	start := first.AddDate(0, 0, -((int(first.Weekday()) + 6) % 7))
	end := last.AddDate(0, 0, (7-int(last.Weekday()))%7)

	var weeks [][]dto.DayCellDTO
	var week []dto.DayCellDTO
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(timezone.DateLayout)
		inMonth := d.Month() == key.Month

		occupied := 0
		if inMonth {
			occupied = counts[date]
		}

		week = append(week, dto.DayCellDTO{
			Date:           date,
			Day:            d.Day(),
			InMonth:        inMonth,
			IsToday:        date == today,
			Occupied:       occupied,
			Classification: string(domain.Classify(occupied)),
		})
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = nil
		}
	}
	return weeks
}

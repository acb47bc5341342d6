package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-dashboard/internal/dto"
	"github.com/BruksfildServices01/barber-dashboard/internal/logging"
)

type monthLoaderStub struct {
	data   map[MonthKey]map[string]int
	err    error
	calls  []MonthKey
	during func(MonthKey)
}

func (s *monthLoaderStub) Execute(_ context.Context, year int, month time.Month) (map[string]int, error) {
	key := MonthKey{Year: year, Month: month}
	s.calls = append(s.calls, key)
	out := s.data[key]
	if s.during != nil {
		s.during(key)
	}
	if s.err != nil {
		return nil, s.err
	}
	return out, nil
}

type dayLoaderStub struct {
	details dto.DayDetailsDTO
	err     error
	dates   []string
}

func (s *dayLoaderStub) Execute(_ context.Context, date string) (dto.DayDetailsDTO, error) {
	s.dates = append(s.dates, date)
	return s.details, s.err
}

var (
	march = MonthKey{Year: 2025, Month: time.March}
	april = MonthKey{Year: 2025, Month: time.April}
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)
}

func newView(months MonthLoader, days DayLoader) *View {
	return NewView(months, days, NewMonthCache(), time.UTC, fixedNow, logging.Discard())
}

func TestMonthKeyNavigation(t *testing.T) {
	dec := MonthKey{Year: 2024, Month: time.December}
	assert.Equal(t, MonthKey{Year: 2025, Month: time.January}, dec.Next())
	assert.Equal(t, dec, dec.Next().Prev())
	assert.Equal(t, "2024-12", dec.String())
	assert.Equal(t, "Diciembre 2024", dec.Title())

	start, end := MonthKey{Year: 2024, Month: time.February}.Range()
	assert.Equal(t, "2024-02-01", start)
	assert.Equal(t, "2024-02-29", end)
}

func TestCacheHoldsOneMonth(t *testing.T) {
	c := NewMonthCache()
	_, ok := c.Get(march)
	assert.False(t, ok)

	require.True(t, c.Put(march, map[string]int{"2025-03-05": 2}, c.Generation()))
	got, ok := c.Get(march)
	require.True(t, ok)
	assert.Equal(t, 2, got["2025-03-05"])

	got["2025-03-05"] = 99
	again, _ := c.Get(march)
	assert.Equal(t, 2, again["2025-03-05"], "callers get a copy")

	c.Put(april, map[string]int{}, c.Generation())
	_, ok = c.Get(march)
	assert.False(t, ok, "putting April evicts March")

	c.Invalidate(march)
	_, ok = c.Get(april)
	assert.True(t, ok, "invalidating another month keeps April")

	c.Invalidate(april)
	_, ok = c.Get(april)
	assert.False(t, ok)

	c.Put(april, map[string]int{}, c.Generation())
	c.Clear()
	_, ok = c.Get(april)
	assert.False(t, ok)
}

func TestCacheRejectsCountsReadBeforeInvalidation(t *testing.T) {
	c := NewMonthCache()
	gen := c.Generation()

	c.Invalidate(march)
	assert.False(t, c.Put(march, map[string]int{"2025-03-05": 1}, gen))
	_, ok := c.Get(march)
	assert.False(t, ok)

	assert.True(t, c.Put(march, map[string]int{"2025-03-05": 2}, c.Generation()))
}

func TestMutationDuringLoadIsNotCached(t *testing.T) {
	loader := &monthLoaderStub{data: map[MonthKey]map[string]int{
		march: {"2025-03-05": 1},
	}}
	v := newView(loader, &dayLoaderStub{})

	// The backend answered with one turno, then a second one was booked and
	// the calendar invalidated before the answer arrived.
	loader.during = func(key MonthKey) {
		loader.during = nil
		loader.data[key] = map[string]int{"2025-03-05": 2}
		v.InvalidateDate("2025-03-05")
	}

	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, 1, findCell(t, v.Weeks(), "2025-03-05").Occupied, "the fetched counts are shown")
	_, ok := v.cache.Get(march)
	assert.False(t, ok, "but not cached")

	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, []MonthKey{march, march}, loader.calls, "the next load refetches")
	assert.Equal(t, 2, findCell(t, v.Weeks(), "2025-03-05").Occupied)
}

func TestInvalidateDateTargetsItsMonth(t *testing.T) {
	loader := &monthLoaderStub{data: map[MonthKey]map[string]int{march: {}}}
	v := newView(loader, &dayLoaderStub{})
	require.NoError(t, v.Load(context.Background()))

	v.InvalidateDate("2025-04-02")
	require.NoError(t, v.Load(context.Background()))
	assert.Len(t, loader.calls, 1, "April changed; March stays cached")

	v.InvalidateDate("2025-03-31")
	require.NoError(t, v.Load(context.Background()))
	assert.Len(t, loader.calls, 2)

	v.InvalidateDate("not-a-date")
	require.NoError(t, v.Load(context.Background()))
	assert.Len(t, loader.calls, 3, "an unparseable date clears everything")
}

func TestNavigationUsesCacheFirst(t *testing.T) {
	loader := &monthLoaderStub{data: map[MonthKey]map[string]int{
		march: {"2025-03-05": 3},
		april: {"2025-04-10": 26},
	}}
	v := newView(loader, &dayLoaderStub{})

	require.NoError(t, v.Load(context.Background()))
	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, []MonthKey{march}, loader.calls, "second load is a cache hit")

	require.NoError(t, v.Next(context.Background()))
	assert.Equal(t, april, v.Month())
	require.NoError(t, v.Prev(context.Background()))
	assert.Equal(t, []MonthKey{march, april, march}, loader.calls, "one slot: March was evicted by April")

	v.Invalidate()
	require.NoError(t, v.Load(context.Background()))
	assert.Len(t, loader.calls, 4)
}

func TestStaleMonthIsDiscarded(t *testing.T) {
	loader := &monthLoaderStub{data: map[MonthKey]map[string]int{
		march: {"2025-03-05": 3},
		april: {"2025-04-10": 1},
	}}
	v := newView(loader, &dayLoaderStub{})

	loader.during = func(key MonthKey) {
		if key == march {
			loader.during = nil
			require.NoError(t, v.Next(context.Background()))
		}
	}

	require.NoError(t, v.Load(context.Background()))

	assert.Equal(t, april, v.Month())
	cell := findCell(t, v.Weeks(), "2025-04-10")
	assert.Equal(t, 1, cell.Occupied)
	_, ok := v.cache.Get(march)
	assert.False(t, ok, "the stale March result is not cached")
}

func TestLoadFailureShowsEmptyMonth(t *testing.T) {
	v := newView(&monthLoaderStub{err: errors.New("down")}, &dayLoaderStub{})

	err := v.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, err, v.LastError())
	assert.False(t, v.Snapshot().Loading)
	assert.Equal(t, "sin-turnos", findCell(t, v.Weeks(), "2025-03-05").Classification)
}

func TestGridIsMondayFirst(t *testing.T) {
	loader := &monthLoaderStub{data: map[MonthKey]map[string]int{
		march: {"2025-03-05": 3, "2025-03-06": 26, "2025-02-28": 5},
	}}
	v := newView(loader, &dayLoaderStub{})
	require.NoError(t, v.Load(context.Background()))

	snap := v.Snapshot()
	assert.Equal(t, "Marzo 2025", snap.Title)

	// March 2025 starts on a Saturday and ends on a Monday.
	weeks := snap.Weeks
	require.Len(t, weeks, 6)
	for _, w := range weeks {
		require.Len(t, w, 7)
	}
	assert.Equal(t, "2025-02-24", weeks[0][0].Date)
	assert.False(t, weeks[0][0].InMonth)
	assert.Equal(t, "2025-03-01", weeks[0][5].Date)
	assert.True(t, weeks[0][5].InMonth)
	assert.Equal(t, "2025-04-06", weeks[5][6].Date)

	assert.Equal(t, 0, findCell(t, weeks, "2025-02-28").Occupied, "out-of-month days carry no occupancy")

	today := findCell(t, weeks, "2025-03-05")
	assert.True(t, today.IsToday)
	assert.Equal(t, "con-turnos-disponible", today.Classification)
	assert.Equal(t, "completo", findCell(t, weeks, "2025-03-06").Classification)
}

func TestDayDetailsDegradesToEmpty(t *testing.T) {
	days := &dayLoaderStub{
		details: dto.DayDetailsDTO{Date: "2025-03-07", Classification: "sin-turnos", Appointments: []dto.AppointmentCardDTO{}},
		err:     errors.New("timeout"),
	}
	v := newView(&monthLoaderStub{}, days)

	got := v.DayDetails(context.Background(), "2025-03-07")
	assert.Empty(t, got.Appointments)
	assert.Equal(t, []string{"2025-03-07"}, days.dates)

	v.DayDetails(context.Background(), "2025-03-07")
	assert.Len(t, days.dates, 2, "day details are never cached")
}

func findCell(t *testing.T, weeks [][]dto.DayCellDTO, date string) dto.DayCellDTO {
	t.Helper()
	for _, w := range weeks {
		for _, c := range w {
			if c.Date == date {
				return c
			}
		}
	}
	t.Fatalf("no cell for %s", date)
	return dto.DayCellDTO{}
}

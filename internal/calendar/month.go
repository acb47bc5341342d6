// Package calendar is the monthly occupancy view: a grid of days coloured by
// how many turnos each holds, backed by a one-month cache.
package calendar

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-dashboard/internal/timezone"
)

type MonthKey struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (k MonthKey) First() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (k MonthKey) Next() MonthKey {
	return MonthOf(k.First().AddDate(0, 1, 0))
}

func (k MonthKey) Prev() MonthKey {
	return MonthOf(k.First().AddDate(0, -1, 0))
}

// Range returns the first and last day as YYYY-MM-DD.
func (k MonthKey) Range() (string, string) {
	return timezone.MonthBounds(k.Year, k.Month)
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Title is the heading shown above the grid, e.g. "Marzo 2025".
func (k MonthKey) Title() string {
	return fmt.Sprintf("%s %d", monthNames[k.Month-1], k.Year)
}

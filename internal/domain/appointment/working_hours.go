package appointment

import (
	"fmt"
	"time"
)

// Operating window used to size a day. The calendar assumes every day runs
// from 09:00 to 22:00 in 30 minute slots.
const (
	OpeningHour = 9
	ClosingHour = 22
	SlotMinutes = 30

	TotalSlots = (ClosingHour - OpeningHour) * 60 / SlotMinutes
)

// SlotStarts lists the HH:MM start of every slot in the operating window.
func SlotStarts() []string {
	out := make([]string, 0, TotalSlots)
	for i := 0; i < TotalSlots; i++ {
		m := OpeningHour*60 + i*SlotMinutes
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}

// WithinOperatingWindow reports whether an HH:MM[:SS] time falls inside the
// window. Unparseable times are outside.
func WithinOperatingWindow(hm string) bool {
	t, ok := parseClock(hm)
	if !ok {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	return m >= OpeningHour*60 && m < ClosingHour*60
}

func parseClock(v string) (time.Time, bool) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

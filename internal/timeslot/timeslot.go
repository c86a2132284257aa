package timeslot

import (
	"fmt"
	"strings"
	"time"
)

// Grid describes the bookable time grid of the sports hall. All values are
// minutes from midnight except Step and MaxDuration which are lengths in minutes.
type Grid struct {
	Open        int // first bookable start time
	Close       int // last grid point; nothing may end after it
	Step        int
	MaxDuration int
}

// Default is the university hall schedule: half-hour grid from 08:00 to 21:00,
// bookings capped at 2 hours.
var Default = Grid{
	Open:        8 * 60,
	Close:       21 * 60,
	Step:        30,
	MaxDuration: 120,
}

// Slot is a chosen start/end pair on the grid, both formatted as "HH:MM".
type Slot struct {
	Start string `json:"startTime"`
	End   string `json:"endTime"`
}

// Label renders the canonical slot label shown in the time picker.
func (s Slot) Label() string {
	return s.Start + " - " + s.End
}

// StartTimes returns every valid start time on the grid in order.
// The last start is one step before closing so that at least one end exists.
func (g Grid) StartTimes() []string {
	var out []string
	for t := g.Open; t < g.Close; t += g.Step {
		out = append(out, formatMinutes(t))
	}
	return out
}

// EndTimes returns the valid end times for the given start: every grid point
// strictly after start, up to start+MaxDuration, clipped at closing time.
// An unknown or out-of-range start yields an empty list, which the caller must
// surface as a disabled confirmation state.
func (g Grid) EndTimes(start string) []string {
	st, err := parseMinutes(start)
	if err != nil || st < g.Open || st >= g.Close || (st-g.Open)%g.Step != 0 {
		return nil
	}

	last := st + g.MaxDuration
	if last > g.Close {
		last = g.Close
	}

	var out []string
	for t := st + g.Step; t <= last; t += g.Step {
		out = append(out, formatMinutes(t))
	}
	return out
}

// Normalize combines a start and end selection into a slot. If end is no
// longer valid for the start (or was never chosen), it is reset to the first
// valid option. ok is false when the start admits no end at all.
func (g Grid) Normalize(start, end string) (slot Slot, ok bool) {
	ends := g.EndTimes(start)
	if len(ends) == 0 {
		return Slot{}, false
	}
	for _, e := range ends {
		if e == end {
			return Slot{Start: start, End: end}, true
		}
	}
	return Slot{Start: start, End: ends[0]}, true
}

// ParseLabel parses a canonical "HH:MM - HH:MM" label back into a slot.
func ParseLabel(label string) (Slot, error) {
	parts := strings.Split(label, " - ")
	if len(parts) != 2 {
		return Slot{}, fmt.Errorf("invalid slot label %q", label)
	}
	for _, p := range parts {
		if _, err := parseMinutes(p); err != nil {
			return Slot{}, fmt.Errorf("invalid slot label %q: %w", label, err)
		}
	}
	return Slot{Start: parts[0], End: parts[1]}, nil
}

// StartAt resolves the slot's start time on the given booking date
// ("YYYY-MM-DD") in the given location.
func (s Slot) StartAt(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+s.Start, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking date %q: %w", date, err)
	}
	return t, nil
}

func formatMinutes(t int) string {
	return fmt.Sprintf("%02d:%02d", t/60, t%60)
}

func parseMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

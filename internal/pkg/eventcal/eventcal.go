package eventcal

import "time"

// DateLayout is the canonical day-key string format.
const DateLayout = "2006-01-02"

// Calendar maps instants to event-day keys using one fixed timezone, so the
// hall and food paths can never disagree about which day a scan belongs to.
type Calendar struct {
	loc *time.Location
}

// New creates a calendar for the given timezone name (e.g. "Asia/Kolkata").
// An empty or unknown name falls back to the server's local timezone.
func New(timezone string) *Calendar {
	loc := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			loc = parsed
		}
	}
	return &Calendar{loc: loc}
}

// NewInLocation creates a calendar for an explicit location.
func NewInLocation(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc}
}

// DayKey returns the date string and day index for an instant. Both values
// derive from the same localized calendar date: dayIndex is the number of
// days between the Unix epoch and that date, so the pair stays consistent
// across midnight regardless of the server's own timezone.
func (c *Calendar) DayKey(t time.Time) (string, int) {
	local := t.In(c.loc)
	y, m, d := local.Date()

	date := local.Format(DateLayout)
	dayIndex := int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)

	return date, dayIndex
}

// Today returns the day key pair for the current instant.
func (c *Calendar) Today() (string, int) {
	return c.DayKey(time.Now())
}

// Location exposes the calendar's timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

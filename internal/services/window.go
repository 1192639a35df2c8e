package services

import "time"

// Window filters accepted by the task list.
const (
	WindowToday     = "today"
	WindowThisWeek  = "thisWeek"
	WindowThisMonth = "thisMonth"
)

// WindowBounds returns the creation-time window [from, to) for kind,
// computed against the calendar in loc. Unknown kinds return nil bounds.
func WindowBounds(kind string, now time.Time, loc *time.Location) (from, to *time.Time) {
	var daysBack int
	switch kind {
	case WindowToday:
		daysBack = 0
	case WindowThisWeek:
		daysBack = 7
	case WindowThisMonth:
		daysBack = 30
	default:
		return nil, nil
	}

	local := now.In(loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d-daysBack, 0, 0, 0, 0, loc)
	end := now
	return &start, &end
}

package analytics

import "time"

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Period is a half-open [Start, End) range of civil days in one location.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthPeriod is the whole calendar month in loc.
func MonthPeriod(year int, month time.Month, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

func (p Period) Location() *time.Location {
	return p.Start.Location()
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Days lists every civil day of the period in order.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := p.Start; d.Before(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

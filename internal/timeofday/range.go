package timeofday

import "time"

// Range is a half-open [Start, End) window inside one civil day.
type Range struct {
	Start Clock
	End   Clock
}

func (r Range) Valid() bool {
	return r.Start >= 0 && r.Start < r.End && r.End <= MinutesPerDay
}

func (r Range) Minutes() int {
	if !r.Valid() {
		return 0
	}
	return int(r.End - r.Start)
}

// Overlaps reports any non-zero intersection. Abutting ranges do not overlap.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && r.End > o.Start
}

func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Span converts an absolute interval into a Range on start's civil day.
// ok is false when the interval is empty or leaves that day.
func Span(start, end time.Time) (Range, bool) {
	if !end.After(start) {
		return Range{}, false
	}
	from := Of(start)
	to := from + Clock(end.Sub(start)/time.Minute)
	if to > MinutesPerDay {
		return Range{}, false
	}
	return Range{Start: from, End: to}, true
}

// Overlap is the half-open interval overlap test on absolute instants.
func Overlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

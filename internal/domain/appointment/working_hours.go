package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timeofday"
)

// DefaultDurationMinutes applies when neither the request nor the service
// carries a positive duration.
const DefaultDurationMinutes = 30

// Window is a parsed WorkSchedule row.
type Window struct {
	Work     timeofday.Range
	Break    timeofday.Range
	HasBreak bool
}

// ParseWindow parses and validates a schedule row:
// start < end and, with a break, start <= breakStart < breakEnd <= end.
func ParseWindow(ws models.WorkSchedule) (Window, error) {
	start, err := timeofday.Parse(ws.StartTime)
	if err != nil {
		return Window{}, fmt.Errorf("start_time: %w", err)
	}
	end, err := timeofday.Parse(ws.EndTime)
	if err != nil {
		return Window{}, fmt.Errorf("end_time: %w", err)
	}

	w := Window{Work: timeofday.Range{Start: start, End: end}}
	if !w.Work.Valid() {
		return Window{}, fmt.Errorf("%w: start must be before end", timeofday.ErrInvalidClock)
	}

	if ws.BreakStart == "" && ws.BreakEnd == "" {
		return w, nil
	}
	if ws.BreakStart == "" || ws.BreakEnd == "" {
		return Window{}, fmt.Errorf("%w: break needs both start and end", timeofday.ErrInvalidClock)
	}

	bs, err := timeofday.Parse(ws.BreakStart)
	if err != nil {
		return Window{}, fmt.Errorf("break_start: %w", err)
	}
	be, err := timeofday.Parse(ws.BreakEnd)
	if err != nil {
		return Window{}, fmt.Errorf("break_end: %w", err)
	}

	w.Break = timeofday.Range{Start: bs, End: be}
	if !w.Break.Valid() || !w.Work.Contains(w.Break) {
		return Window{}, fmt.Errorf("%w: break must lie inside working hours", timeofday.ErrInvalidClock)
	}
	w.HasBreak = true

	return w, nil
}

// WorkMinutes is the bookable length of the window, break excluded.
func (w Window) WorkMinutes() int {
	minutes := w.Work.Minutes()
	if w.HasBreak {
		minutes -= w.Break.Minutes()
	}
	return minutes
}

// CheckWithinSchedule applies the working-hours and break rules to
// [start, end). A nil schedule means the professional does not work that
// weekday.
func CheckWithinSchedule(ws *models.WorkSchedule, start, end time.Time) error {
	if ws == nil || ws.Weekday != int(start.Weekday()) {
		return ErrNotWorkingDay
	}

	w, err := ParseWindow(*ws)
	if err != nil {
		// a broken row cannot admit anything
		return ErrOutsideWorkingHours
	}

	span, ok := timeofday.Span(start, end)
	if !ok || !w.Work.Contains(span) {
		return ErrOutsideWorkingHours
	}

	if w.HasBreak && span.Overlaps(w.Break) {
		return ErrBreakConflict
	}

	return nil
}

// ResolveDuration picks the requested duration, then the service default,
// then DefaultDurationMinutes.
func ResolveDuration(requested, serviceDefault int) int {
	if requested > 0 {
		return requested
	}
	if serviceDefault > 0 {
		return serviceDefault
	}
	return DefaultDurationMinutes
}

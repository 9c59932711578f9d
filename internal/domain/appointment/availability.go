package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timeofday"
)

type AvailabilityInput struct {
	TenantID       uint
	ProfessionalID uint
	ServiceID      uint
	Date           time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlots walks the working window of day in steps of duration and keeps
// every slot that avoids the break and every blocking appointment.
func FreeSlots(
	ws models.WorkSchedule,
	day time.Time,
	duration time.Duration,
	booked []models.Appointment,
) []TimeSlot {

	slots := []TimeSlot{}
	if duration <= 0 {
		return slots
	}

	w, err := ParseWindow(ws)
	if err != nil {
		return slots
	}

	step := timeofday.Clock(duration / time.Minute)
	if step <= 0 {
		return slots
	}

	for cur := w.Work.Start; cur+step <= w.Work.End; cur += step {
		slot := timeofday.Range{Start: cur, End: cur + step}

		if w.HasBreak && slot.Overlaps(w.Break) {
			continue
		}

		slotStart := slot.Start.On(day)
		slotEnd := slotStart.Add(duration)

		conflict := false
		for _, ap := range booked {
			if !Status(ap.Status).BlocksTime() {
				continue
			}
			if timeofday.Overlap(slotStart, slotEnd, ap.StartTime, ap.EndTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Start: slot.Start.String(),
				End:   slot.End.String(),
			})
		}
	}

	return slots
}

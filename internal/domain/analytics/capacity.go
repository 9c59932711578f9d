package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Capacity is an estimate used only as the occupancy denominator. It is not
// a slot enumeration and must not be used to offer bookable times.
const DefaultSlotMinutes = 30

// DefaultWeeksPerMonth is the average number of weeks in a month.
var DefaultWeeksPerMonth = decimal.RequireFromString("4.2")

type CapacityOptions struct {
	SlotMinutes   int
	WeeksPerMonth decimal.Decimal
}

func DefaultCapacityOptions() CapacityOptions {
	return CapacityOptions{
		SlotMinutes:   DefaultSlotMinutes,
		WeeksPerMonth: DefaultWeeksPerMonth,
	}
}

func (o CapacityOptions) normalized() CapacityOptions {
	if o.SlotMinutes <= 0 {
		o.SlotMinutes = DefaultSlotMinutes
	}
	if !o.WeeksPerMonth.IsPositive() {
		o.WeeksPerMonth = DefaultWeeksPerMonth
	}
	return o
}

// WeeklyMinutes sums the bookable minutes of every schedule row, breaks
// excluded. Rows that fail validation contribute nothing.
func WeeklyMinutes(schedules []models.WorkSchedule) int {
	total := 0
	for _, ws := range schedules {
		w, err := appointment.ParseWindow(ws)
		if err != nil {
			continue
		}
		total += w.WorkMinutes()
	}
	return total
}

// EstimateMonthlySlots returns floor(weeklyMinutes * weeksPerMonth / slotMinutes).
func EstimateMonthlySlots(schedules []models.WorkSchedule, opts CapacityOptions) int {
	opts = opts.normalized()

	weekly := WeeklyMinutes(schedules)
	if weekly <= 0 {
		return 0
	}

	monthly := decimal.NewFromInt(int64(weekly)).Mul(opts.WeeksPerMonth)
	slots := monthly.Div(decimal.NewFromInt(int64(opts.SlotMinutes))).Floor()

	return int(slots.IntPart())
}

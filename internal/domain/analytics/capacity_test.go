package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func weekdaySchedules(professionalID uint, start, end, breakStart, breakEnd string) []models.WorkSchedule {
	var out []models.WorkSchedule
	for wd := time.Monday; wd <= time.Friday; wd++ {
		out = append(out, models.WorkSchedule{
			ProfessionalID: professionalID,
			Weekday:        int(wd),
			StartTime:      start,
			EndTime:        end,
			BreakStart:     breakStart,
			BreakEnd:       breakEnd,
		})
	}
	return out
}

func TestEstimateMonthlySlotsMondayToFriday(t *testing.T) {
	schedules := weekdaySchedules(1, "09:00", "17:00", "", "")

	// floor(5 * 480 * 4.2 / 30)
	assert.Equal(t, 336, EstimateMonthlySlots(schedules, DefaultCapacityOptions()))
}

func TestEstimateMonthlySlotsSubtractsBreaks(t *testing.T) {
	schedules := weekdaySchedules(1, "09:00", "18:00", "12:00", "13:00")

	assert.Equal(t, 2400, WeeklyMinutes(schedules))
	assert.Equal(t, 336, EstimateMonthlySlots(schedules, DefaultCapacityOptions()))
}

func TestEstimateMonthlySlotsFloors(t *testing.T) {
	schedules := []models.WorkSchedule{{Weekday: 1, StartTime: "09:00", EndTime: "09:50"}}

	// 50 * 4.2 = 210 minutes, 210 / 30 = 7
	assert.Equal(t, 7, EstimateMonthlySlots(schedules, DefaultCapacityOptions()))

	// 50 * 4.2 / 45 = 4.66
	assert.Equal(t, 4, EstimateMonthlySlots(schedules, CapacityOptions{SlotMinutes: 45}))
}

func TestEstimateMonthlySlotsOverrides(t *testing.T) {
	schedules := weekdaySchedules(1, "09:00", "17:00", "", "")
	opts := CapacityOptions{SlotMinutes: 60, WeeksPerMonth: decimal.NewFromInt(4)}

	assert.Equal(t, 160, EstimateMonthlySlots(schedules, opts))
}

func TestEstimateMonthlySlotsEmptyAndInvalid(t *testing.T) {
	assert.Equal(t, 0, EstimateMonthlySlots(nil, DefaultCapacityOptions()))

	broken := []models.WorkSchedule{{Weekday: 1, StartTime: "18:00", EndTime: "09:00"}}
	assert.Equal(t, 0, EstimateMonthlySlots(broken, DefaultCapacityOptions()))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 1, Percent(5, 336))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 3, Percent(1, 40), "2.5 rounds half up")
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 150, Percent(3, 2))
}

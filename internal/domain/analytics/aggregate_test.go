package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var october = MonthPeriod(2026, time.October, time.UTC)

var now = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func appt(professionalID uint, day, hour int, status, price string) models.Appointment {
	start := time.Date(2026, 10, day, hour, 0, 0, 0, time.UTC)
	return models.Appointment{
		ProfessionalID: professionalID,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Status:         status,
		Price:          decimal.NewNullDecimal(money(price)),
	}
}

func ownerInput() Input {
	return Input{
		Period:   october,
		Now:      now,
		Capacity: DefaultCapacityOptions(),
		Viewer:   NewViewer(RoleOwner, nil),
	}
}

func TestAggregateOccupancyScenario(t *testing.T) {
	in := ownerInput()
	in.Professionals = []models.Professional{{ID: 1, Name: "Ana"}}
	in.Schedules = weekdaySchedules(1, "09:00", "17:00", "", "")
	for day := 5; day < 10; day++ {
		in.Appointments = append(in.Appointments, appt(1, day, 10, "scheduled", "100"))
	}

	m := Aggregate(in)

	assert.Equal(t, 5, m.Sessions)
	assert.Equal(t, 336, m.Capacity)
	assert.Equal(t, 1, m.OccupancyRate)
	assert.True(t, m.Revenue.Equal(money("500")))
}

func TestAggregateAttendanceExcludesScheduledAndCanceled(t *testing.T) {
	in := ownerInput()
	in.Appointments = []models.Appointment{
		appt(1, 5, 9, "completed", "50"),
		appt(1, 5, 10, "no_show", "50"),
		appt(1, 5, 11, "scheduled", "50"),
		appt(1, 5, 12, "canceled", "50"),
	}

	m := Aggregate(in)

	assert.Equal(t, 50, m.AttendanceRate)
	assert.Equal(t, 3, m.Sessions, "canceled is not a session")
	assert.True(t, m.Revenue.Equal(money("150")))
}

func TestAggregateAttendanceWithOnlyScheduled(t *testing.T) {
	in := ownerInput()
	in.Appointments = []models.Appointment{appt(1, 5, 9, "scheduled", "50")}

	assert.Equal(t, 0, Aggregate(in).AttendanceRate)
}

func TestAggregateEmptyTenant(t *testing.T) {
	m := Aggregate(ownerInput())

	assert.True(t, m.Revenue.IsZero())
	assert.Zero(t, m.Sessions)
	assert.Zero(t, m.Capacity)
	assert.Zero(t, m.OccupancyRate)
	assert.Zero(t, m.AttendanceRate)
	assert.Zero(t, m.NewPatients)
	assert.Empty(t, m.PerformanceTable)
	assert.Len(t, m.RevenueChart, 31)
	for _, p := range m.RevenueChart {
		assert.True(t, p.Revenue.IsZero())
	}
}

func TestAggregateOccupancyWithoutCapacity(t *testing.T) {
	in := ownerInput()
	in.Appointments = []models.Appointment{appt(1, 5, 9, "scheduled", "50")}

	m := Aggregate(in)

	assert.Equal(t, 1, m.Sessions)
	assert.Zero(t, m.Capacity)
	assert.Zero(t, m.OccupancyRate)
}

func TestRevenueChartContinuity(t *testing.T) {
	in := ownerInput()
	in.Appointments = []models.Appointment{
		appt(1, 1, 9, "completed", "80.50"),
		appt(2, 1, 9, "scheduled", "19.50"),
		appt(1, 31, 9, "completed", "10"),
		appt(1, 15, 9, "canceled", "999"),
	}

	m := Aggregate(in)

	require.Len(t, m.RevenueChart, 31)
	for i, p := range m.RevenueChart {
		assert.Equal(t, time.Date(2026, 10, i+1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), p.Day)
	}
	assert.True(t, m.RevenueChart[0].Revenue.Equal(money("100")))
	assert.True(t, m.RevenueChart[14].Revenue.IsZero())
	assert.True(t, m.RevenueChart[30].Revenue.Equal(money("10")))

	feb := MonthPeriod(2028, time.February, time.UTC)
	assert.Len(t, Empty(feb, now, Capabilities{}).RevenueChart, 29)
}

func TestRevenueChartUsesPeriodLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	in := ownerInput()
	in.Period = MonthPeriod(2026, time.October, loc)

	// 01:00 UTC on the 2nd is still the 1st in BRT
	start := time.Date(2026, 10, 2, 1, 0, 0, 0, time.UTC)
	in.Appointments = []models.Appointment{{ProfessionalID: 1, StartTime: start, EndTime: start.Add(time.Hour), Status: "completed", Price: decimal.NewNullDecimal(money("40"))}}

	m := Aggregate(in)

	assert.True(t, m.RevenueChart[0].Revenue.Equal(money("40")))
	assert.True(t, m.RevenueChart[1].Revenue.IsZero())
}

func TestAggregateIgnoresAppointmentsOutsidePeriod(t *testing.T) {
	in := ownerInput()
	start := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	in.Appointments = []models.Appointment{{ProfessionalID: 1, StartTime: start, EndTime: start.Add(time.Hour), Status: "completed", Price: decimal.NewNullDecimal(money("40"))}}

	assert.Zero(t, Aggregate(in).Sessions)
}

func TestPerformanceTable(t *testing.T) {
	in := ownerInput()
	in.Professionals = []models.Professional{
		{ID: 1, Name: "Ana", CommissionPercent: money("40")},
		{ID: 2, Name: "Bruno", CommissionPercent: money("50")},
	}
	in.Appointments = []models.Appointment{
		appt(1, 2, 9, "completed", "100"),
		appt(1, 2, 10, "no_show", "50"),
		appt(1, 3, 10, "canceled", "500"),
		appt(2, 2, 9, "completed", "300"),
		appt(2, 4, 9, "completed", "100"),
		appt(2, 5, 9, "scheduled", "50"),
	}

	m := Aggregate(in)

	require.Len(t, m.PerformanceTable, 2)

	top := m.PerformanceTable[0]
	assert.Equal(t, uint(2), top.ProfessionalID)
	assert.Equal(t, "Bruno", top.Name)
	assert.Equal(t, 3, top.Appointments)
	assert.True(t, top.Revenue.Equal(money("450")))
	assert.True(t, top.Ticket.Equal(money("150")))
	assert.Equal(t, 100, top.Attendance)
	require.NotNil(t, top.Commission)
	assert.True(t, top.Commission.Equal(money("225")))

	second := m.PerformanceTable[1]
	assert.Equal(t, uint(1), second.ProfessionalID)
	assert.Equal(t, 2, second.Appointments)
	assert.True(t, second.Ticket.Equal(money("75")))
	assert.Equal(t, 50, second.Attendance)
}

func TestPerformanceTableHidesCommissionWithoutCapability(t *testing.T) {
	in := ownerInput()
	in.Viewer = NewViewer(RoleReceptionist, nil)
	in.Professionals = []models.Professional{{ID: 1, Name: "Ana", CommissionPercent: money("40")}}
	in.Appointments = []models.Appointment{appt(1, 2, 9, "completed", "100")}

	m := Aggregate(in)

	require.Len(t, m.PerformanceTable, 1)
	assert.Nil(t, m.PerformanceTable[0].Commission)
}

func TestRestrictedViewerSeesOnlyOwnFigures(t *testing.T) {
	id := uint(1)
	in := ownerInput()
	in.Viewer = NewViewer(RoleProfessional, &id)
	in.Schedules = append(weekdaySchedules(1, "09:00", "17:00", "", ""), weekdaySchedules(2, "09:00", "17:00", "", "")...)
	in.Appointments = []models.Appointment{
		appt(1, 2, 9, "completed", "100"),
		appt(2, 2, 9, "completed", "300"),
	}

	m := Aggregate(in)

	assert.Equal(t, 1, m.Sessions)
	assert.Equal(t, 336, m.Capacity)
	assert.True(t, m.Revenue.Equal(money("100")))
	require.Len(t, m.PerformanceTable, 1)
	assert.Equal(t, uint(1), m.PerformanceTable[0].ProfessionalID)
}

func TestRestrictedViewerWithoutLinkGetsEmptyBundle(t *testing.T) {
	in := ownerInput()
	in.Viewer = NewViewer(RoleProfessional, nil)
	in.Appointments = []models.Appointment{appt(1, 2, 9, "completed", "100")}

	m := Aggregate(in)

	assert.Zero(t, m.Sessions)
	assert.True(t, m.Revenue.IsZero())
}

func TestPatientGrowthAndNewPatients(t *testing.T) {
	in := ownerInput()
	in.ClientCreatedAt = []time.Time{
		time.Date(2026, 4, 30, 23, 0, 0, 0, time.UTC), // outside the window
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
	}

	m := Aggregate(in)

	assert.Equal(t, []GrowthPoint{
		{Month: "2026-05", Count: 1},
		{Month: "2026-06", Count: 0},
		{Month: "2026-07", Count: 2},
		{Month: "2026-08", Count: 0},
		{Month: "2026-09", Count: 0},
		{Month: "2026-10", Count: 2},
	}, m.PatientGrowth)
	assert.Equal(t, 2, m.NewPatients)
}

func TestPatientGrowthAcrossYearBoundary(t *testing.T) {
	jan := time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC)

	points := patientGrowth(jan, nil)

	require.Len(t, points, GrowthMonths)
	assert.Equal(t, "2026-08", points[0].Month)
	assert.Equal(t, "2027-01", points[5].Month)
}

func TestGrowthWindow(t *testing.T) {
	since, until := GrowthWindow(now)

	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), since)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), until)
}

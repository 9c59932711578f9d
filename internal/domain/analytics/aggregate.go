package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// GrowthMonths is the length of the patient growth series.
const GrowthMonths = 6

type Input struct {
	Period Period
	// Now anchors the "current month" figures, in the tenant location.
	Now time.Time

	Professionals   []models.Professional
	Schedules       []models.WorkSchedule
	Appointments    []models.Appointment
	ClientCreatedAt []time.Time

	Capacity CapacityOptions
	Viewer   Viewer
}

// Empty is the all-zero bundle, still carrying a zero-filled day series
// and growth series.
func Empty(period Period, now time.Time, caps Capabilities) Metrics {
	return Metrics{
		PeriodStart:      period.Start.Format(dayLayout),
		PeriodEnd:        period.End.Format(dayLayout),
		Revenue:          decimal.Zero,
		RevenueChart:     revenueChart(period, nil),
		PerformanceTable: []ProfessionalPerformance{},
		PatientGrowth:    patientGrowth(now, nil),
		Capabilities:     caps,
	}
}

// Aggregate computes the dashboard bundle. Canceled appointments are
// ignored everywhere; only completed and no-show count for attendance.
func Aggregate(in Input) Metrics {
	caps := in.Viewer.Capabilities
	scopeID, restricted := in.Viewer.ScopedProfessional()
	if restricted && scopeID == 0 {
		return Empty(in.Period, in.Now, caps)
	}

	inScope := func(professionalID uint) bool {
		return !restricted || professionalID == scopeID
	}

	var schedules []models.WorkSchedule
	for _, ws := range in.Schedules {
		if inScope(ws.ProfessionalID) {
			schedules = append(schedules, ws)
		}
	}

	var sessions []models.Appointment
	for _, ap := range in.Appointments {
		if !appointment.Status(ap.Status).BlocksTime() {
			continue
		}
		if !inScope(ap.ProfessionalID) || !in.Period.Contains(ap.StartTime) {
			continue
		}
		sessions = append(sessions, ap)
	}

	revenue := decimal.Zero
	for _, ap := range sessions {
		revenue = revenue.Add(ap.ChargedPrice())
	}

	capacity := EstimateMonthlySlots(schedules, in.Capacity)
	completed, noShow := outcomes(sessions)

	m := Metrics{
		PeriodStart:      in.Period.Start.Format(dayLayout),
		PeriodEnd:        in.Period.End.Format(dayLayout),
		Revenue:          revenue,
		Sessions:         len(sessions),
		Capacity:         capacity,
		OccupancyRate:    Percent(len(sessions), capacity),
		AttendanceRate:   Percent(completed, completed+noShow),
		RevenueChart:     revenueChart(in.Period, sessions),
		PerformanceTable: performanceTable(sessions, in.Professionals, caps),
		PatientGrowth:    patientGrowth(in.Now, in.ClientCreatedAt),
		Capabilities:     caps,
	}

	current := monthStart(in.Now)
	next := current.AddDate(0, 1, 0)
	for _, created := range in.ClientCreatedAt {
		if !created.Before(current) && created.Before(next) {
			m.NewPatients++
		}
	}

	return m
}

func outcomes(aps []models.Appointment) (completed, noShow int) {
	for _, ap := range aps {
		switch appointment.Status(ap.Status) {
		case appointment.StatusCompleted:
			completed++
		case appointment.StatusNoShow:
			noShow++
		}
	}
	return completed, noShow
}

// revenueChart has one point per civil day of the period, zero-filled.
func revenueChart(period Period, sessions []models.Appointment) []RevenuePoint {
	loc := period.Location()

	byDay := map[string]decimal.Decimal{}
	for _, ap := range sessions {
		key := ap.StartTime.In(loc).Format(dayLayout)
		byDay[key] = byDay[key].Add(ap.ChargedPrice())
	}

	days := period.Days()
	out := make([]RevenuePoint, 0, len(days))
	for _, day := range days {
		key := day.Format(dayLayout)
		total, ok := byDay[key]
		if !ok {
			total = decimal.Zero
		}
		out = append(out, RevenuePoint{Day: key, Revenue: total})
	}
	return out
}

func performanceTable(
	sessions []models.Appointment,
	professionals []models.Professional,
	caps Capabilities,
) []ProfessionalPerformance {

	byID := map[uint]models.Professional{}
	for _, p := range professionals {
		byID[p.ID] = p
	}

	type group struct {
		count     int
		revenue   decimal.Decimal
		completed int
		noShow    int
	}
	groups := map[uint]*group{}
	for _, ap := range sessions {
		g, ok := groups[ap.ProfessionalID]
		if !ok {
			g = &group{revenue: decimal.Zero}
			groups[ap.ProfessionalID] = g
		}
		g.count++
		g.revenue = g.revenue.Add(ap.ChargedPrice())
		switch appointment.Status(ap.Status) {
		case appointment.StatusCompleted:
			g.completed++
		case appointment.StatusNoShow:
			g.noShow++
		}
	}

	rows := make([]ProfessionalPerformance, 0, len(groups))
	for id, g := range groups {
		prof := byID[id]
		row := ProfessionalPerformance{
			ProfessionalID: id,
			Name:           prof.Name,
			Appointments:   g.count,
			Revenue:        g.revenue,
			Ticket:         Average(g.revenue, g.count),
			Attendance:     Percent(g.completed, g.completed+g.noShow),
		}
		if caps.CanViewCommission {
			commission := g.revenue.Mul(prof.CommissionPercent).Div(hundred).Round(2)
			row.Commission = &commission
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Revenue.Cmp(rows[j].Revenue); c != 0 {
			return c > 0
		}
		return rows[i].ProfessionalID < rows[j].ProfessionalID
	})

	return rows
}

// GrowthWindow is the [since, until) range of client registrations that
// patientGrowth and NewPatients look at.
func GrowthWindow(now time.Time) (since, until time.Time) {
	current := monthStart(now)
	return current.AddDate(0, -(GrowthMonths - 1), 0), current.AddDate(0, 1, 0)
}

// patientGrowth counts registrations in each of the GrowthMonths calendar
// months ending with now's month, oldest first.
func patientGrowth(now time.Time, createdAt []time.Time) []GrowthPoint {
	current := monthStart(now)

	out := make([]GrowthPoint, 0, GrowthMonths)
	for i := GrowthMonths - 1; i >= 0; i-- {
		from := current.AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)

		count := 0
		for _, c := range createdAt {
			if !c.Before(from) && c.Before(to) {
				count++
			}
		}
		out = append(out, GrowthPoint{Month: from.Format(monthLayout), Count: count})
	}
	return out
}

package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Action string

const (
	ActionCreated   Action = "created"
	ActionCanceled  Action = "canceled"
	ActionCompleted Action = "completed"
	ActionNoShow    Action = "no_show"
)

// ChangeListener is told about every committed appointment write.
// Implementations must not fail the write they observe.
type ChangeListener interface {
	AppointmentChanged(ctx context.Context, ap *models.Appointment, action Action)
}

// Listeners fans a change out to every listener in order.
type Listeners []ChangeListener

func (ls Listeners) AppointmentChanged(ctx context.Context, ap *models.Appointment, action Action) {
	for _, l := range ls {
		if l != nil {
			l.AppointmentChanged(ctx, ap, action)
		}
	}
}

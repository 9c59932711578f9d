package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID               uint            `json:"id"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	Status           string          `json:"status"`
	Price            decimal.Decimal `json:"price"`
	ProfessionalID   uint            `json:"professional_id"`
	ProfessionalName string          `json:"professional_name"`
	ClientName       string          `json:"client_name"`
	ServiceName      string          `json:"service_name"`
}

// FromAppointment expects Professional, Client and Service to be loaded.
func FromAppointment(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:               ap.ID,
		StartTime:        ap.StartTime,
		EndTime:          ap.EndTime,
		Status:           ap.Status,
		Price:            ap.ChargedPrice(),
		ProfessionalID:   ap.ProfessionalID,
		ProfessionalName: ap.Professional.Name,
		ClientName:       ap.Client.Name,
		ServiceName:      ap.Service.Name,
	}
}

package appointment

import (
	"errors"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ErrRecordNotFound is returned by repositories for missing or foreign rows.
var ErrRecordNotFound = errors.New("record not found")

var (
	ErrMissingField = httperr.Validation(
		"missing_field", "Campo obrigatório ausente.")
	ErrInvalidDateOrTime = httperr.Validation(
		"invalid_date_or_time", "Data ou hora inválida.")
	ErrTooSoon = httperr.Validation(
		"too_soon", "Horário com antecedência insuficiente.")

	ErrNotWorkingDay = httperr.OutsideSchedule(
		"not_working_day", "Profissional não atende neste dia.")
	ErrOutsideWorkingHours = httperr.OutsideSchedule(
		"outside_working_hours", "Fora do horário de atendimento.")
	ErrBreakConflict = httperr.BreakConflict(
		"break_conflict", "Horário coincide com o intervalo do profissional.")
	ErrSlotConflict = httperr.SlotConflict(
		"time_conflict", "Conflito de horário.")

	ErrTenantNotFound = httperr.NotFoundErr(
		"tenant_not_found", "Estabelecimento não encontrado.")
	ErrProfessionalNotFound = httperr.NotFoundErr(
		"professional_not_found", "Profissional não encontrado.")
	ErrServiceNotFound = httperr.NotFoundErr(
		"service_not_found", "Serviço não encontrado.")
	ErrClientNotFound = httperr.NotFoundErr(
		"client_not_found", "Cliente não encontrado.")
	ErrAppointmentNotFound = httperr.NotFoundErr(
		"appointment_not_found", "Agendamento não encontrado.")

	ErrInvalidState = httperr.InvalidState(
		"invalid_state", "Agendamento não pode mudar de estado.")
)

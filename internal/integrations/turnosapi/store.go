package turnosapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// Availability

// GetAvailability получает сырые строки доступности профессионала
func (c *Client) GetAvailability(ctx context.Context, professionalID int64) ([]domain.AvailabilityRecord, error) {
	var rows []AvailabilityRow
	if err := c.get(ctx, "get_availability", fmt.Sprintf("/professionals/%d/availability", professionalID), &rows); err != nil {
		return nil, err
	}

	records := make([]domain.AvailabilityRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, domain.AvailabilityRecord{Weekday: r.Weekday, Start: r.Start, End: r.End})
	}
	return records, nil
}

// SetAvailability заменяет недельную доступность профессионала
func (c *Client) SetAvailability(ctx context.Context, professionalID int64, records []domain.AvailabilityRecord) error {
	body := make([]availabilityWrite, 0, len(records))
	for _, r := range records {
		body = append(body, availabilityWrite{Weekday: r.Weekday, Start: r.Start, End: r.End})
	}
	return c.send(ctx, "set_availability", http.MethodPut, fmt.Sprintf("/professionals/%d/availability", professionalID), body, nil)
}

// Professionals

// GetProfessional получает профессионала
func (c *Client) GetProfessional(ctx context.Context, id int64) (*domain.Professional, error) {
	var p Professional
	if err := c.get(ctx, "get_professional", fmt.Sprintf("/professionals/%d", id), &p); err != nil {
		return nil, err
	}
	return p.toDomain(), nil
}

// Appointments

// GetAppointment получает турн по ID
func (c *Client) GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	var a Appointment
	if err := c.get(ctx, "get_appointment", fmt.Sprintf("/appointments/%d", id), &a); err != nil {
		return nil, err
	}
	return c.convert(a)
}

// ListPatientAppointments получает турны пациента
func (c *Client) ListPatientAppointments(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	return c.list(ctx, "list_patient_appointments", fmt.Sprintf("/patients/%d/appointments", patientID))
}

// ListProfessionalAppointments получает турны профессионала
func (c *Client) ListProfessionalAppointments(ctx context.Context, professionalID int64) ([]*domain.Appointment, error) {
	return c.list(ctx, "list_professional_appointments", fmt.Sprintf("/professionals/%d/appointments", professionalID))
}

// CreateAppointment создает турн. 409 от бэкенда - слот занят
func (c *Client) CreateAppointment(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if appt.Schedule == nil {
		return nil, fmt.Errorf("%w: schedule is required", domain.ErrInvalidInput)
	}

	body := appointmentWrite{
		ProfessionalID: appt.ProfessionalID,
		PatientID:      appt.PatientID,
		Date:           appt.Schedule.Date.String(),
		Start:          appt.Schedule.Start.String(),
		End:            appt.Schedule.End.String(),
		Kind:           string(appt.Kind),
		Status:         string(appt.Status),
		Notes:          appt.Notes,
	}

	var created Appointment
	if err := c.send(ctx, "create_appointment", http.MethodPost, "/appointments", body, &created); err != nil {
		return nil, err
	}
	return c.convert(created)
}

// CancelAppointment отменяет турн
func (c *Client) CancelAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	return c.patch(ctx, "cancel_appointment", fmt.Sprintf("/appointments/%d/cancel", id), nil)
}

// RealizeAppointment отмечает турн проведённым
func (c *Client) RealizeAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	return c.patch(ctx, "realize_appointment", fmt.Sprintf("/appointments/%d/realize", id), nil)
}

// Express

// CreateExpress создает экспресс-запрос без расписания
func (c *Client) CreateExpress(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	body := expressWrite{ProfessionalID: appt.ProfessionalID, PatientID: appt.PatientID, Notes: appt.Notes}

	var created Appointment
	if err := c.send(ctx, "create_express", http.MethodPost, "/express", body, &created); err != nil {
		return nil, err
	}
	return c.convert(created)
}

// ListExpress получает экспресс-турны профессионала
func (c *Client) ListExpress(ctx context.Context, professionalID int64) ([]*domain.Appointment, error) {
	return c.list(ctx, "list_express", fmt.Sprintf("/professionals/%d/express", professionalID))
}

// ProposeExpress прикрепляет расписание к экспресс-запросу
func (c *Client) ProposeExpress(ctx context.Context, proposal domain.ExpressProposal) (*domain.Appointment, error) {
	path := fmt.Sprintf("/express/%d/proposal", proposal.TurnoID)
	return c.patch(ctx, "propose_express", path, fromDomainSchedule(proposal.Schedule))
}

// ConfirmExpress подтверждает предложение; бэкенд создаёт оплату pendiente в той же операции
func (c *Client) ConfirmExpress(ctx context.Context, id int64, cost float64) (*domain.Appointment, error) {
	return c.patch(ctx, "confirm_express", fmt.Sprintf("/express/%d/confirm", id), confirmWrite{Cost: cost})
}

// RejectExpress отклоняет экспресс-запрос
func (c *Client) RejectExpress(ctx context.Context, id int64) (*domain.Appointment, error) {
	return c.patch(ctx, "reject_express", fmt.Sprintf("/express/%d/reject", id), nil)
}

// Payments

// GetPayment получает оплату турна
func (c *Client) GetPayment(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error) {
	var p Payment
	if err := c.get(ctx, "get_payment", fmt.Sprintf("/appointments/%d/payment", appointmentID), &p); err != nil {
		return nil, err
	}
	return p.toDomain(), nil
}

// ListPayments получает оплаты профессионала
func (c *Client) ListPayments(ctx context.Context, professionalID int64) ([]*domain.PaymentRecord, error) {
	var items []Payment
	if err := c.get(ctx, "list_payments", fmt.Sprintf("/professionals/%d/payments", professionalID), &items); err != nil {
		return nil, err
	}

	result := make([]*domain.PaymentRecord, 0, len(items))
	for i := range items {
		result = append(result, items[i].toDomain())
	}
	return result, nil
}

// MarkPaid переводит оплату в pagado
func (c *Client) MarkPaid(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error) {
	var p Payment
	path := fmt.Sprintf("/appointments/%d/payment", appointmentID)
	if err := c.send(ctx, "mark_paid", http.MethodPatch, path, paymentWrite{Status: string(domain.PaymentPaid)}, &p); err != nil {
		return nil, err
	}
	return p.toDomain(), nil
}

func (c *Client) list(ctx context.Context, op, path string) ([]*domain.Appointment, error) {
	var items []Appointment
	if err := c.get(ctx, op, path, &items); err != nil {
		return nil, err
	}
	appts, err := toDomainAppointments(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRemoteUnavailable, op, err)
	}
	return appts, nil
}

func (c *Client) patch(ctx context.Context, op, path string, body interface{}) (*domain.Appointment, error) {
	var a Appointment
	if err := c.send(ctx, op, http.MethodPatch, path, body, &a); err != nil {
		return nil, err
	}
	return c.convert(a)
}

func (c *Client) convert(a Appointment) (*domain.Appointment, error) {
	appt, err := a.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	return appt, nil
}

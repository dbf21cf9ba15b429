package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/infra/cache"
	"github.com/m04kA/SMC-TurnosService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TurnosService/internal/service/appointments/models"
	"github.com/m04kA/SMC-TurnosService/pkg/logger"
	"github.com/m04kA/SMC-TurnosService/pkg/ptr"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

const (
	professionalID = int64(10)
	patientID      = int64(1)
	strangerID     = int64(99)
)

type recordingMetrics struct {
	transitions []string
}

func (m *recordingMetrics) AppointmentTransition(to string) {
	m.transitions = append(m.transitions, to)
}

type fixedPayments struct{ status domain.PaymentStatus }

func (f fixedPayments) StatusOf(context.Context, *domain.Appointment) (domain.PaymentStatus, error) {
	return f.status, nil
}

func schedule(day int, start, end types.TimeString) *domain.Schedule {
	return &domain.Schedule{Date: types.NewDate(2025, time.November, day), Start: start, End: end}
}

func setup(t *testing.T) (*Service, *memory.Store, *recordingMetrics) {
	t.Helper()
	store := memory.New()
	m := &recordingMetrics{}
	c := cache.New(cache.NewLRUBackend(100, time.Minute), nil, logger.Nop())
	return NewService(store, fixedPayments{status: domain.PaymentPending}, c, m, logger.Nop()), store, m
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("patient cancels confirmed appointment", func(t *testing.T) {
		svc, store, m := setup(t)
		appt := store.PutAppointment(domain.Appointment{
			ProfessionalID: professionalID, PatientID: patientID,
			Kind: domain.KindConsulta, Status: domain.StatusConfirmed, Schedule: schedule(18, "09:00", "10:00"),
		})

		resp, err := svc.Cancel(ctx, appt.ID, patientID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, resp.Status)
		assert.Equal(t, []string{"cancelled"}, m.transitions)
	})

	t.Run("professional cancels pending appointment", func(t *testing.T) {
		svc, store, _ := setup(t)
		appt := store.PutAppointment(domain.Appointment{
			ProfessionalID: professionalID, PatientID: patientID,
			Kind: domain.KindControl, Status: domain.StatusPending, Schedule: schedule(18, "09:00", "10:00"),
		})

		resp, err := svc.Cancel(ctx, appt.ID, professionalID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, resp.Status)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		svc, store, _ := setup(t)
		appt := store.PutAppointment(domain.Appointment{
			ProfessionalID: professionalID, PatientID: patientID, Status: domain.StatusConfirmed,
		})

		_, err := svc.Cancel(ctx, appt.ID, strangerID)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("terminal statuses", func(t *testing.T) {
		svc, store, m := setup(t)
		for _, status := range []domain.AppointmentStatus{domain.StatusRealized, domain.StatusCancelled} {
			appt := store.PutAppointment(domain.Appointment{
				ProfessionalID: professionalID, PatientID: patientID, Status: status,
			})
			_, err := svc.Cancel(ctx, appt.ID, patientID)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, status)
		}
		assert.Empty(t, m.transitions)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _ := setup(t)
		_, err := svc.Cancel(ctx, 404, patientID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCancelInvalidatesCachedLists(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()
	appt := store.PutAppointment(domain.Appointment{
		ProfessionalID: professionalID, PatientID: patientID,
		Status: domain.StatusConfirmed, Schedule: schedule(18, "09:00", "10:00"),
	})

	// Прогреваем кэш обеих сторон
	before, err := svc.PatientAppointments(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, domain.ReservedFor(before, professionalID), 1)
	_, err = svc.ProfessionalAppointments(ctx, professionalID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, appt.ID, professionalID)
	require.NoError(t, err)

	after, err := svc.PatientAppointments(ctx, patientID)
	require.NoError(t, err)
	assert.Empty(t, domain.ReservedFor(after, professionalID))

	agenda, err := svc.ProfessionalAppointments(ctx, professionalID)
	require.NoError(t, err)
	require.Len(t, agenda, 1)
	assert.Equal(t, domain.StatusCancelled, agenda[0].Status)
}

func TestMarkRealized(t *testing.T) {
	ctx := context.Background()
	svc, store, m := setup(t)

	confirmed := store.PutAppointment(domain.Appointment{ProfessionalID: professionalID, PatientID: patientID, Status: domain.StatusConfirmed})
	pending := store.PutAppointment(domain.Appointment{ProfessionalID: professionalID, PatientID: patientID, Status: domain.StatusPending})

	_, err := svc.MarkRealized(ctx, confirmed.ID, patientID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.MarkRealized(ctx, pending.ID, professionalID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	resp, err := svc.MarkRealized(ctx, confirmed.ID, professionalID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRealized, resp.Status)
	assert.Equal(t, []string{"realized"}, m.transitions)

	_, err = svc.Cancel(ctx, confirmed.ID, patientID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setup(t)
	appt := store.PutAppointment(domain.Appointment{
		ProfessionalID: professionalID, PatientID: patientID,
		Kind: domain.KindExpress, Status: domain.StatusPending,
	})

	resp, err := svc.GetByID(ctx, appt.ID, patientID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, resp.PaymentStatus)
	require.NotNil(t, resp.Express)
	assert.Equal(t, domain.ExpressRequested, resp.Express.State)
	assert.Nil(t, resp.Date)

	_, err = svc.GetByID(ctx, appt.ID, strangerID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.GetByID(ctx, 0, patientID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetPatientAppointments(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setup(t)
	store.PutAppointment(domain.Appointment{ProfessionalID: professionalID, PatientID: patientID, Status: domain.StatusConfirmed})
	store.PutAppointment(domain.Appointment{ProfessionalID: professionalID, PatientID: patientID, Status: domain.StatusCancelled})
	store.PutAppointment(domain.Appointment{ProfessionalID: professionalID, PatientID: 2, Status: domain.StatusConfirmed})

	all, err := svc.GetPatientAppointments(ctx, &models.GetPatientAppointmentsRequest{RequestedBy: patientID, PatientID: patientID})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	confirmed, err := svc.GetPatientAppointments(ctx, &models.GetPatientAppointmentsRequest{
		RequestedBy: patientID, PatientID: patientID, Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed.Total)

	_, err = svc.GetPatientAppointments(ctx, &models.GetPatientAppointmentsRequest{
		RequestedBy: patientID, PatientID: patientID, Status: ptr.Ptr("done"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetPatientAppointments(ctx, &models.GetPatientAppointmentsRequest{RequestedBy: strangerID, PatientID: patientID})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestGetProfessionalAppointmentsDateRange(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setup(t)
	store.PutAppointment(domain.Appointment{ProfessionalID: professionalID, PatientID: patientID, Status: domain.StatusConfirmed, Schedule: schedule(17, "09:00", "10:00")})
	store.PutAppointment(domain.Appointment{ProfessionalID: professionalID, PatientID: patientID, Status: domain.StatusConfirmed, Schedule: schedule(20, "09:00", "10:00")})
	store.PutAppointment(domain.Appointment{ProfessionalID: professionalID, PatientID: patientID, Status: domain.StatusConfirmed, Schedule: schedule(25, "09:00", "10:00")})

	from := types.NewDate(2025, time.November, 18)
	to := types.NewDate(2025, time.November, 24)
	resp, err := svc.GetProfessionalAppointments(ctx, &models.GetProfessionalAppointmentsRequest{
		RequestedBy: professionalID, ProfessionalID: professionalID, From: &from, To: &to,
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, types.NewDate(2025, time.November, 20), *resp.Appointments[0].Date)

	_, err = svc.GetProfessionalAppointments(ctx, &models.GetProfessionalAppointmentsRequest{
		RequestedBy: professionalID, ProfessionalID: professionalID, From: &to, To: &from,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

package express

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/infra/cache"
	"github.com/m04kA/SMC-TurnosService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-TurnosService/internal/service/appointments"
	"github.com/m04kA/SMC-TurnosService/internal/service/express/models"
	"github.com/m04kA/SMC-TurnosService/pkg/logger"
	"github.com/m04kA/SMC-TurnosService/pkg/ptr"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

const (
	professionalID = int64(10)
	patientID      = int64(1)
	expressRate    = 4500.0
)

var loc = time.FixedZone("ART", -3*60*60)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingMetrics struct {
	transitions []string
	conflicts   []string
}

func (m *recordingMetrics) ExpressTransition(to string) { m.transitions = append(m.transitions, to) }
func (m *recordingMetrics) SlotConflict(source string)  { m.conflicts = append(m.conflicts, source) }

// now: понедельник 17.11.2025, 08:00
func setup(t *testing.T) (*Service, *memory.Store, *recordingMetrics) {
	t.Helper()

	store := memory.New()
	store.PutProfessional(domain.Professional{ID: professionalID, Name: "Dra. Gómez", ExpressRate: ptr.Ptr(expressRate)})
	store.PutProfessional(domain.Professional{ID: 20, Name: "Dr. Pérez"})

	c := cache.New(cache.NewLRUBackend(100, time.Minute), nil, logger.Nop())
	apptSvc := appointments.NewService(store, nil, c, nil, logger.Nop())
	m := &recordingMetrics{}

	svc := NewService(store, apptSvc, c, m, loc, logger.Nop()).
		WithTimeProvider(fixedTime{t: time.Date(2025, time.November, 17, 8, 0, 0, 0, loc)})
	return svc, store, m
}

func request(t *testing.T, svc *Service) int64 {
	t.Helper()
	resp, err := svc.Request(context.Background(), &models.CreateRequest{PatientID: patientID, ProfessionalID: professionalID})
	require.NoError(t, err)
	return resp.ID
}

func propose(id int64, date, start, end string) *models.ProposeRequest {
	return &models.ProposeRequest{ProfessionalID: professionalID, AppointmentID: id, Date: date, Start: start, End: end}
}

func TestRequest(t *testing.T) {
	svc, _, m := setup(t)
	ctx := context.Background()

	resp, err := svc.Request(ctx, &models.CreateRequest{PatientID: patientID, ProfessionalID: professionalID, Notes: ptr.Ptr("dolor agudo")})
	require.NoError(t, err)
	assert.Equal(t, domain.KindExpress, resp.Kind)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Nil(t, resp.Date)
	require.NotNil(t, resp.Express)
	assert.Equal(t, domain.ExpressRequested, resp.Express.State)
	assert.Equal(t, []string{"requested"}, m.transitions)

	_, err = svc.Request(ctx, &models.CreateRequest{PatientID: patientID, ProfessionalID: 20})
	assert.ErrorIs(t, err, domain.ErrExpressNotOffered)

	_, err = svc.Request(ctx, &models.CreateRequest{PatientID: patientID, ProfessionalID: 30})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScenarioC(t *testing.T) {
	svc, store, m := setup(t)
	ctx := context.Background()
	id := request(t, svc)

	proposed, err := svc.Propose(ctx, propose(id, "2025-11-20", "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, proposed.Status)
	assert.Equal(t, domain.ExpressProposed, proposed.Express.State)

	confirmed, err := svc.Confirm(ctx, id, patientID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindExpress, confirmed.Kind)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.Cost)
	assert.Equal(t, expressRate, *confirmed.Cost)
	assert.Equal(t, types.NewDate(2025, time.November, 20), *confirmed.Date)
	assert.Equal(t, domain.ExpressConfirmed, confirmed.Express.State)

	payment, err := store.GetPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.Equal(t, expressRate, payment.Amount)

	assert.Equal(t, []string{"requested", "proposed", "confirmed"}, m.transitions)
}

func TestScenarioD(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()
	id := request(t, svc)

	_, err := svc.Propose(ctx, propose(id, "2025-11-20", "23:00", "23:30"))
	require.ErrorIs(t, err, domain.ErrInvalidProposalWindow)

	appt, err := store.GetAppointment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpressRequested, domain.ExpressStateOf(appt).Kind)
	assert.Nil(t, appt.Schedule)
}

func TestProposeWindow(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()
	id := request(t, svc)

	tests := []struct {
		name  string
		req   *models.ProposeRequest
		extra error
	}{
		{name: "start equals end", req: propose(id, "2025-11-20", "10:00", "10:00")},
		{name: "start after end", req: propose(id, "2025-11-20", "11:00", "10:00")},
		{name: "start hour 6", req: propose(id, "2025-11-20", "06:59", "08:00")},
		{name: "end hour 23", req: propose(id, "2025-11-20", "21:00", "23:00")},
		{name: "end after 22:00", req: propose(id, "2025-11-20", "21:00", "22:30")},
		{name: "yesterday", req: propose(id, "2025-11-16", "09:00", "10:00"), extra: domain.ErrPastDate},
		{name: "unpadded time", req: propose(id, "2025-11-20", "9:00", "10:00")},
		{name: "seconds", req: propose(id, "2025-11-20", "09:00:00", "10:00")},
		{name: "bad date", req: propose(id, "20/11/2025", "09:00", "10:00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Propose(ctx, tt.req)
			assert.ErrorIs(t, err, domain.ErrInvalidProposalWindow)
			if tt.extra != nil {
				assert.ErrorIs(t, err, tt.extra)
			}
		})
	}

	appt, err := store.GetAppointment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpressRequested, domain.ExpressStateOf(appt).Kind)

	// Граница окна: 07:00-22:00 допустимо, сегодняшняя дата тоже
	_, err = svc.Propose(ctx, propose(id, "2025-11-17", "07:00", "22:00"))
	assert.NoError(t, err)
}

func TestReproposalReplacesSchedule(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	id := request(t, svc)

	_, err := svc.Propose(ctx, propose(id, "2025-11-20", "09:00", "10:00"))
	require.NoError(t, err)
	second, err := svc.Propose(ctx, propose(id, "2025-11-21", "15:00", "16:00"))
	require.NoError(t, err)

	require.NotNil(t, second.Express.Proposal)
	assert.Equal(t, types.NewDate(2025, time.November, 21), second.Express.Proposal.Date)
	assert.Equal(t, types.TimeString("15:00"), second.Express.Proposal.Start)
}

func TestConfirmIsIdempotentlyRejected(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()

	t.Run("confirm twice", func(t *testing.T) {
		id := request(t, svc)
		_, err := svc.Propose(ctx, propose(id, "2025-11-20", "09:00", "10:00"))
		require.NoError(t, err)
		_, err = svc.Confirm(ctx, id, patientID)
		require.NoError(t, err)
		paymentsBefore := store.CountPayments()

		_, err = svc.Confirm(ctx, id, patientID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, paymentsBefore, store.CountPayments())

		_, err = svc.Reject(ctx, id, patientID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("confirm after reject", func(t *testing.T) {
		id := request(t, svc)
		_, err := svc.Propose(ctx, propose(id, "2025-11-20", "11:00", "12:00"))
		require.NoError(t, err)
		paymentsBefore := store.CountPayments()

		rejected, err := svc.Reject(ctx, id, patientID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, rejected.Status)
		assert.Equal(t, domain.ExpressRejected, rejected.Express.State)

		_, err = svc.Confirm(ctx, id, patientID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		_, err = svc.Propose(ctx, propose(id, "2025-11-20", "11:00", "12:00"))
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, paymentsBefore, store.CountPayments())
	})

	t.Run("confirm without proposal", func(t *testing.T) {
		id := request(t, svc)
		_, err := svc.Confirm(ctx, id, patientID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestRejectFromRequested(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()
	id := request(t, svc)

	_, err := svc.Reject(ctx, id, professionalID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.Reject(ctx, id, patientID)
	require.NoError(t, err)

	_, err = store.GetPayment(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmAccessAndConflicts(t *testing.T) {
	svc, store, m := setup(t)
	ctx := context.Background()

	id := request(t, svc)
	_, err := svc.Propose(ctx, propose(id, "2025-11-20", "09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, id, professionalID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	// Пациент уже записан на это время к тому же профессионалу
	store.PutAppointment(domain.Appointment{
		ProfessionalID: professionalID,
		PatientID:      patientID,
		Kind:           domain.KindConsulta,
		Status:         domain.StatusConfirmed,
		Schedule:       &domain.Schedule{Date: types.NewDate(2025, time.November, 20), Start: "09:00", End: "10:00"},
	})

	_, err = svc.Confirm(ctx, id, patientID)
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Equal(t, []string{"local"}, m.conflicts)
}

func TestConfirmStaleProposal(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	id := request(t, svc)

	_, err := svc.Propose(ctx, propose(id, "2025-11-17", "09:00", "10:00"))
	require.NoError(t, err)

	// Пациент открыл предложение после его начала
	svc.WithTimeProvider(fixedTime{t: time.Date(2025, time.November, 17, 9, 15, 0, 0, loc)})
	_, err = svc.Confirm(ctx, id, patientID)
	assert.ErrorIs(t, err, domain.ErrPastTime)
}

func TestListPending(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	requested := request(t, svc)
	proposedID := request(t, svc)
	rejectedID := request(t, svc)

	_, err := svc.Propose(ctx, propose(proposedID, "2025-11-20", "09:00", "10:00"))
	require.NoError(t, err)
	_, err = svc.Reject(ctx, rejectedID, patientID)
	require.NoError(t, err)

	resp, err := svc.ListPending(ctx, professionalID, professionalID)
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, requested, resp.Requests[0].ID)
	assert.Equal(t, proposedID, resp.Requests[1].ID)

	_, err = svc.ListPending(ctx, professionalID, patientID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestConfirmStoreConflictKeepsRequestOpen(t *testing.T) {
	svc, store, m := setup(t)
	ctx := context.Background()

	id := request(t, svc)
	_, err := svc.Propose(ctx, propose(id, "2025-11-20", "09:00", "10:00"))
	require.NoError(t, err)

	// Другой пациент занял слот после предложения
	store.PutAppointment(domain.Appointment{
		ProfessionalID: professionalID,
		PatientID:      2,
		Kind:           domain.KindConsulta,
		Status:         domain.StatusConfirmed,
		Schedule:       &domain.Schedule{Date: types.NewDate(2025, time.November, 20), Start: "09:00", End: "10:00"},
	})

	_, err = svc.Confirm(ctx, id, patientID)
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Equal(t, []string{"store"}, m.conflicts)
	assert.Equal(t, 0, store.CountPayments())

	// Профессионал предлагает другое время, пациент подтверждает
	_, err = svc.Propose(ctx, propose(id, "2025-11-20", "11:00", "12:00"))
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, id, patientID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)
	assert.Equal(t, 1, store.CountPayments())
}

func TestConfirmAtProposalStart(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"one minute before", time.Date(2025, time.November, 17, 8, 59, 0, 0, loc), nil},
		{"seconds before", time.Date(2025, time.November, 17, 8, 59, 59, 0, loc), nil},
		{"exactly at start", time.Date(2025, time.November, 17, 9, 0, 0, 0, loc), domain.ErrPastTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := setup(t)
			ctx := context.Background()
			id := request(t, svc)

			_, err := svc.Propose(ctx, propose(id, "2025-11-17", "09:00", "10:00"))
			require.NoError(t, err)

			svc.WithTimeProvider(fixedTime{t: tt.now})
			_, err = svc.Confirm(ctx, id, patientID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

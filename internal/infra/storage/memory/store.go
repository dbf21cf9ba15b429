package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
)

// Store is an in-memory implementation of the store port. It enforces the same
// transition and conflict rules as the remote backend, including the slot
// uniqueness check that makes the store authoritative on conflicts.
type Store struct {
	mu sync.RWMutex

	nextID        int64
	now           func() time.Time
	availability  map[int64][]domain.AvailabilityRecord
	appointments  map[int64]*domain.Appointment
	payments      map[int64]*domain.PaymentRecord
	professionals map[int64]*domain.Professional
}

// New creates an empty store.
func New() *Store {
	return &Store{
		now:           time.Now,
		availability:  make(map[int64][]domain.AvailabilityRecord),
		appointments:  make(map[int64]*domain.Appointment),
		payments:      make(map[int64]*domain.PaymentRecord),
		professionals: make(map[int64]*domain.Professional),
	}
}

// PutProfessional registers a professional for setup and local runs.
func (s *Store) PutProfessional(p domain.Professional) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.professionals[p.ID] = &cp
}

// PutAppointment stores a copy of a as-is, assigning an ID when missing.
func (s *Store) PutAppointment(a domain.Appointment) *domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		s.nextID++
		a.ID = s.nextID
	} else if a.ID > s.nextID {
		s.nextID = a.ID
	}
	s.appointments[a.ID] = cloneAppointment(&a)
	return cloneAppointment(&a)
}

// PutPayment stores a copy of a payment record.
func (s *Store) PutPayment(p domain.PaymentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.payments[p.AppointmentID] = &cp
}

// CountPayments returns the number of payment records.
func (s *Store) CountPayments() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.payments)
}

// Availability

func (s *Store) GetAvailability(_ context.Context, professionalID int64) ([]domain.AvailabilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.availability[professionalID]
	out := make([]domain.AvailabilityRecord, len(records))
	copy(out, records)
	return out, nil
}

func (s *Store) SetAvailability(_ context.Context, professionalID int64, records []domain.AvailabilityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.AvailabilityRecord, len(records))
	copy(stored, records)
	s.availability[professionalID] = stored
	return nil
}

// Professionals

func (s *Store) GetProfessional(_ context.Context, id int64) (*domain.Professional, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.professionals[id]
	if !ok {
		return nil, fmt.Errorf("%w: professional id=%d", domain.ErrNotFound, id)
	}
	cp := *p
	return &cp, nil
}

// Appointments

func (s *Store) GetAppointment(_ context.Context, id int64) (*domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, fmt.Errorf("%w: appointment id=%d", domain.ErrNotFound, id)
	}
	return cloneAppointment(a), nil
}

func (s *Store) ListPatientAppointments(_ context.Context, patientID int64) ([]*domain.Appointment, error) {
	return s.list(func(a *domain.Appointment) bool { return a.PatientID == patientID }), nil
}

func (s *Store) ListProfessionalAppointments(_ context.Context, professionalID int64) ([]*domain.Appointment, error) {
	return s.list(func(a *domain.Appointment) bool { return a.ProfessionalID == professionalID }), nil
}

func (s *Store) CreateAppointment(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Schedule == nil {
		return nil, fmt.Errorf("%w: schedule is required", domain.ErrInvalidInput)
	}
	if s.slotTakenLocked(a.ProfessionalID, *a.Schedule, 0) {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrSlotUnavailable, a.Schedule.Date, a.Schedule.Start)
	}

	created := s.insertLocked(a)
	return cloneAppointment(created), nil
}

func (s *Store) CancelAppointment(_ context.Context, id int64) (*domain.Appointment, error) {
	return s.transition(id, domain.Cancel)
}

func (s *Store) RealizeAppointment(_ context.Context, id int64) (*domain.Appointment, error) {
	return s.transition(id, domain.Realize)
}

// Express

func (s *Store) CreateExpress(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := *a
	req.Kind = domain.KindExpress
	req.Status = domain.StatusPending
	req.Schedule = nil
	req.Express = stateRef(domain.RequestedState())

	created := s.insertLocked(&req)
	return cloneAppointment(created), nil
}

func (s *Store) ListExpress(_ context.Context, professionalID int64) ([]*domain.Appointment, error) {
	return s.list(func(a *domain.Appointment) bool {
		return a.ProfessionalID == professionalID && a.IsExpress()
	}), nil
}

func (s *Store) ProposeExpress(_ context.Context, proposal domain.ExpressProposal) (*domain.Appointment, error) {
	return s.transition(proposal.TurnoID, func(a *domain.Appointment) error {
		return domain.Propose(a, proposal.Schedule)
	})
}

// ConfirmExpress confirms the proposal, sets the cost and creates the pendiente
// payment record in one critical section.
func (s *Store) ConfirmExpress(_ context.Context, id int64, cost float64) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, fmt.Errorf("%w: appointment id=%d", domain.ErrNotFound, id)
	}
	next := cloneAppointment(a)
	sch, err := domain.Confirm(next, cost)
	if err != nil {
		return nil, err
	}
	if s.slotTakenLocked(a.ProfessionalID, sch, a.ID) {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrSlotUnavailable, sch.Date, sch.Start)
	}

	now := s.now()
	next.UpdatedAt = now
	s.appointments[id] = next

	payment := domain.PendingPayment(next, cost)
	payment.UpdatedAt = now
	s.payments[id] = payment

	return cloneAppointment(next), nil
}

func (s *Store) RejectExpress(_ context.Context, id int64) (*domain.Appointment, error) {
	return s.transition(id, domain.Reject)
}

// Payments

func (s *Store) GetPayment(_ context.Context, appointmentID int64) (*domain.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[appointmentID]
	if !ok {
		return nil, fmt.Errorf("%w: payment for appointment id=%d", domain.ErrNotFound, appointmentID)
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListPayments(_ context.Context, professionalID int64) ([]*domain.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.PaymentRecord, 0)
	for _, p := range s.payments {
		if p.ProfessionalID == professionalID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentID < out[j].AppointmentID })
	return out, nil
}

func (s *Store) MarkPaid(_ context.Context, appointmentID int64) (*domain.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[appointmentID]
	if !ok {
		return nil, fmt.Errorf("%w: payment for appointment id=%d", domain.ErrNotFound, appointmentID)
	}
	if !p.CanMarkPaid() {
		return nil, fmt.Errorf("%w: payment is %s", domain.ErrInvalidTransition, p.Status)
	}
	p.Status = domain.PaymentPaid
	p.UpdatedAt = s.now()
	cp := *p
	return &cp, nil
}

func (s *Store) list(match func(a *domain.Appointment) bool) []*domain.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if match(a) {
			out = append(out, cloneAppointment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) transition(id int64, apply func(a *domain.Appointment) error) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, fmt.Errorf("%w: appointment id=%d", domain.ErrNotFound, id)
	}
	// apply works on a copy so a failed transition leaves the record untouched
	next := cloneAppointment(a)
	if err := apply(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now()
	s.appointments[id] = next
	return cloneAppointment(next), nil
}

func (s *Store) insertLocked(a *domain.Appointment) *domain.Appointment {
	s.nextID++
	now := s.now()
	created := cloneAppointment(a)
	created.ID = s.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	s.appointments[created.ID] = created
	return created
}

// slotTakenLocked reports whether another active appointment of the professional holds (date, start).
func (s *Store) slotTakenLocked(professionalID int64, sch domain.Schedule, exceptID int64) bool {
	for _, a := range s.appointments {
		if a.ID == exceptID || a.ProfessionalID != professionalID || !a.IsActive() || a.Schedule == nil {
			continue
		}
		// A pending express proposal does not hold the slot yet
		if a.IsExpress() && a.Status == domain.StatusPending {
			continue
		}
		if a.Schedule.Date == sch.Date && a.Schedule.Start == sch.Start {
			return true
		}
	}
	return false
}

func stateRef(s domain.ExpressState) *domain.ExpressState {
	return &s
}

func cloneAppointment(a *domain.Appointment) *domain.Appointment {
	cp := *a
	if a.Schedule != nil {
		sch := *a.Schedule
		cp.Schedule = &sch
	}
	if a.Cost != nil {
		cost := *a.Cost
		cp.Cost = &cost
	}
	if a.Notes != nil {
		notes := *a.Notes
		cp.Notes = &notes
	}
	if a.Express != nil {
		st := *a.Express
		if st.Proposal != nil {
			p := *st.Proposal
			st.Proposal = &p
		}
		cp.Express = &st
	}
	return &cp
}

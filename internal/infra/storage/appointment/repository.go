package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurnosService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

const table = "appointments"

// uniqueViolation код ошибки PostgreSQL для нарушения уникального индекса
const uniqueViolation = "23505"

var columns = []string{
	"id",
	"professional_id",
	"patient_id",
	"kind",
	"status",
	"appointment_date",
	"start_time",
	"end_time",
	"cost",
	"notes",
	"express_state",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с турнами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория турнов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый турн
// Занятость слота проверяет уникальный индекс uq_appointments_active_slot
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	date, start, end := scheduleArgs(appt.Schedule)
	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"professional_id",
			"patient_id",
			"kind",
			"status",
			"appointment_date",
			"start_time",
			"end_time",
			"cost",
			"notes",
			"express_state",
		).
		Values(
			appt.ProfessionalID,
			appt.PatientID,
			string(appt.Kind),
			string(appt.Status),
			date,
			start,
			end,
			appt.Cost,
			appt.Notes,
			expressStateArg(appt.Express),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *appt
	err = executor.QueryRowContext(ctx, query, args...).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %v", ErrSlotTaken, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// GetByID получает турн по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает турн по ID с блокировкой строки (только внутри транзакции)
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// ListByPatient получает все турны пациента
func (r *Repository) ListByPatient(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	return r.list(ctx, "ListByPatient", squirrel.Eq{"patient_id": patientID})
}

// ListByProfessional получает все турны профессионала
func (r *Repository) ListByProfessional(ctx context.Context, professionalID int64) ([]*domain.Appointment, error) {
	return r.list(ctx, "ListByProfessional", squirrel.Eq{"professional_id": professionalID})
}

// ListExpressByProfessional получает экспресс-турны профессионала
func (r *Repository) ListExpressByProfessional(ctx context.Context, professionalID int64) ([]*domain.Appointment, error) {
	return r.list(ctx, "ListExpressByProfessional", squirrel.Eq{
		"professional_id": professionalID,
		"kind":            string(domain.KindExpress),
	})
}

// Update сохраняет статус, расписание, стоимость и состояние переговоров турна
func (r *Repository) Update(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	date, start, end := scheduleArgs(appt.Schedule)
	query, args, err := psqlbuilder.Update(table).
		Set("status", string(appt.Status)).
		Set("appointment_date", date).
		Set("start_time", start).
		Set("end_time", end).
		Set("cost", appt.Cost).
		Set("express_state", expressStateArg(appt.Express)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": appt.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	updated := *appt
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updated.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, appt.ID)
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %v", ErrSlotTaken, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return &updated, nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Eq) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		result = append(result, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует строку в турн. TIME приходит как "HH:MM:SS"
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt         domain.Appointment
		kind, status string
		date         sql.NullTime
		start, end   sql.NullString
		cost         sql.NullFloat64
		notes        sql.NullString
		expressState sql.NullString
	)

	err := row.Scan(
		&appt.ID,
		&appt.ProfessionalID,
		&appt.PatientID,
		&kind,
		&status,
		&date,
		&start,
		&end,
		&cost,
		&notes,
		&expressState,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.Kind = domain.AppointmentKind(kind)
	appt.Status = domain.AppointmentStatus(status)
	if cost.Valid {
		appt.Cost = &cost.Float64
	}
	if notes.Valid {
		appt.Notes = &notes.String
	}

	if date.Valid && start.Valid && end.Valid {
		startTime, err := types.NewTimeStringFromString(start.String)
		if err != nil {
			return nil, err
		}
		endTime, err := types.NewTimeStringFromString(end.String)
		if err != nil {
			return nil, err
		}
		appt.Schedule = &domain.Schedule{Date: types.DateOf(date.Time), Start: startTime, End: endTime}
	}

	if appt.IsExpress() {
		state := domain.ExpressStateOf(&appt)
		if expressState.Valid {
			state.Kind = domain.ExpressStateKind(expressState.String)
		}
		appt.Express = &state
	}

	return &appt, nil
}

func scheduleArgs(s *domain.Schedule) (date, start, end interface{}) {
	if s == nil {
		return nil, nil, nil
	}
	return s.Date.String(), s.Start.String(), s.End.String()
}

func expressStateArg(s *domain.ExpressState) interface{} {
	if s == nil {
		return nil
	}
	return string(s.Kind)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

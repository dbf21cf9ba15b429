package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurnosService/pkg/psqlbuilder"
)

const table = "payments"

var columns = []string{
	"appointment_id",
	"professional_id",
	"patient_id",
	"status",
	"amount",
	"updated_at",
}

// Repository репозиторий для работы с оплатами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория оплат
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись об оплате турна
func (r *Repository) Create(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("appointment_id", "professional_id", "patient_id", "status", "amount").
		Values(p.AppointmentID, p.ProfessionalID, p.PatientID, string(p.Status), p.Amount).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *p
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// GetByAppointment получает оплату турна
func (r *Repository) GetByAppointment(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: appointment_id=%d", ErrPaymentNotFound, appointmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointment - scan payment: %v", ErrScanRow, err)
	}

	return p, nil
}

// ListByProfessional получает оплаты профессионала
func (r *Repository) ListByProfessional(ctx context.Context, professionalID int64) ([]*domain.PaymentRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID}).
		OrderBy("appointment_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByProfessional - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProfessional - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.PaymentRecord, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProfessional - scan row: %v", ErrScanRow, err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByProfessional - rows error: %v", ErrScanRow, err)
	}

	return payments, nil
}

// MarkPaid переводит оплату из pendiente в pagado
// Обновляет только строку в статусе pendiente
func (r *Repository) MarkPaid(ctx context.Context, appointmentID int64) (*domain.PaymentRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.PaymentPaid)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"appointment_id": appointmentID,
			"status":         string(domain.PaymentPending),
		}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	p, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// Строки нет либо она уже не pendiente - различаем повторным чтением
		if _, getErr := r.GetByAppointment(ctx, appointmentID); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: appointment_id=%d", ErrNotPending, appointmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}

	return p, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.PaymentRecord, error) {
	var (
		p         domain.PaymentRecord
		status    string
		updatedAt sql.NullTime
	)

	err := row.Scan(
		&p.AppointmentID,
		&p.ProfessionalID,
		&p.PatientID,
		&status,
		&p.Amount,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.PaymentStatus(status)
	p.UpdatedAt = updatedAt.Time
	return &p, nil
}

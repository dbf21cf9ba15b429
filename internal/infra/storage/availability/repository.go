package availability

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurnosService/pkg/psqlbuilder"
)

const table = "availability"

// Repository репозиторий сырых строк доступности профессионалов
// Строки хранятся как пришли; нормализацию выполняет сервис доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// List получает строки доступности профессионала в порядке записи
func (r *Repository) List(ctx context.Context, professionalID int64) ([]domain.AvailabilityRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "start_time", "end_time").
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID}).
		OrderBy("position ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]domain.AvailabilityRecord, 0)
	for rows.Next() {
		var rec domain.AvailabilityRecord
		if err := rows.Scan(&rec.Weekday, &rec.Start, &rec.End); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}

// Replace заменяет всю недельную доступность профессионала
// Вызывать внутри транзакции: удаление и вставка должны быть атомарны
func (r *Repository) Replace(ctx context.Context, professionalID int64, records []domain.AvailabilityRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// 1. Удаляем текущие строки
	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"professional_id": professionalID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Replace - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - execute delete: %v", ErrExecQuery, err)
	}

	if len(records) == 0 {
		return nil
	}

	// 2. Вставляем новые строки одним запросом, сохраняя порядок
	insert := psqlbuilder.Insert(table).
		Columns("professional_id", "weekday", "start_time", "end_time", "position")
	for i, rec := range records {
		insert = insert.Values(professionalID, rec.Weekday, rec.Start, rec.End, i)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

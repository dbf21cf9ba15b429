package professional

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurnosService/pkg/psqlbuilder"
)

// Repository репозиторий профессионалов (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория профессионалов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает профессионала по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "express_rate").
		From("professionals").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		p    domain.Professional
		rate sql.NullFloat64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name, &rate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrProfessionalNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan professional: %v", ErrScanRow, err)
	}

	if rate.Valid {
		p.ExpressRate = &rate.Float64
	}

	return &p, nil
}

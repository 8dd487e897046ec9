package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/repository/common"
)

// ReleaseConditionRepository отвечает за чтение условий освобождения.
type ReleaseConditionRepository struct {
	db *sqlx.DB
}

func NewReleaseConditionRepository(db *sqlx.DB) *ReleaseConditionRepository {
	return &ReleaseConditionRepository{db: db}
}

// GetByID возвращает условие по ID.
func (r *ReleaseConditionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReleaseCondition, error) {
	return common.GetByID[models.ReleaseCondition](ctx, r.db, "release_conditions", id, ErrConditionNotFound)
}

// ListByAccount возвращает условия счёта в заданном порядке.
func (r *ReleaseConditionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.ReleaseCondition, error) {
	var conditions []models.ReleaseCondition
	err := r.db.SelectContext(ctx, &conditions, `
		SELECT * FROM release_conditions WHERE escrow_account_id = $1 ORDER BY sort_order ASC, created_at ASC
	`, accountID)
	return conditions, err
}

// AllMandatoryMet возвращает true, если каждое обязательное условие счёта выполнено.
func (r *ReleaseConditionRepository) AllMandatoryMet(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var unmet int
	err := r.db.GetContext(ctx, &unmet, `
		SELECT COUNT(*) FROM release_conditions
		WHERE escrow_account_id = $1 AND is_mandatory = TRUE AND status <> 'met'
	`, accountID)
	if err != nil {
		return false, err
	}
	return unmet == 0, nil
}

// CountMandatory возвращает количество выполненных и общее количество
// обязательных условий — для человекочитаемых сообщений об отказе.
func (r *ReleaseConditionRepository) CountMandatory(ctx context.Context, accountID uuid.UUID) (met int, total int, err error) {
	row := r.db.QueryRowxContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'met'), COUNT(*)
		FROM release_conditions
		WHERE escrow_account_id = $1 AND is_mandatory = TRUE
	`, accountID)
	err = row.Scan(&met, &total)
	return met, total, err
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/repository/common"
)

// DisputeRepository отвечает за чтение споров.
type DisputeRepository struct {
	db *sqlx.DB
}

func NewDisputeRepository(db *sqlx.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

// GetByID возвращает спор по ID.
func (r *DisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowDispute, error) {
	return common.GetByID[models.EscrowDispute](ctx, r.db, "escrow_disputes", id, ErrDisputeNotFound)
}

// ListByAccount возвращает все споры счёта за его историю.
func (r *DisputeRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.EscrowDispute, error) {
	var disputes []models.EscrowDispute
	err := r.db.SelectContext(ctx, &disputes, `
		SELECT * FROM escrow_disputes WHERE escrow_account_id = $1 ORDER BY filed_at DESC
	`, accountID)
	return disputes, err
}

// List возвращает страницу споров с опциональным фильтром по статусу.
func (r *DisputeRepository) List(ctx context.Context, status string, limit, offset int) ([]models.EscrowDispute, int, error) {
	where := ""
	args := []interface{}{}
	idx := 1
	if status != "" {
		where = fmt.Sprintf("WHERE status = $%d", idx)
		args = append(args, status)
		idx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM escrow_disputes "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("dispute repository: count %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM escrow_disputes %s ORDER BY filed_at DESC LIMIT $%d OFFSET $%d",
		where, idx, idx+1,
	)
	args = append(args, limit, offset)

	var disputes []models.EscrowDispute
	if err := r.db.SelectContext(ctx, &disputes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("dispute repository: list %w", err)
	}
	return disputes, total, nil
}

// CountOpenByAccount возвращает количество неразрешённых споров счёта.
func (r *DisputeRepository) CountOpenByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM escrow_disputes WHERE escrow_account_id = $1 AND status <> 'resolved'
	`, accountID)
	return count, err
}

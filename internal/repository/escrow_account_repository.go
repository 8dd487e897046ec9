package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/repository/common"
)

var (
	ErrAccountNotFound   = errors.New("escrow account not found")
	ErrConditionNotFound = errors.New("release condition not found")
	ErrDisputeNotFound   = errors.New("dispute not found")
)

// EscrowAccountRepository отвечает за чтение escrow счетов.
// Все мутации проходят через SettlementRepository одной транзакцией.
type EscrowAccountRepository struct {
	db *sqlx.DB
}

func NewEscrowAccountRepository(db *sqlx.DB) *EscrowAccountRepository {
	return &EscrowAccountRepository{db: db}
}

// GetByID возвращает счёт по ID.
func (r *EscrowAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowAccount, error) {
	return common.GetByID[models.EscrowAccount](ctx, r.db, "escrow_accounts", id, ErrAccountNotFound)
}

// GetByAccountNumber возвращает счёт по человекочитаемому номеру.
func (r *EscrowAccountRepository) GetByAccountNumber(ctx context.Context, number string) (*models.EscrowAccount, error) {
	return common.GetByField[models.EscrowAccount](ctx, r.db, "escrow_accounts", "account_number", number, ErrAccountNotFound)
}

// AccountFilter задаёт фильтры постраничного списка.
type AccountFilter struct {
	Status          string
	TransactionType string
}

// List возвращает страницу счетов с общим количеством.
func (r *EscrowAccountRepository) List(ctx context.Context, filter AccountFilter, limit, offset int) ([]models.EscrowAccount, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	idx := 1
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.TransactionType != "" {
		where += fmt.Sprintf(" AND transaction_type = $%d", idx)
		args = append(args, filter.TransactionType)
		idx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM escrow_accounts "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("escrow account repository: count %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM escrow_accounts %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, idx, idx+1,
	)
	args = append(args, limit, offset)

	var accounts []models.EscrowAccount
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("escrow account repository: list %w", err)
	}
	return accounts, total, nil
}

// GetByBuyerID возвращает счета покупателя.
func (r *EscrowAccountRepository) GetByBuyerID(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.EscrowAccount, error) {
	var accounts []models.EscrowAccount
	err := r.db.SelectContext(ctx, &accounts, `
		SELECT * FROM escrow_accounts WHERE buyer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, buyerID, limit, offset)
	return accounts, err
}

// GetBySellerID возвращает счета продавца.
func (r *EscrowAccountRepository) GetBySellerID(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.EscrowAccount, error) {
	var accounts []models.EscrowAccount
	err := r.db.SelectContext(ctx, &accounts, `
		SELECT * FROM escrow_accounts WHERE seller_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, sellerID, limit, offset)
	return accounts, err
}

// GetExpiring возвращает нетерминальные счета, истекающие до указанной даты.
func (r *EscrowAccountRepository) GetExpiring(ctx context.Context, before time.Time) ([]models.EscrowAccount, error) {
	var accounts []models.EscrowAccount
	err := r.db.SelectContext(ctx, &accounts, `
		SELECT * FROM escrow_accounts
		WHERE expires_at IS NOT NULL AND expires_at < $1
		  AND status NOT IN ('released', 'refunded', 'cancelled')
		ORDER BY expires_at ASC
	`, before)
	return accounts, err
}

// GetPendingRelease возвращает счета, готовые к освобождению средств.
// Используется внешним планировщиком авто-освобождения.
func (r *EscrowAccountRepository) GetPendingRelease(ctx context.Context) ([]models.EscrowAccount, error) {
	var accounts []models.EscrowAccount
	err := r.db.SelectContext(ctx, &accounts, `
		SELECT * FROM escrow_accounts
		WHERE status = 'pending_release'
		ORDER BY updated_at ASC
	`)
	return accounts, err
}

// StatusCount хранит количество счетов в одном статусе.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

// CountByStatus возвращает распределение счетов по статусам.
func (r *EscrowAccountRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT status, COUNT(*) AS count FROM escrow_accounts GROUP BY status ORDER BY status
	`)
	return counts, err
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/repository/common"
)

var ErrMovementNotFound = errors.New("fund movement not found")

// FundMovementRepository отвечает за чтение журнала движений средств.
// Записи создаются только внутри транзакций SettlementRepository.
type FundMovementRepository struct {
	db *sqlx.DB
}

func NewFundMovementRepository(db *sqlx.DB) *FundMovementRepository {
	return &FundMovementRepository{db: db}
}

// ListByAccount возвращает журнал движений счёта в порядке добавления.
func (r *FundMovementRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.FundMovement, error) {
	var movements []models.FundMovement
	err := r.db.SelectContext(ctx, &movements, `
		SELECT * FROM fund_movements WHERE escrow_account_id = $1 ORDER BY created_at ASC
	`, accountID)
	return movements, err
}

// GetByTransactionNumber возвращает движение по глобально уникальному номеру.
func (r *FundMovementRepository) GetByTransactionNumber(ctx context.Context, number string) (*models.FundMovement, error) {
	return common.GetByField[models.FundMovement](ctx, r.db, "fund_movements", "transaction_number", number, ErrMovementNotFound)
}

// SumDeposits возвращает сумму всех депозитов счёта по журналу.
// Используется проверкой сходимости: результат обязан совпадать
// с funded_amount счёта.
func (r *FundMovementRepository) SumDeposits(ctx context.Context, accountID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0) FROM fund_movements
		WHERE escrow_account_id = $1 AND type IN ('deposit', 'additional_deposit') AND status = 'completed'
	`, accountID)
	return sum, err
}

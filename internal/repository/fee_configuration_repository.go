package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
)

// FeeConfigurationRepository отвечает за чтение правил комиссий.
type FeeConfigurationRepository struct {
	db *sqlx.DB
}

func NewFeeConfigurationRepository(db *sqlx.DB) *FeeConfigurationRepository {
	return &FeeConfigurationRepository{db: db}
}

// GetActiveForAmount возвращает действующее правило для типа сделки и суммы.
// nil без ошибки, если подходящего правила нет — в этом случае комиссия равна нулю.
func (r *FeeConfigurationRepository) GetActiveForAmount(ctx context.Context, transactionType string, amount float64, at time.Time) (*models.FeeConfiguration, error) {
	var cfg models.FeeConfiguration
	err := r.db.GetContext(ctx, &cfg, `
		SELECT * FROM fee_configurations
		WHERE transaction_type = $1
		  AND is_active = TRUE
		  AND min_amount <= $2 AND max_amount >= $2
		  AND effective_from <= $3
		  AND (effective_to IS NULL OR effective_to >= $3)
		ORDER BY effective_from DESC
		LIMIT 1
	`, transactionType, amount, at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fee configuration repository: get active %w", err)
	}
	return &cfg, nil
}

// GetAllActive возвращает все действующие правила.
func (r *FeeConfigurationRepository) GetAllActive(ctx context.Context) ([]models.FeeConfiguration, error) {
	var configs []models.FeeConfiguration
	err := r.db.SelectContext(ctx, &configs, `
		SELECT * FROM fee_configurations
		WHERE is_active = TRUE
		ORDER BY transaction_type ASC, min_amount ASC
	`)
	return configs, err
}

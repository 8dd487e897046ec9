package service

import (
	"context"
	"time"

	"github.com/ignatzorin/escrow-backend/internal/models"
)

// FeeConfigProvider отдаёт правила комиссий.
type FeeConfigProvider interface {
	GetActiveForAmount(ctx context.Context, transactionType string, amount float64, at time.Time) (*models.FeeConfiguration, error)
	GetAllActive(ctx context.Context) ([]models.FeeConfiguration, error)
}

// FeeCalculator вычисляет комиссию по действующему правилу.
// Расчёт детерминирован и выполняется ровно один раз — при создании счёта;
// повторное финансирование комиссию не пересчитывает.
type FeeCalculator struct {
	configs FeeConfigProvider
}

func NewFeeCalculator(configs FeeConfigProvider) *FeeCalculator {
	return &FeeCalculator{configs: configs}
}

// FeeResult содержит рассчитанную комиссию.
type FeeResult struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Calculate возвращает комиссию для типа сделки и суммы на момент now.
// Если подходящего правила нет, комиссия равна нулю.
func (c *FeeCalculator) Calculate(ctx context.Context, transactionType string, amount float64, now time.Time) (FeeResult, error) {
	cfg, err := c.configs.GetActiveForAmount(ctx, transactionType, amount, now)
	if err != nil {
		return FeeResult{}, err
	}
	if cfg == nil {
		return FeeResult{}, nil
	}

	fee := amount * cfg.FeePercentage / 100
	if fee < cfg.MinFee {
		fee = cfg.MinFee
	}
	if fee > cfg.MaxFee {
		fee = cfg.MaxFee
	}

	return FeeResult{Amount: fee, Percentage: cfg.FeePercentage}, nil
}

// ActiveConfigurations возвращает все действующие правила комиссий.
func (c *FeeCalculator) ActiveConfigurations(ctx context.Context) ([]models.FeeConfiguration, error) {
	return c.configs.GetAllActive(ctx)
}

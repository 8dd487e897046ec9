package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/escrow-backend/internal/models"
)

type mockFeeConfigs struct {
	mock.Mock
}

func (m *mockFeeConfigs) GetActiveForAmount(ctx context.Context, transactionType string, amount float64, at time.Time) (*models.FeeConfiguration, error) {
	args := m.Called(ctx, transactionType, amount, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeConfiguration), args.Error(1)
}

func (m *mockFeeConfigs) GetAllActive(ctx context.Context) ([]models.FeeConfiguration, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.FeeConfiguration), args.Error(1)
}

func TestFeeCalculator_Calculate_PercentageWithCap(t *testing.T) {
	configs := new(mockFeeConfigs)
	calc := NewFeeCalculator(configs)
	ctx := context.Background()
	now := time.Now()

	cfg := &models.FeeConfiguration{
		TransactionType: "goods",
		FeePercentage:   5.0,
		MinFee:          50,
		MaxFee:          500,
	}
	configs.On("GetActiveForAmount", ctx, "goods", float64(10000), now).Return(cfg, nil)

	result, err := calc.Calculate(ctx, "goods", 10000, now)
	assert.NoError(t, err)
	// 5% от 10000 = 500, ровно на потолке
	assert.Equal(t, float64(500), result.Amount)
	assert.Equal(t, float64(5.0), result.Percentage)
}

func TestFeeCalculator_Calculate_MaxFeeClamp(t *testing.T) {
	configs := new(mockFeeConfigs)
	calc := NewFeeCalculator(configs)
	ctx := context.Background()
	now := time.Now()

	cfg := &models.FeeConfiguration{
		TransactionType: "goods",
		FeePercentage:   5.0,
		MinFee:          50,
		MaxFee:          500,
	}
	configs.On("GetActiveForAmount", ctx, "goods", float64(100000), now).Return(cfg, nil)

	result, err := calc.Calculate(ctx, "goods", 100000, now)
	assert.NoError(t, err)
	// 5% от 100000 = 5000, ограничено потолком 500
	assert.Equal(t, float64(500), result.Amount)
}

func TestFeeCalculator_Calculate_MinFeeClamp(t *testing.T) {
	configs := new(mockFeeConfigs)
	calc := NewFeeCalculator(configs)
	ctx := context.Background()
	now := time.Now()

	cfg := &models.FeeConfiguration{
		TransactionType: "goods",
		FeePercentage:   5.0,
		MinFee:          50,
		MaxFee:          500,
	}
	configs.On("GetActiveForAmount", ctx, "goods", float64(100), now).Return(cfg, nil)

	result, err := calc.Calculate(ctx, "goods", 100, now)
	assert.NoError(t, err)
	// 5% от 100 = 5, поднято до минимума 50
	assert.Equal(t, float64(50), result.Amount)
}

func TestFeeCalculator_Calculate_NoConfig(t *testing.T) {
	configs := new(mockFeeConfigs)
	calc := NewFeeCalculator(configs)
	ctx := context.Background()
	now := time.Now()

	configs.On("GetActiveForAmount", ctx, "exotic", float64(10000), now).Return(nil, nil)

	result, err := calc.Calculate(ctx, "exotic", 10000, now)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), result.Amount)
	assert.Equal(t, float64(0), result.Percentage)
}

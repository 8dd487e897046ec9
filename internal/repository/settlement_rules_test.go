package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/escrow-backend/internal/models"
)

func TestDecideDeposit_ExactFillInCents(t *testing.T) {
	// 9.98 + 0.39 в float64 чуть больше 10.37; пополнение,
	// точно закрывающее счёт, обязано приниматься.
	out, err := decideDeposit(9.98, 0.39, 10.37)

	assert.NoError(t, err)
	assert.True(t, out.FullyFunded)
	assert.Equal(t, models.MovementTypeAdditionalDeposit, out.MovementType)
	assert.Equal(t, int64(1037), models.Cents(out.FundedAmount))
	assert.Equal(t, int64(0), models.Cents(out.PendingAmount))
}

func TestDecideDeposit_ExactFillSweep(t *testing.T) {
	cases := []struct {
		first, second, total float64
	}{
		{9.98, 0.39, 10.37},
		{0.1, 0.2, 0.3},
		{1.1, 2.2, 3.3},
		{33.33, 66.67, 100.0},
		{7499.99, 2500.01, 10000.0},
	}
	for _, tc := range cases {
		out, err := decideDeposit(tc.first, tc.second, tc.total)
		assert.NoError(t, err, "депозиты %v + %v при сумме %v", tc.first, tc.second, tc.total)
		assert.True(t, out.FullyFunded, "депозиты %v + %v при сумме %v", tc.first, tc.second, tc.total)
	}
}

func TestDecideDeposit_ExceedsTotal(t *testing.T) {
	_, err := decideDeposit(5000, 6000, 10000)
	assert.ErrorIs(t, err, ErrExceedsTotal)

	// Превышение на одну копейку тоже отклоняется
	_, err = decideDeposit(9.98, 0.40, 10.37)
	assert.ErrorIs(t, err, ErrExceedsTotal)
}

func TestDecideDeposit_MovementTypes(t *testing.T) {
	first, err := decideDeposit(0, 4000, 10000)
	assert.NoError(t, err)
	assert.Equal(t, models.MovementTypeDeposit, first.MovementType)
	assert.False(t, first.FullyFunded)
	assert.Equal(t, 6000.0, first.PendingAmount)

	second, err := decideDeposit(4000, 6000, 10000)
	assert.NoError(t, err)
	assert.Equal(t, models.MovementTypeAdditionalDeposit, second.MovementType)
	assert.True(t, second.FullyFunded)
}

func TestFundedStatus(t *testing.T) {
	assert.Equal(t, models.EscrowStatusFunded, fundedStatus(0))
	assert.Equal(t, models.EscrowStatusInProgress, fundedStatus(2))
}

func releaseAccount() *models.EscrowAccount {
	return &models.EscrowAccount{
		Status:       models.EscrowStatusFunded,
		TotalAmount:  10000,
		FundedAmount: 10000,
		FeeAmount:    500,
	}
}

func TestDecideRelease_FullAmount(t *testing.T) {
	out, err := decideRelease(releaseAccount(), 0)

	assert.NoError(t, err)
	assert.Equal(t, 9500.0, out.Amount)
	assert.Equal(t, models.MovementTypeRelease, out.MovementType)
	assert.Equal(t, models.EscrowStatusReleased, out.Status)
}

func TestDecideRelease_ExplicitFullAmount(t *testing.T) {
	out, err := decideRelease(releaseAccount(), 9500)

	assert.NoError(t, err)
	assert.Equal(t, 9500.0, out.Amount)
	assert.Equal(t, models.EscrowStatusReleased, out.Status)
}

func TestDecideRelease_ExactRemainderInCents(t *testing.T) {
	// Остаток 10.37 − 9.98 − 0.37 накапливает погрешность float64;
	// освобождение ровно остатка обязано закрывать счёт.
	account := &models.EscrowAccount{
		TotalAmount:         10.37,
		FundedAmount:        10.37,
		ReleasedAmount:      9.98,
		FeeAmount:           0.37,
		AllowPartialRelease: true,
	}

	out, err := decideRelease(account, 0.02)

	assert.NoError(t, err)
	assert.Equal(t, models.MovementTypeRelease, out.MovementType)
	assert.Equal(t, models.EscrowStatusReleased, out.Status)
}

func TestDecideRelease_PartialAllowed(t *testing.T) {
	account := releaseAccount()
	account.AllowPartialRelease = true

	out, err := decideRelease(account, 3000)

	assert.NoError(t, err)
	assert.Equal(t, 3000.0, out.Amount)
	assert.Equal(t, models.MovementTypePartialRelease, out.MovementType)
	assert.Equal(t, models.EscrowStatusPartialRelease, out.Status)
}

func TestDecideRelease_PartialForbidden(t *testing.T) {
	_, err := decideRelease(releaseAccount(), 3000)
	assert.ErrorIs(t, err, ErrPartialNotAllowed)
}

func TestDecideRelease_ExceedsAvailable(t *testing.T) {
	_, err := decideRelease(releaseAccount(), 9500.01)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestDecideRelease_NothingAvailable(t *testing.T) {
	account := releaseAccount()
	account.ReleasedAmount = 9500

	_, err := decideRelease(account, 0)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestDecideRefund_FullAmount(t *testing.T) {
	out, err := decideRefund(releaseAccount(), 0)

	assert.NoError(t, err)
	assert.Equal(t, 10000.0, out.Amount)
	assert.Equal(t, models.MovementTypeRefund, out.MovementType)
}

func TestDecideRefund_Partial(t *testing.T) {
	out, err := decideRefund(releaseAccount(), 2500)

	assert.NoError(t, err)
	assert.Equal(t, models.MovementTypePartialRefund, out.MovementType)
}

func TestDecideRefund_ExceedsAvailable(t *testing.T) {
	account := releaseAccount()
	account.ReleasedAmount = 6000

	_, err := decideRefund(account, 5000)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

package repository

import (
	"github.com/ignatzorin/escrow-backend/internal/models"
)

// Чистые правила денежных команд. Репозиторий применяет их к строке счёта,
// заблокированной FOR UPDATE; здесь только арифметика сумм и выбор переходов.
// Все сравнения ведутся в копейках (models.Cents): прямое сравнение float64
// отвергает пополнение, точно закрывающее счёт.

// depositOutcome — результат применения пополнения к счёту.
type depositOutcome struct {
	MovementType  string
	FundedAmount  float64
	PendingAmount float64
	FullyFunded   bool
}

// decideDeposit проверяет пополнение и вычисляет новые суммы счёта.
// Сумма депозитов может накапливаться вплоть до полной суммы сделки
// включительно; превышение отклоняется.
func decideDeposit(funded, amount, total float64) (depositOutcome, error) {
	if models.Cents(funded)+models.Cents(amount) > models.Cents(total) {
		return depositOutcome{}, ErrExceedsTotal
	}

	out := depositOutcome{
		MovementType: models.MovementTypeAdditionalDeposit,
		FundedAmount: funded + amount,
	}
	if models.Cents(funded) == 0 {
		out.MovementType = models.MovementTypeDeposit
	}
	out.PendingAmount = total - out.FundedAmount
	out.FullyFunded = models.Cents(out.FundedAmount) >= models.Cents(total)
	return out, nil
}

// fundedStatus возвращает статус полностью профинансированного счёта:
// с невыполненными условиями счёт сразу переходит в работу.
func fundedStatus(pendingConditions int) string {
	if pendingConditions > 0 {
		return models.EscrowStatusInProgress
	}
	return models.EscrowStatusFunded
}

// releaseOutcome — результат применения освобождения.
type releaseOutcome struct {
	Amount       float64
	MovementType string
	Status       string
}

// decideRelease проверяет сумму освобождения против доступного остатка
// (funded - released - fee) и выбирает тип движения и статус счёта.
// requested == 0 означает весь доступный остаток.
func decideRelease(account *models.EscrowAccount, requested float64) (releaseOutcome, error) {
	available := account.AvailableForRelease()
	amount := requested
	if models.Cents(amount) == 0 {
		amount = available
	}

	amountC, availableC := models.Cents(amount), models.Cents(available)
	if amountC <= 0 || amountC > availableC {
		return releaseOutcome{}, ErrInsufficientBalance
	}
	partial := amountC < availableC
	if partial && !account.AllowPartialRelease {
		return releaseOutcome{}, ErrPartialNotAllowed
	}

	out := releaseOutcome{
		Amount:       amount,
		MovementType: models.MovementTypeRelease,
		Status:       models.EscrowStatusReleased,
	}
	if partial {
		out.MovementType = models.MovementTypePartialRelease
	}
	if models.Cents(account.ReleasedAmount+amount) < models.Cents(account.FundedAmount-account.FeeAmount) {
		out.Status = models.EscrowStatusPartialRelease
	}
	return out, nil
}

// refundOutcome — результат применения возврата.
type refundOutcome struct {
	Amount       float64
	MovementType string
}

// decideRefund проверяет сумму возврата против неосвобождённого остатка.
// requested == 0 означает весь доступный остаток.
func decideRefund(account *models.EscrowAccount, requested float64) (refundOutcome, error) {
	available := account.AvailableForRefund()
	amount := requested
	if models.Cents(amount) == 0 {
		amount = available
	}

	amountC, availableC := models.Cents(amount), models.Cents(available)
	if amountC <= 0 || amountC > availableC {
		return refundOutcome{}, ErrInsufficientBalance
	}

	out := refundOutcome{Amount: amount, MovementType: models.MovementTypeRefund}
	if amountC < availableC {
		out.MovementType = models.MovementTypePartialRefund
	}
	return out, nil
}

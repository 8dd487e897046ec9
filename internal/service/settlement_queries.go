package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/repository"
)

// AccountDetail — счёт вместе с условиями, движениями и спорами.
type AccountDetail struct {
	Account             *models.EscrowAccount     `json:"account"`
	Conditions          []models.ReleaseCondition `json:"conditions"`
	Movements           []models.FundMovement     `json:"movements"`
	Disputes            []models.EscrowDispute    `json:"disputes"`
	AvailableForRelease float64                   `json:"available_for_release"`
	AvailableForRefund  float64                   `json:"available_for_refund"`
	IsExpired           bool                      `json:"is_expired"`
}

// GetAccount возвращает счёт со всеми связанными записями.
// Результат кэшируется до следующей мутирующей команды по счёту.
func (s *SettlementService) GetAccount(ctx context.Context, accountID uuid.UUID) (*AccountDetail, error) {
	if s.cache != nil {
		if cached, ok := CacheGet[*AccountDetail](s.cache, AccountDetailCacheKey(accountID)); ok {
			return cached, nil
		}
	}

	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	conditions, err := s.conditions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить условия счёта")
	}
	movements, err := s.movements.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить движения средств")
	}
	disputes, err := s.disputes.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить споры")
	}

	detail := &AccountDetail{
		Account:             account,
		Conditions:          conditions,
		Movements:           movements,
		Disputes:            disputes,
		AvailableForRelease: account.AvailableForRelease(),
		AvailableForRefund:  account.AvailableForRefund(),
		IsExpired:           account.IsExpired(time.Now()),
	}
	if s.cache != nil {
		s.cache.Set(AccountDetailCacheKey(accountID), detail)
	}
	return detail, nil
}

// GetAccountByNumber возвращает счёт по человекочитаемому номеру.
func (s *SettlementService) GetAccountByNumber(ctx context.Context, number string) (*AccountDetail, error) {
	account, err := s.accounts.GetByAccountNumber(ctx, number)
	if err != nil {
		return nil, apperror.ErrAccountNotFound
	}
	return s.GetAccount(ctx, account.ID)
}

// AccountPage — страница счетов.
type AccountPage struct {
	Items  []models.EscrowAccount `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// ListAccounts возвращает страницу счетов с фильтром по статусу и типу сделки.
func (s *SettlementService) ListAccounts(ctx context.Context, filter repository.AccountFilter, limit, offset int) (*AccountPage, error) {
	limit, offset = normalizePage(limit, offset)
	items, total, err := s.accounts.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить счета")
	}
	return &AccountPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// ListByBuyer возвращает счета покупателя.
func (s *SettlementService) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.EscrowAccount, error) {
	limit, offset = normalizePage(limit, offset)
	items, err := s.accounts.GetByBuyerID(ctx, buyerID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить счета покупателя")
	}
	return items, nil
}

// ListBySeller возвращает счета продавца.
func (s *SettlementService) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.EscrowAccount, error) {
	limit, offset = normalizePage(limit, offset)
	items, err := s.accounts.GetBySellerID(ctx, sellerID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить счета продавца")
	}
	return items, nil
}

// GetExpiring возвращает нетерминальные счета, срок которых истекает до before.
func (s *SettlementService) GetExpiring(ctx context.Context, withinDays int) ([]models.EscrowAccount, error) {
	if withinDays <= 0 {
		withinDays = 7
	}
	before := time.Now().AddDate(0, 0, withinDays)
	items, err := s.accounts.GetExpiring(ctx, before)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить истекающие счета")
	}
	return items, nil
}

// GetPendingRelease возвращает счета, ожидающие освобождения средств.
func (s *SettlementService) GetPendingRelease(ctx context.Context) ([]models.EscrowAccount, error) {
	items, err := s.accounts.GetPendingRelease(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить счета к освобождению")
	}
	return items, nil
}

// StatusCounts возвращает распределение счетов по статусам.
// Результат кэшируется до следующей мутирующей команды.
func (s *SettlementService) StatusCounts(ctx context.Context) ([]repository.StatusCount, error) {
	if s.cache != nil {
		if cached, ok := CacheGet[[]repository.StatusCount](s.cache, StatusCountsCacheKey()); ok {
			return cached, nil
		}
	}

	counts, err := s.accounts.CountByStatus(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить статистику")
	}

	if s.cache != nil {
		s.cache.Set(StatusCountsCacheKey(), counts)
	}
	return counts, nil
}

// ListMovements возвращает журнал движений средств счёта.
func (s *SettlementService) ListMovements(ctx context.Context, accountID uuid.UUID) ([]models.FundMovement, error) {
	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}
	movements, err := s.movements.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить движения средств")
	}
	return movements, nil
}

// GetMovementByNumber возвращает движение средств по номеру транзакции.
func (s *SettlementService) GetMovementByNumber(ctx context.Context, number string) (*models.FundMovement, error) {
	mv, err := s.movements.GetByTransactionNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrMovementNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "движение средств не найдено")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить движение средств")
	}
	return mv, nil
}

// LedgerCheck — результат сверки сумм счёта с журналом движений.
type LedgerCheck struct {
	AccountID    uuid.UUID `json:"account_id"`
	FundedAmount float64   `json:"funded_amount"`
	DepositTotal float64   `json:"deposit_total"`
	Consistent   bool      `json:"consistent"`
}

// CheckLedger сверяет funded_amount счёта с суммой завершённых депозитов
// в журнале движений. Сравнение ведётся в копейках.
func (s *SettlementService) CheckLedger(ctx context.Context, accountID uuid.UUID) (*LedgerCheck, error) {
	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	total, err := s.movements.SumDeposits(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось просуммировать депозиты")
	}
	return &LedgerCheck{
		AccountID:    account.ID,
		FundedAmount: account.FundedAmount,
		DepositTotal: total,
		Consistent:   models.Cents(total) == models.Cents(account.FundedAmount),
	}, nil
}

// ListAudit возвращает журнал аудита счёта.
func (s *SettlementService) ListAudit(ctx context.Context, accountID uuid.UUID) ([]models.AuditLogEntry, error) {
	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}
	entries, err := s.audit.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить журнал аудита")
	}
	return entries, nil
}

// GetDispute возвращает спор по идентификатору.
func (s *SettlementService) GetDispute(ctx context.Context, disputeID uuid.UUID) (*models.EscrowDispute, error) {
	return s.getDispute(ctx, disputeID)
}

// DisputePage — страница споров.
type DisputePage struct {
	Items  []models.EscrowDispute `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// ListDisputes возвращает страницу споров с фильтром по статусу.
func (s *SettlementService) ListDisputes(ctx context.Context, status string, limit, offset int) (*DisputePage, error) {
	limit, offset = normalizePage(limit, offset)
	items, total, err := s.disputes.List(ctx, status, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить споры")
	}
	return &DisputePage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// ListAccountDisputes возвращает все споры по счёту.
func (s *SettlementService) ListAccountDisputes(ctx context.Context, accountID uuid.UUID) ([]models.EscrowDispute, error) {
	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}
	disputes, err := s.disputes.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить споры счёта")
	}
	return disputes, nil
}

// FeeConfigurations возвращает действующие правила комиссий.
func (s *SettlementService) FeeConfigurations(ctx context.Context) ([]models.FeeConfiguration, error) {
	configs, err := s.fees.ActiveConfigurations(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить правила комиссий")
	}
	return configs, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

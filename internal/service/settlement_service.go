package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/repository"
	"github.com/ignatzorin/escrow-backend/internal/validation"
)

// SettlementStore выполняет атомарные команды над агрегатом escrow счёта.
type SettlementStore interface {
	CreateAccount(ctx context.Context, a *models.EscrowAccount, conditions []models.ReleaseCondition, audit *models.AuditLogEntry) error
	ApplyDeposit(ctx context.Context, mv *models.FundMovement, audit *models.AuditLogEntry) (*repository.MovementResult, error)
	ApplyRelease(ctx context.Context, mv *models.FundMovement, requestedAmount float64, audit *models.AuditLogEntry) (*repository.MovementResult, error)
	ApplyRefund(ctx context.Context, mv *models.FundMovement, requestedAmount float64, audit *models.AuditLogEntry) (*repository.MovementResult, error)
	ApplyApproval(ctx context.Context, accountID uuid.UUID, approverType string, audit *models.AuditLogEntry) (*models.EscrowAccount, error)
	ApplyCancel(ctx context.Context, accountID uuid.UUID, audit *models.AuditLogEntry) (*models.EscrowAccount, error)
	AddCondition(ctx context.Context, cond *models.ReleaseCondition, audit *models.AuditLogEntry) error
	ApplyConditionMet(ctx context.Context, conditionID uuid.UUID, upd repository.ConditionUpdate, audit *models.AuditLogEntry) (*models.ReleaseCondition, error)
	ApplyConditionFailed(ctx context.Context, conditionID uuid.UUID, verifiedBy string, notes *string, audit *models.AuditLogEntry) (*models.ReleaseCondition, error)
	ApplyDisputeFiled(ctx context.Context, d *models.EscrowDispute, audit *models.AuditLogEntry) error
	ApplyDisputeReview(ctx context.Context, disputeID uuid.UUID, audit *models.AuditLogEntry) (*models.EscrowDispute, error)
	ApplyDisputeResolved(ctx context.Context, disputeID uuid.UUID, res repository.DisputeResolution, audit *models.AuditLogEntry) (*models.EscrowDispute, error)
}

// AccountReader читает escrow счета.
type AccountReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowAccount, error)
	GetByAccountNumber(ctx context.Context, number string) (*models.EscrowAccount, error)
	List(ctx context.Context, filter repository.AccountFilter, limit, offset int) ([]models.EscrowAccount, int, error)
	GetByBuyerID(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.EscrowAccount, error)
	GetBySellerID(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.EscrowAccount, error)
	GetExpiring(ctx context.Context, before time.Time) ([]models.EscrowAccount, error)
	GetPendingRelease(ctx context.Context) ([]models.EscrowAccount, error)
	CountByStatus(ctx context.Context) ([]repository.StatusCount, error)
}

// MovementReader читает журнал движений средств.
type MovementReader interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.FundMovement, error)
	GetByTransactionNumber(ctx context.Context, number string) (*models.FundMovement, error)
	SumDeposits(ctx context.Context, accountID uuid.UUID) (float64, error)
}

// ConditionReader читает условия освобождения.
type ConditionReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReleaseCondition, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.ReleaseCondition, error)
	AllMandatoryMet(ctx context.Context, accountID uuid.UUID) (bool, error)
	CountMandatory(ctx context.Context, accountID uuid.UUID) (met int, total int, err error)
}

// DisputeReader читает споры.
type DisputeReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowDispute, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.EscrowDispute, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.EscrowDispute, int, error)
	CountOpenByAccount(ctx context.Context, accountID uuid.UUID) (int, error)
}

// AuditReader читает журнал аудита.
type AuditReader interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.AuditLogEntry, error)
}

// EscrowEvent описывает событие счёта для подписчиков.
type EscrowEvent struct {
	AccountID     uuid.UUID `json:"account_id"`
	AccountNumber string    `json:"account_number"`
	EventType     string    `json:"event_type"`
	Status        string    `json:"status"`
	Amount        *float64  `json:"amount,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher доставляет события счёта подписчикам.
// Доставка — обязанность внешнего коллаборатора; движок лишь публикует.
type EventPublisher interface {
	PublishEscrowEvent(event EscrowEvent)
}

// SettlementService оркестрирует все команды и запросы escrow движка.
// Каждая мутирующая команда атомарна: агрегат, журнал движений и аудит
// изменяются одной транзакцией хранилища.
type SettlementService struct {
	store      SettlementStore
	accounts   AccountReader
	movements  MovementReader
	conditions ConditionReader
	disputes   DisputeReader
	audit      AuditReader
	fees       *FeeCalculator
	cache      *CacheService
	publisher  EventPublisher

	defaultExpirationDays int
	defaultCurrency       string
}

func NewSettlementService(
	store SettlementStore,
	accounts AccountReader,
	movements MovementReader,
	conditions ConditionReader,
	disputes DisputeReader,
	audit AuditReader,
	fees *FeeCalculator,
	defaultExpirationDays int,
	defaultCurrency string,
) *SettlementService {
	if defaultExpirationDays <= 0 {
		defaultExpirationDays = 30
	}
	if defaultCurrency == "" {
		defaultCurrency = "RUB"
	}
	return &SettlementService{
		store:                 store,
		accounts:              accounts,
		movements:             movements,
		conditions:            conditions,
		disputes:              disputes,
		audit:                 audit,
		fees:                  fees,
		defaultExpirationDays: defaultExpirationDays,
		defaultCurrency:       defaultCurrency,
	}
}

// SetPublisher подключает публикацию событий (websocket hub).
func (s *SettlementService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// SetCache подключает кэш статистики.
func (s *SettlementService) SetCache(c *CacheService) {
	s.cache = c
}

// PartyInput описывает сторону сделки.
type PartyInput struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone *string
}

// ConditionInput описывает условие освобождения при создании.
type ConditionInput struct {
	Type             string
	Name             string
	Description      *string
	IsMandatory      bool
	SortOrder        int
	RequiresEvidence bool
	DueDate          *time.Time
}

// CreateAccountInput — входные данные команды создания счёта.
type CreateAccountInput struct {
	Buyer              PartyInput
	Seller             PartyInput
	SubjectType        string
	SubjectID          string
	SubjectDescription string
	ContractID         *uuid.UUID
	TransactionType    string
	TotalAmount        float64
	Currency           string
	RequiresBothApproval bool
	AllowPartialRelease  bool
	AutoReleaseEnabled   bool
	ReleaseDelayDays     int
	ExpirationDays       int
	Conditions           []ConditionInput
	CreatedBy            string
}

// CreateAccountResult — результат создания счёта.
type CreateAccountResult struct {
	Account       *models.EscrowAccount `json:"account"`
	AccountID     uuid.UUID             `json:"account_id"`
	AccountNumber string                `json:"account_number"`
	TotalAmount   float64               `json:"total_amount"`
	FeeAmount     float64               `json:"fee_amount"`
	ExpiresAt     *time.Time            `json:"expires_at,omitempty"`
}

// CreateAccount создаёт escrow счёт: рассчитывает комиссию, генерирует номер,
// сохраняет счёт с начальными условиями и пишет аудит создания.
func (s *SettlementService) CreateAccount(ctx context.Context, input CreateAccountInput) (*CreateAccountResult, error) {
	if err := validateParty("покупатель", input.Buyer); err != nil {
		return nil, err
	}
	if err := validateParty("продавец", input.Seller); err != nil {
		return nil, err
	}
	if err := validation.ValidateAmount("сумма сделки", input.TotalAmount); err != nil {
		return nil, apperror.New(apperror.ErrCodeInvalidAmount, err.Error())
	}
	if err := validation.ValidateTransactionType(input.TransactionType); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("описание предмета сделки", input.SubjectDescription,
		validation.MinSubjectDescriptionLength, validation.MaxSubjectDescriptionLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if len(input.Conditions) > validation.MaxConditionsPerAccount {
		return nil, apperror.New(apperror.ErrCodeValidation, "слишком много условий освобождения")
	}

	currency := input.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	if err := validation.ValidateCurrency(currency); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	now := time.Now()

	fee, err := s.fees.Calculate(ctx, input.TransactionType, input.TotalAmount, now)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось рассчитать комиссию")
	}

	expirationDays := input.ExpirationDays
	if expirationDays == 0 {
		expirationDays = s.defaultExpirationDays
	}
	if expirationDays < validation.MinExpirationDays || expirationDays > validation.MaxExpirationDays {
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый срок действия счёта")
	}
	expiresAt := now.AddDate(0, 0, expirationDays)

	account := &models.EscrowAccount{
		ID:                   uuid.New(),
		AccountNumber:        GenerateAccountNumber(now),
		BuyerID:              input.Buyer.ID,
		BuyerName:            input.Buyer.Name,
		BuyerEmail:           input.Buyer.Email,
		BuyerPhone:           input.Buyer.Phone,
		SellerID:             input.Seller.ID,
		SellerName:           input.Seller.Name,
		SellerEmail:          input.Seller.Email,
		SellerPhone:          input.Seller.Phone,
		SubjectType:          input.SubjectType,
		SubjectID:            input.SubjectID,
		SubjectDescription:   input.SubjectDescription,
		ContractID:           input.ContractID,
		TransactionType:      input.TransactionType,
		TotalAmount:          input.TotalAmount,
		FeeAmount:            fee.Amount,
		FeePercentage:        fee.Percentage,
		Currency:             currency,
		RequiresBothApproval: input.RequiresBothApproval,
		AllowPartialRelease:  input.AllowPartialRelease,
		AutoReleaseEnabled:   input.AutoReleaseEnabled,
		ReleaseDelayDays:     input.ReleaseDelayDays,
		ExpiresAt:            &expiresAt,
	}

	conditions := make([]models.ReleaseCondition, 0, len(input.Conditions))
	for _, c := range input.Conditions {
		if err := validation.ValidateLength("название условия", c.Name, 1, validation.MaxConditionNameLength); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		conditions = append(conditions, models.ReleaseCondition{
			ID:               uuid.New(),
			EscrowAccountID:  account.ID,
			Type:             c.Type,
			Name:             c.Name,
			Description:      c.Description,
			IsMandatory:      c.IsMandatory,
			SortOrder:        c.SortOrder,
			RequiresEvidence: c.RequiresEvidence,
			DueDate:          c.DueDate,
		})
	}

	audit := newAudit(account.ID, models.AuditEventCreated,
		fmt.Sprintf("Создан escrow счёт %s на сумму %.2f %s, комиссия %.2f",
			account.AccountNumber, account.TotalAmount, account.Currency, account.FeeAmount),
		input.CreatedBy)
	audit.AmountInvolved = &input.TotalAmount

	if err := s.store.CreateAccount(ctx, account, conditions, audit); err != nil {
		return nil, s.mapStoreError(ctx, err, account.ID)
	}

	s.afterMutation(account, models.AuditEventCreated, &input.TotalAmount)

	return &CreateAccountResult{
		Account:       account,
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		TotalAmount:   account.TotalAmount,
		FeeAmount:     account.FeeAmount,
		ExpiresAt:     account.ExpiresAt,
	}, nil
}

// FundInput — входные данные команды финансирования.
type FundInput struct {
	AccountID     uuid.UUID
	Amount        float64
	PaymentMethod string
	ExternalRef   *string
	InitiatedBy   string
	Notes         *string
}

// FundAccount применяет пополнение счёта. Повтор с тем же external_ref
// идемпотентен и не изменяет суммы.
func (s *SettlementService) FundAccount(ctx context.Context, input FundInput) (*repository.MovementResult, error) {
	if err := validation.ValidateAmount("сумма пополнения", input.Amount); err != nil {
		return nil, apperror.New(apperror.ErrCodeInvalidAmount, err.Error())
	}

	account, err := s.getAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	mv := &models.FundMovement{
		ID:                uuid.New(),
		EscrowAccountID:   account.ID,
		TransactionNumber: GenerateTransactionNumber(now),
		Amount:            input.Amount,
		Currency:          account.Currency,
		PartyID:           account.BuyerID,
		PartyName:         account.BuyerName,
		PartyType:         models.PartyTypeBuyer,
		ExternalRef:       input.ExternalRef,
		InitiatedBy:       input.InitiatedBy,
		Notes:             input.Notes,
	}
	audit := newAudit(account.ID, models.AuditEventFunded,
		fmt.Sprintf("Пополнение на %.2f %s (%s)", input.Amount, account.Currency, input.PaymentMethod),
		input.InitiatedBy)
	audit.AmountInvolved = &input.Amount

	result, err := s.store.ApplyDeposit(ctx, mv, audit)
	if err != nil {
		return nil, s.mapStoreError(ctx, err, account.ID)
	}

	if !result.Duplicate {
		s.afterMutation(result.Account, models.AuditEventFunded, &input.Amount)
	}
	return result, nil
}

// ApproveRelease фиксирует одобрение освобождения стороной сделки.
// При выполнении политики одобрения счёт переходит в pending_release.
func (s *SettlementService) ApproveRelease(ctx context.Context, accountID uuid.UUID, approverType, approvedBy string) (*models.EscrowAccount, error) {
	if approverType != models.PartyTypeBuyer && approverType != models.PartyTypeSeller {
		return nil, apperror.New(apperror.ErrCodeValidation, "тип одобряющей стороны должен быть buyer или seller")
	}

	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}

	audit := newAudit(accountID, models.AuditEventApproved,
		fmt.Sprintf("Освобождение одобрено стороной %s (%s)", approverType, approvedBy),
		approvedBy)

	account, err := s.store.ApplyApproval(ctx, accountID, approverType, audit)
	if err != nil {
		return nil, s.mapStoreError(ctx, err, accountID)
	}

	s.afterMutation(account, models.AuditEventApproved, nil)
	return account, nil
}

// ReleaseInput — входные данные команды освобождения средств.
type ReleaseInput struct {
	AccountID   uuid.UUID
	Amount      *float64 // nil — весь доступный остаток
	Destination *string
	ExternalRef *string
	ReleasedBy  string
	Notes       *string
}

// ReleaseFunds освобождает средства продавцу. Предусловия: все обязательные
// условия выполнены и политика одобрения удовлетворена. Конкурирующие
// освобождения исключаются блокировкой строки счёта в хранилище.
func (s *SettlementService) ReleaseFunds(ctx context.Context, input ReleaseInput) (*repository.MovementResult, error) {
	requested := 0.0
	if input.Amount != nil {
		if err := validation.ValidateAmount("сумма освобождения", *input.Amount); err != nil {
			return nil, apperror.New(apperror.ErrCodeInvalidAmount, err.Error())
		}
		requested = *input.Amount
	}

	account, err := s.getAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	notes := input.Notes
	if notes == nil && input.Destination != nil {
		notes = input.Destination
	}
	mv := &models.FundMovement{
		ID:                uuid.New(),
		EscrowAccountID:   account.ID,
		TransactionNumber: GenerateTransactionNumber(now),
		Currency:          account.Currency,
		PartyID:           account.SellerID,
		PartyName:         account.SellerName,
		PartyType:         models.PartyTypeSeller,
		ExternalRef:       input.ExternalRef,
		InitiatedBy:       input.ReleasedBy,
		Notes:             notes,
	}
	audit := newAudit(account.ID, models.AuditEventReleased,
		fmt.Sprintf("Освобождение средств продавцу %s", account.SellerName),
		input.ReleasedBy)

	result, err := s.store.ApplyRelease(ctx, mv, requested, audit)
	if err != nil {
		return nil, s.mapStoreError(ctx, err, account.ID)
	}

	if !result.Duplicate {
		s.afterMutation(result.Account, models.AuditEventReleased, &result.Movement.Amount)
	}
	return result, nil
}

// RefundInput — входные данные команды возврата.
type RefundInput struct {
	AccountID   uuid.UUID
	Amount      *float64 // nil — весь доступный остаток
	Reason      string
	ExternalRef *string
	RefundedBy  string
}

// RefundFunds возвращает покупателю неосвобождённый остаток.
func (s *SettlementService) RefundFunds(ctx context.Context, input RefundInput) (*repository.MovementResult, error) {
	requested := 0.0
	if input.Amount != nil {
		if err := validation.ValidateAmount("сумма возврата", *input.Amount); err != nil {
			return nil, apperror.New(apperror.ErrCodeInvalidAmount, err.Error())
		}
		requested = *input.Amount
	}
	if err := validation.ValidateLength("причина возврата", input.Reason,
		validation.MinReasonLength, validation.MaxReasonLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	account, err := s.getAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	mv := &models.FundMovement{
		ID:                uuid.New(),
		EscrowAccountID:   account.ID,
		TransactionNumber: GenerateTransactionNumber(now),
		Currency:          account.Currency,
		PartyID:           account.BuyerID,
		PartyName:         account.BuyerName,
		PartyType:         models.PartyTypeBuyer,
		ExternalRef:       input.ExternalRef,
		InitiatedBy:       input.RefundedBy,
		Notes:             &input.Reason,
	}
	audit := newAudit(account.ID, models.AuditEventRefunded,
		fmt.Sprintf("Возврат средств покупателю %s: %s", account.BuyerName, input.Reason),
		input.RefundedBy)

	result, err := s.store.ApplyRefund(ctx, mv, requested, audit)
	if err != nil {
		return nil, s.mapStoreError(ctx, err, account.ID)
	}

	if !result.Duplicate {
		s.afterMutation(result.Account, models.AuditEventRefunded, &result.Movement.Amount)
	}
	return result, nil
}

// CancelAccount отменяет счёт. После освобождения или возврата отмена запрещена.
func (s *SettlementService) CancelAccount(ctx context.Context, accountID uuid.UUID, reason, cancelledBy string) (*models.EscrowAccount, error) {
	if err := validation.ValidateLength("причина отмены", reason,
		validation.MinReasonLength, validation.MaxReasonLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}

	audit := newAudit(accountID, models.AuditEventCancelled,
		fmt.Sprintf("Счёт отменён: %s", reason), cancelledBy)

	account, err := s.store.ApplyCancel(ctx, accountID, audit)
	if err != nil {
		return nil, s.mapStoreError(ctx, err, accountID)
	}

	s.afterMutation(account, models.AuditEventCancelled, nil)
	return account, nil
}

// getAccount загружает счёт с типизированной ошибкой "не найден".
func (s *SettlementService) getAccount(ctx context.Context, accountID uuid.UUID) (*models.EscrowAccount, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apperror.ErrAccountNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить счёт")
	}
	return account, nil
}

// afterMutation публикует событие и сбрасывает кэш счёта и статистики.
func (s *SettlementService) afterMutation(account *models.EscrowAccount, eventType string, amount *float64) {
	if s.cache != nil && account != nil {
		s.cache.InvalidateAccountCache(account.ID)
	}
	if s.publisher != nil && account != nil {
		s.publisher.PublishEscrowEvent(EscrowEvent{
			AccountID:     account.ID,
			AccountNumber: account.AccountNumber,
			EventType:     eventType,
			Status:        account.Status,
			Amount:        amount,
			OccurredAt:    time.Now(),
		})
	}
}

// mapStoreError переводит ошибки хранилища в типизированные бизнес-отказы
// с человекочитаемым объяснением.
func (s *SettlementService) mapStoreError(ctx context.Context, err error, accountID uuid.UUID) error {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return apperror.ErrAccountNotFound
	case errors.Is(err, repository.ErrConditionNotFound):
		return apperror.ErrConditionNotFound
	case errors.Is(err, repository.ErrDisputeNotFound):
		return apperror.ErrDisputeNotFound
	case errors.Is(err, repository.ErrInvalidStatus):
		return s.invalidStateError(ctx, accountID)
	case errors.Is(err, repository.ErrExceedsTotal):
		return apperror.New(apperror.ErrCodeInvalidAmount, "пополнение превышает сумму сделки")
	case errors.Is(err, repository.ErrInsufficientBalance):
		return apperror.New(apperror.ErrCodeInvalidAmount, "сумма превышает доступный остаток или равна нулю")
	case errors.Is(err, repository.ErrConditionsUnmet):
		return s.conditionsUnmetError(ctx, accountID)
	case errors.Is(err, repository.ErrApprovalMissing):
		return apperror.New(apperror.ErrCodePreconditionUnmet, "политика одобрения освобождения не выполнена")
	case errors.Is(err, repository.ErrPartialNotAllowed):
		return apperror.New(apperror.ErrCodePolicyViolation, "частичное освобождение запрещено политикой счёта")
	case errors.Is(err, repository.ErrOpenDispute):
		return apperror.New(apperror.ErrCodeInvalidState, "по счёту открыт спор, движение средств заблокировано")
	case errors.Is(err, repository.ErrDisputeAlreadyOpen):
		return apperror.New(apperror.ErrCodeInvalidState, "по счёту уже открыт спор")
	case errors.Is(err, repository.ErrDisputeFinal):
		return apperror.New(apperror.ErrCodeInvalidState, "спор уже рассмотрен")
	case errors.Is(err, repository.ErrConditionFinal):
		return apperror.New(apperror.ErrCodeInvalidState, "условие уже отмечено")
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "операция не выполнена")
}

// invalidStateError строит отказ с текущим статусом счёта.
func (s *SettlementService) invalidStateError(ctx context.Context, accountID uuid.UUID) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return apperror.New(apperror.ErrCodeInvalidState, "операция недопустима в текущем статусе счёта")
	}
	return apperror.New(apperror.ErrCodeInvalidState,
		fmt.Sprintf("операция недопустима в статусе %s", account.Status))
}

// conditionsUnmetError строит отказ с количеством выполненных условий.
func (s *SettlementService) conditionsUnmetError(ctx context.Context, accountID uuid.UUID) error {
	met, total, err := s.conditions.CountMandatory(ctx, accountID)
	if err != nil {
		return apperror.New(apperror.ErrCodePreconditionUnmet, "обязательные условия освобождения не выполнены")
	}
	return apperror.New(apperror.ErrCodePreconditionUnmet,
		fmt.Sprintf("выполнено %d из %d обязательных условий освобождения", met, total))
}

// newAudit создаёт запись аудита.
func newAudit(accountID uuid.UUID, eventType, description, performedBy string) *models.AuditLogEntry {
	return &models.AuditLogEntry{
		ID:              uuid.New(),
		EscrowAccountID: accountID,
		EventType:       eventType,
		Description:     description,
		PerformedBy:     performedBy,
	}
}

// validateParty проверяет данные стороны сделки.
func validateParty(label string, p PartyInput) error {
	if p.ID == uuid.Nil {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s: идентификатор обязателен", label))
	}
	if err := validation.ValidateLength(label, p.Name,
		validation.MinPartyNameLength, validation.MaxPartyNameLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEmail(p.Email); err != nil {
		return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s: %s", label, err.Error()))
	}
	return nil
}

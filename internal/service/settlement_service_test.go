package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/repository"
)

type mockSettlementStore struct {
	mock.Mock
}

func (m *mockSettlementStore) CreateAccount(ctx context.Context, a *models.EscrowAccount, conditions []models.ReleaseCondition, audit *models.AuditLogEntry) error {
	args := m.Called(ctx, a, conditions, audit)
	return args.Error(0)
}

func (m *mockSettlementStore) ApplyDeposit(ctx context.Context, mv *models.FundMovement, audit *models.AuditLogEntry) (*repository.MovementResult, error) {
	args := m.Called(ctx, mv, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MovementResult), args.Error(1)
}

func (m *mockSettlementStore) ApplyRelease(ctx context.Context, mv *models.FundMovement, requestedAmount float64, audit *models.AuditLogEntry) (*repository.MovementResult, error) {
	args := m.Called(ctx, mv, requestedAmount, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MovementResult), args.Error(1)
}

func (m *mockSettlementStore) ApplyRefund(ctx context.Context, mv *models.FundMovement, requestedAmount float64, audit *models.AuditLogEntry) (*repository.MovementResult, error) {
	args := m.Called(ctx, mv, requestedAmount, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MovementResult), args.Error(1)
}

func (m *mockSettlementStore) ApplyApproval(ctx context.Context, accountID uuid.UUID, approverType string, audit *models.AuditLogEntry) (*models.EscrowAccount, error) {
	args := m.Called(ctx, accountID, approverType, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowAccount), args.Error(1)
}

func (m *mockSettlementStore) ApplyCancel(ctx context.Context, accountID uuid.UUID, audit *models.AuditLogEntry) (*models.EscrowAccount, error) {
	args := m.Called(ctx, accountID, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowAccount), args.Error(1)
}

func (m *mockSettlementStore) AddCondition(ctx context.Context, cond *models.ReleaseCondition, audit *models.AuditLogEntry) error {
	args := m.Called(ctx, cond, audit)
	return args.Error(0)
}

func (m *mockSettlementStore) ApplyConditionMet(ctx context.Context, conditionID uuid.UUID, upd repository.ConditionUpdate, audit *models.AuditLogEntry) (*models.ReleaseCondition, error) {
	args := m.Called(ctx, conditionID, upd, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReleaseCondition), args.Error(1)
}

func (m *mockSettlementStore) ApplyConditionFailed(ctx context.Context, conditionID uuid.UUID, verifiedBy string, notes *string, audit *models.AuditLogEntry) (*models.ReleaseCondition, error) {
	args := m.Called(ctx, conditionID, verifiedBy, notes, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReleaseCondition), args.Error(1)
}

func (m *mockSettlementStore) ApplyDisputeFiled(ctx context.Context, d *models.EscrowDispute, audit *models.AuditLogEntry) error {
	args := m.Called(ctx, d, audit)
	return args.Error(0)
}

func (m *mockSettlementStore) ApplyDisputeReview(ctx context.Context, disputeID uuid.UUID, audit *models.AuditLogEntry) (*models.EscrowDispute, error) {
	args := m.Called(ctx, disputeID, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowDispute), args.Error(1)
}

func (m *mockSettlementStore) ApplyDisputeResolved(ctx context.Context, disputeID uuid.UUID, res repository.DisputeResolution, audit *models.AuditLogEntry) (*models.EscrowDispute, error) {
	args := m.Called(ctx, disputeID, res, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowDispute), args.Error(1)
}

type mockAccountReader struct {
	mock.Mock
}

func (m *mockAccountReader) GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowAccount), args.Error(1)
}

func (m *mockAccountReader) GetByAccountNumber(ctx context.Context, number string) (*models.EscrowAccount, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowAccount), args.Error(1)
}

func (m *mockAccountReader) List(ctx context.Context, filter repository.AccountFilter, limit, offset int) ([]models.EscrowAccount, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]models.EscrowAccount), args.Int(1), args.Error(2)
}

func (m *mockAccountReader) GetByBuyerID(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.EscrowAccount, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	return args.Get(0).([]models.EscrowAccount), args.Error(1)
}

func (m *mockAccountReader) GetBySellerID(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.EscrowAccount, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	return args.Get(0).([]models.EscrowAccount), args.Error(1)
}

func (m *mockAccountReader) GetExpiring(ctx context.Context, before time.Time) ([]models.EscrowAccount, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]models.EscrowAccount), args.Error(1)
}

func (m *mockAccountReader) GetPendingRelease(ctx context.Context) ([]models.EscrowAccount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.EscrowAccount), args.Error(1)
}

func (m *mockAccountReader) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

type mockMovementReader struct {
	mock.Mock
}

func (m *mockMovementReader) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.FundMovement, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]models.FundMovement), args.Error(1)
}

func (m *mockMovementReader) GetByTransactionNumber(ctx context.Context, number string) (*models.FundMovement, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FundMovement), args.Error(1)
}

func (m *mockMovementReader) SumDeposits(ctx context.Context, accountID uuid.UUID) (float64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(float64), args.Error(1)
}

type mockConditionReader struct {
	mock.Mock
}

func (m *mockConditionReader) GetByID(ctx context.Context, id uuid.UUID) (*models.ReleaseCondition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReleaseCondition), args.Error(1)
}

func (m *mockConditionReader) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.ReleaseCondition, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]models.ReleaseCondition), args.Error(1)
}

func (m *mockConditionReader) AllMandatoryMet(ctx context.Context, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *mockConditionReader) CountMandatory(ctx context.Context, accountID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Int(1), args.Error(2)
}

type mockDisputeReader struct {
	mock.Mock
}

func (m *mockDisputeReader) GetByID(ctx context.Context, id uuid.UUID) (*models.EscrowDispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EscrowDispute), args.Error(1)
}

func (m *mockDisputeReader) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.EscrowDispute, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]models.EscrowDispute), args.Error(1)
}

func (m *mockDisputeReader) List(ctx context.Context, status string, limit, offset int) ([]models.EscrowDispute, int, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.EscrowDispute), args.Int(1), args.Error(2)
}

func (m *mockDisputeReader) CountOpenByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

type mockAuditReader struct {
	mock.Mock
}

func (m *mockAuditReader) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.AuditLogEntry, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]models.AuditLogEntry), args.Error(1)
}

type capturedEvents struct {
	events []EscrowEvent
}

func (c *capturedEvents) PublishEscrowEvent(event EscrowEvent) {
	c.events = append(c.events, event)
}

type settlementMocks struct {
	store      *mockSettlementStore
	accounts   *mockAccountReader
	movements  *mockMovementReader
	conditions *mockConditionReader
	disputes   *mockDisputeReader
	audit      *mockAuditReader
	fees       *mockFeeConfigs
	events     *capturedEvents
}

func newTestService() (*SettlementService, *settlementMocks) {
	m := &settlementMocks{
		store:      new(mockSettlementStore),
		accounts:   new(mockAccountReader),
		movements:  new(mockMovementReader),
		conditions: new(mockConditionReader),
		disputes:   new(mockDisputeReader),
		audit:      new(mockAuditReader),
		fees:       new(mockFeeConfigs),
		events:     &capturedEvents{},
	}
	svc := NewSettlementService(
		m.store, m.accounts, m.movements, m.conditions, m.disputes, m.audit,
		NewFeeCalculator(m.fees), 30, "RUB",
	)
	svc.SetPublisher(m.events)
	return svc, m
}

func validCreateInput() CreateAccountInput {
	return CreateAccountInput{
		Buyer: PartyInput{
			ID:    uuid.New(),
			Name:  "Иван Петров",
			Email: "ivan@example.com",
		},
		Seller: PartyInput{
			ID:    uuid.New(),
			Name:  "ООО Ромашка",
			Email: "sales@romashka.ru",
		},
		SubjectType:        "goods",
		SubjectID:          "SKU-1001",
		SubjectDescription: "Партия электроники по договору поставки",
		TransactionType:    "goods",
		TotalAmount:        10000,
		CreatedBy:          "test-client",
	}
}

func fundedAccount() *models.EscrowAccount {
	return &models.EscrowAccount{
		ID:            uuid.New(),
		AccountNumber: "ESC-20260829-AB12CD34",
		BuyerID:       uuid.New(),
		BuyerName:     "Иван Петров",
		SellerID:      uuid.New(),
		SellerName:    "ООО Ромашка",
		TotalAmount:   10000,
		FundedAmount:  10000,
		FeeAmount:     500,
		Currency:      "RUB",
		Status:        models.EscrowStatusFunded,
	}
}

func TestSettlementService_CreateAccount_Success(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	cfg := &models.FeeConfiguration{FeePercentage: 5.0, MinFee: 50, MaxFee: 500}
	m.fees.On("GetActiveForAmount", ctx, "goods", float64(10000), mock.Anything).Return(cfg, nil)
	m.store.On("CreateAccount", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.CreateAccount(ctx, validCreateInput())
	assert.NoError(t, err)
	assert.Equal(t, float64(10000), result.TotalAmount)
	assert.Equal(t, float64(500), result.FeeAmount)
	assert.Contains(t, result.AccountNumber, "ESC-")
	assert.NotNil(t, result.ExpiresAt)
	assert.Len(t, m.events.events, 1)
	assert.Equal(t, models.AuditEventCreated, m.events.events[0].EventType)
	m.store.AssertExpectations(t)
}

func TestSettlementService_CreateAccount_InvalidAmount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	input := validCreateInput()
	input.TotalAmount = 0

	_, err := svc.CreateAccount(ctx, input)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidAmount, apperror.CodeOf(err))
}

func TestSettlementService_CreateAccount_InvalidEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	input := validCreateInput()
	input.Buyer.Email = "not-an-email"

	_, err := svc.CreateAccount(ctx, input)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}

func TestSettlementService_FundAccount_Success(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	account.Status = models.EscrowStatusPending
	account.FundedAmount = 0
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)

	funded := *account
	funded.FundedAmount = 10000
	funded.Status = models.EscrowStatusFunded
	m.store.On("ApplyDeposit", ctx, mock.Anything, mock.Anything).Return(&repository.MovementResult{
		Account:  &funded,
		Movement: &models.FundMovement{Amount: 10000, Type: models.MovementTypeDeposit},
	}, nil)

	result, err := svc.FundAccount(ctx, FundInput{
		AccountID:   account.ID,
		Amount:      10000,
		InitiatedBy: "test-client",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.EscrowStatusFunded, result.Account.Status)
	assert.Len(t, m.events.events, 1)
}

func TestSettlementService_FundAccount_InvalidAmount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.FundAccount(ctx, FundInput{AccountID: uuid.New(), Amount: -5})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidAmount, apperror.CodeOf(err))
}

func TestSettlementService_FundAccount_ExceedsTotal(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	m.store.On("ApplyDeposit", ctx, mock.Anything, mock.Anything).Return(nil, repository.ErrExceedsTotal)

	_, err := svc.FundAccount(ctx, FundInput{AccountID: account.ID, Amount: 5000, InitiatedBy: "x"})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidAmount, apperror.CodeOf(err))
	assert.Contains(t, err.Error(), "превышает сумму сделки")
}

func TestSettlementService_FundAccount_DuplicateExternalRef(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	m.store.On("ApplyDeposit", ctx, mock.Anything, mock.Anything).Return(&repository.MovementResult{
		Account:   account,
		Movement:  &models.FundMovement{Amount: 10000},
		Duplicate: true,
	}, nil)

	ref := "pay-123"
	result, err := svc.FundAccount(ctx, FundInput{
		AccountID:   account.ID,
		Amount:      10000,
		ExternalRef: &ref,
		InitiatedBy: "x",
	})
	assert.NoError(t, err)
	assert.True(t, result.Duplicate)
	// Повторное событие не публикуется
	assert.Empty(t, m.events.events)
}

func TestSettlementService_ReleaseFunds_ConditionsUnmet(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	m.store.On("ApplyRelease", ctx, mock.Anything, float64(0), mock.Anything).Return(nil, repository.ErrConditionsUnmet)
	m.conditions.On("CountMandatory", ctx, account.ID).Return(1, 2, nil)

	_, err := svc.ReleaseFunds(ctx, ReleaseInput{AccountID: account.ID, ReleasedBy: "x"})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodePreconditionUnmet, apperror.CodeOf(err))
	assert.Contains(t, err.Error(), "выполнено 1 из 2")
}

func TestSettlementService_ReleaseFunds_ApprovalMissing(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	m.store.On("ApplyRelease", ctx, mock.Anything, float64(0), mock.Anything).Return(nil, repository.ErrApprovalMissing)

	_, err := svc.ReleaseFunds(ctx, ReleaseInput{AccountID: account.ID, ReleasedBy: "x"})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodePreconditionUnmet, apperror.CodeOf(err))
}

func TestSettlementService_ReleaseFunds_PartialNotAllowed(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	amount := 3000.0
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	m.store.On("ApplyRelease", ctx, mock.Anything, amount, mock.Anything).Return(nil, repository.ErrPartialNotAllowed)

	_, err := svc.ReleaseFunds(ctx, ReleaseInput{AccountID: account.ID, Amount: &amount, ReleasedBy: "x"})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodePolicyViolation, apperror.CodeOf(err))
}

func TestSettlementService_ReleaseFunds_FullAmount(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	account.BuyerApproved = true
	account.SellerApproved = true
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)

	released := *account
	released.ReleasedAmount = 9500
	released.Status = models.EscrowStatusReleased
	m.store.On("ApplyRelease", ctx, mock.Anything, float64(0), mock.Anything).Return(&repository.MovementResult{
		Account:  &released,
		Movement: &models.FundMovement{Amount: 9500, Type: models.MovementTypeRelease},
	}, nil)

	result, err := svc.ReleaseFunds(ctx, ReleaseInput{AccountID: account.ID, ReleasedBy: "x"})
	assert.NoError(t, err)
	// Продавцу уходит funded минус комиссия: 10000 - 500
	assert.Equal(t, float64(9500), result.Movement.Amount)
	assert.Equal(t, models.EscrowStatusReleased, result.Account.Status)
}

func TestSettlementService_RefundFunds_ExceedsBalance(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	amount := 12000.0
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	m.store.On("ApplyRefund", ctx, mock.Anything, amount, mock.Anything).Return(nil, repository.ErrInsufficientBalance)

	_, err := svc.RefundFunds(ctx, RefundInput{
		AccountID:  account.ID,
		Amount:     &amount,
		Reason:     "товар не доставлен",
		RefundedBy: "x",
	})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidAmount, apperror.CodeOf(err))
}

func TestSettlementService_CancelAccount_AfterRelease(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	account.Status = models.EscrowStatusReleased
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	m.store.On("ApplyCancel", ctx, account.ID, mock.Anything).Return(nil, repository.ErrInvalidStatus)

	_, err := svc.CancelAccount(ctx, account.ID, "передумали", "x")
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
	assert.Contains(t, err.Error(), models.EscrowStatusReleased)
}

func TestSettlementService_ApproveRelease_InvalidApprover(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ApproveRelease(ctx, uuid.New(), "lawyer", "x")
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}

func TestSettlementService_ApproveRelease_TransitionsToPendingRelease(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	account.RequiresBothApproval = true
	account.BuyerApproved = true
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)

	approved := *account
	approved.SellerApproved = true
	approved.Status = models.EscrowStatusPendingRelease
	m.store.On("ApplyApproval", ctx, account.ID, models.PartyTypeSeller, mock.Anything).Return(&approved, nil)

	result, err := svc.ApproveRelease(ctx, account.ID, models.PartyTypeSeller, "x")
	assert.NoError(t, err)
	assert.Equal(t, models.EscrowStatusPendingRelease, result.Status)
}

func TestSettlementService_FileDispute_AlreadyOpen(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	m.store.On("ApplyDisputeFiled", ctx, mock.Anything, mock.Anything).Return(repository.ErrDisputeAlreadyOpen)

	_, err := svc.FileDispute(ctx, FileDisputeInput{
		AccountID:      account.ID,
		FiledByType:    models.PartyTypeBuyer,
		Reason:         "товар не соответствует описанию",
		DisputedAmount: 5000,
		Category:       "quality",
	})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
}

func TestSettlementService_FileDispute_AmountExceedsTotal(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)

	_, err := svc.FileDispute(ctx, FileDisputeInput{
		AccountID:      account.ID,
		FiledByType:    models.PartyTypeSeller,
		Reason:         "покупатель затягивает приёмку",
		DisputedAmount: 50000,
	})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeInvalidAmount, apperror.CodeOf(err))
}

func TestSettlementService_ResolveDispute_SplitRequiresAmounts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ResolveDispute(ctx, ResolveDisputeInput{
		DisputeID:  uuid.New(),
		Resolution: ResolutionSplit,
		ResolvedBy: "x",
	})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}

func TestSettlementService_MarkConditionMet_RequiresEvidence(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	cond := &models.ReleaseCondition{
		ID:               uuid.New(),
		EscrowAccountID:  uuid.New(),
		Name:             "Подтверждение доставки",
		RequiresEvidence: true,
		Status:           models.ConditionStatusPending,
	}
	m.conditions.On("GetByID", ctx, cond.ID).Return(cond, nil)

	_, err := svc.MarkConditionMet(ctx, MarkConditionInput{
		ConditionID: cond.ID,
		VerifiedBy:  "x",
	})
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}

func TestSettlementService_GetAccount_NotFound(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	accountID := uuid.New()

	m.accounts.On("GetByID", ctx, accountID).Return(nil, repository.ErrAccountNotFound)

	_, err := svc.GetAccount(ctx, accountID)
	assert.Error(t, err)
	assert.Equal(t, apperror.ErrCodeNotFound, apperror.CodeOf(err))
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsBusinessRejection(err))
}

func TestSettlementService_GetAccount_CachesDetail(t *testing.T) {
	svc, m := newTestService()
	svc.SetCache(NewCacheService(context.Background()))
	ctx := context.Background()

	account := fundedAccount()
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil).Once()
	m.conditions.On("ListByAccount", ctx, account.ID).Return([]models.ReleaseCondition{}, nil).Once()
	m.movements.On("ListByAccount", ctx, account.ID).Return([]models.FundMovement{}, nil).Once()
	m.disputes.On("ListByAccount", ctx, account.ID).Return([]models.EscrowDispute{}, nil).Once()

	first, err := svc.GetAccount(ctx, account.ID)
	assert.NoError(t, err)

	// Повторный запрос обслуживается из кэша, читатели не вызываются
	second, err := svc.GetAccount(ctx, account.ID)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	m.accounts.AssertExpectations(t)
}

func TestSettlementService_GetMovementByNumber_NotFound(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	m.movements.On("GetByTransactionNumber", ctx, "TXN-MISSING").Return(nil, repository.ErrMovementNotFound)

	_, err := svc.GetMovementByNumber(ctx, "TXN-MISSING")
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSettlementService_GetMovementByNumber_Success(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	mv := &models.FundMovement{ID: uuid.New(), TransactionNumber: "TXN-1", Amount: 10000}
	m.movements.On("GetByTransactionNumber", ctx, "TXN-1").Return(mv, nil)

	got, err := svc.GetMovementByNumber(ctx, "TXN-1")
	assert.NoError(t, err)
	assert.Equal(t, mv, got)
}

func TestSettlementService_CheckLedger_Consistent(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	account.FundedAmount = 10.37
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	// Сумма депозитов из журнала накапливает погрешность float64
	m.movements.On("SumDeposits", ctx, account.ID).Return(9.98+0.39, nil)

	check, err := svc.CheckLedger(ctx, account.ID)
	assert.NoError(t, err)
	assert.True(t, check.Consistent)
}

func TestSettlementService_CheckLedger_Mismatch(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	account := fundedAccount()
	m.accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	m.movements.On("SumDeposits", ctx, account.ID).Return(9500.0, nil)

	check, err := svc.CheckLedger(ctx, account.ID)
	assert.NoError(t, err)
	assert.False(t, check.Consistent)
	assert.Equal(t, 9500.0, check.DepositTotal)
	assert.Equal(t, 10000.0, check.FundedAmount)
}

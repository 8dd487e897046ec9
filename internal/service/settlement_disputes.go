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

// Итоги разрешения спора.
const (
	ResolutionReleaseToSeller = "release_to_seller"
	ResolutionRefundToBuyer   = "refund_to_buyer"
	ResolutionSplit           = "split"
	ResolutionDismissed       = "dismissed"
)

// FileDisputeInput — входные данные подачи спора.
type FileDisputeInput struct {
	AccountID      uuid.UUID
	FiledByType    string // buyer или seller
	Reason         string
	Description    *string
	DisputedAmount float64
	Category       string
}

// FileDispute открывает спор по счёту. Счёт переходит в disputed,
// движение средств блокируется до разрешения.
func (s *SettlementService) FileDispute(ctx context.Context, input FileDisputeInput) (*models.EscrowDispute, error) {
	if input.FiledByType != models.PartyTypeBuyer && input.FiledByType != models.PartyTypeSeller {
		return nil, apperror.New(apperror.ErrCodeValidation, "спор может подать только сторона сделки")
	}
	if err := validation.ValidateLength("причина спора", input.Reason,
		validation.MinReasonLength, validation.MaxReasonLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	account, err := s.getAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if input.DisputedAmount < 0 || input.DisputedAmount > account.TotalAmount {
		return nil, apperror.New(apperror.ErrCodeInvalidAmount, "оспариваемая сумма превышает сумму сделки")
	}

	filedByID, filedByName := account.BuyerID, account.BuyerName
	if input.FiledByType == models.PartyTypeSeller {
		filedByID, filedByName = account.SellerID, account.SellerName
	}

	now := time.Now()
	dispute := &models.EscrowDispute{
		ID:              uuid.New(),
		EscrowAccountID: account.ID,
		DisputeNumber:   GenerateDisputeNumber(now),
		FiledByID:       filedByID,
		FiledByName:     filedByName,
		FiledByType:     input.FiledByType,
		Reason:          input.Reason,
		Description:     input.Description,
		DisputedAmount:  input.DisputedAmount,
		Category:        input.Category,
	}
	audit := newAudit(account.ID, models.AuditEventDisputeFiled,
		fmt.Sprintf("Спор %s подан стороной %s: %s", dispute.DisputeNumber, input.FiledByType, input.Reason),
		filedByName)
	audit.AmountInvolved = &input.DisputedAmount

	if err := s.store.ApplyDisputeFiled(ctx, dispute, audit); err != nil {
		return nil, s.mapStoreError(ctx, err, account.ID)
	}

	s.publishAccountEvent(ctx, account.ID, models.AuditEventDisputeFiled)
	return dispute, nil
}

// StartDisputeReview переводит спор в рассмотрение.
func (s *SettlementService) StartDisputeReview(ctx context.Context, disputeID uuid.UUID, reviewedBy string) (*models.EscrowDispute, error) {
	dispute, err := s.getDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	audit := newAudit(dispute.EscrowAccountID, models.AuditEventDisputeReview,
		fmt.Sprintf("Спор %s принят в рассмотрение", dispute.DisputeNumber), reviewedBy)

	updated, err := s.store.ApplyDisputeReview(ctx, disputeID, audit)
	if err != nil {
		return nil, s.mapStoreError(ctx, err, dispute.EscrowAccountID)
	}

	s.publishAccountEvent(ctx, dispute.EscrowAccountID, models.AuditEventDisputeReview)
	return updated, nil
}

// ResolveDisputeInput — входные данные разрешения спора.
type ResolveDisputeInput struct {
	DisputeID            uuid.UUID
	Resolution           string
	ResolutionNotes      *string
	ResolvedBuyerAmount  *float64
	ResolvedSellerAmount *float64
	ResolvedBy           string
}

// ResolveDispute фиксирует решение по спору. Средства при этом не двигаются:
// исполнение итога — отдельные вызовы ReleaseFunds и RefundFunds, которые
// снова становятся доступны, когда по счёту нет открытых споров.
func (s *SettlementService) ResolveDispute(ctx context.Context, input ResolveDisputeInput) (*models.EscrowDispute, error) {
	switch input.Resolution {
	case ResolutionReleaseToSeller, ResolutionRefundToBuyer, ResolutionSplit, ResolutionDismissed:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый итог разрешения спора")
	}
	if input.Resolution == ResolutionSplit &&
		(input.ResolvedBuyerAmount == nil || input.ResolvedSellerAmount == nil) {
		return nil, apperror.New(apperror.ErrCodeValidation, "для раздела средств нужны суммы обеих сторон")
	}

	dispute, err := s.getDispute(ctx, input.DisputeID)
	if err != nil {
		return nil, err
	}

	audit := newAudit(dispute.EscrowAccountID, models.AuditEventDisputeResolved,
		fmt.Sprintf("Спор %s разрешён: %s", dispute.DisputeNumber, input.Resolution),
		input.ResolvedBy)

	updated, err := s.store.ApplyDisputeResolved(ctx, input.DisputeID, repository.DisputeResolution{
		Resolution:           input.Resolution,
		ResolutionNotes:      input.ResolutionNotes,
		ResolvedBuyerAmount:  input.ResolvedBuyerAmount,
		ResolvedSellerAmount: input.ResolvedSellerAmount,
		ResolvedBy:           input.ResolvedBy,
	}, audit)
	if err != nil {
		return nil, s.mapStoreError(ctx, err, dispute.EscrowAccountID)
	}

	s.publishAccountEvent(ctx, dispute.EscrowAccountID, models.AuditEventDisputeResolved)
	return updated, nil
}

// getDispute загружает спор с типизированной ошибкой "не найден".
func (s *SettlementService) getDispute(ctx context.Context, disputeID uuid.UUID) (*models.EscrowDispute, error) {
	dispute, err := s.disputes.GetByID(ctx, disputeID)
	if err != nil {
		if errors.Is(err, repository.ErrDisputeNotFound) {
			return nil, apperror.ErrDisputeNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить спор")
	}
	return dispute, nil
}

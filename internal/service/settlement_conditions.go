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

// AddCondition добавляет условие освобождения к существующему счёту.
func (s *SettlementService) AddCondition(ctx context.Context, accountID uuid.UUID, input ConditionInput, addedBy string) (*models.ReleaseCondition, error) {
	if err := validation.ValidateLength("название условия", input.Name, 1, validation.MaxConditionNameLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	existing, err := s.conditions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить условия счёта")
	}
	if len(existing) >= validation.MaxConditionsPerAccount {
		return nil, apperror.New(apperror.ErrCodeValidation, "достигнут предел количества условий для счёта")
	}

	cond := &models.ReleaseCondition{
		ID:               uuid.New(),
		EscrowAccountID:  account.ID,
		Type:             input.Type,
		Name:             input.Name,
		Description:      input.Description,
		IsMandatory:      input.IsMandatory,
		SortOrder:        input.SortOrder,
		RequiresEvidence: input.RequiresEvidence,
		DueDate:          input.DueDate,
	}
	audit := newAudit(account.ID, models.AuditEventConditionAdded,
		fmt.Sprintf("Добавлено условие «%s»", input.Name), addedBy)

	if err := s.store.AddCondition(ctx, cond, audit); err != nil {
		return nil, s.mapStoreError(ctx, err, account.ID)
	}

	s.afterMutation(account, models.AuditEventConditionAdded, nil)
	return cond, nil
}

// MarkConditionInput — входные данные отметки условия.
type MarkConditionInput struct {
	ConditionID        uuid.UUID
	ActualValue        *string
	EvidenceDocumentID *uuid.UUID
	VerifiedBy         string
	Notes              *string
}

// MarkConditionMet отмечает условие выполненным. Когда выполнены все
// обязательные условия, счёт переходит в conditions_met.
func (s *SettlementService) MarkConditionMet(ctx context.Context, input MarkConditionInput) (*models.ReleaseCondition, error) {
	cond, err := s.getCondition(ctx, input.ConditionID)
	if err != nil {
		return nil, err
	}
	if cond.RequiresEvidence && input.EvidenceDocumentID == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "условие требует подтверждающий документ")
	}

	audit := newAudit(cond.EscrowAccountID, models.AuditEventConditionMet,
		fmt.Sprintf("Условие «%s» выполнено (проверил: %s)", cond.Name, input.VerifiedBy),
		input.VerifiedBy)

	updated, err := s.store.ApplyConditionMet(ctx, input.ConditionID, repository.ConditionUpdate{
		ActualValue:        input.ActualValue,
		EvidenceDocumentID: input.EvidenceDocumentID,
		VerifiedBy:         input.VerifiedBy,
		Notes:              input.Notes,
	}, audit)
	if err != nil {
		return nil, s.mapStoreError(ctx, err, cond.EscrowAccountID)
	}

	s.publishAccountEvent(ctx, cond.EscrowAccountID, models.AuditEventConditionMet)
	return updated, nil
}

// MarkConditionFailed отмечает условие невыполненным.
// Статус счёта при этом не меняется: решение — спор или возврат — за сторонами.
func (s *SettlementService) MarkConditionFailed(ctx context.Context, conditionID uuid.UUID, verifiedBy string, notes *string) (*models.ReleaseCondition, error) {
	cond, err := s.getCondition(ctx, conditionID)
	if err != nil {
		return nil, err
	}

	audit := newAudit(cond.EscrowAccountID, models.AuditEventConditionFailed,
		fmt.Sprintf("Условие «%s» отмечено невыполненным", cond.Name), verifiedBy)

	updated, err := s.store.ApplyConditionFailed(ctx, conditionID, verifiedBy, notes, audit)
	if err != nil {
		return nil, s.mapStoreError(ctx, err, cond.EscrowAccountID)
	}

	s.publishAccountEvent(ctx, cond.EscrowAccountID, models.AuditEventConditionFailed)
	return updated, nil
}

// ConditionProgress — сводка выполнения обязательных условий счёта.
type ConditionProgress struct {
	Met        int                       `json:"met"`
	Total      int                       `json:"total"`
	AllMet     bool                      `json:"all_met"`
	Conditions []models.ReleaseCondition `json:"conditions"`
}

// ConditionsProgress возвращает условия счёта со сводкой по обязательным.
func (s *SettlementService) ConditionsProgress(ctx context.Context, accountID uuid.UUID) (*ConditionProgress, error) {
	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}

	conditions, err := s.conditions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить условия счёта")
	}
	met, total, err := s.conditions.CountMandatory(ctx, accountID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить сводку условий")
	}

	return &ConditionProgress{
		Met:        met,
		Total:      total,
		AllMet:     met == total,
		Conditions: conditions,
	}, nil
}

// getCondition загружает условие с типизированной ошибкой "не найдено".
func (s *SettlementService) getCondition(ctx context.Context, conditionID uuid.UUID) (*models.ReleaseCondition, error) {
	cond, err := s.conditions.GetByID(ctx, conditionID)
	if err != nil {
		if errors.Is(err, repository.ErrConditionNotFound) {
			return nil, apperror.ErrConditionNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить условие")
	}
	return cond, nil
}

// publishAccountEvent перечитывает счёт и публикует событие с его актуальным
// статусом. Для команд, где хранилище не возвращает счёт целиком.
func (s *SettlementService) publishAccountEvent(ctx context.Context, accountID uuid.UUID, eventType string) {
	if s.cache != nil {
		s.cache.InvalidateAccountCache(accountID)
	}
	if s.publisher == nil {
		return
	}
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return
	}
	s.publisher.PublishEscrowEvent(EscrowEvent{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		EventType:     eventType,
		Status:        account.Status,
		OccurredAt:    time.Now(),
	})
}

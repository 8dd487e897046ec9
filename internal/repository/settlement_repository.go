package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/repository/common"
)

// Ошибки повторной проверки внутри транзакции. Сервис валидирует команду
// заранее, но авторитетная проверка выполняется здесь, под блокировкой
// строки счёта: две конкурирующие команды не могут обе пройти по одному
// и тому же остатку.
var (
	ErrInvalidStatus       = errors.New("operation not allowed in current account status")
	ErrExceedsTotal        = errors.New("deposit exceeds account total amount")
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrConditionsUnmet     = errors.New("mandatory release conditions are not met")
	ErrApprovalMissing     = errors.New("release approval policy is not satisfied")
	ErrPartialNotAllowed   = errors.New("partial operation is not allowed for this account")
	ErrOpenDispute         = errors.New("account has an open dispute")
	ErrDisputeAlreadyOpen  = errors.New("an open dispute already exists for this account")
	ErrDisputeFinal        = errors.New("dispute is already resolved")
	ErrConditionFinal      = errors.New("condition is already in a final status")
)

// SettlementRepository выполняет все команды, затрагивающие деньги и статус
// escrow счёта. Каждая команда — одна транзакция: SELECT ... FOR UPDATE на
// строке счёта, запись в журнал движений, обновление кэшированных сумм и
// запись аудита. Частичное применение невозможно.
type SettlementRepository struct {
	db *sqlx.DB
}

func NewSettlementRepository(db *sqlx.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// MovementResult возвращается денежными командами.
type MovementResult struct {
	Account   *models.EscrowAccount
	Movement  *models.FundMovement
	Duplicate bool
}

// CreateAccount сохраняет новый счёт вместе с начальными условиями
// и записью аудита о создании.
func (r *SettlementRepository) CreateAccount(ctx context.Context, a *models.EscrowAccount, conditions []models.ReleaseCondition, audit *models.AuditLogEntry) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, a, `
			INSERT INTO escrow_accounts (
				id, account_number,
				buyer_id, buyer_name, buyer_email, buyer_phone,
				seller_id, seller_name, seller_email, seller_phone,
				subject_type, subject_id, subject_description, contract_id, transaction_type,
				total_amount, funded_amount, released_amount, refunded_amount, pending_amount,
				fee_amount, fee_percentage, currency,
				requires_both_approval, allow_partial_release, auto_release_enabled, release_delay_days,
				status, expires_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15,
				$16, 0, 0, 0, $16,
				$17, $18, $19,
				$20, $21, $22, $23,
				'pending', $24
			)
			RETURNING *
		`,
			a.ID, a.AccountNumber,
			a.BuyerID, a.BuyerName, a.BuyerEmail, a.BuyerPhone,
			a.SellerID, a.SellerName, a.SellerEmail, a.SellerPhone,
			a.SubjectType, a.SubjectID, a.SubjectDescription, a.ContractID, a.TransactionType,
			a.TotalAmount,
			a.FeeAmount, a.FeePercentage, a.Currency,
			a.RequiresBothApproval, a.AllowPartialRelease, a.AutoReleaseEnabled, a.ReleaseDelayDays,
			a.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("settlement repository: create account %w", err)
		}

		for i := range conditions {
			if err := insertCondition(ctx, tx, &conditions[i]); err != nil {
				return err
			}
		}

		return insertAudit(ctx, tx, audit)
	})
}

// ApplyDeposit применяет пополнение счёта. Дедупликация по external_ref
// выполняется внутри транзакции: повтор с тем же ключом возвращает
// существующее движение и не изменяет суммы.
func (r *SettlementRepository) ApplyDeposit(ctx context.Context, mv *models.FundMovement, audit *models.AuditLogEntry) (*MovementResult, error) {
	var result *MovementResult
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		account, err := lockAccount(ctx, tx, mv.EscrowAccountID)
		if err != nil {
			return err
		}
		if account.Status != models.EscrowStatusPending && account.Status != models.EscrowStatusFunded {
			return ErrInvalidStatus
		}

		if existing, err := findByExternalRef(ctx, tx, mv.EscrowAccountID, mv.ExternalRef); err != nil {
			return err
		} else if existing != nil {
			result = &MovementResult{Account: account, Movement: existing, Duplicate: true}
			return nil
		}

		outcome, err := decideDeposit(account.FundedAmount, mv.Amount, account.TotalAmount)
		if err != nil {
			return err
		}

		mv.Type = outcome.MovementType
		saved, err := insertMovement(ctx, tx, mv)
		if err != nil {
			return err
		}

		account.FundedAmount = outcome.FundedAmount
		account.PendingAmount = outcome.PendingAmount
		if outcome.FullyFunded {
			now := time.Now()
			account.FundedAt = &now
			pending, err := pendingConditionCount(ctx, tx, account.ID)
			if err != nil {
				return err
			}
			account.Status = fundedStatus(pending)
		}

		if err := saveAccount(ctx, tx, account); err != nil {
			return err
		}
		if err := insertAudit(ctx, tx, audit); err != nil {
			return err
		}

		result = &MovementResult{Account: account, Movement: saved}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyRelease освобождает средства продавцу. Все предусловия перепроверяются
// на заблокированной строке: вторая конкурирующая попытка увидит уже
// обновлённый released_amount и получит отказ по остатку.
func (r *SettlementRepository) ApplyRelease(ctx context.Context, mv *models.FundMovement, requestedAmount float64, audit *models.AuditLogEntry) (*MovementResult, error) {
	var result *MovementResult
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		account, err := lockAccount(ctx, tx, mv.EscrowAccountID)
		if err != nil {
			return err
		}
		if err := checkMoneyMovementAllowed(ctx, tx, account); err != nil {
			return err
		}

		unmet, err := unmetMandatoryCount(ctx, tx, account.ID)
		if err != nil {
			return err
		}
		if unmet > 0 {
			return ErrConditionsUnmet
		}
		if !account.ApprovalSatisfied() {
			return ErrApprovalMissing
		}

		if existing, err := findByExternalRef(ctx, tx, mv.EscrowAccountID, mv.ExternalRef); err != nil {
			return err
		} else if existing != nil {
			result = &MovementResult{Account: account, Movement: existing, Duplicate: true}
			return nil
		}

		outcome, err := decideRelease(account, requestedAmount)
		if err != nil {
			return err
		}

		mv.Amount = outcome.Amount
		mv.Type = outcome.MovementType
		saved, err := insertMovement(ctx, tx, mv)
		if err != nil {
			return err
		}

		account.ReleasedAmount += outcome.Amount
		account.Status = outcome.Status
		if outcome.Status == models.EscrowStatusReleased {
			now := time.Now()
			account.ReleasedAt = &now
		}

		if err := saveAccount(ctx, tx, account); err != nil {
			return err
		}
		audit.AmountInvolved = &outcome.Amount
		if err := insertAudit(ctx, tx, audit); err != nil {
			return err
		}

		result = &MovementResult{Account: account, Movement: saved}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyRefund возвращает средства покупателю.
func (r *SettlementRepository) ApplyRefund(ctx context.Context, mv *models.FundMovement, requestedAmount float64, audit *models.AuditLogEntry) (*MovementResult, error) {
	var result *MovementResult
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		account, err := lockAccount(ctx, tx, mv.EscrowAccountID)
		if err != nil {
			return err
		}
		if err := checkMoneyMovementAllowed(ctx, tx, account); err != nil {
			return err
		}

		if existing, err := findByExternalRef(ctx, tx, mv.EscrowAccountID, mv.ExternalRef); err != nil {
			return err
		} else if existing != nil {
			result = &MovementResult{Account: account, Movement: existing, Duplicate: true}
			return nil
		}

		outcome, err := decideRefund(account, requestedAmount)
		if err != nil {
			return err
		}

		mv.Amount = outcome.Amount
		mv.Type = outcome.MovementType
		saved, err := insertMovement(ctx, tx, mv)
		if err != nil {
			return err
		}

		now := time.Now()
		account.RefundedAmount += outcome.Amount
		account.Status = models.EscrowStatusRefunded
		account.RefundedAt = &now

		if err := saveAccount(ctx, tx, account); err != nil {
			return err
		}
		audit.AmountInvolved = &outcome.Amount
		if err := insertAudit(ctx, tx, audit); err != nil {
			return err
		}

		result = &MovementResult{Account: account, Movement: saved}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyApproval фиксирует одобрение освобождения одной из сторон.
func (r *SettlementRepository) ApplyApproval(ctx context.Context, accountID uuid.UUID, approverType string, audit *models.AuditLogEntry) (*models.EscrowAccount, error) {
	var account *models.EscrowAccount
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		account, err = lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if models.IsTerminalEscrowStatus(account.Status) || account.Status == models.EscrowStatusDisputed {
			return ErrInvalidStatus
		}

		now := time.Now()
		switch approverType {
		case models.PartyTypeBuyer:
			account.BuyerApproved = true
			account.BuyerApprovedAt = &now
		case models.PartyTypeSeller:
			account.SellerApproved = true
			account.SellerApprovedAt = &now
		default:
			return common.ErrInvalidInput
		}

		// Переход в pending_release только из профинансированных статусов
		// до первого освобождения.
		if account.ApprovalSatisfied() {
			switch account.Status {
			case models.EscrowStatusFunded, models.EscrowStatusInProgress, models.EscrowStatusConditionsMet:
				account.Status = models.EscrowStatusPendingRelease
			}
		}

		if err := saveAccount(ctx, tx, account); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ApplyCancel отменяет счёт. Отмена после освобождения или возврата запрещена.
func (r *SettlementRepository) ApplyCancel(ctx context.Context, accountID uuid.UUID, audit *models.AuditLogEntry) (*models.EscrowAccount, error) {
	var account *models.EscrowAccount
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		account, err = lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if models.IsTerminalEscrowStatus(account.Status) {
			return ErrInvalidStatus
		}

		now := time.Now()
		account.Status = models.EscrowStatusCancelled
		account.CancelledAt = &now

		if err := saveAccount(ctx, tx, account); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// AddCondition добавляет условие освобождения до освобождения средств.
// Если счёт уже считал условия выполненными, новое обязательное условие
// возвращает его в работу.
func (r *SettlementRepository) AddCondition(ctx context.Context, cond *models.ReleaseCondition, audit *models.AuditLogEntry) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		account, err := lockAccount(ctx, tx, cond.EscrowAccountID)
		if err != nil {
			return err
		}
		if models.IsTerminalEscrowStatus(account.Status) ||
			account.Status == models.EscrowStatusPartialRelease {
			return ErrInvalidStatus
		}

		if err := insertCondition(ctx, tx, cond); err != nil {
			return err
		}

		if account.Status == models.EscrowStatusConditionsMet && cond.IsMandatory {
			account.Status = models.EscrowStatusInProgress
			if err := saveAccount(ctx, tx, account); err != nil {
				return err
			}
		}

		return insertAudit(ctx, tx, audit)
	})
}

// ConditionUpdate содержит данные отметки условия.
type ConditionUpdate struct {
	ActualValue        *string
	EvidenceDocumentID *uuid.UUID
	VerifiedBy         string
	Notes              *string
}

// ApplyConditionMet отмечает условие выполненным и, если все обязательные
// условия счёта выполнены, переводит счёт в conditions_met.
func (r *SettlementRepository) ApplyConditionMet(ctx context.Context, conditionID uuid.UUID, upd ConditionUpdate, audit *models.AuditLogEntry) (*models.ReleaseCondition, error) {
	var cond *models.ReleaseCondition
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		cond, err = lockCondition(ctx, tx, conditionID)
		if err != nil {
			return err
		}
		if cond.Status != models.ConditionStatusPending {
			return ErrConditionFinal
		}

		account, err := lockAccount(ctx, tx, cond.EscrowAccountID)
		if err != nil {
			return err
		}

		now := time.Now()
		cond.Status = models.ConditionStatusMet
		cond.ActualValue = upd.ActualValue
		cond.EvidenceDocumentID = upd.EvidenceDocumentID
		cond.VerifiedBy = &upd.VerifiedBy
		cond.Notes = upd.Notes
		cond.MetAt = &now

		_, err = tx.ExecContext(ctx, `
			UPDATE release_conditions
			SET status = $2, actual_value = $3, evidence_document_id = $4,
			    verified_by = $5, notes = $6, met_at = $7
			WHERE id = $1
		`, cond.ID, cond.Status, cond.ActualValue, cond.EvidenceDocumentID,
			cond.VerifiedBy, cond.Notes, cond.MetAt)
		if err != nil {
			return fmt.Errorf("settlement repository: update condition %w", err)
		}

		unmet, err := unmetMandatoryCount(ctx, tx, account.ID)
		if err != nil {
			return err
		}
		if unmet == 0 &&
			(account.Status == models.EscrowStatusFunded || account.Status == models.EscrowStatusInProgress) {
			account.Status = models.EscrowStatusConditionsMet
			if err := saveAccount(ctx, tx, account); err != nil {
				return err
			}
		}

		audit.EscrowAccountID = account.ID
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return cond, nil
}

// ApplyConditionFailed отмечает условие невыполненным.
func (r *SettlementRepository) ApplyConditionFailed(ctx context.Context, conditionID uuid.UUID, verifiedBy string, notes *string, audit *models.AuditLogEntry) (*models.ReleaseCondition, error) {
	var cond *models.ReleaseCondition
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		cond, err = lockCondition(ctx, tx, conditionID)
		if err != nil {
			return err
		}
		if cond.Status != models.ConditionStatusPending {
			return ErrConditionFinal
		}

		cond.Status = models.ConditionStatusFailed
		cond.VerifiedBy = &verifiedBy
		cond.Notes = notes

		_, err = tx.ExecContext(ctx, `
			UPDATE release_conditions SET status = $2, verified_by = $3, notes = $4 WHERE id = $1
		`, cond.ID, cond.Status, cond.VerifiedBy, cond.Notes)
		if err != nil {
			return fmt.Errorf("settlement repository: update condition %w", err)
		}

		audit.EscrowAccountID = cond.EscrowAccountID
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return cond, nil
}

// ApplyDisputeFiled регистрирует спор и замораживает счёт.
// Одновременно может быть открыт только один спор.
func (r *SettlementRepository) ApplyDisputeFiled(ctx context.Context, d *models.EscrowDispute, audit *models.AuditLogEntry) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		account, err := lockAccount(ctx, tx, d.EscrowAccountID)
		if err != nil {
			return err
		}
		if models.IsTerminalEscrowStatus(account.Status) {
			return ErrInvalidStatus
		}

		open, err := openDisputeCount(ctx, tx, account.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrDisputeAlreadyOpen
		}

		err = tx.GetContext(ctx, d, `
			INSERT INTO escrow_disputes (
				id, escrow_account_id, dispute_number, status,
				filed_by_id, filed_by_name, filed_by_type,
				reason, description, disputed_amount, category
			) VALUES ($1, $2, $3, 'filed', $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		`, d.ID, d.EscrowAccountID, d.DisputeNumber,
			d.FiledByID, d.FiledByName, d.FiledByType,
			d.Reason, d.Description, d.DisputedAmount, d.Category)
		if err != nil {
			return fmt.Errorf("settlement repository: file dispute %w", err)
		}

		account.Status = models.EscrowStatusDisputed
		if err := saveAccount(ctx, tx, account); err != nil {
			return err
		}
		return insertAudit(ctx, tx, audit)
	})
}

// ApplyDisputeReview переводит спор в рассмотрение.
func (r *SettlementRepository) ApplyDisputeReview(ctx context.Context, disputeID uuid.UUID, audit *models.AuditLogEntry) (*models.EscrowDispute, error) {
	var dispute *models.EscrowDispute
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		dispute, err = lockDispute(ctx, tx, disputeID)
		if err != nil {
			return err
		}
		if dispute.Status != models.DisputeStatusFiled {
			return ErrDisputeFinal
		}

		dispute.Status = models.DisputeStatusUnderReview
		_, err = tx.ExecContext(ctx, `UPDATE escrow_disputes SET status = 'under_review' WHERE id = $1`, dispute.ID)
		if err != nil {
			return fmt.Errorf("settlement repository: review dispute %w", err)
		}

		audit.EscrowAccountID = dispute.EscrowAccountID
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return dispute, nil
}

// DisputeResolution содержит итог разрешения спора.
type DisputeResolution struct {
	Resolution           string
	ResolutionNotes      *string
	ResolvedBuyerAmount  *float64
	ResolvedSellerAmount *float64
	ResolvedBy           string
}

// ApplyDisputeResolved фиксирует разрешение спора. Деньги при этом не
// двигаются и статус счёта не меняется: исполнение итога — отдельный
// вызов ReleaseFunds/RefundFunds.
func (r *SettlementRepository) ApplyDisputeResolved(ctx context.Context, disputeID uuid.UUID, res DisputeResolution, audit *models.AuditLogEntry) (*models.EscrowDispute, error) {
	var dispute *models.EscrowDispute
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		dispute, err = lockDispute(ctx, tx, disputeID)
		if err != nil {
			return err
		}
		if dispute.Status == models.DisputeStatusResolved {
			return ErrDisputeFinal
		}

		now := time.Now()
		dispute.Status = models.DisputeStatusResolved
		dispute.Resolution = &res.Resolution
		dispute.ResolutionNotes = res.ResolutionNotes
		dispute.ResolvedBuyerAmount = res.ResolvedBuyerAmount
		dispute.ResolvedSellerAmount = res.ResolvedSellerAmount
		dispute.ResolvedBy = &res.ResolvedBy
		dispute.ResolvedAt = &now

		_, err = tx.ExecContext(ctx, `
			UPDATE escrow_disputes
			SET status = 'resolved', resolution = $2, resolution_notes = $3,
			    resolved_buyer_amount = $4, resolved_seller_amount = $5,
			    resolved_by = $6, resolved_at = $7
			WHERE id = $1
		`, dispute.ID, dispute.Resolution, dispute.ResolutionNotes,
			dispute.ResolvedBuyerAmount, dispute.ResolvedSellerAmount,
			dispute.ResolvedBy, dispute.ResolvedAt)
		if err != nil {
			return fmt.Errorf("settlement repository: resolve dispute %w", err)
		}

		audit.EscrowAccountID = dispute.EscrowAccountID
		return insertAudit(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}
	return dispute, nil
}

// --- вспомогательные функции одной транзакции ---

func lockAccount(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.EscrowAccount, error) {
	var account models.EscrowAccount
	err := tx.GetContext(ctx, &account, `SELECT * FROM escrow_accounts WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("settlement repository: lock account %w", err)
	}
	return &account, nil
}

func lockCondition(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.ReleaseCondition, error) {
	var cond models.ReleaseCondition
	err := tx.GetContext(ctx, &cond, `SELECT * FROM release_conditions WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConditionNotFound
		}
		return nil, fmt.Errorf("settlement repository: lock condition %w", err)
	}
	return &cond, nil
}

func lockDispute(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.EscrowDispute, error) {
	var dispute models.EscrowDispute
	err := tx.GetContext(ctx, &dispute, `SELECT * FROM escrow_disputes WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDisputeNotFound
		}
		return nil, fmt.Errorf("settlement repository: lock dispute %w", err)
	}
	return &dispute, nil
}

// checkMoneyMovementAllowed проверяет, что счёт допускает освобождение/возврат.
// Из статуса disputed движение разрешено только когда все споры разрешены —
// это явный двухшаговый путь исполнения итога спора.
func checkMoneyMovementAllowed(ctx context.Context, tx *sqlx.Tx, account *models.EscrowAccount) error {
	if models.IsFundedEscrowStatus(account.Status) {
		return nil
	}
	if account.Status == models.EscrowStatusDisputed {
		open, err := openDisputeCount(ctx, tx, account.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrOpenDispute
		}
		return nil
	}
	return ErrInvalidStatus
}

func findByExternalRef(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID, ref *string) (*models.FundMovement, error) {
	if ref == nil || *ref == "" {
		return nil, nil
	}
	var mv models.FundMovement
	err := tx.GetContext(ctx, &mv, `
		SELECT * FROM fund_movements WHERE escrow_account_id = $1 AND external_ref = $2
	`, accountID, *ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("settlement repository: external ref lookup %w", err)
	}
	return &mv, nil
}

func insertMovement(ctx context.Context, tx *sqlx.Tx, mv *models.FundMovement) (*models.FundMovement, error) {
	var saved models.FundMovement
	err := tx.GetContext(ctx, &saved, `
		INSERT INTO fund_movements (
			id, escrow_account_id, transaction_number, type, amount, currency,
			party_id, party_name, party_type, status, external_ref, initiated_by, notes, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'completed', $10, $11, $12, NOW())
		RETURNING *
	`, mv.ID, mv.EscrowAccountID, mv.TransactionNumber, mv.Type, mv.Amount, mv.Currency,
		mv.PartyID, mv.PartyName, mv.PartyType, mv.ExternalRef, mv.InitiatedBy, mv.Notes)
	if err != nil {
		return nil, fmt.Errorf("settlement repository: insert movement %w", err)
	}
	return &saved, nil
}

func insertCondition(ctx context.Context, tx *sqlx.Tx, cond *models.ReleaseCondition) error {
	err := tx.GetContext(ctx, cond, `
		INSERT INTO release_conditions (
			id, escrow_account_id, type, name, description, is_mandatory,
			sort_order, requires_evidence, due_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending')
		RETURNING *
	`, cond.ID, cond.EscrowAccountID, cond.Type, cond.Name, cond.Description,
		cond.IsMandatory, cond.SortOrder, cond.RequiresEvidence, cond.DueDate)
	if err != nil {
		return fmt.Errorf("settlement repository: insert condition %w", err)
	}
	return nil
}

func insertAudit(ctx context.Context, tx *sqlx.Tx, entry *models.AuditLogEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO escrow_audit_log (id, escrow_account_id, event_type, description, amount_involved, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.EscrowAccountID, entry.EventType, entry.Description, entry.AmountInvolved, entry.PerformedBy)
	if err != nil {
		return fmt.Errorf("settlement repository: insert audit %w", err)
	}
	return nil
}

func saveAccount(ctx context.Context, tx *sqlx.Tx, a *models.EscrowAccount) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE escrow_accounts SET
			funded_amount = $2, released_amount = $3, refunded_amount = $4, pending_amount = $5,
			buyer_approved = $6, buyer_approved_at = $7, seller_approved = $8, seller_approved_at = $9,
			status = $10, funded_at = $11, released_at = $12, refunded_at = $13, cancelled_at = $14,
			updated_at = NOW()
		WHERE id = $1
	`, a.ID,
		a.FundedAmount, a.ReleasedAmount, a.RefundedAmount, a.PendingAmount,
		a.BuyerApproved, a.BuyerApprovedAt, a.SellerApproved, a.SellerApprovedAt,
		a.Status, a.FundedAt, a.ReleasedAt, a.RefundedAt, a.CancelledAt)
	if err != nil {
		return fmt.Errorf("settlement repository: save account %w", err)
	}
	return nil
}

func pendingConditionCount(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM release_conditions WHERE escrow_account_id = $1 AND status = 'pending'
	`, accountID)
	if err != nil {
		return 0, fmt.Errorf("settlement repository: pending conditions %w", err)
	}
	return count, nil
}

func unmetMandatoryCount(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM release_conditions
		WHERE escrow_account_id = $1 AND is_mandatory = TRUE AND status <> 'met'
	`, accountID)
	if err != nil {
		return 0, fmt.Errorf("settlement repository: unmet mandatory conditions %w", err)
	}
	return count, nil
}

func openDisputeCount(ctx context.Context, tx *sqlx.Tx, accountID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM escrow_disputes WHERE escrow_account_id = $1 AND status <> 'resolved'
	`, accountID)
	if err != nil {
		return 0, fmt.Errorf("settlement repository: open disputes %w", err)
	}
	return count, nil
}

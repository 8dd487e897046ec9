package models

// Статусы escrow счёта
const (
	EscrowStatusPending        = "pending"
	EscrowStatusFunded         = "funded"
	EscrowStatusInProgress     = "in_progress"
	EscrowStatusConditionsMet  = "conditions_met"
	EscrowStatusPendingRelease = "pending_release"
	EscrowStatusReleased       = "released"
	EscrowStatusPartialRelease = "partial_release"
	EscrowStatusDisputed       = "disputed"
	EscrowStatusRefunded       = "refunded"
	EscrowStatusCancelled      = "cancelled"
)

// Типы движений средств
const (
	MovementTypeDeposit           = "deposit"
	MovementTypeAdditionalDeposit = "additional_deposit"
	MovementTypeRelease           = "release"
	MovementTypePartialRelease    = "partial_release"
	MovementTypeRefund            = "refund"
	MovementTypePartialRefund     = "partial_refund"
)

// Статусы движений средств
const (
	MovementStatusPending   = "pending"
	MovementStatusCompleted = "completed"
	MovementStatusFailed    = "failed"
)

// Статусы условий освобождения
const (
	ConditionStatusPending = "pending"
	ConditionStatusMet     = "met"
	ConditionStatusFailed  = "failed"
)

// Статусы споров
const (
	DisputeStatusFiled       = "filed"
	DisputeStatusUnderReview = "under_review"
	DisputeStatusResolved    = "resolved"
)

// Стороны сделки
const (
	PartyTypeBuyer  = "buyer"
	PartyTypeSeller = "seller"
)

// Типы событий аудита
const (
	AuditEventCreated         = "created"
	AuditEventFunded          = "funded"
	AuditEventApproved        = "approved"
	AuditEventConditionAdded  = "condition_added"
	AuditEventConditionMet    = "condition_met"
	AuditEventConditionFailed = "condition_failed"
	AuditEventReleased        = "released"
	AuditEventRefunded        = "refunded"
	AuditEventCancelled       = "cancelled"
	AuditEventDisputeFiled    = "dispute_filed"
	AuditEventDisputeReview   = "dispute_review"
	AuditEventDisputeResolved = "dispute_resolved"
)

// IsTerminalEscrowStatus возвращает true для статусов, из которых нет переходов.
func IsTerminalEscrowStatus(status string) bool {
	return status == EscrowStatusReleased ||
		status == EscrowStatusRefunded ||
		status == EscrowStatusCancelled
}

// IsFundedEscrowStatus возвращает true для статусов, в которых счёт профинансирован
// и средства ещё удерживаются.
func IsFundedEscrowStatus(status string) bool {
	switch status {
	case EscrowStatusFunded, EscrowStatusInProgress, EscrowStatusConditionsMet,
		EscrowStatusPendingRelease, EscrowStatusPartialRelease:
		return true
	}
	return false
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLogEntry представляет запись аудита — параллельного журналу движений
// следа каждого изменения состояния. Журнал движений отвечает на вопрос
// "сколько", аудит — "почему". Записи никогда не изменяются.
type AuditLogEntry struct {
	ID              uuid.UUID `db:"id" json:"id"`
	EscrowAccountID uuid.UUID `db:"escrow_account_id" json:"escrow_account_id"`
	EventType       string    `db:"event_type" json:"event_type"`
	Description     string    `db:"description" json:"description"`
	AmountInvolved  *float64  `db:"amount_involved" json:"amount_involved,omitempty"`
	PerformedBy     string    `db:"performed_by" json:"performed_by"`
	PerformedAt     time.Time `db:"performed_at" json:"performed_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// EscrowDispute представляет спор по escrow счёту.
// Открытый спор переводит счёт в статус disputed и блокирует
// освобождение и возврат средств до разрешения.
type EscrowDispute struct {
	ID              uuid.UUID `db:"id" json:"id"`
	EscrowAccountID uuid.UUID `db:"escrow_account_id" json:"escrow_account_id"`
	DisputeNumber   string    `db:"dispute_number" json:"dispute_number"`
	Status          string    `db:"status" json:"status"`

	FiledByID   uuid.UUID `db:"filed_by_id" json:"filed_by_id"`
	FiledByName string    `db:"filed_by_name" json:"filed_by_name"`
	FiledByType string    `db:"filed_by_type" json:"filed_by_type"`

	Reason         string  `db:"reason" json:"reason"`
	Description    *string `db:"description" json:"description,omitempty"`
	DisputedAmount float64 `db:"disputed_amount" json:"disputed_amount"`
	Category       string  `db:"category" json:"category"`

	Resolution           *string  `db:"resolution" json:"resolution,omitempty"`
	ResolutionNotes      *string  `db:"resolution_notes" json:"resolution_notes,omitempty"`
	ResolvedBuyerAmount  *float64 `db:"resolved_buyer_amount" json:"resolved_buyer_amount,omitempty"`
	ResolvedSellerAmount *float64 `db:"resolved_seller_amount" json:"resolved_seller_amount,omitempty"`
	ResolvedBy           *string  `db:"resolved_by" json:"resolved_by,omitempty"`

	FiledAt    time.Time  `db:"filed_at" json:"filed_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

// IsOpen возвращает true, пока спор не разрешён.
func (d *EscrowDispute) IsOpen() bool {
	return d.Status != DisputeStatusResolved
}

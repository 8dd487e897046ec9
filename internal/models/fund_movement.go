package models

import (
	"time"

	"github.com/google/uuid"
)

// FundMovement представляет одну запись журнала движений средств.
// Журнал append-only: завершённые записи никогда не изменяются и не удаляются,
// он является источником истины для всех сумм счёта.
type FundMovement struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	EscrowAccountID   uuid.UUID  `db:"escrow_account_id" json:"escrow_account_id"`
	TransactionNumber string     `db:"transaction_number" json:"transaction_number"`
	Type              string     `db:"type" json:"type"`
	Amount            float64    `db:"amount" json:"amount"`
	Currency          string     `db:"currency" json:"currency"`
	PartyID           uuid.UUID  `db:"party_id" json:"party_id"`
	PartyName         string     `db:"party_name" json:"party_name"`
	PartyType         string     `db:"party_type" json:"party_type"`
	Status            string     `db:"status" json:"status"`
	ExternalRef       *string    `db:"external_ref" json:"external_ref,omitempty"`
	InitiatedBy       string     `db:"initiated_by" json:"initiated_by"`
	Notes             *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	CompletedAt       *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

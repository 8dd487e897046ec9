package models

import (
	"time"

	"github.com/google/uuid"
)

// ReleaseCondition представляет предусловие освобождения средств.
// Однажды выполненное условие не удаляется.
type ReleaseCondition struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	EscrowAccountID    uuid.UUID  `db:"escrow_account_id" json:"escrow_account_id"`
	Type               string     `db:"type" json:"type"`
	Name               string     `db:"name" json:"name"`
	Description        *string    `db:"description" json:"description,omitempty"`
	IsMandatory        bool       `db:"is_mandatory" json:"is_mandatory"`
	SortOrder          int        `db:"sort_order" json:"sort_order"`
	RequiresEvidence   bool       `db:"requires_evidence" json:"requires_evidence"`
	DueDate            *time.Time `db:"due_date" json:"due_date,omitempty"`
	Status             string     `db:"status" json:"status"`
	ActualValue        *string    `db:"actual_value" json:"actual_value,omitempty"`
	EvidenceDocumentID *uuid.UUID `db:"evidence_document_id" json:"evidence_document_id,omitempty"`
	VerifiedBy         *string    `db:"verified_by" json:"verified_by,omitempty"`
	Notes              *string    `db:"notes" json:"notes,omitempty"`
	MetAt              *time.Time `db:"met_at" json:"met_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceDocument представляет файл-подтверждение выполнения условия.
type EvidenceDocument struct {
	ID              uuid.UUID `db:"id" json:"id"`
	EscrowAccountID uuid.UUID `db:"escrow_account_id" json:"escrow_account_id"`
	FileName        string    `db:"file_name" json:"file_name"`
	FilePath        string    `db:"file_path" json:"-"`
	MimeType        string    `db:"mime_type" json:"mime_type"`
	SizeBytes       int64     `db:"size_bytes" json:"size_bytes"`
	UploadedBy      string    `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

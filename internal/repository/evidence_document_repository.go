package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/repository/common"
)

var ErrDocumentNotFound = errors.New("evidence document not found")

// EvidenceDocumentRepository отвечает за метаданные подтверждающих документов.
type EvidenceDocumentRepository struct {
	db *sqlx.DB
}

func NewEvidenceDocumentRepository(db *sqlx.DB) *EvidenceDocumentRepository {
	return &EvidenceDocumentRepository{db: db}
}

// Create сохраняет метаданные загруженного документа.
func (r *EvidenceDocumentRepository) Create(ctx context.Context, doc *models.EvidenceDocument) error {
	err := r.db.GetContext(ctx, doc, `
		INSERT INTO evidence_documents (id, escrow_account_id, file_name, file_path, mime_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, doc.ID, doc.EscrowAccountID, doc.FileName, doc.FilePath, doc.MimeType, doc.SizeBytes, doc.UploadedBy)
	if err != nil {
		return fmt.Errorf("evidence document repository: create %w", err)
	}
	return nil
}

// GetByID возвращает документ по идентификатору.
func (r *EvidenceDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EvidenceDocument, error) {
	return common.GetByID[models.EvidenceDocument](ctx, r.db, "evidence_documents", id, ErrDocumentNotFound)
}

// ListByAccount возвращает документы счёта.
func (r *EvidenceDocumentRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.EvidenceDocument, error) {
	var docs []models.EvidenceDocument
	err := r.db.SelectContext(ctx, &docs, `
		SELECT * FROM evidence_documents
		WHERE escrow_account_id = $1
		ORDER BY created_at DESC
	`, accountID)
	return docs, err
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
)

// AuditLogRepository отвечает за чтение журнала аудита.
// Записи создаются только внутри транзакций SettlementRepository —
// ровно одна на каждую мутирующую команду.
type AuditLogRepository struct {
	db *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// ListByAccount возвращает след аудита счёта в хронологическом порядке.
func (r *AuditLogRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM escrow_audit_log WHERE escrow_account_id = $1 ORDER BY performed_at ASC
	`, accountID)
	return entries, err
}

package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/repository/common"
)

var ErrClientNotFound = errors.New("api client not found")

// APIClientRepository отвечает за учётные записи внешних систем.
type APIClientRepository struct {
	db *sqlx.DB
}

func NewAPIClientRepository(db *sqlx.DB) *APIClientRepository {
	return &APIClientRepository{db: db}
}

// GetByClientID возвращает активного клиента по его идентификатору.
func (r *APIClientRepository) GetByClientID(ctx context.Context, clientID string) (*models.APIClient, error) {
	return common.GetByField[models.APIClient](ctx, r.db, "api_clients", "client_id", clientID, ErrClientNotFound)
}

// TouchLastSeen отмечает момент последнего успешного входа клиента.
func (r *APIClientRepository) TouchLastSeen(ctx context.Context, clientID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE api_clients SET last_seen_at = NOW() WHERE client_id = $1
	`, clientID)
	return err
}

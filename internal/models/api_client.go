package models

import (
	"time"

	"github.com/google/uuid"
)

// APIClient представляет внешнюю систему, вызывающую движок.
type APIClient struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ClientID   string     `db:"client_id" json:"client_id"`
	SecretHash string     `db:"secret_hash" json:"-"`
	Name       string     `db:"name" json:"name"`
	Role       string     `db:"role" json:"role"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	LastSeenAt *time.Time `db:"last_seen_at" json:"last_seen_at,omitempty"`
}

// Роли API клиентов
const (
	ClientRoleService  = "service"
	ClientRoleOperator = "operator"
	ClientRoleAdmin    = "admin"
)

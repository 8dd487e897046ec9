package models

import (
	"time"

	"github.com/google/uuid"
)

// FeeConfiguration представляет правило расчёта комиссии для типа сделки
// и диапазона сумм. Действующие правила не изменяются.
type FeeConfiguration struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	TransactionType string     `db:"transaction_type" json:"transaction_type"`
	MinAmount       float64    `db:"min_amount" json:"min_amount"`
	MaxAmount       float64    `db:"max_amount" json:"max_amount"`
	FeePercentage   float64    `db:"fee_percentage" json:"fee_percentage"`
	MinFee          float64    `db:"min_fee" json:"min_fee"`
	MaxFee          float64    `db:"max_fee" json:"max_fee"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	EffectiveFrom   time.Time  `db:"effective_from" json:"effective_from"`
	EffectiveTo     *time.Time `db:"effective_to" json:"effective_to,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

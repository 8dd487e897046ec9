package models

import (
	"time"

	"github.com/google/uuid"
)

// EscrowAccount представляет escrow счёт — запись об удержании средств
// между покупателем и продавцом до выполнения условий сделки.
// Кэшированные суммы (FundedAmount и др.) производны от журнала движений
// и обязаны с ним совпадать после каждой зафиксированной команды.
type EscrowAccount struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AccountNumber string    `db:"account_number" json:"account_number"`

	BuyerID     uuid.UUID `db:"buyer_id" json:"buyer_id"`
	BuyerName   string    `db:"buyer_name" json:"buyer_name"`
	BuyerEmail  string    `db:"buyer_email" json:"buyer_email"`
	BuyerPhone  *string   `db:"buyer_phone" json:"buyer_phone,omitempty"`
	SellerID    uuid.UUID `db:"seller_id" json:"seller_id"`
	SellerName  string    `db:"seller_name" json:"seller_name"`
	SellerEmail string    `db:"seller_email" json:"seller_email"`
	SellerPhone *string   `db:"seller_phone" json:"seller_phone,omitempty"`

	SubjectType        string     `db:"subject_type" json:"subject_type"`
	SubjectID          string     `db:"subject_id" json:"subject_id"`
	SubjectDescription string     `db:"subject_description" json:"subject_description"`
	ContractID         *uuid.UUID `db:"contract_id" json:"contract_id,omitempty"`
	TransactionType    string     `db:"transaction_type" json:"transaction_type"`

	TotalAmount    float64 `db:"total_amount" json:"total_amount"`
	FundedAmount   float64 `db:"funded_amount" json:"funded_amount"`
	ReleasedAmount float64 `db:"released_amount" json:"released_amount"`
	RefundedAmount float64 `db:"refunded_amount" json:"refunded_amount"`
	PendingAmount  float64 `db:"pending_amount" json:"pending_amount"`
	FeeAmount      float64 `db:"fee_amount" json:"fee_amount"`
	FeePercentage  float64 `db:"fee_percentage" json:"fee_percentage"`
	Currency       string  `db:"currency" json:"currency"`

	BuyerApproved    bool       `db:"buyer_approved" json:"buyer_approved"`
	BuyerApprovedAt  *time.Time `db:"buyer_approved_at" json:"buyer_approved_at,omitempty"`
	SellerApproved   bool       `db:"seller_approved" json:"seller_approved"`
	SellerApprovedAt *time.Time `db:"seller_approved_at" json:"seller_approved_at,omitempty"`

	RequiresBothApproval bool `db:"requires_both_approval" json:"requires_both_approval"`
	AllowPartialRelease  bool `db:"allow_partial_release" json:"allow_partial_release"`
	AutoReleaseEnabled   bool `db:"auto_release_enabled" json:"auto_release_enabled"`
	ReleaseDelayDays     int  `db:"release_delay_days" json:"release_delay_days"`

	Status string `db:"status" json:"status"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	FundedAt    *time.Time `db:"funded_at" json:"funded_at,omitempty"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	ReleasedAt  *time.Time `db:"released_at" json:"released_at,omitempty"`
	RefundedAt  *time.Time `db:"refunded_at" json:"refunded_at,omitempty"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// AvailableForRelease возвращает остаток, который можно освободить продавцу.
func (a *EscrowAccount) AvailableForRelease() float64 {
	return a.FundedAmount - a.ReleasedAmount - a.FeeAmount
}

// AvailableForRefund возвращает остаток, который можно вернуть покупателю.
func (a *EscrowAccount) AvailableForRefund() float64 {
	return a.FundedAmount - a.ReleasedAmount - a.RefundedAmount
}

// ApprovalSatisfied проверяет политику одобрения освобождения.
func (a *EscrowAccount) ApprovalSatisfied() bool {
	if a.RequiresBothApproval {
		return a.BuyerApproved && a.SellerApproved
	}
	return a.BuyerApproved || a.SellerApproved
}

// IsExpired вычисляет истечение срока; статус expired не хранится.
func (a *EscrowAccount) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt) && !IsTerminalEscrowStatus(a.Status)
}

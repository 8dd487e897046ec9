package dto

import (
	"time"
)

// PartyRequest describes one party of the transaction
type PartyRequest struct {
	ID    string  `json:"id" binding:"required"`
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email" binding:"required"`
	Phone *string `json:"phone"`
}

// ConditionRequest describes a release condition
type ConditionRequest struct {
	Type             string     `json:"type" binding:"required"`
	Name             string     `json:"name" binding:"required"`
	Description      *string    `json:"description"`
	IsMandatory      *bool      `json:"is_mandatory"`
	SortOrder        int        `json:"sort_order"`
	RequiresEvidence bool       `json:"requires_evidence"`
	DueDate          *time.Time `json:"due_date"`
}

// CreateAccountRequest represents the request to open an escrow account
type CreateAccountRequest struct {
	Buyer                PartyRequest       `json:"buyer" binding:"required"`
	Seller               PartyRequest       `json:"seller" binding:"required"`
	SubjectType          string             `json:"subject_type" binding:"required"`
	SubjectID            string             `json:"subject_id" binding:"required"`
	SubjectDescription   string             `json:"subject_description" binding:"required"`
	ContractID           *string            `json:"contract_id"`
	TransactionType      string             `json:"transaction_type" binding:"required"`
	TotalAmount          float64            `json:"total_amount" binding:"required"`
	Currency             string             `json:"currency"`
	RequiresBothApproval bool               `json:"requires_both_approval"`
	AllowPartialRelease  bool               `json:"allow_partial_release"`
	AutoReleaseEnabled   bool               `json:"auto_release_enabled"`
	ReleaseDelayDays     int                `json:"release_delay_days"`
	ExpirationDays       int                `json:"expiration_days"`
	Conditions           []ConditionRequest `json:"conditions"`
}

// FundAccountRequest represents a deposit into escrow
type FundAccountRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method"`
	ExternalRef   *string `json:"external_ref"`
	Notes         *string `json:"notes"`
}

// ApproveReleaseRequest represents a party's approval
type ApproveReleaseRequest struct {
	ApproverType string `json:"approver_type" binding:"required"`
}

// ReleaseFundsRequest represents a release to the seller
type ReleaseFundsRequest struct {
	Amount      *float64 `json:"amount"`
	Destination *string  `json:"destination"`
	ExternalRef *string  `json:"external_ref"`
	Notes       *string  `json:"notes"`
}

// RefundFundsRequest represents a refund to the buyer
type RefundFundsRequest struct {
	Amount      *float64 `json:"amount"`
	Reason      string   `json:"reason" binding:"required"`
	ExternalRef *string  `json:"external_ref"`
}

// CancelAccountRequest represents an account cancellation
type CancelAccountRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MarkConditionMetRequest represents marking a condition as met
type MarkConditionMetRequest struct {
	ActualValue        *string `json:"actual_value"`
	EvidenceDocumentID *string `json:"evidence_document_id"`
	Notes              *string `json:"notes"`
}

// MarkConditionFailedRequest represents marking a condition as failed
type MarkConditionFailedRequest struct {
	Notes *string `json:"notes"`
}

// FileDisputeRequest represents filing a dispute
type FileDisputeRequest struct {
	FiledByType    string  `json:"filed_by_type" binding:"required"`
	Reason         string  `json:"reason" binding:"required"`
	Description    *string `json:"description"`
	DisputedAmount float64 `json:"disputed_amount"`
	Category       string  `json:"category"`
}

// ResolveDisputeRequest represents a dispute resolution
type ResolveDisputeRequest struct {
	Resolution           string   `json:"resolution" binding:"required"`
	ResolutionNotes      *string  `json:"resolution_notes"`
	ResolvedBuyerAmount  *float64 `json:"resolved_buyer_amount"`
	ResolvedSellerAmount *float64 `json:"resolved_seller_amount"`
}

// TokenRequest represents client credentials for token issuance
type TokenRequest struct {
	ClientID     string `json:"client_id" binding:"required"`
	ClientSecret string `json:"client_secret" binding:"required"`
}

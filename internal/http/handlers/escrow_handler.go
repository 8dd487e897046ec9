package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/escrow-backend/internal/dto"
	"github.com/ignatzorin/escrow-backend/internal/http/handlers/common"
	"github.com/ignatzorin/escrow-backend/internal/repository"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

type EscrowHandler struct {
	settlements *service.SettlementService
}

func NewEscrowHandler(settlements *service.SettlementService) *EscrowHandler {
	return &EscrowHandler{settlements: settlements}
}

// Create POST /escrow/accounts
func (h *EscrowHandler) Create(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req dto.CreateAccountRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	buyer, err := toPartyInput(req.Buyer)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "покупатель: неверный формат идентификатора")
		return
	}
	seller, err := toPartyInput(req.Seller)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "продавец: неверный формат идентификатора")
		return
	}

	var contractID *uuid.UUID
	if req.ContractID != nil {
		parsed, err := uuid.Parse(*req.ContractID)
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, "неверный contract_id")
			return
		}
		contractID = &parsed
	}

	conditions := make([]service.ConditionInput, 0, len(req.Conditions))
	for _, cond := range req.Conditions {
		mandatory := true
		if cond.IsMandatory != nil {
			mandatory = *cond.IsMandatory
		}
		conditions = append(conditions, service.ConditionInput{
			Type:             cond.Type,
			Name:             cond.Name,
			Description:      cond.Description,
			IsMandatory:      mandatory,
			SortOrder:        cond.SortOrder,
			RequiresEvidence: cond.RequiresEvidence,
			DueDate:          cond.DueDate,
		})
	}

	result, err := h.settlements.CreateAccount(c.Request.Context(), service.CreateAccountInput{
		Buyer:                buyer,
		Seller:               seller,
		SubjectType:          req.SubjectType,
		SubjectID:            req.SubjectID,
		SubjectDescription:   req.SubjectDescription,
		ContractID:           contractID,
		TransactionType:      req.TransactionType,
		TotalAmount:          req.TotalAmount,
		Currency:             req.Currency,
		RequiresBothApproval: req.RequiresBothApproval,
		AllowPartialRelease:  req.AllowPartialRelease,
		AutoReleaseEnabled:   req.AutoReleaseEnabled,
		ReleaseDelayDays:     req.ReleaseDelayDays,
		ExpirationDays:       req.ExpirationDays,
		Conditions:           conditions,
		CreatedBy:            clientID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Get GET /escrow/accounts/:id
func (h *EscrowHandler) Get(c *gin.Context) {
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.settlements.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetByNumber GET /escrow/accounts/by-number/:number
func (h *EscrowHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		common.RespondError(c, http.StatusBadRequest, "номер счёта обязателен")
		return
	}

	detail, err := h.settlements.GetAccountByNumber(c.Request.Context(), number)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// List GET /escrow/accounts
func (h *EscrowHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	filter := repository.AccountFilter{
		Status:          c.Query("status"),
		TransactionType: c.Query("transaction_type"),
	}

	page, err := h.settlements.ListAccounts(c.Request.Context(), filter, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListByBuyer GET /escrow/accounts/buyer/:buyerId
func (h *EscrowHandler) ListByBuyer(c *gin.Context) {
	buyerID, err := common.ParseUUIDParam(c, "buyerId")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, offset := common.GetPagination(c)

	items, err := h.settlements.ListByBuyer(c.Request.Context(), buyerID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListBySeller GET /escrow/accounts/seller/:sellerId
func (h *EscrowHandler) ListBySeller(c *gin.Context) {
	sellerID, err := common.ParseUUIDParam(c, "sellerId")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, offset := common.GetPagination(c)

	items, err := h.settlements.ListBySeller(c.Request.Context(), sellerID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Expiring GET /escrow/accounts/expiring
func (h *EscrowHandler) Expiring(c *gin.Context) {
	withinDays := common.ParseIntQuery(c, "within_days", 7)

	items, err := h.settlements.GetExpiring(c.Request.Context(), withinDays)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// PendingRelease GET /escrow/accounts/pending-release
func (h *EscrowHandler) PendingRelease(c *gin.Context) {
	items, err := h.settlements.GetPendingRelease(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Fund POST /escrow/accounts/:id/fund
func (h *EscrowHandler) Fund(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.FundAccountRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.settlements.FundAccount(c.Request.Context(), service.FundInput{
		AccountID:     accountID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		ExternalRef:   req.ExternalRef,
		InitiatedBy:   clientID,
		Notes:         req.Notes,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, dto.MovementResponse{
		Account:   result.Account,
		Movement:  result.Movement,
		Duplicate: result.Duplicate,
	})
}

// Approve POST /escrow/accounts/:id/approve
func (h *EscrowHandler) Approve(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.ApproveReleaseRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.settlements.ApproveRelease(c.Request.Context(), accountID, req.ApproverType, clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// Release POST /escrow/accounts/:id/release
func (h *EscrowHandler) Release(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.ReleaseFundsRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.settlements.ReleaseFunds(c.Request.Context(), service.ReleaseInput{
		AccountID:   accountID,
		Amount:      req.Amount,
		Destination: req.Destination,
		ExternalRef: req.ExternalRef,
		ReleasedBy:  clientID,
		Notes:       req.Notes,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, dto.MovementResponse{
		Account:   result.Account,
		Movement:  result.Movement,
		Duplicate: result.Duplicate,
	})
}

// Refund POST /escrow/accounts/:id/refund
func (h *EscrowHandler) Refund(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.RefundFundsRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.settlements.RefundFunds(c.Request.Context(), service.RefundInput{
		AccountID:   accountID,
		Amount:      req.Amount,
		Reason:      req.Reason,
		ExternalRef: req.ExternalRef,
		RefundedBy:  clientID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, dto.MovementResponse{
		Account:   result.Account,
		Movement:  result.Movement,
		Duplicate: result.Duplicate,
	})
}

// Cancel POST /escrow/accounts/:id/cancel
func (h *EscrowHandler) Cancel(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.CancelAccountRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.settlements.CancelAccount(c.Request.Context(), accountID, req.Reason, clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// Movements GET /escrow/accounts/:id/movements
func (h *EscrowHandler) Movements(c *gin.Context) {
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	movements, err := h.settlements.ListMovements(c.Request.Context(), accountID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": movements})
}

// MovementByNumber GET /escrow/movements/by-number/:number
func (h *EscrowHandler) MovementByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		common.RespondError(c, http.StatusBadRequest, "номер транзакции обязателен")
		return
	}

	mv, err := h.settlements.GetMovementByNumber(c.Request.Context(), number)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, mv)
}

// Reconcile GET /escrow/accounts/:id/reconcile
func (h *EscrowHandler) Reconcile(c *gin.Context) {
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	check, err := h.settlements.CheckLedger(c.Request.Context(), accountID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, check)
}

// AuditLog GET /escrow/accounts/:id/audit
func (h *EscrowHandler) AuditLog(c *gin.Context) {
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.settlements.ListAudit(c.Request.Context(), accountID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func toPartyInput(p dto.PartyRequest) (service.PartyInput, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return service.PartyInput{}, err
	}
	return service.PartyInput{
		ID:    id,
		Name:  p.Name,
		Email: p.Email,
		Phone: p.Phone,
	}, nil
}

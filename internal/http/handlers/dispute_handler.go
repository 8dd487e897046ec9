package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/escrow-backend/internal/dto"
	"github.com/ignatzorin/escrow-backend/internal/http/handlers/common"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

type DisputeHandler struct {
	settlements *service.SettlementService
}

func NewDisputeHandler(settlements *service.SettlementService) *DisputeHandler {
	return &DisputeHandler{settlements: settlements}
}

// File POST /escrow/accounts/:id/disputes
func (h *DisputeHandler) File(c *gin.Context) {
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.FileDisputeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	dispute, err := h.settlements.FileDispute(c.Request.Context(), service.FileDisputeInput{
		AccountID:      accountID,
		FiledByType:    req.FiledByType,
		Reason:         req.Reason,
		Description:    req.Description,
		DisputedAmount: req.DisputedAmount,
		Category:       req.Category,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dispute)
}

// ListByAccount GET /escrow/accounts/:id/disputes
func (h *DisputeHandler) ListByAccount(c *gin.Context) {
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	disputes, err := h.settlements.ListAccountDisputes(c.Request.Context(), accountID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": disputes})
}

// Get GET /escrow/disputes/:disputeId
func (h *DisputeHandler) Get(c *gin.Context) {
	disputeID, err := common.ParseUUIDParam(c, "disputeId")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	dispute, err := h.settlements.GetDispute(c.Request.Context(), disputeID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

// List GET /escrow/disputes
func (h *DisputeHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	page, err := h.settlements.ListDisputes(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// StartReview POST /escrow/disputes/:disputeId/review
func (h *DisputeHandler) StartReview(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	disputeID, err := common.ParseUUIDParam(c, "disputeId")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	dispute, err := h.settlements.StartDisputeReview(c.Request.Context(), disputeID, clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

// Resolve POST /escrow/disputes/:disputeId/resolve
func (h *DisputeHandler) Resolve(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	disputeID, err := common.ParseUUIDParam(c, "disputeId")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.ResolveDisputeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	dispute, err := h.settlements.ResolveDispute(c.Request.Context(), service.ResolveDisputeInput{
		DisputeID:            disputeID,
		Resolution:           req.Resolution,
		ResolutionNotes:      req.ResolutionNotes,
		ResolvedBuyerAmount:  req.ResolvedBuyerAmount,
		ResolvedSellerAmount: req.ResolvedSellerAmount,
		ResolvedBy:           clientID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

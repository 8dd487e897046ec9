package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/escrow-backend/internal/dto"
	"github.com/ignatzorin/escrow-backend/internal/http/handlers/common"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

type ConditionHandler struct {
	settlements *service.SettlementService
}

func NewConditionHandler(settlements *service.SettlementService) *ConditionHandler {
	return &ConditionHandler{settlements: settlements}
}

// Add POST /escrow/accounts/:id/conditions
func (h *ConditionHandler) Add(c *gin.Context) {
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

	var req dto.ConditionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	mandatory := true
	if req.IsMandatory != nil {
		mandatory = *req.IsMandatory
	}

	cond, err := h.settlements.AddCondition(c.Request.Context(), accountID, service.ConditionInput{
		Type:             req.Type,
		Name:             req.Name,
		Description:      req.Description,
		IsMandatory:      mandatory,
		SortOrder:        req.SortOrder,
		RequiresEvidence: req.RequiresEvidence,
		DueDate:          req.DueDate,
	}, clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, cond)
}

// List GET /escrow/accounts/:id/conditions
func (h *ConditionHandler) List(c *gin.Context) {
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	progress, err := h.settlements.ConditionsProgress(c.Request.Context(), accountID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// MarkMet POST /escrow/conditions/:conditionId/met
func (h *ConditionHandler) MarkMet(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	conditionID, err := common.ParseUUIDParam(c, "conditionId")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.MarkConditionMetRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var evidenceID *uuid.UUID
	if req.EvidenceDocumentID != nil {
		parsed, err := uuid.Parse(*req.EvidenceDocumentID)
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, "неверный evidence_document_id")
			return
		}
		evidenceID = &parsed
	}

	cond, err := h.settlements.MarkConditionMet(c.Request.Context(), service.MarkConditionInput{
		ConditionID:        conditionID,
		ActualValue:        req.ActualValue,
		EvidenceDocumentID: evidenceID,
		VerifiedBy:         clientID,
		Notes:              req.Notes,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, cond)
}

// MarkFailed POST /escrow/conditions/:conditionId/failed
func (h *ConditionHandler) MarkFailed(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	conditionID, err := common.ParseUUIDParam(c, "conditionId")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.MarkConditionFailedRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	cond, err := h.settlements.MarkConditionFailed(c.Request.Context(), conditionID, clientID, req.Notes)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, cond)
}

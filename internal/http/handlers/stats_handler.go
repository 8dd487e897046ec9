package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/escrow-backend/internal/http/handlers/common"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

// StatsHandler отвечает за агрегатную статистику движка.
type StatsHandler struct {
	settlements *service.SettlementService
}

// NewStatsHandler создаёт экземпляр.
func NewStatsHandler(settlements *service.SettlementService) *StatsHandler {
	return &StatsHandler{settlements: settlements}
}

// StatusCounts возвращает распределение счетов по статусам.
func (h *StatsHandler) StatusCounts(c *gin.Context) {
	counts, err := h.settlements.StatusCounts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"items": counts})
}

// FeeConfigurations возвращает действующие правила комиссий.
func (h *StatsHandler) FeeConfigurations(c *gin.Context) {
	configs, err := h.settlements.FeeConfigurations(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"items": configs})
}

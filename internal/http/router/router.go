package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/escrow-backend/internal/config"
	"github.com/ignatzorin/escrow-backend/internal/http/handlers"
	"github.com/ignatzorin/escrow-backend/internal/http/middleware"
	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	escrowHandler *handlers.EscrowHandler,
	conditionHandler *handlers.ConditionHandler,
	disputeHandler *handlers.DisputeHandler,
	evidenceHandler *handlers.EvidenceHandler,
	statsHandler *handlers.StatsHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	// Выдача токенов ограничена по частоте
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/token", authHandler.IssueToken)
	}

	api.GET("/ws", wsHandler.Handle)

	// Все операции движка требуют токен API клиента
	escrow := api.Group("/escrow")
	escrow.Use(middleware.AuthMiddleware(tokenManager))
	{
		accounts := escrow.Group("/accounts")
		{
			accounts.POST("", escrowHandler.Create)
			accounts.GET("", escrowHandler.List)
			accounts.GET("/expiring", escrowHandler.Expiring)
			accounts.GET("/pending-release", escrowHandler.PendingRelease)
			accounts.GET("/by-number/:number", escrowHandler.GetByNumber)
			accounts.GET("/buyer/:buyerId", middleware.UUIDValidator("buyerId"), escrowHandler.ListByBuyer)
			accounts.GET("/seller/:sellerId", middleware.UUIDValidator("sellerId"), escrowHandler.ListBySeller)

			accounts.GET("/:id", middleware.UUIDValidator("id"), escrowHandler.Get)
			accounts.POST("/:id/fund", middleware.UUIDValidator("id"), escrowHandler.Fund)
			accounts.POST("/:id/approve", middleware.UUIDValidator("id"), escrowHandler.Approve)
			accounts.POST("/:id/release", middleware.UUIDValidator("id"), escrowHandler.Release)
			accounts.POST("/:id/refund", middleware.UUIDValidator("id"), escrowHandler.Refund)
			accounts.POST("/:id/cancel", middleware.UUIDValidator("id"), escrowHandler.Cancel)
			accounts.GET("/:id/movements", middleware.UUIDValidator("id"), escrowHandler.Movements)
			accounts.GET("/:id/reconcile", middleware.UUIDValidator("id"), escrowHandler.Reconcile)
			accounts.GET("/:id/audit", middleware.UUIDValidator("id"), escrowHandler.AuditLog)

			accounts.POST("/:id/conditions", middleware.UUIDValidator("id"), conditionHandler.Add)
			accounts.GET("/:id/conditions", middleware.UUIDValidator("id"), conditionHandler.List)

			accounts.POST("/:id/disputes", middleware.UUIDValidator("id"), disputeHandler.File)
			accounts.GET("/:id/disputes", middleware.UUIDValidator("id"), disputeHandler.ListByAccount)

			accounts.POST("/:id/evidence", middleware.UUIDValidator("id"), evidenceHandler.Upload)
			accounts.GET("/:id/evidence", middleware.UUIDValidator("id"), evidenceHandler.List)
		}

		conditions := escrow.Group("/conditions")
		{
			conditions.POST("/:conditionId/met", middleware.UUIDValidator("conditionId"), conditionHandler.MarkMet)
			conditions.POST("/:conditionId/failed", middleware.UUIDValidator("conditionId"), conditionHandler.MarkFailed)
		}

		disputes := escrow.Group("/disputes")
		{
			disputes.GET("", disputeHandler.List)
			disputes.GET("/:disputeId", middleware.UUIDValidator("disputeId"), disputeHandler.Get)
			disputes.POST("/:disputeId/review", middleware.UUIDValidator("disputeId"),
				middleware.RequireRole(models.ClientRoleOperator, models.ClientRoleAdmin), disputeHandler.StartReview)
			disputes.POST("/:disputeId/resolve", middleware.UUIDValidator("disputeId"),
				middleware.RequireRole(models.ClientRoleOperator, models.ClientRoleAdmin), disputeHandler.Resolve)
		}

		escrow.GET("/movements/by-number/:number", escrowHandler.MovementByNumber)

		escrow.GET("/evidence/:documentId", middleware.UUIDValidator("documentId"), evidenceHandler.Download)

		escrow.GET("/stats/status-counts", statsHandler.StatusCounts)
		escrow.GET("/fees", statsHandler.FeeConfigurations)
	}

	return r
}

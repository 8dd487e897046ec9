package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/escrow-backend/internal/config"
	"github.com/ignatzorin/escrow-backend/internal/db"
	"github.com/ignatzorin/escrow-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/escrow-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/escrow-backend/internal/http/router"
	"github.com/ignatzorin/escrow-backend/internal/logger"
	"github.com/ignatzorin/escrow-backend/internal/repository"
	"github.com/ignatzorin/escrow-backend/internal/service"
	"github.com/ignatzorin/escrow-backend/internal/storage"
	"github.com/ignatzorin/escrow-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	evidenceStorage, err := storage.NewEvidenceStorage(cfg.EvidenceStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	settlementRepo := repository.NewSettlementRepository(dbConn)
	accountRepo := repository.NewEscrowAccountRepository(dbConn)
	movementRepo := repository.NewFundMovementRepository(dbConn)
	conditionRepo := repository.NewReleaseConditionRepository(dbConn)
	disputeRepo := repository.NewDisputeRepository(dbConn)
	auditRepo := repository.NewAuditLogRepository(dbConn)
	feeConfigRepo := repository.NewFeeConfigurationRepository(dbConn)
	clientRepo := repository.NewAPIClientRepository(dbConn)
	evidenceRepo := repository.NewEvidenceDocumentRepository(dbConn)

	// Сервисы.
	feeCalculator := service.NewFeeCalculator(feeConfigRepo)
	authService := service.NewAuthService(clientRepo, tokenManager)
	settlementService := service.NewSettlementService(
		settlementRepo, accountRepo, movementRepo, conditionRepo, disputeRepo, auditRepo,
		feeCalculator, cfg.DefaultExpirationDays, cfg.DefaultCurrency,
	)
	settlementService.SetCache(service.NewCacheService(ctx))

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	goroutine.SafeGo(hub.Run)
	settlementService.SetPublisher(ws.NewEventAdapter(hub))

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	escrowHandler := httpHandlers.NewEscrowHandler(settlementService)
	conditionHandler := httpHandlers.NewConditionHandler(settlementService)
	disputeHandler := httpHandlers.NewDisputeHandler(settlementService)
	evidenceHandler := httpHandlers.NewEvidenceHandler(evidenceRepo, evidenceStorage, settlementService)
	statsHandler := httpHandlers.NewStatsHandler(settlementService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, escrowHandler, conditionHandler,
		disputeHandler, evidenceHandler, statsHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}

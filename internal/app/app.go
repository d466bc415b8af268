package app

import (
	"context"
	"fmt"

	"spendwise_backend/database"
	"spendwise_backend/internal/config"
	"spendwise_backend/internal/handlers"
	"spendwise_backend/internal/logger"
	"spendwise_backend/internal/middleware"
	"spendwise_backend/internal/pipeline"
	"spendwise_backend/internal/repositories"
	"spendwise_backend/internal/routes"
	"spendwise_backend/internal/utils"
	"spendwise_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	_ = godotenv.Load()
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	store := repositories.NewStore(gormDB)
	pipe := pipeline.New(store, pipeline.Config{
		PageSize:     cfg.Pipeline.PageSize,
		MinGroupSize: cfg.Pipeline.MinGroupSize,
	})

	var mailer *utils.EmailSender
	if cfg.Email.SMTPHost != "" {
		mailer = utils.NewEmailSender(cfg)
	} else {
		logger.Warn("SMTP is not configured, settlement failure alerts are disabled")
	}

	worker := workers.NewSettlementWorker(pipe, cfg.Pipeline.RunHour, mailer, cfg.Email.AlertRecipients)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)
	logger.Info("Settlement worker started", "run_hour", cfg.Pipeline.RunHour)

	router := initializeGinRouter(cfg)
	routes.RegisterRoutes(router, handlers.NewAdminHandler(worker))

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	return router
}

package main

import (
	"log"

	"checkout-service/controllers"
	"checkout-service/database"
	"checkout-service/kafka"
	"checkout-service/logger"
	"checkout-service/models"
	"checkout-service/repository"
	"checkout-service/routes"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.Initialize(cfg.Env)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.ConnectPostgres(database.Config{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSLMode,
		TimeZone: cfg.PostgresTimeZone,
	}, zapLogger,
		&models.Item{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ChargeReconciliation{},
	)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer database.Close(db)

	cartRepo := repository.NewGormCartRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	reconRepo := repository.NewGormReconciliationRepository(db)

	gateway := services.NewStripeGateway(cfg.StripeSecretKey, cfg.ChargeTimeout)

	var alerts services.AlertPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.ReconcileTopic)
		defer producer.Close()
		alerts = producer
	}

	cartService := services.NewCartService(cartRepo, itemRepo, zapLogger)
	checkoutService := services.NewCheckoutService(
		cartRepo, itemRepo, orderRepo, reconRepo,
		gateway, alerts, cfg.ReconcilePolicy, zapLogger,
	)
	orderService := services.NewOrderService(orderRepo, zapLogger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zapLogger))

	routes.RegisterRoutes(
		r,
		[]byte(cfg.JWTSecret),
		controllers.NewCartController(cartService),
		controllers.NewCheckoutController(checkoutService),
		controllers.NewOrderController(orderService),
	)

	zapLogger.Info("checkout-service listening",
		zap.String("port", cfg.Port),
		zap.String("reconcile_policy", string(cfg.ReconcilePolicy)),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Error starting server", zap.Error(err))
	}
}

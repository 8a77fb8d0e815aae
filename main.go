package main

import (
	"github.com/driveloop/carrental-api/config"
	"github.com/driveloop/carrental-api/internal/handler"
	"github.com/driveloop/carrental-api/internal/holds"
	"github.com/driveloop/carrental-api/internal/middleware"
	"github.com/driveloop/carrental-api/internal/repository"
	"github.com/driveloop/carrental-api/internal/service"
	"github.com/driveloop/carrental-api/pkg/database"
	"github.com/driveloop/carrental-api/pkg/rabbitmq"
	"github.com/driveloop/carrental-api/pkg/stripe"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	rdb := holds.NewClient(cfg.RedisAddr)
	holdStore := holds.NewRedisStore(rdb, cfg.CheckoutHoldTTL)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to RabbitMQ")
	}
	defer publisher.Close()

	gateway := stripe.NewHTTP(cfg.StripeSecretKey, cfg.StripeBaseURL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	// Services
	bookingSvc := service.NewBookingService(bookingRepo, carRepo, purchaseRepo, gateway, holdStore, publisher, cfg.ClientURL)
	paymentSvc := service.NewPaymentService(bookingRepo, carRepo, purchaseRepo, gateway, holdStore, publisher, cfg.StripeWebhookSecret)
	ownerSvc := service.NewOwnerService(userRepo, carRepo, bookingRepo)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = handler.NewValidator()
	e.Use(echoMw.RequestID())
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logrus.WithFields(logrus.Fields{
				"method": v.Method,
				"uri":    v.URI,
				"status": v.Status,
			}).Info("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "carrental-api"})
	})

	bookingHandler := handler.NewBookingHandler(bookingSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	ownerHandler := handler.NewOwnerHandler(ownerSvc)

	paymentHandler.RegisterWebhook(e)

	api := e.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	owner := api.Group("/owner", middleware.RequireOwner())

	bookingHandler.RegisterRoutes(api)
	bookingHandler.RegisterOwnerRoutes(owner)
	paymentHandler.RegisterRoutes(api)
	ownerHandler.RegisterRoutes(api, owner)

	logrus.Infof("carrental-api starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

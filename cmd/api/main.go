package main

import (
	"context"
	"net/http"
	"os"

	"github.com/mdzoubir/kazidomi-api/api/routes"
	"github.com/mdzoubir/kazidomi-api/internal/auth"
	"github.com/mdzoubir/kazidomi-api/internal/brands"
	"github.com/mdzoubir/kazidomi-api/internal/cart"
	"github.com/mdzoubir/kazidomi-api/internal/categories"
	"github.com/mdzoubir/kazidomi-api/internal/customers"
	"github.com/mdzoubir/kazidomi-api/internal/messages"
	"github.com/mdzoubir/kazidomi-api/internal/notifications"
	"github.com/mdzoubir/kazidomi-api/internal/orders"
	"github.com/mdzoubir/kazidomi-api/internal/payments"
	"github.com/mdzoubir/kazidomi-api/internal/products"
	"github.com/mdzoubir/kazidomi-api/internal/promotions"
	"github.com/mdzoubir/kazidomi-api/internal/reviews"
	"github.com/mdzoubir/kazidomi-api/internal/stock"
	"github.com/mdzoubir/kazidomi-api/internal/users"
	"github.com/mdzoubir/kazidomi-api/pkg/auth/session"
	"github.com/mdzoubir/kazidomi-api/pkg/config"
	"github.com/mdzoubir/kazidomi-api/pkg/db"
	"github.com/mdzoubir/kazidomi-api/pkg/logger"
	"github.com/mdzoubir/kazidomi-api/pkg/migrate"
	"github.com/mdzoubir/kazidomi-api/pkg/outbox"
	"github.com/mdzoubir/kazidomi-api/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	customerRepo := customers.NewRepository(gormDB)
	categoryRepo := categories.NewRepository(gormDB)
	brandRepo := brands.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	stockRepo := stock.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	reviewRepo := reviews.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)
	messageRepo := messages.NewRepository(gormDB)
	paymentRepo := payments.NewRepository(gormDB)
	promotionRepo := promotions.NewRepository(gormDB)
	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		CustomerRepo:   customerRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		Outbox:         outboxSvc,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	brandService, err := brands.NewService(brandRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create brand service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	stockService, err := stock.NewService(stockRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		TxRunner:    dbClient,
		Repo:        cartRepo,
		ProductRepo: productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		TxRunner: dbClient,
		Repo:     orderRepo,
		CartRepo: cartRepo,
		Outbox:   outboxSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customerRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviewRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	messageService, err := messages.NewService(messageRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create message service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(paymentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	promotionService, err := promotions.NewService(promotionRepo, customerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotion service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, sessionManager, routes.Services{
			Auth:          authService,
			Register:      registerService,
			Categories:    categoryService,
			Brands:        brandService,
			Products:      productService,
			Stock:         stockService,
			Cart:          cartService,
			Orders:        orderService,
			Customers:     customerService,
			Reviews:       reviewService,
			Notifications: notificationService,
			Messages:      messageService,
			Payments:      paymentService,
			Promotions:    promotionService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

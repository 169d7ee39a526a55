package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aivanahq/aivana-backend/api/routes"
	agentsvc "github.com/aivanahq/aivana-backend/internal/agent"
	"github.com/aivanahq/aivana-backend/internal/agent/tools"
	authsvc "github.com/aivanahq/aivana-backend/internal/auth"
	cartsvc "github.com/aivanahq/aivana-backend/internal/cart"
	categorysvc "github.com/aivanahq/aivana-backend/internal/categories"
	"github.com/aivanahq/aivana-backend/internal/conversations"
	paymentsvc "github.com/aivanahq/aivana-backend/internal/payments"
	productsvc "github.com/aivanahq/aivana-backend/internal/products"
	"github.com/aivanahq/aivana-backend/internal/users"
	"github.com/aivanahq/aivana-backend/pkg/chain"
	"github.com/aivanahq/aivana-backend/pkg/config"
	"github.com/aivanahq/aivana-backend/pkg/db"
	"github.com/aivanahq/aivana-backend/pkg/llm"
	"github.com/aivanahq/aivana-backend/pkg/locks"
	"github.com/aivanahq/aivana-backend/pkg/logger"
	"github.com/aivanahq/aivana-backend/pkg/metrics"
	"github.com/aivanahq/aivana-backend/pkg/migrate"
	"github.com/aivanahq/aivana-backend/pkg/redis"
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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	var redisClient *redis.Client
	var locker locks.SessionLocker = locks.NewLocalLocker()
	if cfg.Redis.Configured() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		locker = locks.NewRedisLocker(redisClient)
	} else {
		logg.Warn(context.Background(), "redis not configured, using in-process session locks")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	agentMetrics := metrics.NewAgentMetrics(registry)

	llmClient, err := llm.New(cfg.OpenAI, cfg.Agent)
	if err != nil {
		logg.Error(context.Background(), "failed to create llm client", err)
		os.Exit(1)
	}

	chainClient, err := chain.New(cfg.Chain)
	if err != nil {
		logg.Error(context.Background(), "failed to create chain client", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	conversationRepo := conversations.NewRepository(gormDB)
	categoryRepo := categorysvc.NewRepository(gormDB)
	productRepo := productsvc.NewRepository(gormDB)
	cartRepo := cartsvc.NewRepository(gormDB)
	transactionRepo := paymentsvc.NewRepository(gormDB)

	categoryService := categorysvc.NewService(categoryRepo)
	productService := productsvc.NewService(productRepo, categoryRepo)
	cartService := cartsvc.NewService(cartRepo, productRepo)
	paymentService := paymentsvc.NewService(
		gormDB,
		cartRepo,
		productRepo,
		transactionRepo,
		chainClient,
		locker,
		cfg.Chain.MerchantWallet,
		logg,
		agentMetrics,
	)
	authService := authsvc.NewService(userRepo, cfg.JWT, cfg.Password)

	toolRegistry := tools.NewRegistry()
	toolRegistry.Register(
		tools.NewSearchProducts(productService),
		tools.NewGetProductDetails(productService),
		tools.NewGetCategories(productService),
		tools.NewGetProductsByCategory(productService),
		tools.NewViewCart(cartService),
		tools.NewAddToCart(cartService),
		tools.NewRemoveFromCart(cartService),
		tools.NewUpdateCartSession(cartService),
		tools.NewVerifyPayment(paymentService),
	)

	agentService := agentsvc.NewService(
		llmClient,
		conversationRepo,
		toolRegistry,
		cfg.Agent.HistoryWindow,
		logg,
		agentMetrics,
	)

	handler := routes.NewRouter(routes.Deps{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Redis:      redisClient,
		Registry:   registry,
		Agent:      agentService,
		Auth:       authService,
		Products:   productService,
		Categories: categoryService,
		Cart:       cartService,
		Payments:   paymentService,
	})

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
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

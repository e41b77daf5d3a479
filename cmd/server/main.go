package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/siddhardh4356/slipwise/internal/auth"
	"github.com/siddhardh4356/slipwise/internal/cache"
	rediscache "github.com/siddhardh4356/slipwise/internal/cache/redis"
	"github.com/siddhardh4356/slipwise/internal/config"
	"github.com/siddhardh4356/slipwise/internal/metrics"
	"github.com/siddhardh4356/slipwise/internal/middleware"
	"github.com/siddhardh4356/slipwise/internal/notify"
	"github.com/siddhardh4356/slipwise/internal/service"
	"github.com/siddhardh4356/slipwise/internal/storage/sqlite"
	"github.com/siddhardh4356/slipwise/pkg/api/apiconnect"
	"github.com/siddhardh4356/slipwise/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DB.Path)

	var balances cache.BalanceCache
	if cfg.Redis.Addr != "" {
		client, err := rediscache.New(ctx, rediscache.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		balances = rediscache.NewBalanceCache(client, cfg.Cache.TTL)
		logger.Info("Balance cache initialized", "backend", "redis", "addr", cfg.Redis.Addr)
	} else {
		balances = cache.NewMemory(cfg.Cache.Size, cfg.Cache.TTL)
		logger.Info("Balance cache initialized", "backend", "memory", "size", cfg.Cache.Size)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	authService := service.NewAuthService(authenticator, jwtManager, store, logger)
	if cfg.SMTP.Host != "" {
		mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return err
		}
		authService = authService.WithPasswordReset(mailer, cfg.App.URL)
		logger.Info("Password reset email enabled", "smtp_host", cfg.SMTP.Host, "app_url", cfg.App.URL)
	}

	// Outermost first: metrics see every call, logging sees the authenticated user.
	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
			apiconnect.AuthServiceRequestPasswordResetProcedure,
			apiconnect.AuthServiceResetPasswordProcedure,
		),
		middleware.LoggingInterceptor(logger),
	)

	handler := newRouter(routerConfig{
		staticPath:     cfg.App.StaticPath,
		allowedOrigins: cfg.App.AllowedOrigins,
		metrics:        reg,
		logger:         logger,
		services: []mount{
			mountOf(apiconnect.NewAuthServiceHandler(authService, interceptors)),
			mountOf(apiconnect.NewGroupServiceHandler(service.NewGroupService(store, balances, m, logger), interceptors)),
			mountOf(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store, balances, m, logger), interceptors)),
			mountOf(apiconnect.NewSettlementServiceHandler(service.NewSettlementService(store, balances, logger), interceptors)),
			mountOf(apiconnect.NewUserServiceHandler(service.NewUserService(store, m, logger), interceptors)),
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

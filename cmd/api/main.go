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

	"github.com/cafcollect/caf-backend/api/routes"
	"github.com/cafcollect/caf-backend/internal/auth"
	"github.com/cafcollect/caf-backend/internal/pdv"
	"github.com/cafcollect/caf-backend/internal/rapports"
	"github.com/cafcollect/caf-backend/internal/recouvrements"
	"github.com/cafcollect/caf-backend/internal/settings"
	"github.com/cafcollect/caf-backend/internal/users"
	"github.com/cafcollect/caf-backend/pkg/config"
	"github.com/cafcollect/caf-backend/pkg/db"
	"github.com/cafcollect/caf-backend/pkg/logger"
	"github.com/cafcollect/caf-backend/pkg/migrate"
	"github.com/cafcollect/caf-backend/pkg/redis"
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

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, login rate limiting disabled")
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)

	authService, err := auth.NewService(usersRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	pdvRepo := pdv.NewRepository(gormDB)
	pdvService, err := pdv.NewService(pdvRepo, usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create pdv service", err)
		os.Exit(1)
	}
	settingsService, err := settings.NewService(settings.NewRepository(gormDB), usersRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	recouvrementsService, err := recouvrements.NewService(recouvrements.NewRepository(gormDB), dbClient, pdvRepo, settingsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create recouvrements service", err)
		os.Exit(1)
	}
	rapportsService, err := rapports.NewService(rapports.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create rapports service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Auth:          authService,
			Users:         usersService,
			PDV:           pdvService,
			Recouvrements: recouvrementsService,
			Settings:      settingsService,
			Rapports:      rapportsService,
		}),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

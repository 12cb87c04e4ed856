package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres/migrations"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/pkg/logger"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog := logger.New(logger.Options{
		ServiceName: "fulfillment",
		Level:       logger.ParseLevel(configs.LogLevel),
		Format:      configs.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, configs, appLog); err != nil {
		appLog.Error(context.Background(), "service stopped with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configs cmd.Config, appLog *logger.Logger) error {
	if err := migrations.Apply(ctx, configs.DSN()); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := redis.New(ctx, configs.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(sqlDB, "fulfillment"))

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient, appLog, registry)
	if err != nil {
		return err
	}
	handlers, err := app.Handlers()
	if err != nil {
		return err
	}
	verifier, err := httpin.NewTokenVerifier(configs.JWTSecret, configs.JWTIssuer)
	if err != nil {
		return err
	}
	e, err := httpin.NewRouter(ctx, app.RouterConfig(verifier, handlers))
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	serveErr := make(chan error, 1)
	go func() {
		appLog.Info(ctx, "http server listening on :"+configs.HTTPPort)
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	appLog.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

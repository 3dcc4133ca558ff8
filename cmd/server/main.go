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

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/api"
	"max.ks1230/fintrack-ml/internal/clients/backend"
	"max.ks1230/fintrack-ml/internal/clients/cache"
	"max.ks1230/fintrack-ml/internal/clients/kafka"
	"max.ks1230/fintrack-ml/internal/config"
	"max.ks1230/fintrack-ml/internal/logger"
	"max.ks1230/fintrack-ml/internal/model/training"
	"max.ks1230/fintrack-ml/internal/ocr"
	"max.ks1230/fintrack-ml/internal/storage"
	"max.ks1230/fintrack-ml/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Info("Server init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	closer, err := tracing.Init(api.ServiceName, conf.Tracing())
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	if closer != nil {
		defer closer.Close()
	}

	if dsn := conf.Server().SentryDSN(); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			logger.Fatal("failed to init sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	trainer := training.NewTrainer(conf.Models().Dir())
	if err := trainer.TrainMissing(ctx); err != nil {
		logger.Fatal("failed to train startup models", zap.Error(err))
	}

	deps := api.Deps{
		Extractor:   ocr.Detect(),
		Trainer:     trainer,
		ModelsDir:   conf.Models().Dir(),
		StorageName: "in-memory",
	}

	if conf.Postgres().Configured() {
		db, err := storage.NewPostgresStorage(conf.Postgres())
		if err != nil {
			logger.Fatal("failed to init postgres", zap.Error(err))
		}
		deps.Storage = db
		deps.StorageName = "postgres"
	} else {
		deps.Storage = storage.NewInMemStorage()
	}

	if conf.Memcached().Configured() {
		mc, err := cache.NewMemcache(conf.Memcached())
		if err != nil {
			logger.Fatal("failed to init memcached", zap.Error(err))
		}
		deps.Cache = mc
	}

	if conf.Backend().Configured() {
		deps.Backend = backend.New(conf.Backend())
	}

	if conf.Kafka().Configured() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Fatal("failed to init kafka producer", zap.Error(err))
		}
		defer producer.Close()
		deps.Queue = producer
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.Server().Host(), conf.Server().Port()),
		Handler: api.NewServer(conf.Server(), deps).Handler(),
	}

	go func() {
		logger.Info("Server init - end", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

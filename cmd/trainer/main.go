package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/clients/kafka"
	"max.ks1230/fintrack-ml/internal/config"
	"max.ks1230/fintrack-ml/internal/logger"
	"max.ks1230/fintrack-ml/internal/model/training"
)

func main() {
	force := flag.Bool("force", false, "retrain all model artifacts even if present")
	once := flag.Bool("once", false, "train and exit instead of consuming the job queue")
	flag.Parse()

	logger.Info("Trainer init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	trainer := training.NewTrainer(conf.Models().Dir())

	if *force {
		err = trainer.TrainAll(ctx)
	} else {
		err = trainer.TrainMissing(ctx)
	}
	if err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}

	if *once || !conf.Kafka().Configured() {
		logger.Info("Trainer - done")
		return
	}

	consumer, err := kafka.NewConsumer(conf.Kafka(), trainer)
	if err != nil {
		logger.Fatal("failed to init kafka consumer", zap.Error(err))
	}

	logger.Info("Trainer init - end")

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Fatal("failed to start consuming", zap.Error(err))
	}
}

package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/logger"
	"max.ks1230/fintrack-ml/internal/model/training"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type jobRunner interface {
	Run(ctx context.Context, job training.Job) error
}

// Consumer drains the training topic and hands each job to the trainer.
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	runner        jobRunner
}

func NewConsumer(cfg consumerConfig, runner jobRunner) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.TrainingTopic(),
		runner:        runner,
	}, err
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var job training.Job
		err := json.Unmarshal(message.Value, &job)
		if err != nil {
			logger.Error("cannot unmarshal kafka message", zap.Error(err))
		} else {
			logger.Info(
				"received training job",
				zap.ByteString("key", message.Key),
				zap.String("job", job.ID),
				zap.String("model", job.Model),
			)
			if err := c.runner.Run(session.Context(), job); err != nil {
				logger.Error("training job failed", zap.String("job", job.ID), zap.Error(err))
			}
		}
		session.MarkMessage(message, "")
	}

	return nil
}

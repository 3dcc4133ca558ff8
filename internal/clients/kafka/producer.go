package kafka

import (
	"encoding/json"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/logger"
	"max.ks1230/fintrack-ml/internal/model/training"
)

type producerConfig interface {
	Brokers() []string
	TrainingTopic() string
}

// Producer publishes training jobs for the trainer process to pick up.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg producerConfig) (*Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers(), config)
	return &Producer{
		producer: producer,
		topic:    cfg.TrainingTopic(),
	}, err
}

func (p *Producer) EnqueueJob(job training.Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "marshal training job")
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(job.UserID),
		Value: sarama.ByteEncoder(raw),
	})
	return errors.Wrap(err, "enqueue training job")
}

func (p *Producer) Close() {
	err := p.producer.Close()
	if err != nil {
		logger.Error("failed to close producer", zap.Error(err))
	}
}

package config

type KafkaConfig struct {
	BrokerList []string `yaml:"brokers"`
	Consumer   string   `yaml:"consumer-group"`
	JobsTopic  string   `yaml:"training-topic"`
}

func (s *KafkaConfig) Brokers() []string {
	return s.BrokerList
}

func (s *KafkaConfig) ConsumerGroup() string {
	return s.Consumer
}

func (s *KafkaConfig) TrainingTopic() string {
	return s.JobsTopic
}

func (s *KafkaConfig) Configured() bool {
	return len(s.BrokerList) > 0
}

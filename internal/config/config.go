package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configPathKey     = "CONFIG_PATH"
	defaultConfigFile = "data/config.yaml"
)

type config struct {
	Server    ServerConfig    `yaml:"server"`
	Models    ModelsConfig    `yaml:"models"`
	Backend   BackendConfig   `yaml:"backend"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Memcached MemcachedConfig `yaml:"memcached"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

type Service struct {
	config config
}

func New() (*Service, error) {
	s := &Service{}

	path := os.Getenv(configPathKey)
	if path == "" {
		path = defaultConfigFile
	}

	rawYAML, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}

	return s, nil
}

func (s *Service) Server() *ServerConfig {
	return &s.config.Server
}

func (s *Service) Models() *ModelsConfig {
	return &s.config.Models
}

func (s *Service) Backend() *BackendConfig {
	return &s.config.Backend
}

func (s *Service) Kafka() *KafkaConfig {
	return &s.config.Kafka
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}

func (s *Service) Postgres() *PostgresConfig {
	return &s.config.Postgres
}

func (s *Service) Tracing() *TracingConfig {
	return &s.config.Tracing
}

package config

type TracingConfig struct {
	On        bool   `yaml:"enabled"`
	AgentHost string `yaml:"agent-addr"`
}

func (s *TracingConfig) Enabled() bool {
	return s.On
}

func (s *TracingConfig) AgentAddr() string {
	return s.AgentHost
}

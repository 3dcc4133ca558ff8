package config

const (
	defaultPort      = 8000
	defaultRateLimit = 100
)

type ServerConfig struct {
	HostName           string `yaml:"host"`
	PortNumber         int    `yaml:"port"`
	DebugMode          bool   `yaml:"debug"`
	RequestsPerMinute  int    `yaml:"rate-limit-per-minute"`
	SentryErrorTracker string `yaml:"sentry-dsn"`
}

func (s *ServerConfig) Host() string {
	return s.HostName
}

func (s *ServerConfig) Port() int {
	if s.PortNumber == 0 {
		return defaultPort
	}
	return s.PortNumber
}

func (s *ServerConfig) Debug() bool {
	return s.DebugMode
}

func (s *ServerConfig) RateLimit() int {
	if s.RequestsPerMinute == 0 {
		return defaultRateLimit
	}
	return s.RequestsPerMinute
}

func (s *ServerConfig) SentryDSN() string {
	return s.SentryErrorTracker
}

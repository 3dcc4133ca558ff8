package config

type BackendConfig struct {
	BackendURL string `yaml:"url"`
}

func (s *BackendConfig) URL() string {
	return s.BackendURL
}

func (s *BackendConfig) Configured() bool {
	return s.BackendURL != ""
}

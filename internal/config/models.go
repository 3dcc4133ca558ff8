package config

const defaultModelDir = "models"

type ModelsConfig struct {
	ModelDir string `yaml:"dir"`
}

func (s *ModelsConfig) Dir() string {
	if s.ModelDir == "" {
		return defaultModelDir
	}
	return s.ModelDir
}

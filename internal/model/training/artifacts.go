package training

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	CategoryModelFile  = "category_model.json"
	AnomalyModelFile   = "anomaly_model.json"
	ForecastConfigFile = "forecast_config.json"
)

var artifactFiles = []string{CategoryModelFile, AnomalyModelFile, ForecastConfigFile}

// ForecastConfig parameterizes per-user time-series fitting; it is stored
// as an artifact rather than a trained model because the series is fit from
// each user's own history.
type ForecastConfig struct {
	ModelType        string `json:"model_type"`
	Order            [3]int `json:"order"`
	SeasonalOrder    [4]int `json:"seasonal_order"`
	MinDataPoints    int    `json:"min_data_points"`
	ForecastHorizons []int  `json:"forecast_horizons"`
}

func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		ModelType:        "ARIMA",
		Order:            [3]int{1, 1, 1},
		SeasonalOrder:    [4]int{0, 0, 0, 0},
		MinDataPoints:    30,
		ForecastHorizons: []int{7, 14, 30},
	}
}

// CheckArtifacts splits the known artifact set into present and missing
// file names.
func CheckArtifacts(dir string) (existing, missing []string) {
	for _, name := range artifactFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			existing = append(existing, name)
		} else {
			missing = append(missing, name)
		}
	}
	return existing, missing
}

// CountArtifacts reports how many model files are present in dir.
func CountArtifacts(dir string) int {
	existing, _ := CheckArtifacts(dir)
	return len(existing)
}

// saveArtifact writes v as JSON via a temp file and rename, so readers
// never observe a half-written artifact.
func saveArtifact(dir, name string, v interface{}) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create model dir")
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal artifact")
	}

	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp artifact")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write artifact")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close artifact")
	}
	return errors.Wrap(os.Rename(tmp.Name(), filepath.Join(dir, name)), "publish artifact")
}

func loadArtifact(dir, name string, v interface{}) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return errors.Wrap(err, "read artifact")
	}
	return errors.Wrap(json.Unmarshal(raw, v), "unmarshal artifact")
}

// LoadTextClassifier reads the trained category model from dir.
func LoadTextClassifier(dir string) (*TextClassifier, error) {
	var clf TextClassifier
	if err := loadArtifact(dir, CategoryModelFile, &clf); err != nil {
		return nil, err
	}
	return &clf, nil
}

// LoadIsolationForest reads the trained anomaly model from dir.
func LoadIsolationForest(dir string) (*IsolationForest, error) {
	var forest IsolationForest
	if err := loadArtifact(dir, AnomalyModelFile, &forest); err != nil {
		return nil, err
	}
	return &forest, nil
}

// LoadForecastConfig reads the forecast parameters from dir.
func LoadForecastConfig(dir string) (ForecastConfig, error) {
	var cfg ForecastConfig
	err := loadArtifact(dir, ForecastConfigFile, &cfg)
	return cfg, err
}

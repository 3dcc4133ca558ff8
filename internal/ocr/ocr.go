// Package ocr extracts text from receipt images. The real engine shells
// out to the tesseract binary; when it is not installed a mock extractor
// returns a fixed sample receipt so the rest of the pipeline keeps working.
package ocr

import (
	"context"
	"os/exec"

	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/logger"
)

// TextExtractor turns image bytes into text plus a confidence in [0,1].
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, float64, error)
	Available() bool
	Version() string
}

// Detect probes the environment once at startup and picks the extractor.
func Detect() TextExtractor {
	path, err := exec.LookPath(tesseractBinary)
	if err != nil {
		logger.Warn("tesseract not found, receipt scanning will use mock data")
		return NewMock()
	}

	t := newTesseract(path)
	logger.Info("tesseract detected",
		zap.String("path", path),
		zap.String("version", t.Version()))
	return t
}

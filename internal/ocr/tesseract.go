package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const tesseractBinary = "tesseract"

// Tesseract runs the tesseract CLI against a temp copy of the upload. The
// TSV output carries per-word confidences which are averaged into the
// overall confidence.
type Tesseract struct {
	path    string
	version string
}

func newTesseract(path string) *Tesseract {
	return &Tesseract{path: path, version: probeVersion(path)}
}

func (t *Tesseract) Available() bool { return true }

func (t *Tesseract) Version() string { return t.version }

func (t *Tesseract) ExtractText(ctx context.Context, image []byte) (string, float64, error) {
	tmp, err := os.CreateTemp("", "receipt-*")
	if err != nil {
		return "", 0, errors.Wrap(err, "create temp image")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", 0, errors.Wrap(err, "write temp image")
	}
	if err := tmp.Close(); err != nil {
		return "", 0, errors.Wrap(err, "close temp image")
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, t.path, tmp.Name(), "stdout")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", 0, errors.Wrap(err, "run tesseract")
	}
	text := out.String()

	confidence, err := t.confidence(ctx, tmp.Name())
	if err != nil {
		// Text came through; a failed confidence pass should not sink it.
		confidence = 0
	}

	return text, confidence, nil
}

// confidence reruns tesseract in tsv mode and averages the per-word
// confidence column, skipping the -1 placeholders of non-word rows.
func (t *Tesseract) confidence(ctx context.Context, imagePath string) (float64, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, t.path, imagePath, "stdout", "tsv")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, errors.Wrap(err, "run tesseract tsv")
	}

	lines := strings.Split(out.String(), "\n")
	var sum float64
	var count int
	for i, line := range lines {
		if i == 0 {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 11 {
			continue
		}
		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		sum += conf
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count) / 100, nil
}

func probeVersion(path string) string {
	out, err := exec.Command(path, "--version").CombinedOutput()
	if err != nil {
		return "unknown"
	}
	first := strings.SplitN(string(out), "\n", 2)[0]
	return strings.TrimSpace(strings.TrimPrefix(first, "tesseract "))
}

package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/logger"
	"max.ks1230/fintrack-ml/internal/model/receipt"
)

const maxUploadBytes = 10 << 20

var allowedUploadTypes = []string{"image/jpeg", "image/png", "image/jpg", "application/pdf"}

func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	start := timeNow()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !uploadTypeAllowed(contentType) {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("Unsupported file type: %s. Allowed: JPEG, PNG, PDF", contentType))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file: "+err.Error())
		return
	}

	extractItems := r.FormValue("extract_items") == "true"

	var errs []string
	var rawText string
	var confidence float64

	if s.deps.Extractor.Available() {
		rawText, confidence, err = s.deps.Extractor.ExtractText(r.Context(), content)
		if err != nil {
			logger.Error("ocr processing", zap.Error(err))
			errs = append(errs, "OCR processing failed: "+err.Error())
			rawText, confidence = "", 0
		}
	} else {
		errs = append(errs, "Tesseract OCR not installed. Using mock data.")
		rawText, confidence, _ = s.deps.Extractor.ExtractText(r.Context(), content)
	}

	var data *receipt.Data
	if strings.TrimSpace(rawText) != "" {
		data = receipt.Parse(rawText)
		if extractItems {
			data.Items = receipt.ExtractItems(rawText)
		}
	} else if len(errs) == 0 {
		errs = append(errs, "No text could be extracted from the image")
	}

	result := receipt.Result{
		Success:          data != nil && data.Total != nil,
		Confidence:       confidence,
		Data:             data,
		Errors:           errs,
		ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if rawText != "" {
		result.RawText = &rawText
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}

	respondJSON(w, http.StatusOK, result)
}

type parseTextRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	start := timeNow()

	var req parseTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "Text cannot be empty")
		return
	}

	data := receipt.Parse(req.Text)

	respondJSON(w, http.StatusOK, receipt.Result{
		Success:          data.Total != nil,
		Confidence:       1.0, // text provided directly
		Data:             data,
		RawText:          &req.Text,
		Errors:           []string{},
		ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000,
	})
}

func (s *Server) handleOCRStatus(w http.ResponseWriter, _ *http.Request) {
	available := s.deps.Extractor.Available()

	var version *string
	if v := s.deps.Extractor.Version(); available && v != "" {
		version = &v
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"available":         available,
		"tesseract_version": version,
		"supported_formats": []string{"image/jpeg", "image/png", "application/pdf"},
		"features": map[string]bool{
			"text_extraction":     true,
			"amount_parsing":      true,
			"date_extraction":     true,
			"merchant_detection":  true,
			"category_prediction": true,
			"item_extraction":     available,
		},
	})
}

func uploadTypeAllowed(contentType string) bool {
	for _, t := range allowedUploadTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

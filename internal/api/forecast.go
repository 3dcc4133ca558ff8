package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"max.ks1230/fintrack-ml/internal/model/forecast"
)

type forecastRequest struct {
	UserID      string  `json:"user_id"`
	Type        string  `json:"type"`
	HorizonDays int     `json:"horizon_days"`
	CategoryID  *string `json:"category_id"`
}

type forecastResponse struct {
	Success     bool             `json:"success"`
	UserID      string           `json:"user_id"`
	Type        string           `json:"type"`
	HorizonDays int              `json:"horizon_days"`
	GeneratedAt time.Time        `json:"generated_at"`
	Predictions []forecast.Point `json:"predictions"`
	Summary     forecast.Summary `json:"summary"`
}

func (s *Server) handleForecastGenerate(w http.ResponseWriter, r *http.Request) {
	req := forecastRequest{Type: "spending", HorizonDays: forecast.DefaultHorizonDays}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.respondForecast(w, req)
}

// handleForecastFor serves the user-scoped GET variants with a bounded
// days query parameter.
func (s *Server) handleForecastFor(forecastType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := forecast.DefaultHorizonDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, "days must be an integer")
				return
			}
			days = parsed
		}

		s.respondForecast(w, forecastRequest{
			UserID:      chi.URLParam(r, "userID"),
			Type:        forecastType,
			HorizonDays: forecast.ClampQueryDays(days),
		})
	}
}

func (s *Server) respondForecast(w http.ResponseWriter, req forecastRequest) {
	series := s.generator.Generate(req.Type, req.HorizonDays)

	respondJSON(w, http.StatusOK, forecastResponse{
		Success:     true,
		UserID:      req.UserID,
		Type:        req.Type,
		HorizonDays: len(series.Predictions),
		GeneratedAt: time.Now().UTC(),
		Predictions: series.Predictions,
		Summary:     series.Summary,
	})
}

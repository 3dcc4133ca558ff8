package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"max.ks1230/fintrack-ml/internal/model/insights"
)

type insightsRequest struct {
	UserID             string `json:"user_id"`
	IncludeSpending    *bool  `json:"include_spending"`
	IncludeSavings     *bool  `json:"include_savings"`
	IncludeGoals       *bool  `json:"include_goals"`
	IncludePredictions *bool  `json:"include_predictions"`
}

type insightsResponse struct {
	Success     bool               `json:"success"`
	UserID      string             `json:"user_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Insights    []insights.Insight `json:"insights"`
	Summary     insights.Summary   `json:"summary"`
}

func (s *Server) handleInsightsGenerate(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.respondInsights(w, req.UserID, optionsOf(req), 0)
}

func (s *Server) handleUserInsights(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	s.respondInsights(w, chi.URLParam(r, "userID"), insights.AllOptions(), limit)
}

func (s *Server) handleSpendingInsights(w http.ResponseWriter, r *http.Request) {
	s.respondInsights(w, chi.URLParam(r, "userID"), insights.Options{IncludeSpending: true}, 0)
}

func (s *Server) handleSavingsInsights(w http.ResponseWriter, r *http.Request) {
	s.respondInsights(w, chi.URLParam(r, "userID"), insights.Options{
		IncludeSavings: true,
		IncludeGoals:   true,
	}, 0)
}

func (s *Server) respondInsights(w http.ResponseWriter, userID string, opts insights.Options, limit int) {
	cards, summary := insights.Generate(opts)
	if limit > 0 && len(cards) > limit {
		cards = cards[:limit]
	}

	respondJSON(w, http.StatusOK, insightsResponse{
		Success:     true,
		UserID:      userID,
		GeneratedAt: timeNow().UTC(),
		Insights:    cards,
		Summary:     summary,
	})
}

// optionsOf treats absent flags as enabled, matching the all-on default.
func optionsOf(req insightsRequest) insights.Options {
	enabled := func(v *bool) bool { return v == nil || *v }
	return insights.Options{
		IncludeSpending:    enabled(req.IncludeSpending),
		IncludeSavings:     enabled(req.IncludeSavings),
		IncludeGoals:       enabled(req.IncludeGoals),
		IncludePredictions: enabled(req.IncludePredictions),
	}
}

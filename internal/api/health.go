package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/logger"
	"max.ks1230/fintrack-ml/internal/model/health"
)

type healthCalculateRequest struct {
	UserID  string         `json:"user_id"`
	Metrics health.Metrics `json:"metrics"`
}

type healthResponse struct {
	Success         bool               `json:"success"`
	UserID          string             `json:"user_id"`
	OverallScore    float64            `json:"overall_score"`
	Grade           string             `json:"grade"`
	AssessmentDate  time.Time          `json:"assessment_date"`
	Components      []health.Component `json:"components"`
	Recommendations []string           `json:"recommendations"`
	Trends          map[string]string  `json:"trends"`
}

func (s *Server) handleHealthCalculate(w http.ResponseWriter, r *http.Request) {
	var req healthCalculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	assessment := health.Score(req.Metrics)
	s.recordAssessment(r, req.UserID, assessment)
	s.respondAssessment(w, req.UserID, assessment)
}

// handleHealthLatest serves the cached assessment when present, otherwise
// scores fresh metrics from the backend, falling back to samples.
func (s *Server) handleHealthLatest(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if s.deps.Cache != nil {
		cached, err := s.deps.Cache.LatestAssessment(userID)
		if err != nil {
			logger.Warn("assessment cache lookup", zap.String("user", userID), zap.Error(err))
		} else if cached != nil {
			s.respondAssessment(w, userID, *cached)
			return
		}
	}

	metrics := health.SampleMetrics()
	if s.deps.Backend != nil {
		fetched, err := s.deps.Backend.UserMetrics(r.Context(), userID)
		if err != nil {
			logger.Warn("backend metrics unavailable, using samples",
				zap.String("user", userID), zap.Error(err))
		} else {
			metrics = fetched
		}
	}

	assessment := health.Score(metrics)
	s.recordAssessment(r, userID, assessment)
	s.respondAssessment(w, userID, assessment)
}

func (s *Server) handleHealthHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	months := 6
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "months must be a positive integer")
			return
		}
		months = parsed
	}

	now := timeNow()
	if s.deps.Storage != nil {
		records, err := s.deps.Storage.UserHistory(r.Context(), userID, now.AddDate(0, -months, 0))
		if err != nil {
			logger.Error("history lookup", zap.String("user", userID), zap.Error(err))
		} else if len(records) > 0 {
			points := make([]health.HistoryPoint, 0, len(records))
			for _, rec := range records {
				points = append(points, health.HistoryPoint{
					Month: rec.AssessedAt.Format("2006-01"),
					Score: rec.OverallScore,
					Grade: rec.Grade,
				})
			}
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"user_id": userID,
				"history": points,
				"trend":   trendOf(records[0].OverallScore, records[len(records)-1].OverallScore),
			})
			return
		}
	}

	synth := health.SynthesizedHistory(months, now)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user_id": userID,
		"history": synth.History,
		"trend":   synth.Trend,
		"change":  synth.Change,
	})
}

func (s *Server) recordAssessment(r *http.Request, userID string, a health.Assessment) {
	if s.deps.Storage != nil {
		if err := s.deps.Storage.SaveAssessment(r.Context(), userID, a, timeNow()); err != nil {
			logger.Error("save assessment", zap.String("user", userID), zap.Error(err))
		}
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.CacheLatestAssessment(userID, a); err != nil {
			logger.Warn("cache assessment", zap.String("user", userID), zap.Error(err))
		}
	}
}

func (s *Server) respondAssessment(w http.ResponseWriter, userID string, a health.Assessment) {
	respondJSON(w, http.StatusOK, healthResponse{
		Success:         true,
		UserID:          userID,
		OverallScore:    a.OverallScore,
		Grade:           a.Grade,
		AssessmentDate:  timeNow().UTC(),
		Components:      a.Components,
		Recommendations: a.Recommendations,
		Trends:          a.Trends,
	})
}

func trendOf(first, last float64) string {
	switch {
	case last > first:
		return "improving"
	case last < first:
		return "declining"
	default:
		return "stable"
	}
}

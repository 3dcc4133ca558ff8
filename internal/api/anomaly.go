package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/entity/transaction"
	"max.ks1230/fintrack-ml/internal/logger"
	"max.ks1230/fintrack-ml/internal/model/anomaly"
)

type anomalyRequest struct {
	UserID       string                    `json:"user_id"`
	Transactions []transaction.Transaction `json:"transactions"`
	Sensitivity  float64                   `json:"sensitivity"`
}

type anomalyResponse struct {
	Success           bool                   `json:"success"`
	UserID            string                 `json:"user_id"`
	TotalTransactions int                    `json:"total_transactions"`
	AnomaliesFound    int                    `json:"anomalies_found"`
	Results           []anomaly.Result       `json:"results"`
	Summary           map[string]interface{} `json:"summary"`
}

func (s *Server) handleAnomalyDetect(w http.ResponseWriter, r *http.Request) {
	var req anomalyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Transactions) == 0 {
		respondJSON(w, http.StatusOK, anomalyResponse{
			Success: true,
			UserID:  req.UserID,
			Results: []anomaly.Result{},
			Summary: map[string]interface{}{"message": "No transactions to analyze"},
		})
		return
	}

	results, summary, found := anomaly.Detect(req.Transactions)

	if s.deps.Cache != nil {
		if err := s.deps.Cache.CacheRecentAnomalies(req.UserID, flagged(results)); err != nil {
			logger.Warn("cache anomalies", zap.String("user", req.UserID), zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, anomalyResponse{
		Success:           true,
		UserID:            req.UserID,
		TotalTransactions: len(req.Transactions),
		AnomaliesFound:    found,
		Results:           results,
		Summary: map[string]interface{}{
			"mean_amount":           summary.MeanAmount,
			"std_amount":            summary.StdAmount,
			"anomaly_rate":          summary.AnomalyRate,
			"high_severity_count":   summary.HighSeverityCount,
			"medium_severity_count": summary.MediumSeverityCount,
		},
	})
}

// handleAnomalyRecent serves cached anomalies from earlier detect calls.
func (s *Server) handleAnomalyRecent(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	var results []anomaly.Result
	if s.deps.Cache != nil {
		cached, err := s.deps.Cache.RecentAnomalies(userID)
		if err != nil {
			logger.Warn("recent anomalies lookup", zap.String("user", userID), zap.Error(err))
		} else {
			results = cached
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}

	body := map[string]interface{}{
		"success":   true,
		"user_id":   userID,
		"anomalies": results,
	}
	if len(results) == 0 {
		body["anomalies"] = []anomaly.Result{}
		body["message"] = "No recent anomalies detected"
	}
	respondJSON(w, http.StatusOK, body)
}

// handleTrain enqueues a retraining job, or runs it inline when no queue
// is configured.
func (s *Server) handleTrain(model, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		job := newTrainingJob(userID, model)

		status := "processing"
		if s.deps.Queue != nil {
			if err := s.deps.Queue.EnqueueJob(job); err != nil {
				logger.Error("enqueue training job", zap.String("job", job.ID), zap.Error(err))
				respondError(w, http.StatusInternalServerError, "failed to schedule training")
				return
			}
		} else if s.deps.Trainer != nil {
			if err := s.deps.Trainer.Run(r.Context(), job); err != nil {
				logger.Error("inline training", zap.String("job", job.ID), zap.Error(err))
				respondError(w, http.StatusInternalServerError, "training failed")
				return
			}
			status = "completed"
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user_id": userID,
			"job_id":  job.ID,
			"message": message,
			"status":  status,
		})
	}
}

func flagged(results []anomaly.Result) []anomaly.Result {
	out := make([]anomaly.Result, 0, len(results))
	for _, r := range results {
		if r.IsAnomaly {
			out = append(out, r)
		}
	}
	return out
}

var timeNow = time.Now

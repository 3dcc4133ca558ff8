package api

import (
	"net/http"

	"github.com/google/uuid"

	"max.ks1230/fintrack-ml/internal/model/category"
	"max.ks1230/fintrack-ml/internal/model/training"
)

type predictionRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Merchant    string  `json:"merchant"`
}

type batchPredictionRequest struct {
	Transactions []predictionRequest `json:"transactions"`
}

func (s *Server) handleCategoryPredict(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"prediction": category.Predict(req.Description, req.Merchant, req.Amount),
	})
}

func (s *Server) handleCategoryPredictBatch(w http.ResponseWriter, r *http.Request) {
	var req batchPredictionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	predictions := make([]category.Prediction, 0, len(req.Transactions))
	for _, txn := range req.Transactions {
		predictions = append(predictions, category.Predict(txn.Description, txn.Merchant, txn.Amount))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"predictions": predictions,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": category.Categories(),
	})
}

func newTrainingJob(userID, model string) training.Job {
	return training.Job{
		ID:          uuid.NewString(),
		UserID:      userID,
		Model:       model,
		RequestedAt: timeNow().UTC(),
	}
}

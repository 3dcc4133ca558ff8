package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"max.ks1230/fintrack-ml/internal/entity/goal"
	"max.ks1230/fintrack-ml/internal/model/goals"
)

type goalAnalysisRequest struct {
	UserID            string      `json:"user_id"`
	Goals             []goal.Goal `json:"goals"`
	MonthlyIncome     float64     `json:"monthly_income"`
	MonthlyExpenses   float64     `json:"monthly_expenses"`
	AvailableForGoals *float64    `json:"available_for_goals"`
}

type goalAnalysisResponse struct {
	Success         bool                   `json:"success"`
	UserID          string                 `json:"user_id"`
	AnalysisDate    time.Time              `json:"analysis_date"`
	TotalGoals      int                    `json:"total_goals"`
	AchievableGoals int                    `json:"achievable_goals"`
	Recommendations []goals.Recommendation `json:"recommendations"`
	Summary         goals.Summary          `json:"summary"`
	PriorityOrder   []string               `json:"priority_order"`
}

func (s *Server) handleGoalsAnalyze(w http.ResponseWriter, r *http.Request) {
	var req goalAnalysisRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	analysis := goals.Analyze(req.Goals, req.MonthlyIncome, req.MonthlyExpenses,
		req.AvailableForGoals, timeNow())

	respondJSON(w, http.StatusOK, goalAnalysisResponse{
		Success:         true,
		UserID:          req.UserID,
		AnalysisDate:    timeNow().UTC(),
		TotalGoals:      analysis.TotalGoals,
		AchievableGoals: analysis.AchievableGoals,
		Recommendations: analysis.Recommendations,
		Summary:         analysis.Summary,
		PriorityOrder:   analysis.PriorityOrder,
	})
}

type allocationEntry struct {
	GoalID     string  `json:"goal_id"`
	GoalName   string  `json:"goal_name"`
	Allocation float64 `json:"allocation"`
}

// handleGoalsOptimize reuses the analysis and reports allocations only.
func (s *Server) handleGoalsOptimize(w http.ResponseWriter, r *http.Request) {
	var req goalAnalysisRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	analysis := goals.Analyze(req.Goals, req.MonthlyIncome, req.MonthlyExpenses,
		req.AvailableForGoals, timeNow())

	allocations := make([]allocationEntry, 0, len(analysis.Recommendations))
	var total float64
	for _, rec := range analysis.Recommendations {
		allocations = append(allocations, allocationEntry{
			GoalID:     rec.GoalID,
			GoalName:   rec.GoalName,
			Allocation: rec.RecommendedMonthly,
		})
		total += rec.RecommendedMonthly
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"user_id":              req.UserID,
		"optimized_allocation": allocations,
		"total_allocated":      total,
	})
}

func (s *Server) handleGoalSuggestions(w http.ResponseWriter, r *http.Request) {
	income := 5000.0
	if raw := r.URL.Query().Get("income"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "income must be a number")
			return
		}
		income = parsed
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"user_id":     chi.URLParam(r, "userID"),
		"suggestions": goals.Suggestions(income),
	})
}

package goals

import (
	"fmt"
	"math"
	"sort"
	"time"

	"max.ks1230/fintrack-ml/internal/entity/goal"
)

type Recommendation struct {
	GoalID             string    `json:"goal_id"`
	GoalName           string    `json:"goal_name"`
	RecommendedMonthly float64   `json:"recommended_monthly"`
	CompletionDate     goal.Date `json:"completion_date"`
	IsAchievable       bool      `json:"is_achievable"`
	ProgressPercent    float64   `json:"progress_percent"`
	Status             string    `json:"status"`
	Tips               []string  `json:"tips"`
}

type Summary struct {
	TotalTarget   float64 `json:"total_target"`
	TotalSaved    float64 `json:"total_saved"`
	MonthlyBudget float64 `json:"monthly_budget"`
	Allocated     float64 `json:"allocated"`
	Unallocated   float64 `json:"unallocated"`
}

type Analysis struct {
	TotalGoals      int              `json:"total_goals"`
	AchievableGoals int              `json:"achievable_goals"`
	Recommendations []Recommendation `json:"recommendations"`
	Summary         Summary          `json:"summary"`
	PriorityOrder   []string         `json:"priority_order"`
}

type Suggestion struct {
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	RecommendedTarget *float64 `json:"recommended_target"`
	Reason            string   `json:"reason"`
	Priority          int      `json:"priority"`
}

// Analyze greedily allocates the monthly budget across goals sorted by
// priority then deadline. available overrides the income/expenses leftover
// when non-nil and non-zero. now anchors the months-remaining arithmetic.
func Analyze(goalList []goal.Goal, income, expenses float64, available *float64, now time.Time) Analysis {
	budget := income - expenses
	if available != nil && *available != 0 {
		budget = *available
	}
	budget = math.Max(budget, 0)

	sorted := make([]goal.Goal, len(goalList))
	copy(sorted, goalList)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].Deadline.Before(sorted[j].Deadline.Time)
	})

	recommendations := make([]Recommendation, 0, len(sorted))
	priorityOrder := make([]string, 0, len(sorted))
	achievable := 0
	remainingBudget := budget

	for _, g := range sorted {
		remaining := g.TargetAmount - g.CurrentAmount
		monthsLeft := monthsBetween(now, g.Deadline.Time)
		if monthsLeft < 1 {
			monthsLeft = 1
		}

		required := remaining / float64(monthsLeft)
		progress := g.Progress()

		isAchievable := required <= remainingBudget

		var recommended float64
		var completion time.Time
		var status string
		if isAchievable {
			recommended = required
			remainingBudget -= required
			achievable++
			completion = g.Deadline.Time

			// Progress keeps pace with the share of the year already gone.
			if progress >= 100-float64(monthsLeft)/12*100 {
				status = "ahead"
			} else {
				status = "on_track"
			}
		} else if remainingBudget > 0 {
			monthsNeeded := remaining / remainingBudget
			completion = now.AddDate(0, int(monthsNeeded), 0)
			recommended = math.Min(remainingBudget*0.5, required)
			remainingBudget -= recommended
			status = "behind"
		} else {
			completion = g.Deadline.AddDate(1, 0, 0)
			recommended = 0
			status = "at_risk"
		}

		var tips []string
		if status == "behind" {
			tips = append(tips, fmt.Sprintf("Increase monthly contribution to $%.0f to meet deadline", required))
		}
		if status == "at_risk" {
			tips = append(tips, "Consider extending deadline or reducing target amount")
		}
		if progress < 25 && monthsLeft < 6 {
			tips = append(tips, "This goal needs immediate attention")
		}
		if len(tips) == 0 {
			tips = append(tips, "Great progress! Keep it up!")
		}

		recommendations = append(recommendations, Recommendation{
			GoalID:             g.ID,
			GoalName:           g.Name,
			RecommendedMonthly: round2(recommended),
			CompletionDate:     goal.NewDate(completion),
			IsAchievable:       isAchievable,
			ProgressPercent:    round1(progress),
			Status:             status,
			Tips:               tips,
		})
		priorityOrder = append(priorityOrder, g.ID)
	}

	var totalTarget, totalSaved float64
	for _, g := range goalList {
		totalTarget += g.TargetAmount
		totalSaved += g.CurrentAmount
	}

	return Analysis{
		TotalGoals:      len(goalList),
		AchievableGoals: achievable,
		Recommendations: recommendations,
		Summary: Summary{
			TotalTarget:   totalTarget,
			TotalSaved:    totalSaved,
			MonthlyBudget: budget,
			Allocated:     budget - remainingBudget,
			Unallocated:   remainingBudget,
		},
		PriorityOrder: priorityOrder,
	}
}

// Suggestions returns starter goals scaled to monthly income. The debt
// payoff target stays nil, it depends on balances the caller did not send.
func Suggestions(income float64) []Suggestion {
	emergency := income * 6
	retirement := income * 0.15 * 12
	vacation := 3000.0
	return []Suggestion{
		{
			Name:              "Emergency Fund",
			Category:          "savings",
			RecommendedTarget: &emergency,
			Reason:            "Essential safety net for unexpected expenses",
			Priority:          1,
		},
		{
			Name:     "High-Interest Debt Payoff",
			Category: "debt",
			Reason:   "Eliminate expensive debt to free up cash flow",
			Priority: 2,
		},
		{
			Name:              "Retirement Savings",
			Category:          "investment",
			RecommendedTarget: &retirement,
			Reason:            "Build long-term wealth for financial independence",
			Priority:          3,
		},
		{
			Name:              "Vacation Fund",
			Category:          "savings",
			RecommendedTarget: &vacation,
			Reason:            "Plan for experiences without going into debt",
			Priority:          4,
		},
	}
}

// monthsBetween counts whole calendar months from a to b, ignoring days.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

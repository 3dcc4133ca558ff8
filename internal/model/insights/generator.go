package insights

import "sort"

type Insight struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Impact      string                 `json:"impact"`
	Priority    int                    `json:"priority"`
	Actionable  bool                   `json:"actionable"`
	ActionText  *string                `json:"action_text"`
	Data        map[string]interface{} `json:"data"`
}

type Summary struct {
	TotalInsights     int `json:"total_insights"`
	ActionableCount   int `json:"actionable_count"`
	PositiveCount     int `json:"positive_count"`
	NegativeCount     int `json:"negative_count"`
	HighPriorityCount int `json:"high_priority_count"`
}

// Options toggles the insight families included in a report. Everything is
// on by default.
type Options struct {
	IncludeSpending    bool `json:"include_spending"`
	IncludeSavings     bool `json:"include_savings"`
	IncludeGoals       bool `json:"include_goals"`
	IncludePredictions bool `json:"include_predictions"`
}

func AllOptions() Options {
	return Options{
		IncludeSpending:    true,
		IncludeSavings:     true,
		IncludeGoals:       true,
		IncludePredictions: true,
	}
}

// Generate assembles the insight cards selected by opts, sorted by priority
// with the most urgent first.
func Generate(opts Options) ([]Insight, Summary) {
	var insights []Insight

	if opts.IncludeSpending {
		insights = append(insights,
			Insight{
				ID:          "spend_1",
				Type:        "spending",
				Title:       "Restaurant Spending Up 23%",
				Description: "Your dining out expenses increased by 23% compared to last month. Consider setting a dining budget to save $150/month.",
				Impact:      "negative",
				Priority:    4,
				Actionable:  true,
				ActionText:  strPtr("Set Dining Budget"),
				Data: map[string]interface{}{
					"category":          "Dining",
					"increase_percent":  23,
					"potential_savings": 150,
				},
			},
			Insight{
				ID:          "spend_2",
				Type:        "spending",
				Title:       "Subscription Review Needed",
				Description: "You have 8 active subscriptions totaling $127/month. 2 subscriptions haven't been used in 30+ days.",
				Impact:      "neutral",
				Priority:    3,
				Actionable:  true,
				ActionText:  strPtr("Review Subscriptions"),
				Data: map[string]interface{}{
					"total_subscriptions": 8,
					"monthly_cost":        127,
					"unused_count":        2,
				},
			},
		)
	}

	if opts.IncludeSavings {
		insights = append(insights, Insight{
			ID:          "save_1",
			Type:        "savings",
			Title:       "Great Savings Progress!",
			Description: "You've saved 15% more than your target this month. Keep up the excellent work!",
			Impact:      "positive",
			Priority:    2,
			Actionable:  false,
			Data: map[string]interface{}{
				"savings_rate": 18,
				"target_rate":  15,
			},
		})
	}

	if opts.IncludeGoals {
		insights = append(insights, Insight{
			ID:          "goal_1",
			Type:        "goal",
			Title:       "Vacation Fund On Track",
			Description: "At your current savings rate, you'll reach your $3,000 vacation goal by June 15th - 2 weeks ahead of schedule!",
			Impact:      "positive",
			Priority:    3,
			Actionable:  false,
			Data: map[string]interface{}{
				"goal_name":       "Vacation Fund",
				"target":          3000,
				"completion_date": "2024-06-15",
			},
		})
	}

	if opts.IncludePredictions {
		insights = append(insights, Insight{
			ID:          "pred_1",
			Type:        "prediction",
			Title:       "Upcoming Bill Alert",
			Description: "Based on your spending pattern, you may need an additional $200 for utilities this month due to seasonal increases.",
			Impact:      "neutral",
			Priority:    4,
			Actionable:  true,
			ActionText:  strPtr("Adjust Budget"),
			Data: map[string]interface{}{
				"category":           "Utilities",
				"predicted_increase": 200,
			},
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority > insights[j].Priority
	})

	summary := Summary{TotalInsights: len(insights)}
	for _, in := range insights {
		if in.Actionable {
			summary.ActionableCount++
		}
		switch in.Impact {
		case "positive":
			summary.PositiveCount++
		case "negative":
			summary.NegativeCount++
		}
		if in.Priority >= 4 {
			summary.HighPriorityCount++
		}
	}

	return insights, summary
}

func strPtr(s string) *string {
	return &s
}

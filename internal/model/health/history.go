package health

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

type HistoryPoint struct {
	Month string  `json:"month"`
	Score float64 `json:"score"`
	Grade string  `json:"grade"`
}

type History struct {
	History []HistoryPoint `json:"history"`
	Trend   string         `json:"trend"`
	Change  string         `json:"change"`
}

// SynthesizedHistory fabricates a gently improving score series for users
// with no stored assessments, oldest month first and ending at the month
// of t.
func SynthesizedHistory(months int, t time.Time) History {
	const base = 72.0
	const step = 1.5

	anchor := now.New(t).BeginningOfMonth()
	points := make([]HistoryPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		month := anchor.AddDate(0, -i, 0)
		score := base + float64(months-1-i)*step
		points = append(points, HistoryPoint{
			Month: month.Format("2006-01"),
			Score: score,
			Grade: GradeFor(score),
		})
	}

	return History{
		History: points,
		Trend:   "improving",
		Change:  fmt.Sprintf("+%.0f points over %d months", step*float64(months), months),
	}
}

package forecast

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	DefaultHorizonDays = 30
	MinQueryDays       = 7
	MaxQueryDays       = 90
)

type Point struct {
	Date           string  `json:"date"`
	PredictedValue float64 `json:"predicted_value"`
	LowerBound     float64 `json:"lower_bound"`
	UpperBound     float64 `json:"upper_bound"`
	Confidence     float64 `json:"confidence"`
}

type Summary struct {
	TotalPredicted float64 `json:"total_predicted"`
	AverageDaily   float64 `json:"average_daily"`
	Trend          string  `json:"trend"`
	ConfidenceAvg  float64 `json:"confidence_avg"`
}

type Series struct {
	Predictions []Point `json:"predictions"`
	Summary     Summary `json:"summary"`
}

// Generator produces synthetic trend-plus-noise forecasts. rnd and nowFn
// are injectable so tests can pin the output. One Generator serves every
// request, so Generate is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex // guards rnd, which is not goroutine-safe
	rnd   *rand.Rand
	nowFn func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		nowFn: time.Now,
	}
}

func NewGeneratorWith(rnd *rand.Rand, nowFn func() time.Time) *Generator {
	return &Generator{rnd: rnd, nowFn: nowFn}
}

// Generate builds a daily series of the requested length. Spending starts
// from a lower daily base than income or balance. A non-positive horizon
// falls back to the default of 30 days.
func (g *Generator) Generate(forecastType string, horizonDays int) Series {
	g.mu.Lock()
	defer g.mu.Unlock()

	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	base := 200.0
	if forecastType == "spending" {
		base = 150.0
	}

	today := g.nowFn()
	predictions := make([]Point, 0, horizonDays)
	var total, confidenceSum float64

	for i := 0; i < horizonDays; i++ {
		// Dates stay inside the current month, capped at day 28.
		day := today.Day() + i
		if day > 28 {
			day = 28
		}
		pointDate := time.Date(today.Year(), today.Month(), day, 0, 0, 0, 0, today.Location())

		noise := g.rnd.NormFloat64() * 20
		trend := float64(i) * 0.5
		predicted := base + noise + trend
		confidence := 0.85 - float64(i)*0.01

		predictions = append(predictions, Point{
			Date:           pointDate.Format("2006-01-02"),
			PredictedValue: round2(predicted),
			LowerBound:     round2(predicted * 0.8),
			UpperBound:     round2(predicted * 1.2),
			Confidence:     confidence,
		})
		total += round2(predicted)
		confidenceSum += confidence
	}

	trend := "decreasing"
	if predictions[len(predictions)-1].PredictedValue > predictions[0].PredictedValue {
		trend = "increasing"
	}

	return Series{
		Predictions: predictions,
		Summary: Summary{
			TotalPredicted: round2(total),
			AverageDaily:   round2(total / float64(horizonDays)),
			Trend:          trend,
			ConfidenceAvg:  round2(confidenceSum / float64(horizonDays)),
		},
	}
}

// ClampQueryDays bounds the user-scoped GET variants to a sane window.
func ClampQueryDays(days int) int {
	if days < MinQueryDays {
		return MinQueryDays
	}
	if days > MaxQueryDays {
		return MaxQueryDays
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

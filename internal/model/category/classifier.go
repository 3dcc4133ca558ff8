package category

import (
	"math"
	"sort"
	"strings"
)

// Prediction is a category guess with a confidence in [0,1] and up to three
// ranked alternatives, each mapped to its share of the total keyword score.
type Prediction struct {
	PredictedCategory string               `json:"predicted_category"`
	Confidence        float64              `json:"confidence"`
	Alternatives      []map[string]float64 `json:"alternatives"`
}

type bucket struct {
	name     string
	keywords []string
}

// Bucket order decides ties: an earlier bucket wins over a later one with
// the same keyword-hit count.
var buckets = []bucket{
	{"Food & Dining", []string{"restaurant", "cafe", "coffee", "pizza", "burger", "sushi", "doordash", "ubereats", "grubhub", "mcdonald", "starbucks", "chipotle"}},
	{"Groceries", []string{"grocery", "supermarket", "walmart", "target", "costco", "trader joe", "whole foods", "safeway", "kroger", "publix"}},
	{"Transportation", []string{"uber", "lyft", "gas", "fuel", "shell", "chevron", "parking", "metro", "transit", "airline", "flight"}},
	{"Shopping", []string{"amazon", "ebay", "mall", "store", "shop", "clothing", "electronics", "apple", "best buy"}},
	{"Entertainment", []string{"netflix", "spotify", "hulu", "disney", "movie", "theater", "concert", "gaming", "steam", "playstation"}},
	{"Utilities", []string{"electric", "water", "gas", "internet", "phone", "comcast", "verizon", "att", "utility"}},
	{"Healthcare", []string{"pharmacy", "hospital", "doctor", "medical", "cvs", "walgreens", "dental", "vision", "insurance"}},
	{"Subscriptions", []string{"subscription", "membership", "monthly", "annual", "premium"}},
	{"Income", []string{"salary", "payroll", "deposit", "transfer in", "income", "refund"}},
	{"Transfer", []string{"transfer", "venmo", "zelle", "paypal", "cash app"}},
}

// Categories lists every known category plus the fallback.
func Categories() []string {
	names := make([]string, 0, len(buckets)+1)
	for _, b := range buckets {
		names = append(names, b.name)
	}
	return append(names, "Other")
}

// Predict scores description+merchant against the keyword buckets. With no
// keyword hit at all, a positive amount defaults to Income, anything else
// to Other.
func Predict(description, merchant string, amount float64) Prediction {
	text := strings.ToLower(description + " " + merchant)

	type scored struct {
		name  string
		score float64
	}
	var scores []scored
	var total float64
	for _, b := range buckets {
		var score float64
		for _, kw := range b.keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > 0 {
			scores = append(scores, scored{b.name, score})
			total += score
		}
	}

	if len(scores) == 0 {
		if amount > 0 {
			return Prediction{
				PredictedCategory: "Income",
				Confidence:        0.5,
				Alternatives:      []map[string]float64{{"Other": 0.3}},
			}
		}
		return Prediction{
			PredictedCategory: "Other",
			Confidence:        0.3,
			Alternatives:      []map[string]float64{},
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	confidence := scores[0].score/math.Max(total, 1) + 0.3
	if confidence > 0.95 {
		confidence = 0.95
	}

	alternatives := make([]map[string]float64, 0, 3)
	for _, s := range scores[1:] {
		if len(alternatives) == 3 {
			break
		}
		alternatives = append(alternatives, map[string]float64{
			s.name: round2(s.score / total),
		})
	}

	return Prediction{
		PredictedCategory: scores[0].name,
		Confidence:        round2(confidence),
		Alternatives:      alternatives,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package anomaly

import (
	"fmt"
	"math"
	"sort"

	"max.ks1230/fintrack-ml/internal/entity/transaction"
)

type Result struct {
	TransactionID string  `json:"transaction_id"`
	IsAnomaly     bool    `json:"is_anomaly"`
	AnomalyScore  float64 `json:"anomaly_score"`
	Reason        string  `json:"reason"`
	Severity      string  `json:"severity"`
}

type Summary struct {
	MeanAmount          float64 `json:"mean_amount"`
	StdAmount           float64 `json:"std_amount"`
	AnomalyRate         float64 `json:"anomaly_rate"`
	HighSeverityCount   int     `json:"high_severity_count"`
	MediumSeverityCount int     `json:"medium_severity_count"`
}

// Detect flags amount outliers relative to the batch itself. A transaction
// is anomalous when its z-score exceeds 2.5 or its amount is more than
// triple the batch mean. Results come back sorted by score, highest first.
func Detect(txns []transaction.Transaction) ([]Result, Summary, int) {
	mean := meanAmount(txns)
	std := stdAmount(txns, mean)

	results := make([]Result, 0, len(txns))
	anomalies := 0
	high, medium := 0, 0

	for _, txn := range txns {
		var z float64
		if std > 0 {
			z = math.Abs((txn.Amount - mean) / std)
		}

		isAnomaly := z > 2.5 || txn.Amount > mean*3
		score := math.Min(z/3, 1.0)

		severity := "low"
		reason := "Normal transaction"
		if isAnomaly {
			anomalies++
			switch {
			case z > 4:
				severity = "high"
				high++
				reason = fmt.Sprintf("Unusually high amount: $%.2f (avg: $%.2f)", txn.Amount, mean)
			case z > 3:
				severity = "medium"
				medium++
				reason = fmt.Sprintf("Higher than normal spending: $%.2f", txn.Amount)
			default:
				reason = fmt.Sprintf("Slightly unusual amount: $%.2f", txn.Amount)
			}
		}

		results = append(results, Result{
			TransactionID: txn.ID,
			IsAnomaly:     isAnomaly,
			AnomalyScore:  round3(score),
			Reason:        reason,
			Severity:      severity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AnomalyScore > results[j].AnomalyScore
	})

	summary := Summary{
		MeanAmount:          round2(mean),
		StdAmount:           round2(std),
		HighSeverityCount:   high,
		MediumSeverityCount: medium,
	}
	if len(txns) > 0 {
		summary.AnomalyRate = round1(float64(anomalies) / float64(len(txns)) * 100)
	}

	return results, summary, anomalies
}

func meanAmount(txns []transaction.Transaction) float64 {
	if len(txns) == 0 {
		return 0
	}
	var sum float64
	for _, t := range txns {
		sum += t.Amount
	}
	return sum / float64(len(txns))
}

// stdAmount is the population standard deviation, zero for batches of one.
func stdAmount(txns []transaction.Transaction, mean float64) float64 {
	if len(txns) <= 1 {
		return 0
	}
	var sum float64
	for _, t := range txns {
		d := t.Amount - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(txns)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

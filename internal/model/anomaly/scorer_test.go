package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"max.ks1230/fintrack-ml/internal/entity/transaction"
)

func txn(id string, amount float64) transaction.Transaction {
	return transaction.Transaction{
		ID:       id,
		Amount:   amount,
		Category: "Shopping",
		Date:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func Test_Detect_ShouldFlagNothingWhenAmountsAreEqual(t *testing.T) {
	results, summary, found := Detect([]transaction.Transaction{
		txn("a", 50), txn("b", 50), txn("c", 50),
	})

	assert.Equal(t, 0, found)
	assert.Len(t, results, 3)
	for _, r := range results {
		assert.False(t, r.IsAnomaly)
		assert.Equal(t, 0.0, r.AnomalyScore)
		assert.Equal(t, "Normal transaction", r.Reason)
		assert.Equal(t, "low", r.Severity)
	}
	assert.Equal(t, 50.0, summary.MeanAmount)
	assert.Equal(t, 0.0, summary.StdAmount)
	assert.Equal(t, 0.0, summary.AnomalyRate)
}

func Test_Detect_ShouldFlagFarOutlierAsHigh(t *testing.T) {
	batch := make([]transaction.Transaction, 0, 21)
	for i := 0; i < 10; i++ {
		batch = append(batch, txn("low", 40))
		batch = append(batch, txn("hi", 60))
	}
	batch = append(batch, txn("outlier", 500))

	results, summary, found := Detect(batch)

	assert.Equal(t, 1, found)
	assert.Equal(t, "outlier", results[0].TransactionID)
	assert.True(t, results[0].IsAnomaly)
	assert.Equal(t, "high", results[0].Severity)
	assert.Contains(t, results[0].Reason, "Unusually high amount: $500.00")
	assert.Equal(t, 1.0, results[0].AnomalyScore)
	assert.Equal(t, 1, summary.HighSeverityCount)
	assert.Equal(t, 0, summary.MediumSeverityCount)
	assert.Equal(t, 4.8, summary.AnomalyRate)
}

func Test_Detect_ShouldFlagTripleMeanEvenWithLowZScore(t *testing.T) {
	// Eight 1s and two 61s: mean 13, std 24, so z is only 2.0 for the
	// spikes, but 61 is well past triple the mean.
	batch := make([]transaction.Transaction, 0, 10)
	for i := 0; i < 8; i++ {
		batch = append(batch, txn("base", 1))
	}
	batch = append(batch, txn("b", 61), txn("d", 61))

	results, _, found := Detect(batch)

	assert.Equal(t, 2, found)
	for _, r := range results {
		if r.TransactionID == "b" || r.TransactionID == "d" {
			assert.True(t, r.IsAnomaly)
			assert.Equal(t, "low", r.Severity)
			assert.Contains(t, r.Reason, "Slightly unusual amount")
		} else {
			assert.False(t, r.IsAnomaly)
		}
	}
}

func Test_Detect_ShouldSortByScoreDescending(t *testing.T) {
	batch := make([]transaction.Transaction, 0, 22)
	for i := 0; i < 20; i++ {
		batch = append(batch, txn("base", 50))
	}
	batch = append(batch, txn("mid", 120))
	batch = append(batch, txn("big", 300))

	results, _, _ := Detect(batch)

	assert.Equal(t, "big", results[0].TransactionID)
	assert.Equal(t, "mid", results[1].TransactionID)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].AnomalyScore, results[i-1].AnomalyScore)
	}
}

func Test_Detect_ShouldHandleEmptyBatch(t *testing.T) {
	results, summary, found := Detect(nil)

	assert.Equal(t, 0, found)
	assert.Empty(t, results)
	assert.Equal(t, 0.0, summary.AnomalyRate)
}

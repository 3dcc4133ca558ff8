package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Predict_ShouldMatchSingleBucket(t *testing.T) {
	p := Predict("Starbucks coffee downtown", "", -6.50)

	assert.Equal(t, "Food & Dining", p.PredictedCategory)
	// Two hits from one bucket: 2/2 + 0.3 capped at 0.95.
	assert.Equal(t, 0.95, p.Confidence)
	assert.Empty(t, p.Alternatives)
}

func Test_Predict_ShouldUseMerchantText(t *testing.T) {
	p := Predict("weekly run", "Whole Foods", -82.10)

	assert.Equal(t, "Groceries", p.PredictedCategory)
}

func Test_Predict_ShouldRankAlternativesByShare(t *testing.T) {
	// "uber" hits Transportation, "netflix" Entertainment, "amazon" Shopping.
	p := Predict("uber uber netflix amazon", "", -30)

	assert.Equal(t, "Transportation", p.PredictedCategory)
	assert.Len(t, p.Alternatives, 2)
	assert.Equal(t, map[string]float64{"Shopping": 0.33}, p.Alternatives[0])
	assert.Equal(t, map[string]float64{"Entertainment": 0.33}, p.Alternatives[1])
}

func Test_Predict_ShouldBreakTiesByBucketOrder(t *testing.T) {
	// One hit each for Food & Dining and Transportation.
	p := Predict("pizza and parking", "", -25)

	assert.Equal(t, "Food & Dining", p.PredictedCategory)
	assert.Equal(t, 0.8, p.Confidence)
}

func Test_Predict_ShouldDefaultToIncomeForPositiveAmount(t *testing.T) {
	p := Predict("xyzzy", "", 1500)

	assert.Equal(t, "Income", p.PredictedCategory)
	assert.Equal(t, 0.5, p.Confidence)
	assert.Equal(t, []map[string]float64{{"Other": 0.3}}, p.Alternatives)
}

func Test_Predict_ShouldDefaultToOtherForNonPositiveAmount(t *testing.T) {
	p := Predict("xyzzy", "", -12)

	assert.Equal(t, "Other", p.PredictedCategory)
	assert.Equal(t, 0.3, p.Confidence)
	assert.Empty(t, p.Alternatives)
}

func Test_Categories_ShouldEndWithOther(t *testing.T) {
	cats := Categories()

	assert.Len(t, cats, 11)
	assert.Equal(t, "Food & Dining", cats[0])
	assert.Equal(t, "Other", cats[10])
}

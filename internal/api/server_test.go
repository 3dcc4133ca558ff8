package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/fintrack-ml/internal/ocr"
)

type testConfig struct{}

func (testConfig) Debug() bool    { return false }
func (testConfig) RateLimit() int { return 1000 }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(testConfig{}, Deps{
		Extractor: ocr.NewMock(),
		ModelsDir: t.TempDir(),
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func Test_Root_ShouldListEndpoints(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, ServiceName, body["name"])
	endpoints := body["endpoints"].(map[string]interface{})
	assert.Equal(t, "/ocr", endpoints["ocr"])
}

func Test_Healthz_ShouldReportHealthy(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func Test_ServiceHealth_ShouldCountModelArtifacts(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/health/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	models := body["models"].(map[string]interface{})
	assert.Equal(t, float64(0), models["count"])
	assert.Equal(t, false, models["loaded"])
	deps := body["dependencies"].(map[string]interface{})
	assert.Equal(t, "not installed", deps["tesseract"])
}

func Test_ForecastGenerate_ShouldHonorHorizon(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/forecast/generate", map[string]interface{}{
		"user_id":      "u1",
		"type":         "spending",
		"horizon_days": 14,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(14), body["horizon_days"])
	assert.Len(t, body["predictions"].([]interface{}), 14)
}

func Test_ForecastSpending_ShouldClampDays(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/forecast/spending/u1?days=500", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(90), body["horizon_days"])
	assert.Equal(t, "spending", body["type"])
}

func Test_AnomalyDetect_ShouldHandleEmptyBatch(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/anomaly/detect", map[string]interface{}{
		"user_id":      "u1",
		"transactions": []interface{}{},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, "No transactions to analyze", summary["message"])
}

func Test_AnomalyDetect_ShouldFlagOutlier(t *testing.T) {
	txns := make([]map[string]interface{}, 0, 21)
	for i := 0; i < 20; i++ {
		txns = append(txns, map[string]interface{}{
			"id": "n", "amount": 50, "category": "Dining", "date": "2026-01-10T00:00:00Z",
		})
	}
	txns = append(txns, map[string]interface{}{
		"id": "big", "amount": 900, "category": "Dining", "date": "2026-01-11T00:00:00Z",
	})

	rec := doJSON(t, newTestServer(t), http.MethodPost, "/anomaly/detect", map[string]interface{}{
		"user_id":      "u1",
		"transactions": txns,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(21), body["total_transactions"])
	assert.Equal(t, float64(1), body["anomalies_found"])
	results := body["results"].([]interface{})
	top := results[0].(map[string]interface{})
	assert.Equal(t, "big", top["transaction_id"])
	assert.Equal(t, true, top["is_anomaly"])
}

func Test_AnomalyRecent_ShouldReportEmptyWithoutCache(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/anomaly/recent/u1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "No recent anomalies detected", body["message"])
}

func Test_CategoryPredict_ShouldClassify(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/category/predict", map[string]interface{}{
		"description": "Starbucks coffee",
		"amount":      -6.5,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	prediction := body["prediction"].(map[string]interface{})
	assert.Equal(t, "Food & Dining", prediction["predicted_category"])
}

func Test_CategoryPredictBatch_ShouldClassifyAll(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/category/predict/batch", map[string]interface{}{
		"transactions": []map[string]interface{}{
			{"description": "uber ride", "amount": -20},
			{"description": "paycheck xyz", "amount": 2500},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	predictions := body["predictions"].([]interface{})
	require.Len(t, predictions, 2)
	assert.Equal(t, "Transportation", predictions[0].(map[string]interface{})["predicted_category"])
	assert.Equal(t, "Income", predictions[1].(map[string]interface{})["predicted_category"])
}

func Test_Categories_ShouldIncludeFallback(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/category/categories", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cats := decodeBody(t, rec)["categories"].([]interface{})
	assert.Len(t, cats, 11)
	assert.Equal(t, "Other", cats[10])
}

func Test_CategoryTrain_ShouldReportProcessing(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/category/train/u1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Category model training initiated", body["message"])
	assert.NotEmpty(t, body["job_id"])
}

func Test_GoalsAnalyze_ShouldRecommendAllocation(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/goals/analyze", map[string]interface{}{
		"user_id": "u1",
		"goals": []map[string]interface{}{
			{
				"id": "g1", "name": "Vacation", "target_amount": 1200,
				"current_amount": 0, "deadline": "2027-09-01",
				"category": "savings", "priority": 1,
			},
		},
		"monthly_income":   4000,
		"monthly_expenses": 3800,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total_goals"])
	recs := body["recommendations"].([]interface{})
	require.Len(t, recs, 1)
	first := recs[0].(map[string]interface{})
	assert.Equal(t, true, first["is_achievable"])
	assert.Equal(t, []interface{}{"g1"}, body["priority_order"].([]interface{}))
}

func Test_GoalSuggestions_ShouldScaleWithIncome(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/goals/u1/suggestions?income=4000", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	suggestions := decodeBody(t, rec)["suggestions"].([]interface{})
	require.Len(t, suggestions, 4)
	emergency := suggestions[0].(map[string]interface{})
	assert.Equal(t, float64(24000), emergency["recommended_target"])
}

func Test_HealthCalculate_Regression(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/financial-health/calculate", map[string]interface{}{
		"user_id": "u1",
		"metrics": map[string]interface{}{
			"monthly_income":     5000,
			"monthly_expenses":   3500,
			"total_savings":      15000,
			"total_debt":         8000,
			"emergency_fund":     10000,
			"credit_utilization": 25,
			"on_time_payments":   98,
			"investment_ratio":   10,
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 69.4, body["overall_score"])
	assert.Equal(t, "B-", body["grade"])
	assert.Len(t, body["components"].([]interface{}), 6)
}

func Test_HealthLatest_ShouldFallBackToSamples(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/financial-health/u1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 69.4, body["overall_score"])
}

func Test_HealthHistory_ShouldSynthesizeWithoutStorage(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/financial-health/u1/history?months=6", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["history"].([]interface{}), 6)
	assert.Equal(t, "improving", body["trend"])
	assert.Equal(t, "+9 points over 6 months", body["change"])
}

func Test_InsightsGenerate_ShouldSortByPriority(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/insights/generate", map[string]interface{}{
		"user_id": "u1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	cards := body["insights"].([]interface{})
	require.Len(t, cards, 5)
	assert.Equal(t, "spend_1", cards[0].(map[string]interface{})["id"])
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["high_priority_count"])
}

func Test_SpendingInsights_ShouldFilterFamilies(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/insights/u1/spending", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cards := decodeBody(t, rec)["insights"].([]interface{})
	require.Len(t, cards, 2)
	for _, c := range cards {
		assert.Equal(t, "spending", c.(map[string]interface{})["type"])
	}
}

func Test_ScanReceipt_ShouldRejectUnsupportedType(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="note.txt"`},
		"Content-Type":        {"text/plain"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ocr/scan-receipt", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Unsupported file type: text/plain. Allowed: JPEG, PNG, PDF", body["error"])
}

func Test_ScanReceipt_ShouldServeMockReceipt(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="receipt.jpg"`},
		"Content-Type":        {"image/jpeg"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("extract_items", "true"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ocr/scan-receipt", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 0.85, body["confidence"])
	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "Tesseract OCR not installed. Using mock data.", errs[0])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "SAMPLE GROCERY STORE", data["merchant"])
	assert.Len(t, data["items"].([]interface{}), 3)
}

func Test_ParseText_ShouldRejectEmptyText(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/ocr/parse-text", map[string]interface{}{
		"text": "   ",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Text cannot be empty", decodeBody(t, rec)["error"])
}

func Test_ParseText_ShouldParseAmounts(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodPost, "/ocr/parse-text", map[string]interface{}{
		"text": "JOE'S DINER\nTotal: $15.63\nTax: $1.16",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["confidence"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 15.63, data["total"])
	assert.Equal(t, 1.16, data["tax"])
}

func Test_OCRStatus_ShouldReportMockMode(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/ocr/status", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["available"])
	assert.Nil(t, body["tesseract_version"])
	features := body["features"].(map[string]interface{})
	assert.Equal(t, false, features["item_extraction"])
}

func Test_MalformedJSON_ShouldReturn400(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/goals/analyze", strings.NewReader("{nope"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

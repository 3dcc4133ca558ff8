package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panickingHandler() http.Handler {
	return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func Test_RecoverPanics_ShouldHideDetailWithoutDebug(t *testing.T) {
	h := recoverPanics(false)(panickingHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "An unexpected error occurred", body["message"])
}

func Test_RecoverPanics_ShouldExposeDetailInDebug(t *testing.T) {
	h := recoverPanics(true)(panickingHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "boom", body["message"])
}

func Test_LimitRate_ShouldRejectAfterBurst(t *testing.T) {
	h := limitRate(2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234").Code)

	rec := do("10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Rate limit exceeded", decodeBody(t, rec)["error"])

	// Budgets are per client, the next address starts fresh.
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234").Code)
}

func Test_IPLimiter_ShouldEvictIdleClients(t *testing.T) {
	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	current := base
	timeNow = func() time.Time { return current }
	defer func() { timeNow = time.Now }()

	l := &ipLimiter{
		limiters:  make(map[string]*clientLimiter),
		perMin:    5,
		lastSweep: base,
	}
	l.limiter("10.0.0.1")
	l.limiter("10.0.0.2")
	require.Len(t, l.limiters, 2)

	current = base.Add(limiterIdleTTL + time.Minute)
	l.limiter("10.0.0.2")

	assert.Len(t, l.limiters, 1)
	_, kept := l.limiters["10.0.0.2"]
	assert.True(t, kept)
}

func Test_TraceRequests_ShouldNameSpansByRoutePattern(t *testing.T) {
	tracer := mocktracer.New()
	prev := opentracing.GlobalTracer()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(prev)

	doJSON(t, newTestServer(t), http.MethodGet, "/forecast/spending/u42", nil)

	spans := tracer.FinishedSpans()
	require.NotEmpty(t, spans)
	assert.Equal(t, "GET /forecast/spending/{userID}", spans[0].OperationName)
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"max.ks1230/fintrack-ml/internal/model/anomaly"
	"max.ks1230/fintrack-ml/internal/model/forecast"
	"max.ks1230/fintrack-ml/internal/model/health"
	"max.ks1230/fintrack-ml/internal/model/training"
	"max.ks1230/fintrack-ml/internal/ocr"
	"max.ks1230/fintrack-ml/internal/storage"
)

const (
	ServiceName    = "FinTrack ML Service"
	ServiceVersion = "1.0.0"
)

type resultCache interface {
	CacheLatestAssessment(userID string, a health.Assessment) error
	LatestAssessment(userID string) (*health.Assessment, error)
	CacheRecentAnomalies(userID string, results []anomaly.Result) error
	RecentAnomalies(userID string) ([]anomaly.Result, error)
	Ping() error
}

type historyStorage interface {
	SaveAssessment(ctx context.Context, userID string, a health.Assessment, at time.Time) error
	UserHistory(ctx context.Context, userID string, since time.Time) ([]storage.HealthRecord, error)
}

type metricsProvider interface {
	UserMetrics(ctx context.Context, userID string) (health.Metrics, error)
}

type jobQueue interface {
	EnqueueJob(job training.Job) error
}

type serverConfig interface {
	Debug() bool
	RateLimit() int
}

// Deps carries the optional infrastructure. Nil fields degrade gracefully:
// no cache means fresh computation, no queue means synchronous training, no
// backend means sample metrics.
type Deps struct {
	Extractor ocr.TextExtractor
	Cache     resultCache
	Storage   historyStorage
	Backend   metricsProvider
	Queue     jobQueue
	Trainer   *training.Trainer
	ModelsDir string
	// StorageName labels the history backend in the service health report.
	StorageName string
}

type Server struct {
	deps      Deps
	generator *forecast.Generator
	debug     bool
	router    chi.Router
}

func NewServer(cfg serverConfig, deps Deps) *Server {
	s := &Server{
		deps:      deps,
		generator: forecast.NewGenerator(),
		debug:     cfg.Debug(),
	}

	r := chi.NewRouter()
	r.Use(recoverPanics(cfg.Debug()))
	r.Use(traceRequests)
	r.Use(observeRequests)
	r.Use(limitRate(cfg.RateLimit()))

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/", s.handleServiceHealth)
		r.Get("/ready", s.handleReadyz)
		r.Get("/live", s.handleLive)
	})

	r.Route("/forecast", func(r chi.Router) {
		r.Post("/generate", s.handleForecastGenerate)
		r.Get("/spending/{userID}", s.handleForecastFor("spending"))
		r.Get("/income/{userID}", s.handleForecastFor("income"))
		r.Get("/balance/{userID}", s.handleForecastFor("balance"))
	})

	r.Route("/anomaly", func(r chi.Router) {
		r.Post("/detect", s.handleAnomalyDetect)
		r.Get("/recent/{userID}", s.handleAnomalyRecent)
		r.Post("/train/{userID}", s.handleTrain(training.JobModelAnomaly,
			"Anomaly detection model training initiated"))
	})

	r.Route("/category", func(r chi.Router) {
		r.Post("/predict", s.handleCategoryPredict)
		r.Post("/predict/batch", s.handleCategoryPredictBatch)
		r.Get("/categories", s.handleCategories)
		r.Post("/train/{userID}", s.handleTrain(training.JobModelCategory,
			"Category model training initiated"))
	})

	r.Route("/goals", func(r chi.Router) {
		r.Post("/analyze", s.handleGoalsAnalyze)
		r.Post("/optimize", s.handleGoalsOptimize)
		r.Get("/{userID}/suggestions", s.handleGoalSuggestions)
	})

	r.Route("/financial-health", func(r chi.Router) {
		r.Post("/calculate", s.handleHealthCalculate)
		r.Get("/{userID}", s.handleHealthLatest)
		r.Get("/{userID}/history", s.handleHealthHistory)
	})

	r.Route("/insights", func(r chi.Router) {
		r.Post("/generate", s.handleInsightsGenerate)
		r.Get("/{userID}", s.handleUserInsights)
		r.Get("/{userID}/spending", s.handleSpendingInsights)
		r.Get("/{userID}/savings", s.handleSavingsInsights)
	})

	r.Route("/ocr", func(r chi.Router) {
		r.Post("/scan-receipt", s.handleScanReceipt)
		r.Post("/parse-text", s.handleParseText)
		r.Get("/status", s.handleOCRStatus)
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

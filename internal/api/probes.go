package api

import (
	"net/http"
	"time"

	"max.ks1230/fintrack-ml/internal/model/training"
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":      ServiceName,
		"version":   ServiceVersion,
		"status":    "running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": map[string]string{
			"health":   "/health",
			"forecast": "/forecast",
			"anomaly":  "/anomaly",
			"insights": "/insights",
			"category": "/category",
			"goals":    "/goals",
			"ocr":      "/ocr",
		},
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   ServiceName,
		"version":   ServiceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	cache := "not configured"
	if s.deps.Cache != nil {
		cache = "connected"
		if err := s.deps.Cache.Ping(); err != nil {
			cache = "unreachable"
		}
	}

	models := "missing"
	if training.CountArtifacts(s.deps.ModelsDir) == len(trainableArtifacts()) {
		models = "loaded"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": map[string]string{
			"ml_models": models,
			"cache":     cache,
		},
	})
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleServiceHealth reports model artifact presence and the optional
// dependency wiring, for monitoring dashboards.
func (s *Server) handleServiceHealth(w http.ResponseWriter, _ *http.Request) {
	existing, missing := training.CheckArtifacts(s.deps.ModelsDir)

	dependencies := map[string]string{
		"tesseract": "not installed",
		"memcached": "not configured",
		"storage":   "in-memory",
		"kafka":     "not configured",
		"backend":   "not configured",
	}
	if s.deps.Extractor != nil && s.deps.Extractor.Available() {
		dependencies["tesseract"] = s.deps.Extractor.Version()
	}
	if s.deps.Cache != nil {
		dependencies["memcached"] = "configured"
	}
	if s.deps.StorageName != "" {
		dependencies["storage"] = s.deps.StorageName
	}
	if s.deps.Queue != nil {
		dependencies["kafka"] = "configured"
	}
	if s.deps.Backend != nil {
		dependencies["backend"] = "configured"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   ServiceName,
		"version":   ServiceVersion,
		"status":    "healthy",
		"models": map[string]interface{}{
			"directory": s.deps.ModelsDir,
			"count":     len(existing),
			"loaded":    len(missing) == 0,
		},
		"dependencies": dependencies,
	})
}

func trainableArtifacts() []string {
	return []string{
		training.CategoryModelFile,
		training.AnomalyModelFile,
		training.ForecastConfigFile,
	}
}

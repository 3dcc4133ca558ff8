package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"max.ks1230/fintrack-ml/internal/logger"
)

type panicBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// recoverPanics converts panics into a generic 500. Detail leaks to the
// client only in debug mode; otherwise it goes to the log and to sentry
// when a DSN is configured.
func recoverPanics(debug bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				err, ok := rec.(error)
				if !ok {
					err = errors.Errorf("%v", rec)
				}
				logger.Error("panic while handling request",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				if hub := sentry.CurrentHub(); hub.Client() != nil {
					hub.Recover(rec)
				}

				message := "An unexpected error occurred"
				if debug {
					message = err.Error()
				}
				respondJSON(w, http.StatusInternalServerError, panicBody{
					Success: false,
					Error:   "Internal server error",
					Message: message,
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// traceRequests opens a span per request named after the matched route
// pattern, keeping span-name cardinality bounded. The pattern is only
// known once routing finished, so the span is renamed after serving.
func traceRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span, ctx := opentracing.StartSpanFromContext(r.Context(), r.Method)
		defer span.Finish()
		next.ServeHTTP(w, r.WithContext(ctx))

		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			span.SetOperationName(r.Method + " " + rctx.RoutePattern())
		}
	})
}

// observeRequests records the response-time histogram per route and status.
func observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		observeResponse(route, ww.Status(), time.Since(start))
	})
}

// limiterIdleTTL bounds how long an idle client keeps its limiter entry.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	perMin    int
	lastSweep time.Time
}

func (l *ipLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := timeNow()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, c := range l.limiters {
			if now.Sub(c.lastSeen) > limiterIdleTTL {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.limiters[ip]
	if !ok {
		c = &clientLimiter{lim: rate.NewLimiter(rate.Limit(float64(l.perMin)/60), l.perMin)}
		l.limiters[ip] = c
	}
	c.lastSeen = now
	return c.lim
}

// limitRate enforces a per-client-IP request budget. Idle clients are
// swept so the limiter map does not grow without bound.
func limitRate(perMinute int) func(http.Handler) http.Handler {
	limiter := &ipLimiter{
		limiters:  make(map[string]*clientLimiter),
		perMin:    perMinute,
		lastSweep: timeNow(),
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !limiter.limiter(ip).Allow() {
				respondError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/mrussa/storefront/internal/health"
	"github.com/mrussa/storefront/internal/metrics"
	"github.com/mrussa/storefront/internal/respond"
)

// Options carries the cross-cutting pieces shared by both services. Every
// field is optional.
type Options struct {
	Logger   *log.Entry
	Metrics  *metrics.HTTP
	Gatherer prometheus.Gatherer
	Health   *health.Handler
	Limiter  *RateLimiter
}

func (o Options) logger() *log.Entry {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewEntry(log.StandardLogger())
}

func newRouter(o Options) chi.Router {
	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(o.logger()))
	r.Use(instrument(o.Metrics))
	if o.Limiter != nil {
		r.Use(o.Limiter.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.NotFound(w, "route not found", RequestID(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", RequestID(r))
	})

	h := o.Health
	if h == nil {
		h = health.NewHandler("", "")
	}
	r.Get("/health", h.Live)
	r.Get("/readyz", h.Ready)

	if o.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(o.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

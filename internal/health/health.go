// Package health serves liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mrussa/storefront/internal/respond"
)

type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
)

const checkTimeout = 2 * time.Second

// failedCheckMessage replaces the checker's error in reports; the error
// itself may carry hosts or credentials and is only logged.
const failedCheckMessage = "unreachable"

type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type Report struct {
	Status        Status  `json:"status"`
	Service       string  `json:"service"`
	Version       string  `json:"version,omitempty"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	Checks        []Check `json:"checks,omitempty"`
}

// Pinger is satisfied by every record store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	mu        sync.RWMutex
	service   string
	version   string
	startTime time.Time
	checks    map[string]Pinger
	logger    *log.Entry
}

func NewHandler(service, version string) *Handler {
	return &Handler{
		service:   service,
		version:   version,
		startTime: time.Now(),
		checks:    make(map[string]Pinger),
		logger:    log.WithField("component", "health"),
	}
}

func (h *Handler) WithLogger(l *log.Entry) *Handler {
	if l != nil {
		h.logger = l
	}
	return h
}

func (h *Handler) Register(name string, p Pinger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = p
}

// Live answers 200 {"status":"ok"} whenever the process can serve HTTP.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	respond.OK(w, map[string]string{"status": string(StatusOK)})
}

// Ready runs every registered check and answers 503 if any fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	rep := h.Run(r.Context())
	code := http.StatusOK
	if rep.Status != StatusOK {
		code = http.StatusServiceUnavailable
	}
	respond.JSON(w, code, rep)
}

func (h *Handler) Run(ctx context.Context) Report {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make(map[string]Pinger, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mu.RUnlock()
	sort.Strings(names)

	rep := Report{
		Status:        StatusOK,
		Service:       h.service,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        make([]Check, 0, len(names)),
	}
	for _, name := range names {
		c := h.runCheck(ctx, name, checks[name])
		if c.Status != StatusOK {
			rep.Status = StatusUnavailable
		}
		rep.Checks = append(rep.Checks, c)
	}
	return rep
}

func (h *Handler) runCheck(ctx context.Context, name string, p Pinger) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	c := Check{Name: name, Status: StatusOK, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		c.Status = StatusUnavailable
		c.Message = failedCheckMessage
		h.logger.WithField("check", name).WithError(err).Warn("readiness check failed")
	}
	return c
}

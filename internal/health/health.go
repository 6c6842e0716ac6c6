// Package health serves the liveness and readiness probes.
//
//   - GET /healthz answers 200 while the process can serve HTTP.
//   - GET /readyz runs every registered [Checker] concurrently. A failing
//     required checker makes it answer 503 with status "fail". Failing
//     optional checkers keep it at 200 with status "degraded".
//
// Each check reports its own status, error and latency:
//
//	{"status":"degraded","checks":{"catalogue":{"status":"ok","latency_ms":0},
//	 "gesture_model":{"status":"fail","error":"connection refused","latency_ms":3,"optional":true}}}
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CheckTimeout bounds a single readiness check.
const CheckTimeout = 5 * time.Second

// Overall and per-check status values.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusFail     = "fail"
)

// Checker is a named readiness probe.
type Checker struct {
	// Name keys the check in the JSON response (e.g. "storage").
	Name string

	// Check returns nil when the dependency is usable. It must honour ctx.
	Check func(ctx context.Context) error

	// Optional marks a dependency the service can run without, such as a
	// remote model backed by a local fallback.
	Optional bool
}

// Pinger is implemented by backends that can report reachability: the
// Postgres translation log and the remote inference client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping returns a required [Checker] that calls p.Ping.
func Ping(name string, p Pinger) Checker {
	return Checker{Name: name, Check: p.Ping}
}

// NonEmpty returns a [Checker] failing while count reports zero.
func NonEmpty(name string, count func() int) Checker {
	return Checker{Name: name, Check: func(context.Context) error {
		if count() <= 0 {
			return fmt.Errorf("%s is empty", name)
		}
		return nil
	}}
}

// NotOpen returns a [Checker] failing while state reports "open". It is used
// with circuit breakers.
func NotOpen(name string, state func() string) Checker {
	return Checker{Name: name, Check: func(context.Context) error {
		if state() == "open" {
			return errors.New("circuit open")
		}
		return nil
	}}
}

// Report is the JSON body of /readyz and /healthz.
type Report struct {
	Status string                 `json:"status"`
	Checks map[string]CheckReport `json:"checks,omitempty"`
}

// CheckReport is the outcome of one [Checker].
type CheckReport struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
	Optional  bool   `json:"optional,omitempty"`
}

// Handler serves the probes. The checker list is fixed at construction.
type Handler struct {
	checkers []Checker
}

// New creates a [Handler] evaluating checkers on every /readyz request.
func New(checkers ...Checker) *Handler {
	return &Handler{checkers: append([]Checker(nil), checkers...)}
}

// Healthz always answers 200.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Report{Status: StatusOK})
}

// Readyz runs the checkers and answers 503 when a required one fails.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	rep := h.Evaluate(r.Context())
	status := http.StatusOK
	if rep.Status == StatusFail {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, rep)
}

// Evaluate runs every checker concurrently, each under [CheckTimeout].
func (h *Handler) Evaluate(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		g      errgroup.Group
		checks = make(map[string]CheckReport, len(h.checkers))
	)
	for _, c := range h.checkers {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, CheckTimeout)
			start := time.Now()
			err := c.Check(cctx)
			cancel()

			cr := CheckReport{
				Status:    StatusOK,
				LatencyMS: time.Since(start).Milliseconds(),
				Optional:  c.Optional,
			}
			if err != nil {
				cr.Status, cr.Error = StatusFail, err.Error()
			}
			mu.Lock()
			checks[c.Name] = cr
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{Status: StatusOK, Checks: checks}
	for _, cr := range checks {
		if cr.Status != StatusFail {
			continue
		}
		if !cr.Optional {
			rep.Status = StatusFail
			break
		}
		rep.Status = StatusDegraded
	}
	return rep
}

// Register adds the /healthz and /readyz routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package diag provides the NeuronOS debug HTTP server:
// /healthz, /readyz, /hwinfo, /status, /metrics. Its middleware stack
// and route shapes carry over a chi-based NewMux pattern, trimmed to the
// routes this core actually needs — no /infer NDJSON streaming
// endpoint, since that surface belongs to a multi-instance HTTP server
// this single-agent core does not run.
package diag

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"neuronos/internal/agent"
	"neuronos/pkg/types"
)

// Service is the subset of agent/registry state the debug server
// reports. The CLI's long-running modes implement it directly against
// their live Controller and hardware probe result.
type Service interface {
	Ready() bool
	Hardware() types.HardwareInfo
	Status() StatusReport
}

// StatusReport is the payload served at /status.
type StatusReport struct {
	AgentState agent.State `json:"agent_state"`
	ActiveModel string `json:"active_model"`
	StepsTaken int `json:"steps_taken"`
}

// NewMux builds the debug HTTP handler. enableCORS controls whether the
// permissive CORS middleware is attached; it is wired from the CLI's
// --debug-cors flag and defaults to off since the debug surface is
// meant for localhost tooling, not browser cross-origin callers.
func NewMux(svc Service, enableCORS bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if enableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET"},
		}))
	}
	r.Use(MetricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	r.Get("/hwinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Hardware()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": msg,
		"code": status,
	})
}

package diag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"neuronos/internal/agent"
	"neuronos/pkg/types"
)

type fakeService struct {
	ready bool
	hw types.HardwareInfo
}

func (f *fakeService) Ready() bool { return f.ready }
func (f *fakeService) Hardware() types.HardwareInfo { return f.hw }
func (f *fakeService) Status() StatusReport {
	return StatusReport{AgentState: agent.StateFinal, ActiveModel: "test-model", StepsTaken: 3}
}

func TestHealthzAlwaysOK(t *testing.T) {
	mux := NewMux(&fakeService{}, false)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyzReflectsService(t *testing.T) {
	mux := NewMux(&fakeService{ready: false}, false)
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when not ready, got %d", rec.Code)
	}

	mux = NewMux(&fakeService{ready: true}, false)
	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 when ready, got %d", rec.Code)
	}
}

func TestHwinfoReturnsJSON(t *testing.T) {
	svc := &fakeService{hw: types.HardwareInfo{CPUName: "test-cpu", LogicalCores: 8}}
	mux := NewMux(svc, false)
	req := httptest.NewRequest(http.MethodGet, "/hwinfo", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var got types.HardwareInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CPUName != "test-cpu" || got.LogicalCores != 8 {
		t.Fatalf("unexpected hwinfo: %+v", got)
	}
}

func TestStatusReturnsAgentState(t *testing.T) {
	mux := NewMux(&fakeService{}, false)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var got StatusReport
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ActiveModel != "test-model" || got.StepsTaken != 3 {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestCORSHeaderOnlySetWhenEnabled(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")

	mux := NewMux(&fakeService{}, false)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("expected no CORS header when disabled")
	}

	mux = NewMux(&fakeService{}, true)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected CORS header when enabled, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	mux := NewMux(&fakeService{}, false)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

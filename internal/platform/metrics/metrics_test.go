package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRun(t *testing.T) {
	m := New()

	m.ObserveRun("nearest", OutcomeOK, 20*time.Millisecond, 3)
	m.ObserveRun("nearest", OutcomeOK, 10*time.Millisecond, 0)
	m.ObserveRun("nearest", OutcomeFailed, time.Second, 0)

	if got := testutil.ToFloat64(m.OptimizeRuns.WithLabelValues("nearest", OutcomeOK)); got != 2 {
		t.Fatalf("ok runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.OptimizeRuns.WithLabelValues("nearest", OutcomeFailed)); got != 1 {
		t.Fatalf("failed runs = %v, want 1", got)
	}
	// Failed runs do not contribute a duration sample.
	if got := testutil.CollectAndCount(m.OptimizeDuration); got != 1 {
		t.Fatalf("duration series = %d, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRun("geographic", OutcomeOK, time.Millisecond, 1)
	m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveHTTP("POST", "/optimize", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	want := `dispatch_http_requests_total{method="POST",path="/optimize",status="200"} 1`
	if !strings.Contains(body, want) {
		t.Fatalf("metrics output missing %q", want)
	}
}

func TestRegisterDefaultIsSingleton(t *testing.T) {
	if RegisterDefault() != RegisterDefault() {
		t.Fatalf("RegisterDefault returned different instances")
	}
}

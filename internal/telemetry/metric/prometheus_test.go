package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.registry == nil {
		t.Fatal("registry field is nil")
	}
	if r.RequestsTotal == nil || r.RequestDuration == nil || r.RateLimited == nil {
		t.Error("HTTP metrics are not initialised")
	}
	if r.InternOps == nil || r.BenchOps == nil || r.RESPCommands == nil || r.RESPConnections == nil {
		t.Error("operation metrics are not initialised")
	}
}

func TestGlobal(t *testing.T) {
	if Global() != Global() {
		t.Error("Global() should return the same instance")
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.InternOps.WithLabelValues("intern", "new").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`shardtab_intern_operations_total{op="intern",result="new"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRequestMetrics(t *testing.T) {
	r := NewRegistry()
	r.RequestsTotal.WithLabelValues("GET", "/v1/stats", "200").Inc()
	r.RequestsTotal.WithLabelValues("GET", "/v1/stats", "200").Inc()
	r.RequestDuration.WithLabelValues("GET", "/v1/stats").Observe(0.001)
	r.RateLimited.Inc()

	if got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("GET", "/v1/stats", "200")); got != 2 {
		t.Errorf("requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.RateLimited); got != 1 {
		t.Errorf("rate_limited_total = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.RequestDuration); n != 1 {
		t.Errorf("request_duration series = %d, want 1", n)
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.BenchOps.WithLabelValues("insert").Inc()
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(r.BenchOps.WithLabelValues("insert")); got != 1000 {
		t.Errorf("bench insert ops = %v, want 1000", got)
	}
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/shardtab/internal/telemetry/logger"
	"github.com/yndnr/shardtab/internal/telemetry/metric"
	"github.com/yndnr/shardtab/pkg/intern"
)

func newTestHandler(t *testing.T) (*Handler, *intern.Table, *metric.Registry) {
	t.Helper()
	table := intern.New()
	t.Cleanup(table.Close)
	reg := metric.NewRegistry()
	return New(table, reg, logger.Nop()), table, reg
}

func do(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(logger.WithRequestID(req.Context(), "req-test"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

func dataOf[T any](t *testing.T, resp Response) T {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	return out
}

func TestHandleHealth(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec, resp := do(t, h, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Code != CodeOK || resp.RequestID != "req-test" {
		t.Errorf("envelope = %+v", resp)
	}
	if got := dataOf[HealthResponse](t, resp); got.Status != "healthy" {
		t.Errorf("status = %q, want healthy", got.Status)
	}
}

func TestHandleIntern(t *testing.T) {
	h, table, reg := newTestHandler(t)

	rec, resp := do(t, h, http.MethodPut, "/v1/strings/alpha")
	if rec.Code != http.StatusCreated {
		t.Fatalf("first PUT status = %d, want 201", rec.Code)
	}
	got := dataOf[StringResponse](t, resp)
	if got.Value != "alpha" || got.Refs != 1 || !got.Created {
		t.Errorf("first PUT data = %+v", got)
	}

	rec, resp = do(t, h, http.MethodPut, "/v1/strings/alpha")
	if rec.Code != http.StatusOK {
		t.Fatalf("second PUT status = %d, want 200", rec.Code)
	}
	got = dataOf[StringResponse](t, resp)
	if got.Refs != 2 || got.Created {
		t.Errorf("second PUT data = %+v", got)
	}

	if table.Refs("alpha") != 2 {
		t.Errorf("table refs = %d, want 2", table.Refs("alpha"))
	}
	if v := testutil.ToFloat64(reg.InternOps.WithLabelValues("intern", "created")); v != 1 {
		t.Errorf("created counter = %v, want 1", v)
	}
	if v := testutil.ToFloat64(reg.InternOps.WithLabelValues("intern", "existing")); v != 1 {
		t.Errorf("existing counter = %v, want 1", v)
	}
}

func TestHandleLookup(t *testing.T) {
	h, table, _ := newTestHandler(t)

	rec, resp := do(t, h, http.MethodGet, "/v1/strings/missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp.Code != CodeNotFound {
		t.Errorf("code = %q, want %q", resp.Code, CodeNotFound)
	}
	if rec.Header().Get("X-Error-Code") != CodeNotFound {
		t.Errorf("X-Error-Code = %q", rec.Header().Get("X-Error-Code"))
	}

	table.Intern("beta")
	rec, resp = do(t, h, http.MethodGet, "/v1/strings/beta")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := dataOf[StringResponse](t, resp); got.Value != "beta" || got.Refs != 1 {
		t.Errorf("data = %+v", got)
	}
	if table.Refs("beta") != 1 {
		t.Error("lookup must not take a reference")
	}
}

func TestHandleRelease(t *testing.T) {
	h, table, _ := newTestHandler(t)
	table.Intern("gamma")
	table.Intern("gamma")

	rec, resp := do(t, h, http.MethodDelete, "/v1/strings/gamma")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := dataOf[StringResponse](t, resp); got.Refs != 1 || got.Removed {
		t.Errorf("first DELETE data = %+v", got)
	}

	_, resp = do(t, h, http.MethodDelete, "/v1/strings/gamma")
	if got := dataOf[StringResponse](t, resp); got.Refs != 0 || !got.Removed {
		t.Errorf("second DELETE data = %+v", got)
	}
	if _, ok := table.Lookup("gamma"); ok {
		t.Error("gamma should be forgotten")
	}

	rec, _ = do(t, h, http.MethodDelete, "/v1/strings/gamma")
	if rec.Code != http.StatusNotFound {
		t.Errorf("third DELETE status = %d, want 404", rec.Code)
	}
}

func TestHandleStats(t *testing.T) {
	h, table, _ := newTestHandler(t)
	for _, s := range []string{"a", "b", "c"} {
		table.Intern(s)
	}

	rec, resp := do(t, h, http.MethodGet, "/v1/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := dataOf[StatsResponse](t, resp)
	if got.Strings != 3 || got.Shards.Entries != 3 {
		t.Errorf("stats = %+v", got)
	}
	if got.Shards.Shards != 4096 {
		t.Errorf("shards = %d, want 4096", got.Shards.Shards)
	}
}

func TestNew_NilMetrics(t *testing.T) {
	table := intern.New()
	h := New(table, nil, nil)

	rec, _ := do(t, h, http.MethodPut, "/v1/strings/x")
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

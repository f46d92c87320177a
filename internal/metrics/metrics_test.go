package metrics_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/msomdec/lovebridge/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "GET /healthz", "200"))

	metrics.RecordHTTPRequest(http.MethodGet, "GET /healthz", http.StatusOK, 5*time.Millisecond)

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "GET /healthz", "200"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestRecordHTTPRequestUnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))

	metrics.RecordHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	if after-before != 1 {
		t.Fatalf("expected unmatched counter to grow by 1, got %v", after-before)
	}
}

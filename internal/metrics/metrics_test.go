package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getHistogramCount(hv *prometheus.HistogramVec, labels ...string) uint64 {
	o, err := hv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := o.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_SourceRequestsTotal(t *testing.T) {
	before := getCounterVecValue(SourceRequestsTotal, "wyzie", OutcomeTimeout)
	SourceRequestsTotal.WithLabelValues("wyzie", OutcomeTimeout).Inc()
	after := getCounterVecValue(SourceRequestsTotal, "wyzie", OutcomeTimeout)

	if after != before+1 {
		t.Errorf("Expected timeout counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_SourceDuration(t *testing.T) {
	before := getHistogramCount(SourceDuration, "podnapisi")
	SourceDuration.WithLabelValues("podnapisi").Observe(0.3)
	after := getHistogramCount(SourceDuration, "podnapisi")

	if after != before+1 {
		t.Errorf("Expected one more observation, got diff %d", after-before)
	}
}

func TestMetrics_CaptionDownloadsTotal(t *testing.T) {
	for _, status := range []string{"success", "error"} {
		before := getCounterVecValue(CaptionDownloadsTotal, status)
		CaptionDownloadsTotal.WithLabelValues(status).Inc()
		after := getCounterVecValue(CaptionDownloadsTotal, status)

		if after != before+1 {
			t.Errorf("Expected %s counter to increment by 1, got diff %.0f", status, after-before)
		}
	}
}

func TestMetrics_NewHTTPServer(t *testing.T) {
	srv := NewHTTPServer("localhost", 9090)

	if srv.Addr != "localhost:9090" {
		t.Errorf("Expected address 'localhost:9090', got '%s'", srv.Addr)
	}

	if srv.Handler == nil {
		t.Fatal("Expected handler to be set")
	}

	NormalizationsTotal.WithLabelValues("ok").Inc()
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "caption_normalizations_total") {
		t.Error("Expected caption metrics in /metrics output")
	}
}

func TestMetrics_NewHTTPServer_DefaultPort(t *testing.T) {
	srv := NewHTTPServer("0.0.0.0", 0)

	if srv.Addr != "0.0.0.0:9090" {
		t.Errorf("Expected address '0.0.0.0:9090', got '%s'", srv.Addr)
	}
}

func TestMetrics_NewHTTPServer_ReadHeaderTimeout(t *testing.T) {
	srv := NewHTTPServer("localhost", DefaultPort)
	if srv.ReadHeaderTimeout <= 0 {
		t.Error("Expected a read header timeout on the metrics server")
	}
}

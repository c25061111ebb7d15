package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goSession "github.com/MrEthical07/goSession"
)

type fakeSource struct {
	snapshot goSession.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goSession.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                       { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters:   map[goSession.MetricID]uint64{},
			Histograms: map[goSession.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderFamiliesAndHistogram(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters: map[goSession.MetricID]uint64{
				goSession.MetricLoginSuccess:       7,
				goSession.MetricVerifyBadSignature: 3,
				goSession.MetricSessionIssued:      7,
			},
			Histograms: map[goSession.MetricID][]uint64{
				goSession.MetricVerifyLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	for _, want := range []string{
		`gosession_login_total{result="success"} 7`,
		`gosession_login_total{result="rate_limited"} 0`,
		`gosession_verify_total{result="bad_signature"} 3`,
		`gosession_sessions_issued_total 7`,
		`gosession_verify_latency_seconds_bucket{le="0.00001"} 1`,
		`gosession_verify_latency_seconds_bucket{le="+Inf"} 36`,
		`gosession_verify_latency_seconds_count 36`,
		`gosession_audit_dropped_total 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}

	if n := strings.Count(out, "# TYPE gosession_login_total counter"); n != 1 {
		t.Fatalf("expected one TYPE line per family, got %d", n)
	}
}

func TestRenderFromEngine(t *testing.T) {
	cfg := goSession.DefaultConfig()
	cfg.Session.Secret = []byte("prometheus-secret-prometheus-sec")
	cfg.Metrics.EnableLatencyHistograms = true
	engine, err := goSession.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer engine.Close()

	issued, err := engine.Issue(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := engine.Verify(context.Background(), issued.Token); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	_, _ = engine.Verify(context.Background(), "garbage")

	out := NewExporter(engine).Render()
	for _, want := range []string{
		`gosession_sessions_issued_total 1`,
		`gosession_verify_total{result="ok"} 1`,
		`gosession_verify_total{result="malformed_token"} 1`,
		`gosession_verify_latency_seconds_count 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters:   map[goSession.MetricID]uint64{goSession.MetricLoginSuccess: 1},
			Histograms: map[goSession.MetricID][]uint64{},
		},
	})

	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "gosession_verify_latency_seconds") {
		t.Fatal("histogram must be omitted when the snapshot has none")
	}
}

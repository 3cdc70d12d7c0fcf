package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/session"
)

func TestInstrument_DisabledMetrics(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics = false
	m, opts := instrument(cfg)
	if m != nil || len(opts) != 0 {
		t.Fatalf("expected no collectors or options, got %v %d", m, len(opts))
	}
	// nil collectors are a no-op even with a gateway configured
	cfg.PushGateway = "http://127.0.0.1:1"
	flushMetrics(cfg, m, slog.Default())
}

func TestInstrument_SessionFeedsGateway(t *testing.T) {
	var pushes int
	var gotPath string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes++
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	cfg := config.Default()
	cfg.PushGateway = gateway.URL
	m, opts := instrument(cfg)
	if m == nil {
		t.Fatalf("expected collectors when metrics are enabled")
	}

	sess := session.New(opts...)
	form := model.Structure{ID: "intake", Sections: []model.Section{{
		ID:     1,
		Fields: []model.Field{{ID: "name", Kind: model.FieldKindText, Label: "Name"}},
	}}}
	if err := sess.Initialize(form); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := sess.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if body := rec.Body.String(); !strings.Contains(body, `formflow_submissions_total{outcome="success"} 1`) {
		t.Fatalf("expected session submission recorded, got:\n%s", body)
	}

	var logs bytes.Buffer
	flushMetrics(cfg, m, slog.New(slog.NewTextHandler(&logs, nil)))
	if pushes != 1 || gotPath != "/metrics/job/"+pushJob {
		t.Fatalf("pushes = %d path = %q", pushes, gotPath)
	}
	if strings.Contains(logs.String(), "metrics push failed") {
		t.Fatalf("unexpected push failure: %s", logs.String())
	}
}

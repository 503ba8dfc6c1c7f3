package module

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"piiredact/internal/core/pipeline"
	"piiredact/internal/core/rulepack"
	"piiredact/internal/modkit"
	phttp "piiredact/internal/platform/net/http"
	metahttp "piiredact/internal/services/api/meta/http"
)

type checkFunc func(context.Context) error

func (f checkFunc) Ready(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, checks map[string]metahttp.Checker) http.Handler {
	t.Helper()
	p, err := pipeline.New(rulepack.MustLoad(), pipeline.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	m := New(
		modkit.Deps{Pipeline: p, Service: "piiredact-test", StartedAt: time.Now().Add(-time.Minute)},
		modkit.WithPorts(Ports{Checks: checks}),
	)
	if m.Name() != "meta" {
		t.Fatalf("name %q", m.Name())
	}
	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)
	return r.Mux()
}

func get(t *testing.T, h http.Handler, path string, data any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("%s data: %v", path, err)
		}
	}
	return rec.Code
}

func TestHealthAndVersion(t *testing.T) {
	t.Parallel()
	h := serve(t, nil)

	var health metahttp.HealthResponse
	if code := get(t, h, "/meta/health", &health); code != http.StatusOK {
		t.Fatalf("health status %d", code)
	}
	if !health.OK || health.Service != "piiredact-test" || health.Uptime < 59 {
		t.Fatalf("health %+v", health)
	}

	var ver struct {
		Service  string `json:"service"`
		RulePack int    `json:"rule_pack"`
	}
	if code := get(t, h, "/meta/version", &ver); code != http.StatusOK {
		t.Fatalf("version status %d", code)
	}
	if ver.Service != "piiredact-test" || ver.RulePack != rulepack.SupportedVersion {
		t.Fatalf("version %+v", ver)
	}
}

func TestLabels(t *testing.T) {
	t.Parallel()
	h := serve(t, nil)

	var out metahttp.LabelsResponse
	if code := get(t, h, "/meta/labels", &out); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	found := false
	for _, l := range out.Labels {
		if l.Label == "national-id-number" {
			found = l.Placeholder == "[NATIONAL-ID-NUMBER]"
		}
	}
	if !found {
		t.Fatalf("national id missing or misrendered: %+v", out.Labels)
	}
	if out.Legacy["pesel"] != "national-id-number" {
		t.Fatalf("legacy %+v", out.Legacy)
	}
}

func TestReady(t *testing.T) {
	t.Parallel()

	ok := checkFunc(func(context.Context) error { return nil })
	bad := checkFunc(func(context.Context) error { return errors.New("down") })

	var out metahttp.ReadyResponse
	if code := get(t, serve(t, map[string]metahttp.Checker{"a": ok}), "/meta/ready", &out); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if out.Status != "ok" || len(out.Checks) != 1 {
		t.Fatalf("ready %+v", out)
	}

	var failed metahttp.ReadyResponse
	code := get(t, serve(t, map[string]metahttp.Checker{"b": bad, "a": ok}), "/meta/ready", &failed)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", code)
	}
	if failed.Status != "fail" || len(failed.Checks) != 2 || failed.Checks[0].Name != "a" || failed.Checks[1].Error != "down" {
		t.Fatalf("ready %+v", failed)
	}
}

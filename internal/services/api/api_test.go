package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"piiredact/internal/core/pipeline"
	"piiredact/internal/core/rulepack"
	"piiredact/internal/modkit/swaggerkit"
	"piiredact/internal/platform/config"
	phttp "piiredact/internal/platform/net/http"
	"piiredact/internal/platform/testkit"
)

func mount(t *testing.T, swagger, pprof bool) http.Handler {
	t.Helper()
	p, err := pipeline.New(rulepack.MustLoad(), pipeline.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, Options{
		Config:         config.New().Prefix("PIIREDACT_TEST_UNSET_"),
		Pipeline:       p,
		EnableSwagger:  swagger,
		EnableProfiler: pprof,
	})
	return r.Mux()
}

func TestMount_Routes(t *testing.T) {
	t.Parallel()
	h := mount(t, true, true)

	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/v1/meta/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/ready", "", http.StatusOK},
		{http.MethodPost, "/api/v1/redact/process", `{"text":"PESEL 02070803628"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/redact/process", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{http.MethodGet, swaggerkit.DocPath, "", http.StatusOK},
		{http.MethodGet, "/debug/pprof/", "", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
		if tc.body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: %d want %d (%s)", tc.method, tc.path, rec.Code, tc.want, rec.Body.String())
		}
		if tc.path == "/api/v1/redact/process" && tc.want == http.StatusOK {
			testkit.MustContain(t, rec.Body.String(), "[NATIONAL-ID-NUMBER]")
		}
	}
}

func TestMount_DebugSurfacesOff(t *testing.T) {
	t.Parallel()
	h := mount(t, false, false)
	for _, p := range []string{swaggerkit.DocPath, "/debug/pprof/"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: %d", p, rec.Code)
		}
	}
}

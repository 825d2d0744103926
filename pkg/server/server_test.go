package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nikogura/resume-builder/pkg/metrics"
	"github.com/nikogura/resume-builder/pkg/pipeline"
	"github.com/nikogura/resume-builder/pkg/renderer"
)

func newTestServer(t *testing.T, g Generator) (s *Server) {
	t.Helper()
	r, err := renderer.NewHTMLRenderer(renderer.DefaultLimits(), "")
	require.NoError(t, err)
	s = New(g, r, metrics.New(), zaptest.NewLogger(t))
	return s
}

func offlinePipeline(t *testing.T) (p *pipeline.Pipeline) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p = pipeline.New(nil, nil, pipeline.Options{
		Logger: zaptest.NewLogger(t),
		Now:    func() time.Time { return now },
	})
	return p
}

func do(t *testing.T, h http.Handler, method, path, body string) (rec *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, offlinePipeline(t))
	rec := do(t, s.Router(), http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, offlinePipeline(t))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestGenerateOffline(t *testing.T) {
	s := newTestServer(t, offlinePipeline(t))
	rec := do(t, s.Router(), http.MethodPost, "/api/v1/resumes",
		`{"description":"Senior Python developer with React skills","offline":true}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pipeline.SourceFallback, resp.Source)
	assert.Equal(t, "Senior", resp.Record.Contact.Name)
	assert.Contains(t, resp.HTML, "Senior")
	assert.Equal(t, rec.Header().Get(requestIDHeader), resp.RequestID)
}

func TestGenerateBadRequests(t *testing.T) {
	s := newTestServer(t, offlinePipeline(t))
	router := s.Router()

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"not json", `nope`, http.StatusBadRequest, "invalid_request"},
		{"missing description", `{}`, http.StatusBadRequest, "invalid_request"},
		{"blank description", `{"description":"   "}`, http.StatusBadRequest, "empty_description"},
		{"too long", `{"description":"` + strings.Repeat("x", maxDescription+1) + `"}`, http.StatusRequestEntityTooLarge, "description_too_long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/v1/resumes", tc.body)
			assert.Equal(t, tc.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

type capturingGenerator struct {
	got pipeline.Request
}

func (g *capturingGenerator) Generate(ctx context.Context, req pipeline.Request) (pipeline.Result, error) {
	g.got = req
	return offlineResult(ctx, req)
}

func offlineResult(ctx context.Context, req pipeline.Request) (pipeline.Result, error) {
	p := pipeline.New(nil, nil, pipeline.Options{})
	return p.Generate(ctx, req)
}

func TestGeneratePassesOptions(t *testing.T) {
	g := &capturingGenerator{}
	s := newTestServer(t, g)
	rec := do(t, s.Router(), http.MethodPost, "/api/v1/resumes",
		`{"description":"data scientist","provider":"together","api_keys":{"together":"k"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "data scientist", g.got.Description)
	assert.Equal(t, "together", g.got.Provider)
	assert.Equal(t, map[string]string{"together": "k"}, g.got.APIKeys)
	assert.NotEmpty(t, g.got.RequestID)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, offlinePipeline(t))
	router := s.Router()

	do(t, router, http.MethodPost, "/api/v1/resumes", `{"description":"marketing lead","offline":true}`)
	rec := do(t, router, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, offlinePipeline(t))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

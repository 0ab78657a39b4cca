package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pfp/config"
)

func newTestServer(t *testing.T, token string) *Server {
	t.Helper()

	lookup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/zuck" {
			fmt.Fprint(w, `{"userID":"4"}`)
			return
		}
		fmt.Fprint(w, "<html></html>")
	}))
	t.Cleanup(lookup.Close)

	cfg := &config.Config{
		Port:           "0",
		AppEnv:         "production",
		LogLevel:       "info",
		GraphToken:     token,
		LookupBaseURL:  lookup.URL,
		PictureBaseURL: "https://graph.facebook.com",
		PictureWidth:   5000,
	}
	return NewServer(cfg, zap.NewNop(), lookup.Client())
}

func do(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)
	return rec
}

func pfpPath(raw string, extra ...string) string {
	q := url.Values{"url": {raw}}
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	return "/api/pfp?" + q.Encode()
}

func TestPFPJSON(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(s, http.MethodGet, pfpPath("https://www.facebook.com/zuck"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=86400, stale-while-revalidate=604800", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.JSONEq(t, `{"id":"4","imageUrl":"https://graph.facebook.com/4/picture?width=5000"}`, rec.Body.String())
}

func TestPFPRedirectWithToken(t *testing.T) {
	s := newTestServer(t, "app|secret")

	rec := do(s, http.MethodGet, pfpPath("https://www.facebook.com/profile.php?id=100004", "redirect", "true"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t,
		"https://graph.facebook.com/100004/picture?width=5000&access_token=app%7Csecret",
		rec.Header().Get("Location"))
}

func TestPFPErrors(t *testing.T) {
	s := newTestServer(t, "")

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{"missing url", "/api/pfp", http.StatusBadRequest, `{"error":"Missing required query param: url"}`},
		{"empty url", "/api/pfp?url=", http.StatusBadRequest, `{"error":"Missing required query param: url"}`},
		{"invalid url", pfpPath("not a url"), http.StatusBadRequest, `{"error":"Invalid URL."}`},
		{"no key", pfpPath("https://www.facebook.com/groups/1"), http.StatusBadRequest, `{"error":"Could not extract username/ID from URL."}`},
		{"not found", pfpPath("https://www.facebook.com/ghost"), http.StatusNotFound, `{"error":"Could not extract Facebook Profile ID."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			assert.Empty(t, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestPFPLookupUnavailable(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	cfg := newTestServer(t, "").Cfg
	cfg.LookupBaseURL = dead.URL
	s := NewServer(cfg, zap.NewNop(), http.DefaultClient)

	rec := do(s, http.MethodGet, pfpPath("https://www.facebook.com/zuck"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestIndexAndHealth(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(s, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome")

	rec = do(s, http.MethodGet, "/some/other/path")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodHead, "/")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodHead, "/some/other/path")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestErrorEnvelope(t *testing.T) {
	s := newTestServer(t, "")
	s.E.GET("/boom", func(echo.Context) error { panic("boom") })

	rec := do(s, http.MethodPost, "/api/pfp")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Method Not Allowed"}`, rec.Body.String())

	rec = do(s, http.MethodGet, "/boom")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

package helpers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type query struct {
	URL      string `query:"url" validate:"required"`
	Redirect string `query:"redirect"`
}

func newContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBindAndValidate(t *testing.T) {
	c, _ := newContext("/api/pfp?url=https%3A%2F%2Fwww.facebook.com%2Fzuck&redirect=1")

	var q query
	require.NoError(t, BindAndValidate(c, &q))
	assert.Equal(t, "https://www.facebook.com/zuck", q.URL)
	assert.Equal(t, "1", q.Redirect)
}

func TestBindAndValidateMissing(t *testing.T) {
	c, _ := newContext("/api/pfp?redirect=1")

	var q query
	err := BindAndValidate(c, &q)

	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "Missing required query param: url", he.Message)
}

func TestJSONError(t *testing.T) {
	c, rec := newContext("/")
	require.NoError(t, JSONError(c, http.StatusNotFound, errors.New("gone")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"gone"}`, rec.Body.String())

	c, rec = newContext("/")
	require.NoError(t, JSONError(c, http.StatusBadGateway, nil))
	assert.JSONEq(t, `{"error":"Bad Gateway"}`, rec.Body.String())
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.Len(t, a, length)
	assert.NotEqual(t, a, b)
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	_, err = NewLogger("production", "loud")
	assert.Error(t, err)
}

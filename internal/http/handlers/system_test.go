package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type countFunc func(ctx context.Context) (int64, error)

func (f countFunc) Count(ctx context.Context) (int64, error) { return f(ctx) }

func systemRouter(h *SystemHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/health", h.Health)
	r.GET("/api/db-check", h.DBCheck)
	r.GET("/api/routes", h.Routes)
	return r
}

func TestHealth(t *testing.T) {
	w := do(systemRouter(NewSystemHandler(nil, nil)), http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestDBCheck(t *testing.T) {
	h := NewSystemHandler(
		pingFunc(func(context.Context) error { return nil }),
		countFunc(func(context.Context) (int64, error) { return 12, nil }),
	)
	w := do(systemRouter(h), http.MethodGet, "/api/db-check", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 12, body["courses_in_db"])
}

func TestDBCheck_PingFails(t *testing.T) {
	h := NewSystemHandler(
		pingFunc(func(context.Context) error { return assert.AnError }),
		countFunc(func(context.Context) (int64, error) { return 0, nil }),
	)
	w := do(systemRouter(h), http.MethodGet, "/api/db-check", "")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "database ping failed", decodeError(t, w).Message)
}

func TestDBCheck_NoDatabase(t *testing.T) {
	w := do(systemRouter(NewSystemHandler(nil, nil)), http.MethodGet, "/api/db-check", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRoutes(t *testing.T) {
	h := NewSystemHandler(nil, nil)
	r := systemRouter(h)

	w := do(r, http.MethodGet, "/api/routes", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	h.SetRouter(r)
	w = do(r, http.MethodGet, "/api/routes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Routes []struct {
			Method string `json:"method"`
			Path   string `json:"path"`
		} `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Routes, 3)
}

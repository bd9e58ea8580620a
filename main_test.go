package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-gateway/internal/config"
	"github.com/fakhrymubarak/weather-gateway/internal/server"
)

func TestServerStartup(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Diagnostics.RedisAddr = ""

	gw := server.NewGateway(cfg, zap.NewNop().Sugar(), nil)
	defer gw.Close()
	srv := httptest.NewServer(gw.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestHTTPHandlerRegistration(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Diagnostics.RedisAddr = ""

	gw := server.NewGateway(cfg, zap.NewNop().Sugar(), nil)
	defer gw.Close()

	rr := httptest.NewRecorder()
	gw.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/weather", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = httptest.NewRecorder()
	gw.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
}

package cmdutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricsServer(t *testing.T) {
	srv := httptest.NewServer(MetricsServer())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok\n", string(body))

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoggerLevel(t *testing.T) {
	logCfg.level = "warn"
	defer func() { logCfg.level = "info" }()
	logger, err := Logger()
	require.NoError(t, err)
	require.False(t, logger.Info().Enabled())
	require.True(t, logger.Warn().Enabled())

	logCfg.level = "shouting"
	_, err = Logger()
	require.Error(t, err)
}

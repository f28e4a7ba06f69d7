package cmdutil

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Default sits next to the ports the local Supabase stack claims
// (54321 onwards).
var metricsListenAddr = "127.0.0.1:54330"

func RegisterMetricsFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&metricsListenAddr,
		"metrics-listen-addr",
		metricsListenAddr,
		"address the copy metrics and health endpoints listen on",
	)
}

// MetricsServer serves the datacopy prometheus counters and a liveness
// endpoint.
func MetricsServer() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// RunMetricsServer exposes MetricsServer in the background for the
// lifetime of the process.
func RunMetricsServer(logger zerolog.Logger) {
	go func() {
		if err := http.ListenAndServe(metricsListenAddr, MetricsServer()); err != nil {
			logger.Err(err).Str("addr", metricsListenAddr).Msgf("metrics listener stopped")
		}
	}()
}

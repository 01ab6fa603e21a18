// Package metrics provides Prometheus metrics for rfiles.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	nodesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rfiles_nodes",
			Help: "Number of files and folders in the store",
		},
	)

	uploadsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfiles_uploads_submitted_total",
			Help: "Total number of submitted uploads",
		},
		[]string{"status"},
	)

	uploadsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rfiles_uploads_completed_total",
			Help: "Total number of uploads that reached 100%",
		},
	)

	uploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rfiles_upload_bytes_total",
			Help: "Total bytes of completed uploads",
		},
	)

	menuActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfiles_menu_actions_total",
			Help: "Context menu actions by outcome",
		},
		[]string{"action", "result"},
	)
)

// SetNodeCount records the store size.
func SetNodeCount(n int) {
	nodesTotal.Set(float64(n))
}

// RecordUploadSubmitted counts a new task by its initial status.
func RecordUploadSubmitted(status string) {
	uploadsSubmitted.WithLabelValues(status).Inc()
}

// RecordUploadCompleted counts a finished upload.
func RecordUploadCompleted(sizeBytes int64) {
	uploadsCompleted.Inc()
	uploadBytes.Add(float64(max(sizeBytes, 0)))
}

// RecordMenuAction counts an executed context action.
func RecordMenuAction(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	menuActions.WithLabelValues(action, result).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("metrics endpoint listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

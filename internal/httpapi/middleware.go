package httpapi

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/metrics"
)

// statusRecorder запоминает статус, отданный обработчиком ниже по цепочке.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithObservability оборачивает обработчик логированием каждого запроса и
// записью его длительности в метрики. Метрики опциональны (nil отключает).
func WithObservability(next http.Handler, hm *metrics.HTTPMetrics, logger *log.Entry) http.Handler {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		elapsed := time.Since(started)
		if hm != nil {
			hm.RecordRequest(r.Method, recorder.status, elapsed)
		}
		logger.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      recorder.status,
			"duration_ms": elapsed.Milliseconds(),
		}).Info("request handled")
	})
}

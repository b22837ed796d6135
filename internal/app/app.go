// Package app собирает сервисы из конфигурации: хранилище, шлюзы к соседям,
// доменные сервисы и HTTP сервер с общим жизненным циклом.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/gateway"
	"github.com/wh75er/store-microservices/internal/health"
	"github.com/wh75er/store-microservices/internal/httpapi"
	"github.com/wh75er/store-microservices/internal/metrics"
	"github.com/wh75er/store-microservices/internal/storage/postgres"
)

const shutdownTimeout = 5 * time.Second

// apiHandler регистрирует свои маршруты на mux.
type apiHandler interface {
	Register(mux *http.ServeMux)
}

// newMux собирает mux сервиса: REST API, /manage/health под basic auth и
// /metrics для Prometheus, всё под общим middleware наблюдаемости.
func newMux(api apiHandler, db health.Pinger, admin config.Admin, service string) http.Handler {
	mux := http.NewServeMux()
	api.Register(mux)
	mux.Handle("GET /manage/health", httpapi.HealthHandler(db, admin, log.WithField("component", "health")))
	mux.Handle("GET /metrics", promhttp.Handler())

	return httpapi.WithObservability(mux, metrics.NewHTTPMetrics(service), log.WithField("component", "http"))
}

// newGateway строит health gate и общий исходящий вызыватель сервиса.
func newGateway(gate config.Gate, gm *metrics.GateMetrics) *gateway.Client {
	httpClient := &http.Client{}
	probe := gateway.HealthProbe(httpClient, gate.CalloutTimeout)
	registry := gateway.NewRegistry(gate.UpdateDuration, probe, gm, log.WithField("component", "gateway-registry"))
	return gateway.NewClient(httpClient, registry, gate, gm, log.WithField("component", "gateway-client"))
}

// openStorage открывает PostgreSQL и накатывает миграции сервиса.
func openStorage(ctx context.Context, dsn, migrations string, logger *log.Entry) (*postgres.Store, error) {
	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, migrations); err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.WithField("migrations", migrations).Info("postgres storage ready")
	return store, nil
}

// closeStorage закрывает подключение к БД с логированием ошибки.
func closeStorage(store *postgres.Store, logger *log.Entry) {
	if err := store.Close(); err != nil {
		logger.WithError(err).Warn("failed to close postgres connection")
	}
}

// serve запускает HTTP сервер и блокируется до остановки контекста либо
// падения сервера. Остановка по контексту даёт серверу shutdownTimeout на
// обработку открытых запросов и возвращает ctx.Err().
func serve(ctx context.Context, addr string, handler http.Handler, logger *log.Entry) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер слушает %s", lis.Addr())
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(srv, logger)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("HTTP shutdown with error")
	}
}

package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/gateway"
	"github.com/wh75er/store-microservices/internal/httpapi"
	"github.com/wh75er/store-microservices/internal/metrics"
	"github.com/wh75er/store-microservices/internal/service/store"
	"github.com/wh75er/store-microservices/internal/storage/postgres"
)

// RunStore собирает и запускает витрину: агрегированную выдачу заказов и
// прокси покупок, возвратов и гарантийных обращений.
func RunStore(ctx context.Context, cfg config.Store) error {
	logger := log.WithField("component", "store-app")

	pg, err := openStorage(ctx, cfg.DatabaseURL, postgres.MigrationsUsers, logger)
	if err != nil {
		return err
	}
	defer closeStorage(pg, logger)

	users, closeCache := initUserCache(cfg, postgres.NewUserRepository(pg), logger)
	defer closeCache()

	client := newGateway(cfg.Gate, metrics.NewGateMetrics())

	svc := store.NewService(
		users,
		gateway.NewOrderClient(client, cfg.OrderHost),
		gateway.NewWarehouseClient(client, cfg.WarehouseHost),
		gateway.NewWarrantyClient(client, cfg.WarrantyHost),
		log.WithField("component", "store"),
	)

	handler := httpapi.NewStoreHandler(svc, log.WithField("component", "store-api"))
	return serve(ctx, cfg.Addr, newMux(handler, pg, cfg.Admin, "store"), logger)
}

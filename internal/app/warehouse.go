package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/gateway"
	"github.com/wh75er/store-microservices/internal/httpapi"
	"github.com/wh75er/store-microservices/internal/metrics"
	"github.com/wh75er/store-microservices/internal/service/warehouse"
	"github.com/wh75er/store-microservices/internal/storage/postgres"
)

// RunWarehouse собирает и запускает сервис склада.
func RunWarehouse(ctx context.Context, cfg config.Warehouse) error {
	logger := log.WithField("component", "warehouse-app")

	store, err := openStorage(ctx, cfg.DatabaseURL, postgres.MigrationsWarehouse, logger)
	if err != nil {
		return err
	}
	defer closeStorage(store, logger)

	client := newGateway(cfg.Gate, metrics.NewGateMetrics())
	warrantyGW := gateway.NewWarrantyClient(client, cfg.WarrantyHost)

	svc := warehouse.NewService(
		postgres.NewWarehouseRepository(store),
		warrantyGW,
		log.WithField("component", "warehouse"),
	)

	handler := httpapi.NewWarehouseHandler(svc, log.WithField("component", "warehouse-api"))
	return serve(ctx, cfg.Addr, newMux(handler, store, cfg.Admin, "warehouse"), logger)
}

package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/httpapi"
	"github.com/wh75er/store-microservices/internal/service/warranty"
	"github.com/wh75er/store-microservices/internal/storage/postgres"
)

// RunWarranty собирает и запускает сервис гарантий.
func RunWarranty(ctx context.Context, cfg config.Warranty) error {
	logger := log.WithField("component", "warranty-app")

	store, err := openStorage(ctx, cfg.DatabaseURL, postgres.MigrationsWarranty, logger)
	if err != nil {
		return err
	}
	defer closeStorage(store, logger)

	svc := warranty.NewService(
		postgres.NewWarrantyRepository(store),
		log.WithField("component", "warranty"),
	)

	handler := httpapi.NewWarrantyHandler(svc, log.WithField("component", "warranty-api"))
	return serve(ctx, cfg.Addr, newMux(handler, store, cfg.Admin, "warranty"), logger)
}

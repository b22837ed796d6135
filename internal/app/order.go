package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/gateway"
	"github.com/wh75er/store-microservices/internal/httpapi"
	"github.com/wh75er/store-microservices/internal/metrics"
	"github.com/wh75er/store-microservices/internal/service/order"
	"github.com/wh75er/store-microservices/internal/storage/postgres"
)

// RunOrder собирает и запускает сервис заказов: саги покупки и возврата,
// необязательную очередь отложенного оформления гарантии и необязательную
// шину событий Kafka.
func RunOrder(ctx context.Context, cfg config.Order) error {
	logger := log.WithField("component", "order-app")

	store, err := openStorage(ctx, cfg.DatabaseURL, postgres.MigrationsOrders, logger)
	if err != nil {
		return err
	}
	defer closeStorage(store, logger)

	client := newGateway(cfg.Gate, metrics.NewGateMetrics())
	warehouseGW := gateway.NewWarehouseClient(client, cfg.WarehouseHost)
	warrantyGW := gateway.NewWarrantyClient(client, cfg.WarrantyHost)

	// Шина событий не обязательна: без брокеров события не публикуются.
	var events domain.EventPublisher
	producer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err == nil && producer != nil {
		events = producer
	}
	defer closeKafka(producer, logger)

	// Очередь отложенного оформления тоже не обязательна, но настроенный
	// AMQP_URL обязан быть рабочим: без очереди падение сервиса гарантий
	// откатывает покупку вместо отложенного оформления.
	var enrolmentQueue domain.EnrolmentQueue
	var starter order.WorkerStarter
	amqp, err := initEnrolmentQueue(ctx, cfg, warrantyGW, client, logger)
	if err != nil {
		return err
	}
	if amqp != nil {
		defer amqp.close(logger)
		enrolmentQueue = amqp.publisher
		starter = amqp.worker
	}

	svc := order.NewServiceWithQueue(
		postgres.NewOrderRepository(store),
		warehouseGW,
		warrantyGW,
		enrolmentQueue,
		starter,
		events,
		log.WithField("component", "order"),
	)

	handler := httpapi.NewOrderHandler(svc, log.WithField("component", "order-api"))
	return serve(ctx, cfg.Addr, newMux(handler, store, cfg.Admin, "order"), logger)
}

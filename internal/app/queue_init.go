package app

import (
	"context"

	amqp091 "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/gateway"
	"github.com/wh75er/store-microservices/internal/metrics"
	"github.com/wh75er/store-microservices/internal/queue"
	"github.com/wh75er/store-microservices/internal/service/order"
)

// enrolmentQueue держит AMQP-инфраструктуру отложенного оформления гарантии:
// соединение, публикатор для саги покупки и воркер разбора очереди.
type enrolmentQueue struct {
	conn      *amqp091.Connection
	publisher *queue.Publisher
	worker    *order.EnrolmentWorker
}

// initEnrolmentQueue подключает очередь отложенного оформления, если задан
// AMQP_URL. Возвращает nil, nil при пустом URL. В отличие от Kafka очередь
// участвует в семантике саги, поэтому ошибка подключения фатальна.
func initEnrolmentQueue(
	ctx context.Context,
	cfg config.Order,
	warranty domain.WarrantyGateway,
	client *gateway.Client,
	logger *log.Entry,
) (*enrolmentQueue, error) {
	if cfg.AMQPURL == "" {
		return nil, nil
	}

	conn, err := queue.Dial(ctx, cfg.AMQPURL)
	if err != nil {
		return nil, err
	}

	worker := order.NewEnrolmentWorker(
		queue.NewConsumer(conn, cfg.QueueName),
		warranty,
		func() bool { return client.Probe(cfg.WarrantyHost) },
		cfg.Gate.UpdateDuration,
		metrics.NewWorkerMetrics(),
		log.WithField("component", "enrolment_worker"),
	)

	logger.WithField("queue", cfg.QueueName).Info("enrolment queue connected")
	return &enrolmentQueue{
		conn:      conn,
		publisher: queue.NewPublisher(conn, cfg.QueueName),
		worker:    worker,
	}, nil
}

// close останавливает воркер и закрывает AMQP-соединение.
func (q *enrolmentQueue) close(logger *log.Entry) {
	q.worker.Stop()
	if err := q.conn.Close(); err != nil {
		logger.WithError(err).Warn("failed to close amqp connection")
	}
}

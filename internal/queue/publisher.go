package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sethvargo/go-retry"

	"github.com/wh75er/store-microservices/internal/domain"
)

const (
	dialBackoffBase = time.Second
	dialMaxRetries  = 5
	publishTimeout  = 5 * time.Second
)

// Dial подключается к AMQP-брокеру. Брокер часто поднимается вместе с
// сервисом, поэтому попытки повторяются с фибоначчи-паузами.
func Dial(ctx context.Context, url string) (*amqp.Connection, error) {
	var conn *amqp.Connection

	backoff := retry.WithMaxRetries(dialMaxRetries, retry.NewFibonacci(dialBackoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var dialErr error
		conn, dialErr = amqp.Dial(url)
		if dialErr != nil {
			return retry.RetryableError(dialErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	return conn, nil
}

// Publisher кладёт item_uid в очередь отложенного оформления гарантии.
// Соединение делят воркер и публикации параллельных саг, поэтому каждый
// Publish открывает собственный канал.
type Publisher struct {
	conn      *amqp.Connection
	queueName string
}

// NewPublisher создаёт публикатор для именованной очереди.
func NewPublisher(conn *amqp.Connection, queueName string) *Publisher {
	return &Publisher{conn: conn, queueName: queueName}
}

var _ domain.EnrolmentQueue = (*Publisher)(nil)

// Publish публикует item_uid как текст UUID в durable-очередь. Любой сбой
// заворачивается в ErrQueuePublish: сагу он останавливает с компенсацией.
func (p *Publisher) Publish(itemUID uuid.UUID) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: open channel: %v", domain.ErrQueuePublish, err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("%w: declare queue: %v", domain.ErrQueuePublish, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:  "text/plain",
		DeliveryMode: amqp.Persistent,
		Body:         []byte(itemUID.String()),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrQueuePublish, err)
	}

	return nil
}

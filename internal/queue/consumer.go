package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer читает доставки из очереди отложенного оформления гарантии.
type Consumer struct {
	conn      *amqp.Connection
	queueName string
}

// NewConsumer создаёт консьюмер именованной очереди.
func NewConsumer(conn *amqp.Connection, queueName string) *Consumer {
	return &Consumer{conn: conn, queueName: queueName}
}

// Deliveries открывает канал с prefetch 1 и ручным подтверждением и
// возвращает поток доставок вместе с функцией закрытия канала. Закрытие
// возвращает неподтверждённые доставки обратно в очередь.
func (c *Consumer) Deliveries() (<-chan amqp.Delivery, func(), error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("consume queue: %w", err)
	}

	closeFn := func() {
		_ = ch.Close()
	}
	return deliveries, closeFn, nil
}

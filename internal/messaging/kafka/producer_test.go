package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/domain"
)

func newOrderEvent() domain.OrderEvent {
	return domain.OrderEvent{
		EventType: domain.EventTypeOrderCreated,
		OrderUID:  uuid.NewString(),
		ItemUID:   uuid.NewString(),
		UserUID:   uuid.NewString(),
		Status:    string(domain.OrderStatusPaid),
		Timestamp: time.Now().UTC(),
	}
}

func TestProducer_PublishOrderEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		topic:    TopicOrderEvents,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	if err := producer.PublishOrderEvent(newOrderEvent()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishOrderEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		topic:    TopicOrderEvents,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	if err := producer.PublishOrderEvent(newOrderEvent()); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

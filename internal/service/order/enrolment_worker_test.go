package order

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/wh75er/store-microservices/internal/domain"
)

type fakeAcknowledger struct {
	mu   sync.Mutex
	acks int
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks++
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error { return nil }
func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error              { return nil }

func (f *fakeAcknowledger) ackCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acks
}

// fakeDeliverySource раздаёт один общий буферизованный канал, чтобы тест мог
// положить сообщения до подписки.
type fakeDeliverySource struct {
	mu         sync.Mutex
	err        error
	ch         chan amqp.Delivery
	subscribed int
	closed     int
}

func newFakeDeliverySource() *fakeDeliverySource {
	return &fakeDeliverySource{ch: make(chan amqp.Delivery, 8)}
}

func (f *fakeDeliverySource) Deliveries() (<-chan amqp.Delivery, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, nil, f.err
	}
	f.subscribed++
	return f.ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.closed++
	}, nil
}

func (f *fakeDeliverySource) push(d amqp.Delivery) { f.ch <- d }
func (f *fakeDeliverySource) finish()              { close(f.ch) }

func (f *fakeDeliverySource) counts() (subscribed, closed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribed, f.closed
}

// scriptedWarranty отдаёт ошибки оформления по одной из заготовленного списка.
type scriptedWarranty struct {
	mu       sync.Mutex
	startSeq []error
	started  []uuid.UUID
}

func (s *scriptedWarranty) StartWarranty(itemUID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, itemUID)
	if len(s.startSeq) == 0 {
		return nil
	}
	err := s.startSeq[0]
	s.startSeq = s.startSeq[1:]
	return err
}

func (s *scriptedWarranty) StopWarranty(itemUID uuid.UUID) error { return nil }

func (s *scriptedWarranty) WarrantyInfo(itemUID uuid.UUID) (domain.WarrantyInfo, error) {
	return domain.WarrantyInfo{}, nil
}

func (s *scriptedWarranty) RequestVerdict(itemUID uuid.UUID, availableCount int32, reason string) (domain.Verdict, error) {
	return domain.Verdict{}, nil
}

func (s *scriptedWarranty) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.started)
}

func delivery(ack *fakeAcknowledger, body string) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(body),
		DeliveryTag:  1,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWorkerDrainAcksProcessedDeliveries(t *testing.T) {
	source := newFakeDeliverySource()
	warranty := &scriptedWarranty{}
	worker := NewEnrolmentWorker(source, warranty, func() bool { return true }, time.Millisecond, nil, testLogger())

	ack := &fakeAcknowledger{}
	source.push(delivery(ack, uuid.New().String()))
	source.push(delivery(ack, uuid.New().String()))
	source.finish()

	if clean := worker.drain(context.Background()); !clean {
		t.Fatal("expected clean drain")
	}

	if got := warranty.calls(); got != 2 {
		t.Fatalf("expected 2 enrolments, got %d", got)
	}
	if got := ack.ackCount(); got != 2 {
		t.Fatalf("expected 2 acks, got %d", got)
	}
	subscribed, closed := source.counts()
	if subscribed != 1 || closed != 1 {
		t.Fatalf("expected one subscription opened and closed, got %d/%d", subscribed, closed)
	}
}

func TestWorkerDrainStopsOnEnrolFailure(t *testing.T) {
	source := newFakeDeliverySource()
	warranty := &scriptedWarranty{startSeq: []error{domain.ErrWarrantyAccess}}
	worker := NewEnrolmentWorker(source, warranty, func() bool { return true }, time.Millisecond, nil, testLogger())

	ack := &fakeAcknowledger{}
	source.push(delivery(ack, uuid.New().String()))

	if clean := worker.drain(context.Background()); clean {
		t.Fatal("expected drain to report failure")
	}

	// сообщение осталось неподтверждённым, подписка закрыта
	if got := ack.ackCount(); got != 0 {
		t.Fatalf("expected no acks on failure, got %d", got)
	}
	if _, closed := source.counts(); closed != 1 {
		t.Fatalf("expected subscription closed, got %d closes", closed)
	}
}

func TestWorkerDrainDropsPoisonMessages(t *testing.T) {
	source := newFakeDeliverySource()
	warranty := &scriptedWarranty{}
	worker := NewEnrolmentWorker(source, warranty, func() bool { return true }, time.Millisecond, nil, testLogger())

	ack := &fakeAcknowledger{}
	valid := uuid.New()
	source.push(delivery(ack, "not-a-uuid"))
	source.push(delivery(ack, valid.String()))
	source.finish()

	if clean := worker.drain(context.Background()); !clean {
		t.Fatal("expected clean drain")
	}

	// мусорное сообщение подтверждено и выброшено, валидное оформлено
	if got := warranty.calls(); got != 1 {
		t.Fatalf("expected 1 enrolment, got %d", got)
	}
	if len(warranty.started) != 1 || warranty.started[0] != valid {
		t.Fatalf("expected enrolment for %s, got %v", valid, warranty.started)
	}
	if got := ack.ackCount(); got != 2 {
		t.Fatalf("expected 2 acks, got %d", got)
	}
}

func TestWorkerDrainConsumeError(t *testing.T) {
	source := &fakeDeliverySource{err: errors.New("channel closed")}
	worker := NewEnrolmentWorker(source, &scriptedWarranty{}, func() bool { return true }, time.Millisecond, nil, testLogger())

	if clean := worker.drain(context.Background()); clean {
		t.Fatal("expected drain to report failure")
	}
}

func TestWorkerWaitsForWarrantyRecovery(t *testing.T) {
	source := newFakeDeliverySource()
	warranty := &scriptedWarranty{}
	var up atomic.Bool
	worker := NewEnrolmentWorker(source, warranty, up.Load, time.Millisecond, nil, testLogger())

	worker.Start()
	defer worker.Stop()

	// пока сервис гарантий лежит, подписки нет
	time.Sleep(10 * time.Millisecond)
	if subscribed, _ := source.counts(); subscribed != 0 {
		t.Fatalf("expected no subscription while warranty is down, got %d", subscribed)
	}

	up.Store(true)
	waitFor(t, "subscription after recovery", func() bool {
		subscribed, _ := source.counts()
		return subscribed == 1
	})

	ack := &fakeAcknowledger{}
	itemUID := uuid.New()
	source.push(delivery(ack, itemUID.String()))

	waitFor(t, "delivery ack", func() bool { return ack.ackCount() == 1 })
	if got := warranty.calls(); got != 1 {
		t.Fatalf("expected 1 enrolment, got %d", got)
	}
}

func TestWorkerStartIsIdempotent(t *testing.T) {
	source := newFakeDeliverySource()
	worker := NewEnrolmentWorker(source, &scriptedWarranty{}, func() bool { return true }, time.Millisecond, nil, testLogger())

	worker.Start()
	worker.Start()
	defer worker.Stop()

	waitFor(t, "subscription", func() bool {
		subscribed, _ := source.counts()
		return subscribed >= 1
	})
	time.Sleep(10 * time.Millisecond)

	if subscribed, _ := source.counts(); subscribed != 1 {
		t.Fatalf("expected exactly one subscription, got %d", subscribed)
	}
}

func TestWorkerStopWithoutStart(t *testing.T) {
	worker := NewEnrolmentWorker(newFakeDeliverySource(), &scriptedWarranty{}, func() bool { return true }, time.Millisecond, nil, testLogger())
	worker.Stop()
}

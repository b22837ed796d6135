package order

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/metrics"
)

// DeliverySource открывает подписку на очередь отложенного оформления.
// Возвращаемая функция закрывает подписку; неподтверждённые сообщения
// при этом возвращаются брокеру.
type DeliverySource interface {
	Deliveries() (<-chan amqp.Delivery, func(), error)
}

// EnrolmentWorker дооформляет гарантии из очереди отложенного оформления.
// Единственный на процесс, запускается лениво при первой публикации.
// Пока сервис гарантий недоступен, воркер спит и не трогает очередь.
type EnrolmentWorker struct {
	source   DeliverySource
	warranty domain.WarrantyGateway
	probe    func() bool
	cooldown time.Duration
	metrics  *metrics.WorkerMetrics
	logger   *log.Entry

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewEnrolmentWorker создаёт воркер. probe — прямая проверка доступности
// сервиса гарантий; cooldown — пауза между проверками и после неудачи.
func NewEnrolmentWorker(
	source DeliverySource,
	warranty domain.WarrantyGateway,
	probe func() bool,
	cooldown time.Duration,
	wm *metrics.WorkerMetrics,
	logger *log.Entry,
) *EnrolmentWorker {
	if logger == nil {
		logger = log.New().WithField("component", "enrolment_worker")
	}
	return &EnrolmentWorker{
		source:   source,
		warranty: warranty,
		probe:    probe,
		cooldown: cooldown,
		metrics:  wm,
		logger:   logger,
	}
}

// Start запускает цикл воркера; повторные вызовы ничего не делают.
func (w *EnrolmentWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.run(ctx)
	w.logger.Info("enrolment worker started")
}

// Stop останавливает воркер и дожидается завершения цикла.
func (w *EnrolmentWorker) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done
}

func (w *EnrolmentWorker) run(ctx context.Context) {
	defer close(w.done)

	for {
		if ctx.Err() != nil {
			return
		}

		if !w.probe() {
			w.logger.Warn("warranty service is down, enrolment worker is waiting")
			if !sleepFor(ctx, w.cooldown) {
				return
			}
			continue
		}

		if clean := w.drain(ctx); !clean {
			if !sleepFor(ctx, w.cooldown) {
				return
			}
		}
	}
}

// drain вычитывает очередь, пока оформления проходят. Возврат false означает
// сбой: подписка закрыта, последнее сообщение осталось неподтверждённым и
// вернётся брокеру.
func (w *EnrolmentWorker) drain(ctx context.Context) bool {
	deliveries, closeFn, err := w.source.Deliveries()
	if err != nil {
		w.logger.WithError(err).Error("queue consume failed")
		return false
	}
	defer closeFn()

	for {
		select {
		case <-ctx.Done():
			return true
		case d, ok := <-deliveries:
			if !ok {
				return true
			}
			if !w.handle(d) {
				return false
			}
		}
	}
}

// handle дооформляет одну гарантию; false перезапускает цикл без ack.
func (w *EnrolmentWorker) handle(d amqp.Delivery) bool {
	itemUID, err := uuid.ParseBytes(d.Body)
	if err != nil {
		w.logger.WithError(err).Error("unparseable queue message dropped")
		if w.metrics != nil {
			w.metrics.RecordDropped()
		}
		return w.ack(d)
	}

	if err := w.warranty.StartWarranty(itemUID); err != nil {
		w.logger.WithError(err).WithField("item_uid", itemUID).Warn("deferred enrolment failed")
		if w.metrics != nil {
			w.metrics.RecordFailed()
		}
		return false
	}

	if !w.ack(d) {
		return false
	}

	if w.metrics != nil {
		w.metrics.RecordProcessed()
	}
	w.logger.WithField("item_uid", itemUID).Info("deferred enrolment completed")
	return true
}

func (w *EnrolmentWorker) ack(d amqp.Delivery) bool {
	if err := d.Ack(false); err != nil {
		w.logger.WithError(err).Error("delivery ack failed")
		return false
	}
	return true
}

func sleepFor(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

var _ WorkerStarter = (*EnrolmentWorker)(nil)

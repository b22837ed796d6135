package order

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/metrics"
)

// Service описывает операции сервиса заказов.
type Service interface {
	// Purchase выполняет сагу покупки и возвращает новый order_uid.
	Purchase(userUID uuid.UUID, model, size string) (uuid.UUID, error)
	// Return выполняет сагу возврата заказа.
	Return(orderUID uuid.UUID) error
	// UserOrders возвращает заказы пользователя, новые первыми.
	UserOrders(userUID uuid.UUID) ([]domain.Order, error)
	// UserOrder возвращает один заказ пользователя.
	UserOrder(userUID, orderUID uuid.UUID) (domain.Order, error)
	// WarrantyDecision запрашивает вердикт по гарантийному обращению;
	// остаток стока по позиции заказа дополняет склад.
	WarrantyDecision(orderUID uuid.UUID, reason string) (domain.Verdict, error)
}

// WorkerStarter лениво запускает воркер отложенного оформления гарантии.
type WorkerStarter interface {
	Start()
}

// service реализует саги покупки и возврата поверх склада и гарантий.
type service struct {
	orders    domain.OrderRepository
	warehouse domain.WarehouseGateway
	warranty  domain.WarrantyGateway
	queue     domain.EnrolmentQueue // nil — очередь не настроена
	worker    WorkerStarter         // nil вместе с queue
	events    domain.EventPublisher // nil — события выключены
	metrics   *metrics.SagaMetrics
	logger    *log.Entry
}

// NewService создаёт сервис заказов без очереди и шины событий.
func NewService(
	orders domain.OrderRepository,
	warehouse domain.WarehouseGateway,
	warranty domain.WarrantyGateway,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "order")
	}
	return &service{
		orders:    orders,
		warehouse: warehouse,
		warranty:  warranty,
		metrics:   metrics.NewSagaMetrics(),
		logger:    logger,
	}
}

// NewServiceWithQueue создаёт сервис заказов с очередью отложенного
// оформления гарантии и, опционально, шиной событий. Любой из queue,
// worker и events может быть nil.
func NewServiceWithQueue(
	orders domain.OrderRepository,
	warehouse domain.WarehouseGateway,
	warranty domain.WarrantyGateway,
	queue domain.EnrolmentQueue,
	worker WorkerStarter,
	events domain.EventPublisher,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "order")
	}
	return &service{
		orders:    orders,
		warehouse: warehouse,
		warranty:  warranty,
		queue:     queue,
		worker:    worker,
		events:    events,
		metrics:   metrics.NewSagaMetrics(),
		logger:    logger,
	}
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	warehouse domain.WarehouseGateway,
	warranty domain.WarrantyGateway,
	queue domain.EnrolmentQueue,
	worker WorkerStarter,
	events domain.EventPublisher,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "order")
	}
	return &service{
		orders:    orders,
		warehouse: warehouse,
		warranty:  warranty,
		queue:     queue,
		worker:    worker,
		events:    events,
		logger:    logger,
	}
}

// Purchase: резерв стока, оформление гарантии (либо очередь), запись заказа.
// Ошибка вставки после резерва и гарантии оставляет их оформленными;
// заказ при этом не существует.
func (s *service) Purchase(userUID uuid.UUID, model, size string) (uuid.UUID, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordPurchaseStarted()
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordSagaDuration("purchase", time.Since(start))
		}
	}()

	orderUID := uuid.New()
	logger := s.logger.WithFields(log.Fields{
		"order_uid": orderUID,
		"user_uid":  userUID,
	})

	reserved, err := s.warehouse.ReserveItem(orderUID, model, size)
	if err != nil {
		logger.WithError(err).Warn("stock reserve failed")
		s.recordPurchaseFailed()
		return uuid.Nil, err
	}

	order := domain.Order{
		OrderUID:  orderUID,
		ItemUID:   reserved.OrderItemUID,
		UserUID:   userUID,
		Status:    domain.OrderStatusPaid,
		OrderDate: time.Now().UTC(),
	}

	if err := s.warranty.StartWarranty(order.ItemUID); err != nil {
		logger.WithError(err).Warn("warranty enrolment failed")
		if err := s.deferEnrolment(logger, order, err); err != nil {
			s.recordPurchaseFailed()
			return uuid.Nil, err
		}
	}

	if err := s.orders.Create(order); err != nil {
		logger.WithError(err).Error("order insert failed after reserve and enrolment")
		s.recordPurchaseFailed()
		return uuid.Nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPurchaseCompleted()
	}
	logger.Info("purchase completed")
	s.publishEvent(domain.OrderEvent{
		EventType: domain.EventTypeOrderCreated,
		OrderUID:  order.OrderUID.String(),
		ItemUID:   order.ItemUID.String(),
		UserUID:   order.UserUID.String(),
		Status:    string(order.Status),
		Timestamp: time.Now().UTC(),
	})

	return orderUID, nil
}

// deferEnrolment обрабатывает неудачное оформление гарантии. С настроенной
// очередью item_uid публикуется для дооформления и покупка продолжается;
// без очереди резерв снимается и наружу уходит ошибка гарантии. Неудачная
// публикация тоже снимает резерв и уходит наружу.
func (s *service) deferEnrolment(logger *log.Entry, order domain.Order, enrolErr error) error {
	if s.queue == nil {
		s.compensateReserve(logger, order.ItemUID)
		return enrolErr
	}

	if s.worker != nil {
		s.worker.Start()
	}

	if err := s.queue.Publish(order.ItemUID); err != nil {
		logger.WithError(err).Error("enrolment enqueue failed")
		s.compensateReserve(logger, order.ItemUID)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordPurchaseDeferred()
	}
	logger.Info("warranty enrolment deferred to queue")
	s.publishEvent(domain.OrderEvent{
		EventType: domain.EventTypeEnrolmentDeferred,
		OrderUID:  order.OrderUID.String(),
		ItemUID:   order.ItemUID.String(),
		UserUID:   order.UserUID.String(),
		Timestamp: time.Now().UTC(),
	})

	return nil
}

// compensateReserve снимает резерв стока. Ошибка снятия только логируется:
// наружу уходит первопричина.
func (s *service) compensateReserve(logger *log.Entry, orderItemUID uuid.UUID) {
	if s.metrics != nil {
		s.metrics.RecordCompensation("release")
	}
	if err := s.warehouse.ReleaseItem(orderItemUID); err != nil {
		logger.WithError(err).Error("reserve release compensation failed")
	}
}

// Return: снятие резерва, закрытие гарантии, статус CANCELED. Неудачное
// закрытие гарантии компенсируется повторным резервом той же позиции.
func (s *service) Return(orderUID uuid.UUID) error {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordReturnStarted()
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordSagaDuration("return", time.Since(start))
		}
	}()

	logger := s.logger.WithField("order_uid", orderUID)

	order, err := s.orders.GetByUID(orderUID)
	if err != nil {
		s.recordReturnFailed()
		return err
	}

	if err := s.warehouse.ReleaseItem(order.ItemUID); err != nil {
		logger.WithError(err).Warn("stock release failed")
		s.recordReturnFailed()
		return err
	}

	if err := s.warranty.StopWarranty(order.ItemUID); err != nil {
		logger.WithError(err).Warn("warranty close failed")
		if cerr := s.reReserve(logger, order); cerr != nil {
			s.recordReturnFailed()
			return cerr
		}
		s.recordReturnFailed()
		return err
	}

	if err := s.orders.SetStatus(orderUID, domain.OrderStatusCanceled); err != nil {
		logger.WithError(err).Error("order status update failed")
		s.recordReturnFailed()
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordReturnCompleted()
	}
	logger.Info("return completed")
	s.publishEvent(domain.OrderEvent{
		EventType: domain.EventTypeOrderCanceled,
		OrderUID:  order.OrderUID.String(),
		ItemUID:   order.ItemUID.String(),
		UserUID:   order.UserUID.String(),
		Status:    string(domain.OrderStatusCanceled),
		Timestamp: time.Now().UTC(),
	})

	return nil
}

// reReserve возвращает снятый резерв, когда закрыть гарантию не удалось.
// Ошибка склада при компенсации перекрывает ошибку гарантии.
func (s *service) reReserve(logger *log.Entry, order domain.Order) error {
	if s.metrics != nil {
		s.metrics.RecordCompensation("re-reserve")
	}

	info, err := s.warehouse.ItemInfo(order.ItemUID)
	if err != nil {
		logger.WithError(err).Error("item info fetch for re-reserve failed")
		return err
	}
	if _, err := s.warehouse.ReserveItem(order.OrderUID, info.Model, info.Size); err != nil {
		logger.WithError(err).Error("re-reserve failed")
		return err
	}

	logger.Info("reserve restored after failed warranty close")
	return nil
}

func (s *service) UserOrders(userUID uuid.UUID) ([]domain.Order, error) {
	return s.orders.ListByUser(userUID)
}

func (s *service) UserOrder(userUID, orderUID uuid.UUID) (domain.Order, error) {
	return s.orders.GetByUserAndUID(userUID, orderUID)
}

func (s *service) WarrantyDecision(orderUID uuid.UUID, reason string) (domain.Verdict, error) {
	order, err := s.orders.GetByUID(orderUID)
	if err != nil {
		return domain.Verdict{}, err
	}

	return s.warehouse.WarrantyVerdict(order.ItemUID, reason)
}

func (s *service) recordPurchaseFailed() {
	if s.metrics != nil {
		s.metrics.RecordPurchaseFailed()
	}
}

func (s *service) recordReturnFailed() {
	if s.metrics != nil {
		s.metrics.RecordReturnFailed()
	}
}

func (s *service) publishEvent(event domain.OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(event); err != nil {
		s.logger.WithError(err).Warn("order event publish failed")
	}
}

var _ Service = (*service)(nil)

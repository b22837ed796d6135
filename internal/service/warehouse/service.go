package warehouse

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/domain"
)

// Service описывает операции сервиса склада.
type Service interface {
	// Reserve резервирует товар (model, size) под order_uid и возвращает
	// выданную позицию. Повторный резерв под тем же order_uid реактивирует
	// прежнюю позицию.
	Reserve(orderUID uuid.UUID, model, size string) (domain.ReservedItem, error)
	// Release снимает резерв по order_item_uid и возвращает единицу в сток.
	Release(orderItemUID uuid.UUID) error
	// Info возвращает model/size позиции.
	Info(orderItemUID uuid.UUID) (domain.ItemInfo, error)
	// Verdict дополняет гарантийное обращение текущим остатком товара и
	// передаёт его сервису гарантий.
	Verdict(orderItemUID uuid.UUID, reason string) (domain.Verdict, error)
}

type service struct {
	stock    domain.WarehouseRepository
	warranty domain.WarrantyGateway
	logger   *log.Entry
}

// NewService создаёт сервис склада.
func NewService(stock domain.WarehouseRepository, warranty domain.WarrantyGateway, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "warehouse")
	}
	return &service{
		stock:    stock,
		warranty: warranty,
		logger:   logger,
	}
}

func (s *service) Reserve(orderUID uuid.UUID, model, size string) (domain.ReservedItem, error) {
	row, err := s.stock.Reserve(orderUID, model, size)
	if err != nil {
		return domain.ReservedItem{}, err
	}

	s.logger.WithFields(log.Fields{
		"order_uid":      orderUID,
		"order_item_uid": row.OrderItemUID,
		"model":          model,
		"size":           size,
	}).Info("item reserved")

	return domain.ReservedItem{
		OrderItemUID: row.OrderItemUID,
		OrderUID:     row.OrderUID,
		Model:        model,
		Size:         size,
	}, nil
}

func (s *service) Release(orderItemUID uuid.UUID) error {
	if err := s.stock.Release(orderItemUID); err != nil {
		return err
	}

	s.logger.WithField("order_item_uid", orderItemUID).Info("item released")
	return nil
}

func (s *service) Info(orderItemUID uuid.UUID) (domain.ItemInfo, error) {
	item, err := s.stock.ItemInfo(orderItemUID)
	if err != nil {
		return domain.ItemInfo{}, err
	}

	return domain.ItemInfo{
		Model: item.Model,
		Size:  item.Size,
	}, nil
}

func (s *service) Verdict(orderItemUID uuid.UUID, reason string) (domain.Verdict, error) {
	item, err := s.stock.ItemInfo(orderItemUID)
	if err != nil {
		return domain.Verdict{}, err
	}

	return s.warranty.RequestVerdict(orderItemUID, item.AvailableCount, reason)
}

var _ Service = (*service)(nil)

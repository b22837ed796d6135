package store

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wh75er/store-microservices/internal/domain"
)

// SolidOrderInfo — агрегированное представление заказа для витрины.
// Поля склада и гарантии опциональны: недоступность сервиса при сборке
// оставляет их пустыми.
type SolidOrderInfo struct {
	OrderUID       uuid.UUID
	Date           string
	Model          *string
	Size           *string
	WarrantyDate   *string
	WarrantyStatus *string
}

// Service описывает операции витрины.
type Service interface {
	// Orders возвращает агрегированные заказы пользователя.
	Orders(userUID uuid.UUID) ([]SolidOrderInfo, error)
	// Order возвращает один агрегированный заказ пользователя.
	Order(userUID, orderUID uuid.UUID) (SolidOrderInfo, error)
	// Purchase оформляет покупку через сервис заказов.
	Purchase(userUID uuid.UUID, model, size string) (uuid.UUID, error)
	// Refund запускает возврат заказа.
	Refund(userUID, orderUID uuid.UUID) error
	// WarrantyRequest передаёт гарантийное обращение по заказу.
	WarrantyRequest(userUID, orderUID uuid.UUID, reason string) (domain.Verdict, error)
}

type service struct {
	users     domain.UserRepository
	orders    domain.OrderGateway
	warehouse domain.WarehouseGateway
	warranty  domain.WarrantyGateway
	logger    *log.Entry
}

// NewService создаёт сервис витрины.
func NewService(
	users domain.UserRepository,
	orders domain.OrderGateway,
	warehouse domain.WarehouseGateway,
	warranty domain.WarrantyGateway,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "store")
	}
	return &service{
		users:     users,
		orders:    orders,
		warehouse: warehouse,
		warranty:  warranty,
		logger:    logger,
	}
}

func (s *service) Orders(userUID uuid.UUID) ([]SolidOrderInfo, error) {
	if err := s.verifyUser(userUID); err != nil {
		return nil, err
	}

	orders, err := s.orders.UserOrders(userUID)
	if err != nil {
		return nil, err
	}

	infos := make([]SolidOrderInfo, 0, len(orders))
	for _, order := range orders {
		infos = append(infos, s.solidInfo(order))
	}

	return infos, nil
}

func (s *service) Order(userUID, orderUID uuid.UUID) (SolidOrderInfo, error) {
	if err := s.verifyUser(userUID); err != nil {
		return SolidOrderInfo{}, err
	}

	order, err := s.orders.UserOrder(userUID, orderUID)
	if err != nil {
		return SolidOrderInfo{}, err
	}

	return s.solidInfo(order), nil
}

func (s *service) Purchase(userUID uuid.UUID, model, size string) (uuid.UUID, error) {
	if err := s.verifyUser(userUID); err != nil {
		return uuid.Nil, err
	}

	orderUID, err := s.orders.CreateOrder(userUID, model, size)
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.WithFields(log.Fields{
		"user_uid":  userUID,
		"order_uid": orderUID,
	}).Info("purchase placed")

	return orderUID, nil
}

func (s *service) Refund(userUID, orderUID uuid.UUID) error {
	if err := s.verifyUser(userUID); err != nil {
		return err
	}

	if err := s.orders.ReturnOrder(orderUID); err != nil {
		return err
	}

	s.logger.WithFields(log.Fields{
		"user_uid":  userUID,
		"order_uid": orderUID,
	}).Info("refund placed")

	return nil
}

func (s *service) WarrantyRequest(userUID, orderUID uuid.UUID, reason string) (domain.Verdict, error) {
	if err := s.verifyUser(userUID); err != nil {
		return domain.Verdict{}, err
	}

	return s.orders.WarrantyDecision(orderUID, reason)
}

func (s *service) verifyUser(userUID uuid.UUID) error {
	_, err := s.users.GetByUID(userUID)
	return err
}

// solidInfo дополняет заказ данными склада и гарантии. Оба обращения
// идут параллельно и не обязательны: при ошибке поля остаются пустыми.
func (s *service) solidInfo(order domain.OrderSummary) SolidOrderInfo {
	info := SolidOrderInfo{
		OrderUID: order.OrderUID,
		Date:     order.OrderDate,
	}

	var (
		g           errgroup.Group
		item        domain.ItemInfo
		itemErr     error
		warranty    domain.WarrantyInfo
		warrantyErr error
	)

	g.Go(func() error {
		item, itemErr = s.warehouse.ItemInfo(order.ItemUID)
		return nil
	})
	g.Go(func() error {
		warranty, warrantyErr = s.warranty.WarrantyInfo(order.ItemUID)
		return nil
	})
	_ = g.Wait()

	if itemErr != nil {
		s.logger.WithError(itemErr).WithField("order_uid", order.OrderUID).
			Debug("item info omitted from aggregation")
	} else {
		info.Model = &item.Model
		info.Size = &item.Size
	}

	if warrantyErr != nil {
		s.logger.WithError(warrantyErr).WithField("order_uid", order.OrderUID).
			Debug("warranty info omitted from aggregation")
	} else {
		info.WarrantyDate = &warranty.WarrantyDate
		info.WarrantyStatus = &warranty.Status
	}

	return info
}

var _ Service = (*service)(nil)

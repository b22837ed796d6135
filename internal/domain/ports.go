package domain

import (
	"time"

	"github.com/google/uuid"
)

// WarehouseGateway описывает обращения к сервису склада.
type WarehouseGateway interface {
	// ReserveItem резервирует товар под order_uid и возвращает выданную
	// складом позицию. ErrItemNotFound / ErrItemNotAvailable /
	// ErrWarehouseAccess.
	ReserveItem(orderUID uuid.UUID, model, size string) (ReservedItem, error)
	// ReleaseItem снимает резерв по order_item_uid (компенсация покупки,
	// прямой шаг возврата).
	ReleaseItem(orderItemUID uuid.UUID) error
	// ItemInfo возвращает model/size позиции для компенсации возврата и
	// агрегированной выдачи.
	ItemInfo(orderItemUID uuid.UUID) (ItemInfo, error)
	// WarrantyVerdict запрашивает у склада вердикт по гарантии; склад сам
	// дополняет запрос текущим остатком.
	WarrantyVerdict(orderItemUID uuid.UUID, reason string) (Verdict, error)
}

// WarrantyGateway описывает обращения к сервису гарантий.
type WarrantyGateway interface {
	// StartWarranty заводит гарантию на позицию (ожидается 204).
	StartWarranty(itemUID uuid.UUID) error
	// StopWarranty закрывает гарантию при возврате (ожидается 204).
	StopWarranty(itemUID uuid.UUID) error
	// WarrantyInfo возвращает состояние гарантии для агрегированной выдачи.
	WarrantyInfo(itemUID uuid.UUID) (WarrantyInfo, error)
	// RequestVerdict передаёт сервису гарантий обращение с остатком стока.
	RequestVerdict(itemUID uuid.UUID, availableCount int32, reason string) (Verdict, error)
}

// OrderGateway описывает обращения витрины к сервису заказов.
type OrderGateway interface {
	// CreateOrder запускает сагу покупки и возвращает новый order_uid.
	CreateOrder(userUID uuid.UUID, model, size string) (uuid.UUID, error)
	// ReturnOrder запускает сагу возврата.
	ReturnOrder(orderUID uuid.UUID) error
	// UserOrders возвращает заказы пользователя.
	UserOrders(userUID uuid.UUID) ([]OrderSummary, error)
	// UserOrder возвращает один заказ пользователя.
	UserOrder(userUID, orderUID uuid.UUID) (OrderSummary, error)
	// WarrantyDecision запрашивает вердикт по заказу.
	WarrantyDecision(orderUID uuid.UUID, reason string) (Verdict, error)
}

// EnrolmentQueue публикует item_uid в очередь отложенного оформления гарантии.
type EnrolmentQueue interface {
	Publish(itemUID uuid.UUID) error
}

// EventPublisher публикует события жизненного цикла заказа во внешнюю шину.
// Реализация обязана быть безопасной для вызова из параллельных саг.
type EventPublisher interface {
	PublishOrderEvent(event OrderEvent) error
}

// ReservedItem — позиция, выданная складом при резервировании.
type ReservedItem struct {
	OrderItemUID uuid.UUID
	OrderUID     uuid.UUID
	Model        string
	Size         string
}

// ItemInfo — описание товара каталога.
type ItemInfo struct {
	Model string
	Size  string
}

// WarrantyInfo — состояние гарантии, как его отдаёт сервис гарантий.
type WarrantyInfo struct {
	ItemUID      uuid.UUID
	Status       string
	WarrantyDate string
}

// Verdict — ответ на гарантийное обращение.
type Verdict struct {
	Decision     string
	WarrantyDate string
}

// OrderSummary — заказ в выдаче сервиса заказов.
type OrderSummary struct {
	OrderUID  uuid.UUID
	ItemUID   uuid.UUID
	Status    string
	OrderDate string
}

// OrderEvent — событие саги для внешней шины.
type OrderEvent struct {
	EventType string    `json:"event_type"`
	OrderUID  string    `json:"order_uid"`
	ItemUID   string    `json:"item_uid,omitempty"`
	UserUID   string    `json:"user_uid,omitempty"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Типы событий жизненного цикла заказа.
const (
	EventTypeOrderCreated      = "order.created"
	EventTypeOrderCanceled     = "order.canceled"
	EventTypeEnrolmentDeferred = "enrolment.deferred"
)

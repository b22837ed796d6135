package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPaid — покупка оформлена: сток зарезервирован, гарантия
	// оформлена либо поставлена в очередь отложенного оформления.
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusCanceled — заказ возвращён; резерв снят, гарантия закрыта.
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// Order агрегирует состояние покупки. ItemUID — это order_item_uid,
// выданный складом при резервировании; под ним же живёт гарантия.
type Order struct {
	ID        int64
	OrderUID  uuid.UUID
	ItemUID   uuid.UUID
	UserUID   uuid.UUID
	Status    OrderStatus
	OrderDate time.Time
}

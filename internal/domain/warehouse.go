package domain

import "github.com/google/uuid"

// Item — складская позиция каталога. Количество меняется только резервом
// (декремент) и снятием резерва (инкремент).
type Item struct {
	ID             int64
	AvailableCount int32
	Model          string
	Size           string
}

// OrderItem — строка резерва под конкретный order_uid. На один order_uid
// существует не более одной строки; повторный резерв реактивирует её
// (canceled=false) вместо вставки новой.
type OrderItem struct {
	ID           int64
	OrderItemUID uuid.UUID
	OrderUID     uuid.UUID
	ItemID       int64
	Canceled     bool
}

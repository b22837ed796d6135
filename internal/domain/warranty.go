package domain

import (
	"time"

	"github.com/google/uuid"
)

// WarrantyStatus описывает состояние гарантии на складскую позицию.
type WarrantyStatus string

const (
	// WarrantyStatusOn — гарантия действует.
	WarrantyStatusOn WarrantyStatus = "ON_WARRANTY"
	// WarrantyStatusRemoved — гарантия закрыта при возврате.
	WarrantyStatusRemoved WarrantyStatus = "REMOVED_FROM_WARRANTY"
)

// Decision — вердикт гарантийного обращения.
type Decision string

const (
	// DecisionReturn — товар есть на складе, можно заменить.
	DecisionReturn Decision = "RETURN"
	// DecisionFixing — товара нет, отправляем в ремонт.
	DecisionFixing Decision = "FIXING"
	// DecisionRefused — гарантия не действует, отказ.
	DecisionRefused Decision = "REFUSED"
)

// Warranty — запись о гарантии, заведённая под order_item_uid склада.
type Warranty struct {
	ID           int64
	ItemUID      uuid.UUID
	Status       WarrantyStatus
	WarrantyDate time.Time
	Comment      string
}

// Verdict выносит решение по обращению: отказ без действующей гарантии,
// замена при наличии стока, иначе ремонт.
func (w Warranty) Verdict(availableCount int32) Decision {
	if w.Status != WarrantyStatusOn {
		return DecisionRefused
	}
	if availableCount > 0 {
		return DecisionReturn
	}
	return DecisionFixing
}

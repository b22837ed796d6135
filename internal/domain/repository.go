package domain

import "github.com/google/uuid"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ.
	Create(order Order) error
	// GetByUID возвращает заказ по order_uid или ErrOrderNotFound.
	GetByUID(orderUID uuid.UUID) (Order, error)
	// GetByUserAndUID возвращает заказ пользователя или ErrOrderNotFound.
	GetByUserAndUID(userUID, orderUID uuid.UUID) (Order, error)
	// ListByUser возвращает все заказы пользователя, новые первыми.
	ListByUser(userUID uuid.UUID) ([]Order, error)
	// SetStatus переводит заказ в новый статус; ErrOrderNotFound, если заказа нет.
	SetStatus(orderUID uuid.UUID, status OrderStatus) error
}

// WarehouseRepository описывает складское хранилище: items и order_items.
// Reserve и Release — единственные мутаторы стока, обе операции атомарны.
type WarehouseRepository interface {
	// Reserve резервирует товар (model, size) под order_uid: декремент стока
	// и вставка либо реактивация строки order_items. ErrItemNotFound, если
	// товара нет в каталоге; ErrItemNotAvailable при нулевом остатке.
	Reserve(orderUID uuid.UUID, model, size string) (OrderItem, error)
	// Release снимает резерв: canceled=true и инкремент стока.
	// ErrOrderItemNotFound, если строки резерва нет.
	Release(orderItemUID uuid.UUID) error
	// ItemInfo возвращает товар каталога по order_item_uid резерва.
	ItemInfo(orderItemUID uuid.UUID) (Item, error)
}

// WarrantyRepository описывает хранилище гарантий.
type WarrantyRepository interface {
	// Upsert заводит гарантию либо возвращает существующую запись по
	// item_uid в состояние w.Status с новой датой. Идемпотентна.
	Upsert(w Warranty) error
	// GetByItemUID возвращает гарантию или ErrWarrantyNotFound.
	GetByItemUID(itemUID uuid.UUID) (Warranty, error)
	// SetStatus меняет статус гарантии; ErrWarrantyNotFound, если записи нет.
	SetStatus(itemUID uuid.UUID, status WarrantyStatus) error
}

// UserRepository описывает хранилище пользователей витрины.
type UserRepository interface {
	// GetByUID возвращает пользователя или ErrUserNotFound.
	GetByUID(userUID uuid.UUID) (User, error)
}

package domain

import "errors"

var (
	// Ошибка некорректного UUID во входном запросе.
	ErrInvalidUID = errors.New("invalid uid")
	// Ошибка отрицательного количества товара в запросе вердикта.
	ErrInvalidCount = errors.New("available count must be non-negative")
	// Ошибка некорректного тела запроса.
	ErrBadRequest = errors.New("malformed request body")
	// ErrUserNotFound возвращается, если пользователь не найден в таблице users.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderItemNotFound возвращается, если складская позиция заказа не найдена.
	ErrOrderItemNotFound = errors.New("order item not found")
	// ErrItemNotFound возвращается, если товар с указанными model/size отсутствует.
	ErrItemNotFound = errors.New("item not found")
	// ErrItemNotAvailable — товар закончился на складе.
	ErrItemNotAvailable = errors.New("item is not available")
	// ErrWarrantyNotFound возвращается, если гарантия по item_uid не найдена.
	ErrWarrantyNotFound = errors.New("warranty not found")
	// ErrWarehouseAccess — сервис склада недоступен (транспорт, 5xx или открытый breaker).
	ErrWarehouseAccess = errors.New("warehouse service unavailable")
	// ErrWarrantyAccess — сервис гарантий недоступен.
	ErrWarrantyAccess = errors.New("warranty service unavailable")
	// ErrOrderAccess — сервис заказов недоступен.
	ErrOrderAccess = errors.New("order service unavailable")
	// ErrQueuePublish — ошибка публикации в очередь отложенного оформления гарантии.
	ErrQueuePublish = errors.New("enrolment queue publish failed")
)

// IsNotFound проверяет, относится ли ошибка к семейству "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrOrderItemNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrWarrantyNotFound)
}

// IsAccessError проверяет, является ли ошибка недоступностью одного из сервисов.
func IsAccessError(err error) bool {
	return errors.Is(err, ErrWarehouseAccess) ||
		errors.Is(err, ErrWarrantyAccess) ||
		errors.Is(err, ErrOrderAccess)
}

package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	items  map[uuid.UUID]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[uuid.UUID]domain.Order),
	}
}

// Create сохраняет новый заказ, если order_uid ещё не занят.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.OrderUID]; exists {
		return fmt.Errorf("order %s already exists", order.OrderUID)
	}
	r.nextID++
	order.ID = r.nextID
	r.items[order.OrderUID] = order
	return nil
}

// GetByUID возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) GetByUID(orderUID uuid.UUID) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[orderUID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// GetByUserAndUID возвращает заказ, только если он принадлежит пользователю.
func (r *orderRepositoryInMemory) GetByUserAndUID(userUID, orderUID uuid.UUID) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[orderUID]
	if !ok || order.UserUID != userUID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListByUser возвращает заказы пользователя, новые первыми.
func (r *orderRepositoryInMemory) ListByUser(userUID uuid.UUID) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if order.UserUID != userUID {
			continue
		}
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.After(result[j].OrderDate)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// SetStatus переводит заказ в новый статус.
func (r *orderRepositoryInMemory) SetStatus(orderUID uuid.UUID, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[orderUID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	r.items[orderUID] = order
	return nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)

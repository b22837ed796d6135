package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

// warehouseRepositoryInMemory держит каталог и строки резерва под одним
// мьютексом: Reserve и Release меняют остаток и строку вместе, как транзакция
// в постоянном хранилище.
type warehouseRepositoryInMemory struct {
	mu       sync.RWMutex
	nextID   int64
	items    []domain.Item
	reserves map[uuid.UUID]domain.OrderItem // ключ — order_item_uid
	byOrder  map[uuid.UUID]uuid.UUID        // order_uid -> order_item_uid
}

// NewWarehouseRepository возвращает in-memory склад, заполненный переданным
// каталогом. Позициям без ID выдаются порядковые номера.
func NewWarehouseRepository(catalog ...domain.Item) domain.WarehouseRepository {
	r := &warehouseRepositoryInMemory{
		items:    make([]domain.Item, len(catalog)),
		reserves: make(map[uuid.UUID]domain.OrderItem),
		byOrder:  make(map[uuid.UUID]uuid.UUID),
	}
	copy(r.items, catalog)
	for i := range r.items {
		if r.items[i].ID == 0 {
			r.items[i].ID = int64(i + 1)
		}
	}
	return r
}

// Reserve декрементирует остаток и заводит строку резерва. Повторный резерв
// под тем же order_uid реактивирует существующую строку вместо вставки новой.
func (r *warehouseRepositoryInMemory) Reserve(orderUID uuid.UUID, model, size string) (domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.findItem(model, size)
	if idx < 0 {
		return domain.OrderItem{}, domain.ErrItemNotFound
	}
	if r.items[idx].AvailableCount <= 0 {
		return domain.OrderItem{}, domain.ErrItemNotAvailable
	}
	r.items[idx].AvailableCount--

	if itemUID, ok := r.byOrder[orderUID]; ok {
		row := r.reserves[itemUID]
		row.Canceled = false
		r.reserves[itemUID] = row
		return row, nil
	}

	r.nextID++
	row := domain.OrderItem{
		ID:           r.nextID,
		OrderItemUID: uuid.New(),
		OrderUID:     orderUID,
		ItemID:       r.items[idx].ID,
	}
	r.reserves[row.OrderItemUID] = row
	r.byOrder[orderUID] = row.OrderItemUID
	return row, nil
}

// Release помечает строку canceled и возвращает единицу на остаток.
func (r *warehouseRepositoryInMemory) Release(orderItemUID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.reserves[orderItemUID]
	if !ok {
		return domain.ErrOrderItemNotFound
	}
	idx := r.findItemID(row.ItemID)
	if idx < 0 {
		return domain.ErrItemNotFound
	}

	row.Canceled = true
	r.reserves[orderItemUID] = row
	r.items[idx].AvailableCount++
	return nil
}

// ItemInfo возвращает товар каталога по order_item_uid резерва.
func (r *warehouseRepositoryInMemory) ItemInfo(orderItemUID uuid.UUID) (domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.reserves[orderItemUID]
	if !ok {
		return domain.Item{}, domain.ErrOrderItemNotFound
	}
	idx := r.findItemID(row.ItemID)
	if idx < 0 {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return r.items[idx], nil
}

// findItem ищет позицию каталога по модели и размеру. Вызывается под мьютексом.
func (r *warehouseRepositoryInMemory) findItem(model, size string) int {
	for i := range r.items {
		if r.items[i].Model == model && r.items[i].Size == size {
			return i
		}
	}
	return -1
}

// findItemID ищет позицию каталога по ID. Вызывается под мьютексом.
func (r *warehouseRepositoryInMemory) findItemID(id int64) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

var _ domain.WarehouseRepository = (*warehouseRepositoryInMemory)(nil)

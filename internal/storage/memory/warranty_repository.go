package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

// warrantyRepositoryInMemory — in-memory реализация WarrantyRepository.
type warrantyRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	items  map[uuid.UUID]domain.Warranty
}

// NewWarrantyRepository возвращает in-memory репозиторий гарантий.
func NewWarrantyRepository() domain.WarrantyRepository {
	return &warrantyRepositoryInMemory{
		items: make(map[uuid.UUID]domain.Warranty),
	}
}

// Upsert заводит гарантию либо переводит существующую запись в w.Status с
// новой датой; item_uid уникален.
func (r *warrantyRepositoryInMemory) Upsert(w domain.Warranty) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[w.ItemUID]; ok {
		existing.Status = w.Status
		existing.WarrantyDate = w.WarrantyDate
		r.items[w.ItemUID] = existing
		return nil
	}

	r.nextID++
	w.ID = r.nextID
	r.items[w.ItemUID] = w
	return nil
}

// GetByItemUID возвращает гарантию или ErrWarrantyNotFound.
func (r *warrantyRepositoryInMemory) GetByItemUID(itemUID uuid.UUID) (domain.Warranty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.items[itemUID]
	if !ok {
		return domain.Warranty{}, domain.ErrWarrantyNotFound
	}
	return w, nil
}

// SetStatus меняет статус гарантии, не трогая дату оформления.
func (r *warrantyRepositoryInMemory) SetStatus(itemUID uuid.UUID, status domain.WarrantyStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.items[itemUID]
	if !ok {
		return domain.ErrWarrantyNotFound
	}
	w.Status = status
	r.items[itemUID] = w
	return nil
}

var _ domain.WarrantyRepository = (*warrantyRepositoryInMemory)(nil)

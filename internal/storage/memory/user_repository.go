package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

// userRepositoryInMemory — in-memory реестр пользователей витрины.
type userRepositoryInMemory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

// NewUserRepository возвращает in-memory реестр, заполненный переданными
// пользователями. Записям без ID выдаются порядковые номера.
func NewUserRepository(users ...domain.User) domain.UserRepository {
	r := &userRepositoryInMemory{
		users: make(map[uuid.UUID]domain.User, len(users)),
	}
	var nextID int64
	for _, u := range users {
		if u.ID == 0 {
			nextID++
			u.ID = nextID
		}
		r.users[u.UserUID] = u
	}
	return r
}

// GetByUID возвращает пользователя или ErrUserNotFound.
func (r *userRepositoryInMemory) GetByUID(userUID uuid.UUID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userUID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{db: store.DB()}
}

func (r *userRepository) GetByUID(userUID uuid.UUID) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var u domain.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, user_uid
		FROM users
		WHERE user_uid = $1
	`, userUID).Scan(&u.ID, &u.Name, &u.UserUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}

	return u, nil
}

var _ domain.UserRepository = (*userRepository)(nil)

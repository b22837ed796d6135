package memory_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/storage/memory"
)

func TestUserRepository_GetByUID(t *testing.T) {
	userUID := uuid.New()
	repo := memory.NewUserRepository(domain.User{UserUID: userUID, Name: "Alex"})

	u, err := repo.GetByUID(userUID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if u.Name != "Alex" {
		t.Fatalf("name = %q", u.Name)
	}

	if _, err := repo.GetByUID(uuid.New()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

func TestWarrantyRepositoryIntegration_UpsertLifecycle(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	repo := NewWarrantyRepository(store)

	itemUID := uuid.New()
	first := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Hour)

	if err := repo.Upsert(domain.Warranty{ItemUID: itemUID, Status: domain.WarrantyStatusOn, WarrantyDate: first}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	w, err := repo.GetByItemUID(itemUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if w.Status != domain.WarrantyStatusOn || !w.WarrantyDate.Equal(first) {
		t.Fatalf("warranty = %+v", w)
	}

	if err := repo.SetStatus(itemUID, domain.WarrantyStatusRemoved); err != nil {
		t.Fatalf("set status: %v", err)
	}

	second := time.Now().UTC().Truncate(time.Microsecond)
	if err := repo.Upsert(domain.Warranty{ItemUID: itemUID, Status: domain.WarrantyStatusOn, WarrantyDate: second}); err != nil {
		t.Fatalf("repeated upsert: %v", err)
	}

	w, err = repo.GetByItemUID(itemUID)
	if err != nil {
		t.Fatalf("get after re-enrol: %v", err)
	}
	if w.Status != domain.WarrantyStatusOn {
		t.Fatalf("status = %s, want ON_WARRANTY", w.Status)
	}
	if !w.WarrantyDate.Equal(second) {
		t.Fatalf("warranty date = %s, want refreshed %s", w.WarrantyDate, second)
	}
}

func TestWarrantyRepositoryIntegration_NotFound(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	repo := NewWarrantyRepository(store)

	if _, err := repo.GetByItemUID(uuid.New()); !errors.Is(err, domain.ErrWarrantyNotFound) {
		t.Fatalf("expected ErrWarrantyNotFound, got %v", err)
	}
	if err := repo.SetStatus(uuid.New(), domain.WarrantyStatusRemoved); !errors.Is(err, domain.ErrWarrantyNotFound) {
		t.Fatalf("expected ErrWarrantyNotFound, got %v", err)
	}
}

func TestUserRepositoryIntegration_SeededUser(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	repo := NewUserRepository(store)

	knownUser := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	u, err := repo.GetByUID(knownUser)
	if err != nil {
		t.Fatalf("get seeded user: %v", err)
	}
	if u.Name == "" {
		t.Fatal("seeded user must have a name")
	}

	if _, err := repo.GetByUID(uuid.New()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

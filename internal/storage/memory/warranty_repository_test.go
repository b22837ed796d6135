package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/storage/memory"
)

func TestWarrantyRepository_UpsertGet(t *testing.T) {
	repo := memory.NewWarrantyRepository()
	itemUID := uuid.New()
	date := time.Now().UTC()

	err := repo.Upsert(domain.Warranty{
		ItemUID:      itemUID,
		Status:       domain.WarrantyStatusOn,
		WarrantyDate: date,
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	w, err := repo.GetByItemUID(itemUID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if w.Status != domain.WarrantyStatusOn {
		t.Fatalf("status = %s", w.Status)
	}
	if !w.WarrantyDate.Equal(date) {
		t.Fatalf("warranty date = %s, want %s", w.WarrantyDate, date)
	}
}

func TestWarrantyRepository_UpsertReopensExisting(t *testing.T) {
	repo := memory.NewWarrantyRepository()
	itemUID := uuid.New()
	first := time.Now().UTC().Add(-time.Hour)

	if err := repo.Upsert(domain.Warranty{ItemUID: itemUID, Status: domain.WarrantyStatusOn, WarrantyDate: first}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.SetStatus(itemUID, domain.WarrantyStatusRemoved); err != nil {
		t.Fatalf("set status failed: %v", err)
	}

	second := time.Now().UTC()
	if err := repo.Upsert(domain.Warranty{ItemUID: itemUID, Status: domain.WarrantyStatusOn, WarrantyDate: second}); err != nil {
		t.Fatalf("repeated upsert failed: %v", err)
	}

	w, err := repo.GetByItemUID(itemUID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if w.Status != domain.WarrantyStatusOn {
		t.Fatalf("status = %s, want ON_WARRANTY after re-enrol", w.Status)
	}
	if !w.WarrantyDate.Equal(second) {
		t.Fatalf("warranty date = %s, want refreshed %s", w.WarrantyDate, second)
	}
}

func TestWarrantyRepository_SetStatusUnknownItem(t *testing.T) {
	repo := memory.NewWarrantyRepository()

	if err := repo.SetStatus(uuid.New(), domain.WarrantyStatusRemoved); !errors.Is(err, domain.ErrWarrantyNotFound) {
		t.Fatalf("expected ErrWarrantyNotFound, got %v", err)
	}
}

func TestWarrantyRepository_GetUnknownItem(t *testing.T) {
	repo := memory.NewWarrantyRepository()

	if _, err := repo.GetByItemUID(uuid.New()); !errors.Is(err, domain.ErrWarrantyNotFound) {
		t.Fatalf("expected ErrWarrantyNotFound, got %v", err)
	}
}

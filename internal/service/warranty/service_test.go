package warranty

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/storage/memory"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger.WithField("test", "warranty")
}

func TestServiceEnrolIsIdempotent(t *testing.T) {
	repo := memory.NewWarrantyRepository()
	svc := NewService(repo, testLogger())
	itemUID := uuid.New()

	if err := svc.Enrol(itemUID); err != nil {
		t.Fatalf("first enrol: %v", err)
	}
	if err := svc.Close(itemUID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := svc.Enrol(itemUID); err != nil {
		t.Fatalf("second enrol: %v", err)
	}

	info, err := svc.Info(itemUID)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Status != string(domain.WarrantyStatusOn) {
		t.Fatalf("expected status %s after re-enrol, got %s", domain.WarrantyStatusOn, info.Status)
	}
	if info.ItemUID != itemUID {
		t.Fatalf("expected item uid %s, got %s", itemUID, info.ItemUID)
	}
	if _, err := time.Parse(time.RFC3339, info.WarrantyDate); err != nil {
		t.Fatalf("warranty date %q is not RFC3339: %v", info.WarrantyDate, err)
	}
}

func TestServiceCloseUnknownItem(t *testing.T) {
	svc := NewService(memory.NewWarrantyRepository(), testLogger())

	err := svc.Close(uuid.New())
	if !errors.Is(err, domain.ErrWarrantyNotFound) {
		t.Fatalf("expected ErrWarrantyNotFound, got %v", err)
	}
}

func TestServiceInfoUnknownItem(t *testing.T) {
	svc := NewService(memory.NewWarrantyRepository(), testLogger())

	_, err := svc.Info(uuid.New())
	if !errors.Is(err, domain.ErrWarrantyNotFound) {
		t.Fatalf("expected ErrWarrantyNotFound, got %v", err)
	}
}

func TestServiceVerdict(t *testing.T) {
	cases := []struct {
		name           string
		close          bool
		availableCount int32
		want           domain.Decision
	}{
		{name: "in stock means return", availableCount: 3, want: domain.DecisionReturn},
		{name: "out of stock means fixing", availableCount: 0, want: domain.DecisionFixing},
		{name: "closed warranty means refused", close: true, availableCount: 3, want: domain.DecisionRefused},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := memory.NewWarrantyRepository()
			svc := NewService(repo, testLogger())
			itemUID := uuid.New()

			if err := svc.Enrol(itemUID); err != nil {
				t.Fatalf("enrol: %v", err)
			}
			if tc.close {
				if err := svc.Close(itemUID); err != nil {
					t.Fatalf("close: %v", err)
				}
			}

			verdict, err := svc.Verdict(itemUID, tc.availableCount, "broken switch")
			if err != nil {
				t.Fatalf("verdict: %v", err)
			}
			if verdict.Decision != string(tc.want) {
				t.Fatalf("expected decision %s, got %s", tc.want, verdict.Decision)
			}
			if verdict.WarrantyDate == "" {
				t.Fatal("expected warranty date in verdict")
			}
		})
	}
}

func TestServiceVerdictNegativeCount(t *testing.T) {
	svc := NewService(memory.NewWarrantyRepository(), testLogger())

	_, err := svc.Verdict(uuid.New(), -1, "lost receipt")
	if !errors.Is(err, domain.ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
}

func TestServiceVerdictUnknownItem(t *testing.T) {
	svc := NewService(memory.NewWarrantyRepository(), testLogger())

	_, err := svc.Verdict(uuid.New(), 1, "broken switch")
	if !errors.Is(err, domain.ErrWarrantyNotFound) {
		t.Fatalf("expected ErrWarrantyNotFound, got %v", err)
	}
}

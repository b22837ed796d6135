package warranty

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/domain"
)

// Service описывает операции сервиса гарантий.
type Service interface {
	// Enrol заводит гарантию на складскую позицию. Повторный вызов по тому же
	// item_uid возвращает запись в ON_WARRANTY с новой датой.
	Enrol(itemUID uuid.UUID) error
	// Close закрывает гарантию при возврате заказа.
	Close(itemUID uuid.UUID) error
	// Info возвращает текущее состояние гарантии.
	Info(itemUID uuid.UUID) (domain.WarrantyInfo, error)
	// Verdict выносит решение по гарантийному обращению с учётом остатка стока.
	Verdict(itemUID uuid.UUID, availableCount int32, reason string) (domain.Verdict, error)
}

type service struct {
	warranties domain.WarrantyRepository
	logger     *log.Entry
}

// NewService создаёт сервис гарантий.
func NewService(warranties domain.WarrantyRepository, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "warranty")
	}
	return &service{
		warranties: warranties,
		logger:     logger,
	}
}

func (s *service) Enrol(itemUID uuid.UUID) error {
	w := domain.Warranty{
		ItemUID:      itemUID,
		Status:       domain.WarrantyStatusOn,
		WarrantyDate: time.Now().UTC(),
	}
	if err := s.warranties.Upsert(w); err != nil {
		return fmt.Errorf("enrol warranty for item %s: %w", itemUID, err)
	}

	s.logger.WithField("item_uid", itemUID).Info("warranty started")
	return nil
}

func (s *service) Close(itemUID uuid.UUID) error {
	if err := s.warranties.SetStatus(itemUID, domain.WarrantyStatusRemoved); err != nil {
		return err
	}

	s.logger.WithField("item_uid", itemUID).Info("warranty closed")
	return nil
}

func (s *service) Info(itemUID uuid.UUID) (domain.WarrantyInfo, error) {
	w, err := s.warranties.GetByItemUID(itemUID)
	if err != nil {
		return domain.WarrantyInfo{}, err
	}

	return domain.WarrantyInfo{
		ItemUID:      w.ItemUID,
		Status:       string(w.Status),
		WarrantyDate: w.WarrantyDate.Format(time.RFC3339),
	}, nil
}

func (s *service) Verdict(itemUID uuid.UUID, availableCount int32, reason string) (domain.Verdict, error) {
	if availableCount < 0 {
		return domain.Verdict{}, domain.ErrInvalidCount
	}

	w, err := s.warranties.GetByItemUID(itemUID)
	if err != nil {
		return domain.Verdict{}, err
	}

	decision := w.Verdict(availableCount)
	s.logger.WithFields(log.Fields{
		"item_uid": itemUID,
		"decision": decision,
		"reason":   reason,
	}).Info("warranty verdict")

	return domain.Verdict{
		Decision:     string(decision),
		WarrantyDate: w.WarrantyDate.Format(time.RFC3339),
	}, nil
}

var _ Service = (*service)(nil)

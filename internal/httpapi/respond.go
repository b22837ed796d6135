// Package httpapi содержит HTTP обработчики REST API всех четырёх сервисов
// и общую обвязку: сериализацию ответов, маппинг доменных ошибок на статусы,
// middleware наблюдаемости и обработчик health.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/domain"
)

// errorResponse — единый формат тела ошибки всех сервисов.
type errorResponse struct {
	Message string `json:"message"`
}

// warrantyRequest — гарантийное обращение; общий DTO витрины, заказов и склада.
type warrantyRequest struct {
	Reason string `json:"reason"`
}

// verdictResponse — вердикт по гарантийному обращению.
type verdictResponse struct {
	Decision     string `json:"decision"`
	WarrantyDate string `json:"warrantyDate"`
}

// writeJSON сериализует body и отправляет его со статусом status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("response encode failed")
	}
}

// writeError транслирует доменную ошибку в HTTP статус и тело {"message": ...}.
func writeError(logger *log.Entry, w http.ResponseWriter, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusServiceUnavailable {
		message = "database unavailable"
	}

	entry := logger.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	writeJSON(w, status, errorResponse{Message: message})
}

// statusFromError отображает доменную таксономию ошибок на HTTP статусы.
// Неопознанные ошибки считаются отказом хранилища и дают 503.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidUID),
		errors.Is(err, domain.ErrInvalidCount),
		errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrItemNotAvailable):
		return http.StatusConflict
	case domain.IsAccessError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrQueuePublish):
		return http.StatusInternalServerError
	default:
		return http.StatusServiceUnavailable
	}
}

// parseUID разбирает сегмент пути как UUID. Мусор в сегменте — ErrInvalidUID.
func parseUID(raw string) (uuid.UUID, error) {
	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidUID, raw)
	}
	return uid, nil
}

// decodeJSON читает тело запроса в dst; некорректный JSON — ErrBadRequest.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	return nil
}

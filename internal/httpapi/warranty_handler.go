package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/service/warranty"
)

// WarrantyHandler обслуживает REST API сервиса гарантий.
type WarrantyHandler struct {
	svc    warranty.Service
	logger *log.Entry
}

// NewWarrantyHandler создаёт обработчик API сервиса гарантий.
func NewWarrantyHandler(svc warranty.Service, logger *log.Entry) *WarrantyHandler {
	if logger == nil {
		logger = log.New().WithField("component", "warranty-api")
	}
	return &WarrantyHandler{svc: svc, logger: logger}
}

// Register вешает маршруты API на mux.
func (h *WarrantyHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/warranty/{item_uid}", h.info)
	mux.HandleFunc("POST /api/v1/warranty/{item_uid}", h.start)
	mux.HandleFunc("DELETE /api/v1/warranty/{item_uid}", h.stop)
	mux.HandleFunc("POST /api/v1/warranty/{item_uid}/warranty", h.verdict)
}

type warrantyInfoResponse struct {
	ItemUID      uuid.UUID `json:"itemUid"`
	Status       string    `json:"status"`
	WarrantyDate string    `json:"warrantyDate"`
}

// itemVerdictRequest — гарантийное обращение от склада с текущим остатком.
type itemVerdictRequest struct {
	AvailableCount int32  `json:"availableCount"`
	Reason         string `json:"reason"`
}

func (h *WarrantyHandler) info(w http.ResponseWriter, r *http.Request) {
	itemUID, err := parseUID(r.PathValue("item_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	info, err := h.svc.Info(itemUID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, warrantyInfoResponse{
		ItemUID:      info.ItemUID,
		Status:       info.Status,
		WarrantyDate: info.WarrantyDate,
	})
}

func (h *WarrantyHandler) start(w http.ResponseWriter, r *http.Request) {
	itemUID, err := parseUID(r.PathValue("item_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	if err := h.svc.Enrol(itemUID); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *WarrantyHandler) stop(w http.ResponseWriter, r *http.Request) {
	itemUID, err := parseUID(r.PathValue("item_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	if err := h.svc.Close(itemUID); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *WarrantyHandler) verdict(w http.ResponseWriter, r *http.Request) {
	itemUID, err := parseUID(r.PathValue("item_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	var body itemVerdictRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(h.logger, w, err)
		return
	}

	verdict, err := h.svc.Verdict(itemUID, body.AvailableCount, body.Reason)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, verdictResponse{
		Decision:     verdict.Decision,
		WarrantyDate: verdict.WarrantyDate,
	})
}

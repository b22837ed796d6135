package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/service/warehouse"
)

// WarehouseHandler обслуживает REST API сервиса склада.
type WarehouseHandler struct {
	svc    warehouse.Service
	logger *log.Entry
}

// NewWarehouseHandler создаёт обработчик API сервиса склада.
func NewWarehouseHandler(svc warehouse.Service, logger *log.Entry) *WarehouseHandler {
	if logger == nil {
		logger = log.New().WithField("component", "warehouse-api")
	}
	return &WarehouseHandler{svc: svc, logger: logger}
}

// Register вешает маршруты API на mux.
func (h *WarehouseHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/warehouse/{item_uid}", h.info)
	mux.HandleFunc("POST /api/v1/warehouse", h.reserve)
	mux.HandleFunc("DELETE /api/v1/warehouse/{item_uid}", h.release)
	mux.HandleFunc("POST /api/v1/warehouse/{item_uid}/warranty", h.verdict)
}

type reserveItemRequest struct {
	OrderUID uuid.UUID `json:"orderUid"`
	Model    string    `json:"model"`
	Size     string    `json:"size"`
}

type reservedItemResponse struct {
	OrderItemUID uuid.UUID `json:"orderItemUid"`
	OrderUID     uuid.UUID `json:"orderUid"`
	Model        string    `json:"model"`
	Size         string    `json:"size"`
}

type itemInfoResponse struct {
	Model string `json:"model"`
	Size  string `json:"size"`
}

func (h *WarehouseHandler) info(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, itemInfoResponse{Model: info.Model, Size: info.Size})
}

func (h *WarehouseHandler) reserve(w http.ResponseWriter, r *http.Request) {
	var body reserveItemRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(h.logger, w, err)
		return
	}

	reserved, err := h.svc.Reserve(body.OrderUID, body.Model, body.Size)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, reservedItemResponse{
		OrderItemUID: reserved.OrderItemUID,
		OrderUID:     reserved.OrderUID,
		Model:        reserved.Model,
		Size:         reserved.Size,
	})
}

func (h *WarehouseHandler) release(w http.ResponseWriter, r *http.Request) {
	itemUID, err := parseUID(r.PathValue("item_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	if err := h.svc.Release(itemUID); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *WarehouseHandler) verdict(w http.ResponseWriter, r *http.Request) {
	itemUID, err := parseUID(r.PathValue("item_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	var body warrantyRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(h.logger, w, err)
		return
	}

	verdict, err := h.svc.Verdict(itemUID, body.Reason)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, verdictResponse{
		Decision:     verdict.Decision,
		WarrantyDate: verdict.WarrantyDate,
	})
}

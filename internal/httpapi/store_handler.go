package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/service/store"
)

// StoreHandler обслуживает REST API витрины.
type StoreHandler struct {
	svc    store.Service
	logger *log.Entry
}

// NewStoreHandler создаёт обработчик API витрины.
func NewStoreHandler(svc store.Service, logger *log.Entry) *StoreHandler {
	if logger == nil {
		logger = log.New().WithField("component", "store-api")
	}
	return &StoreHandler{svc: svc, logger: logger}
}

// Register вешает маршруты API на mux. Маршрут /orders объявлен литералом и
// имеет приоритет над /{order_uid} при совпадении.
func (h *StoreHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/store/{user_uid}/orders", h.orders)
	mux.HandleFunc("GET /api/v1/store/{user_uid}/{order_uid}", h.order)
	mux.HandleFunc("POST /api/v1/store/{user_uid}/purchase", h.purchase)
	mux.HandleFunc("POST /api/v1/store/{user_uid}/{order_uid}/warranty", h.warranty)
	mux.HandleFunc("DELETE /api/v1/store/{user_uid}/{order_uid}/refund", h.refund)
}

type purchaseRequest struct {
	Model string `json:"model"`
	Size  string `json:"size"`
}

// solidOrderResponse — агрегированный заказ. Поля склада и гарантии
// опциональны и отдаются как null, когда соответствующий сервис недоступен.
type solidOrderResponse struct {
	OrderUID       uuid.UUID `json:"orderUid"`
	Date           string    `json:"date"`
	Model          *string   `json:"model"`
	Size           *string   `json:"size"`
	WarrantyDate   *string   `json:"warrantyDate"`
	WarrantyStatus *string   `json:"warrantyStatus"`
}

// storeVerdictResponse — вердикт по обращению с order_uid, добавленным витриной.
type storeVerdictResponse struct {
	OrderUID     uuid.UUID `json:"orderUid"`
	WarrantyDate string    `json:"warrantyDate"`
	Decision     string    `json:"decision"`
}

func solidOrder(info store.SolidOrderInfo) solidOrderResponse {
	return solidOrderResponse{
		OrderUID:       info.OrderUID,
		Date:           info.Date,
		Model:          info.Model,
		Size:           info.Size,
		WarrantyDate:   info.WarrantyDate,
		WarrantyStatus: info.WarrantyStatus,
	}
}

func (h *StoreHandler) orders(w http.ResponseWriter, r *http.Request) {
	userUID, err := parseUID(r.PathValue("user_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	orders, err := h.svc.Orders(userUID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	infos := make([]solidOrderResponse, 0, len(orders))
	for _, o := range orders {
		infos = append(infos, solidOrder(o))
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *StoreHandler) order(w http.ResponseWriter, r *http.Request) {
	userUID, err := parseUID(r.PathValue("user_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	orderUID, err := parseUID(r.PathValue("order_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	info, err := h.svc.Order(userUID, orderUID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, solidOrder(info))
}

func (h *StoreHandler) purchase(w http.ResponseWriter, r *http.Request) {
	userUID, err := parseUID(r.PathValue("user_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	var body purchaseRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(h.logger, w, err)
		return
	}

	orderUID, err := h.svc.Purchase(userUID, body.Model, body.Size)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	w.Header().Set("Location", "/"+orderUID.String())
	writeJSON(w, http.StatusCreated, nil)
}

func (h *StoreHandler) warranty(w http.ResponseWriter, r *http.Request) {
	userUID, err := parseUID(r.PathValue("user_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	orderUID, err := parseUID(r.PathValue("order_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	var body warrantyRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(h.logger, w, err)
		return
	}

	verdict, err := h.svc.WarrantyRequest(userUID, orderUID, body.Reason)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, storeVerdictResponse{
		OrderUID:     orderUID,
		WarrantyDate: verdict.WarrantyDate,
		Decision:     verdict.Decision,
	})
}

func (h *StoreHandler) refund(w http.ResponseWriter, r *http.Request) {
	userUID, err := parseUID(r.PathValue("user_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	orderUID, err := parseUID(r.PathValue("order_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	if err := h.svc.Refund(userUID, orderUID); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

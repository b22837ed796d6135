package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/service/order"
)

// OrderHandler обслуживает REST API сервиса заказов.
type OrderHandler struct {
	svc    order.Service
	logger *log.Entry
}

// NewOrderHandler создаёт обработчик API сервиса заказов.
func NewOrderHandler(svc order.Service, logger *log.Entry) *OrderHandler {
	if logger == nil {
		logger = log.New().WithField("component", "order-api")
	}
	return &OrderHandler{svc: svc, logger: logger}
}

// Register вешает маршруты API на mux.
func (h *OrderHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/orders/{user_uid}", h.purchase)
	mux.HandleFunc("GET /api/v1/orders/{user_uid}", h.list)
	mux.HandleFunc("GET /api/v1/orders/{user_uid}/{order_uid}", h.get)
	mux.HandleFunc("DELETE /api/v1/orders/{order_uid}", h.ret)
	mux.HandleFunc("POST /api/v1/orders/{order_uid}/warranty", h.warranty)
}

type createOrderRequest struct {
	Model string `json:"model"`
	Size  string `json:"size"`
}

type createOrderResponse struct {
	OrderUID uuid.UUID `json:"orderUid"`
}

type orderInfoResponse struct {
	OrderUID  uuid.UUID `json:"orderUid"`
	OrderDate string    `json:"orderDate"`
	ItemUID   uuid.UUID `json:"itemUid"`
	Status    string    `json:"status"`
}

func orderInfo(o domain.Order) orderInfoResponse {
	return orderInfoResponse{
		OrderUID:  o.OrderUID,
		OrderDate: o.OrderDate.UTC().Format(time.RFC3339),
		ItemUID:   o.ItemUID,
		Status:    string(o.Status),
	}
}

func (h *OrderHandler) purchase(w http.ResponseWriter, r *http.Request) {
	userUID, err := parseUID(r.PathValue("user_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	var body createOrderRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(h.logger, w, err)
		return
	}

	orderUID, err := h.svc.Purchase(userUID, body.Model, body.Size)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, createOrderResponse{OrderUID: orderUID})
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	userUID, err := parseUID(r.PathValue("user_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	orders, err := h.svc.UserOrders(userUID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	infos := make([]orderInfoResponse, 0, len(orders))
	for _, o := range orders {
		infos = append(infos, orderInfo(o))
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
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

	o, err := h.svc.UserOrder(userUID, orderUID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, orderInfo(o))
}

func (h *OrderHandler) ret(w http.ResponseWriter, r *http.Request) {
	orderUID, err := parseUID(r.PathValue("order_uid"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	if err := h.svc.Return(orderUID); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *OrderHandler) warranty(w http.ResponseWriter, r *http.Request) {
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

	verdict, err := h.svc.WarrantyDecision(orderUID, body.Reason)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, verdictResponse{
		Decision:     verdict.Decision,
		WarrantyDate: verdict.WarrantyDate,
	})
}

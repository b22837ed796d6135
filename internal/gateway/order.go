package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

// OrderClient вызывает сервис заказов через health gate. Используется витриной.
type OrderClient struct {
	client *Client
	host   string
}

// NewOrderClient создаёт клиент сервиса заказов.
func NewOrderClient(client *Client, host string) *OrderClient {
	return &OrderClient{client: client, host: host}
}

var _ domain.OrderGateway = (*OrderClient)(nil)

type createOrderRequest struct {
	Model string `json:"model"`
	Size  string `json:"size"`
}

type createOrderResponse struct {
	OrderUID uuid.UUID `json:"orderUid"`
}

type orderSummaryResponse struct {
	OrderUID  uuid.UUID `json:"orderUid"`
	OrderDate string    `json:"orderDate"`
	ItemUID   uuid.UUID `json:"itemUid"`
	Status    string    `json:"status"`
}

// CreateOrder запускает сагу покупки у сервиса заказов.
func (c *OrderClient) CreateOrder(userUID uuid.UUID, model, size string) (uuid.UUID, error) {
	res, err := c.client.do(PeerOrder, c.host, http.MethodPost, "/api/v1/orders/"+userUID.String(), createOrderRequest{
		Model: model,
		Size:  size,
	})
	if err != nil {
		return uuid.Nil, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusConflict:
		return uuid.Nil, domain.ErrItemNotAvailable
	default:
		return uuid.Nil, fmt.Errorf("%w: create order returned status %d", domain.ErrOrderAccess, res.status)
	}

	var body createOrderResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return uuid.Nil, fmt.Errorf("%w: decode create order response: %v", domain.ErrOrderAccess, err)
	}
	return body.OrderUID, nil
}

// ReturnOrder запускает сагу возврата.
func (c *OrderClient) ReturnOrder(orderUID uuid.UUID) error {
	res, err := c.client.do(PeerOrder, c.host, http.MethodDelete, "/api/v1/orders/"+orderUID.String(), nil)
	if err != nil {
		return err
	}

	switch res.status {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return domain.ErrOrderNotFound
	default:
		return fmt.Errorf("%w: return order returned status %d", domain.ErrOrderAccess, res.status)
	}
}

// UserOrders возвращает все заказы пользователя.
func (c *OrderClient) UserOrders(userUID uuid.UUID) ([]domain.OrderSummary, error) {
	res, err := c.client.do(PeerOrder, c.host, http.MethodGet, "/api/v1/orders/"+userUID.String(), nil)
	if err != nil {
		return nil, err
	}
	if res.status != http.StatusOK {
		return nil, fmt.Errorf("%w: list orders returned status %d", domain.ErrOrderAccess, res.status)
	}

	var body []orderSummaryResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return nil, fmt.Errorf("%w: decode orders list: %v", domain.ErrOrderAccess, err)
	}

	orders := make([]domain.OrderSummary, 0, len(body))
	for _, o := range body {
		orders = append(orders, domain.OrderSummary{
			OrderUID:  o.OrderUID,
			ItemUID:   o.ItemUID,
			Status:    o.Status,
			OrderDate: o.OrderDate,
		})
	}
	return orders, nil
}

// UserOrder возвращает один заказ пользователя.
func (c *OrderClient) UserOrder(userUID, orderUID uuid.UUID) (domain.OrderSummary, error) {
	res, err := c.client.do(PeerOrder, c.host, http.MethodGet,
		"/api/v1/orders/"+userUID.String()+"/"+orderUID.String(), nil)
	if err != nil {
		return domain.OrderSummary{}, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.OrderSummary{}, domain.ErrOrderNotFound
	default:
		return domain.OrderSummary{}, fmt.Errorf("%w: get order returned status %d", domain.ErrOrderAccess, res.status)
	}

	var body orderSummaryResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return domain.OrderSummary{}, fmt.Errorf("%w: decode order: %v", domain.ErrOrderAccess, err)
	}

	return domain.OrderSummary{
		OrderUID:  body.OrderUID,
		ItemUID:   body.ItemUID,
		Status:    body.Status,
		OrderDate: body.OrderDate,
	}, nil
}

// WarrantyDecision запрашивает вердикт по заказу.
func (c *OrderClient) WarrantyDecision(orderUID uuid.UUID, reason string) (domain.Verdict, error) {
	res, err := c.client.do(PeerOrder, c.host, http.MethodPost,
		"/api/v1/orders/"+orderUID.String()+"/warranty", verdictRequest{Reason: reason})
	if err != nil {
		return domain.Verdict{}, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.Verdict{}, domain.ErrOrderNotFound
	default:
		return domain.Verdict{}, fmt.Errorf("%w: warranty decision returned status %d", domain.ErrOrderAccess, res.status)
	}

	var body verdictResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: decode decision: %v", domain.ErrOrderAccess, err)
	}

	return domain.Verdict{Decision: body.Decision, WarrantyDate: body.WarrantyDate}, nil
}

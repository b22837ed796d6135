package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

// WarehouseClient вызывает сервис склада через health gate.
type WarehouseClient struct {
	client *Client
	host   string
}

// NewWarehouseClient создаёт клиент склада. host может быть пустым: тогда
// каждая операция вернёт ErrWarehouseAccess.
func NewWarehouseClient(client *Client, host string) *WarehouseClient {
	return &WarehouseClient{client: client, host: host}
}

var _ domain.WarehouseGateway = (*WarehouseClient)(nil)

type reserveItemRequest struct {
	OrderUID uuid.UUID `json:"orderUid"`
	Model    string    `json:"model"`
	Size     string    `json:"size"`
}

type reserveItemResponse struct {
	OrderItemUID uuid.UUID `json:"orderItemUid"`
	OrderUID     uuid.UUID `json:"orderUid"`
	Model        string    `json:"model"`
	Size         string    `json:"size"`
}

type itemInfoResponse struct {
	Model string `json:"model"`
	Size  string `json:"size"`
}

type verdictRequest struct {
	Reason string `json:"reason"`
}

type verdictResponse struct {
	Decision     string `json:"decision"`
	WarrantyDate string `json:"warrantyDate"`
}

// ReserveItem резервирует товар под order_uid.
func (c *WarehouseClient) ReserveItem(orderUID uuid.UUID, model, size string) (domain.ReservedItem, error) {
	res, err := c.client.do(PeerWarehouse, c.host, http.MethodPost, "/api/v1/warehouse", reserveItemRequest{
		OrderUID: orderUID,
		Model:    model,
		Size:     size,
	})
	if err != nil {
		return domain.ReservedItem{}, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.ReservedItem{}, domain.ErrItemNotFound
	case http.StatusConflict:
		return domain.ReservedItem{}, domain.ErrItemNotAvailable
	default:
		return domain.ReservedItem{}, fmt.Errorf("%w: reserve returned status %d", domain.ErrWarehouseAccess, res.status)
	}

	var body reserveItemResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return domain.ReservedItem{}, fmt.Errorf("%w: decode reserve response: %v", domain.ErrWarehouseAccess, err)
	}

	return domain.ReservedItem{
		OrderItemUID: body.OrderItemUID,
		OrderUID:     body.OrderUID,
		Model:        body.Model,
		Size:         body.Size,
	}, nil
}

// ReleaseItem снимает резерв. Ожидается 204, любой другой код — access error.
func (c *WarehouseClient) ReleaseItem(orderItemUID uuid.UUID) error {
	res, err := c.client.do(PeerWarehouse, c.host, http.MethodDelete, "/api/v1/warehouse/"+orderItemUID.String(), nil)
	if err != nil {
		return err
	}
	if res.status != http.StatusNoContent {
		return fmt.Errorf("%w: release returned status %d", domain.ErrWarehouseAccess, res.status)
	}
	return nil
}

// ItemInfo возвращает model/size по order_item_uid.
func (c *WarehouseClient) ItemInfo(orderItemUID uuid.UUID) (domain.ItemInfo, error) {
	res, err := c.client.do(PeerWarehouse, c.host, http.MethodGet, "/api/v1/warehouse/"+orderItemUID.String(), nil)
	if err != nil {
		return domain.ItemInfo{}, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.ItemInfo{}, domain.ErrItemNotFound
	default:
		return domain.ItemInfo{}, fmt.Errorf("%w: item info returned status %d", domain.ErrWarehouseAccess, res.status)
	}

	var body itemInfoResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return domain.ItemInfo{}, fmt.Errorf("%w: decode item info: %v", domain.ErrWarehouseAccess, err)
	}

	return domain.ItemInfo{Model: body.Model, Size: body.Size}, nil
}

// WarrantyVerdict запрашивает вердикт: склад дополнит запрос остатком и
// перешлёт сервису гарантий.
func (c *WarehouseClient) WarrantyVerdict(orderItemUID uuid.UUID, reason string) (domain.Verdict, error) {
	res, err := c.client.do(PeerWarehouse, c.host, http.MethodPost,
		"/api/v1/warehouse/"+orderItemUID.String()+"/warranty", verdictRequest{Reason: reason})
	if err != nil {
		return domain.Verdict{}, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.Verdict{}, domain.ErrWarrantyNotFound
	default:
		return domain.Verdict{}, fmt.Errorf("%w: verdict returned status %d", domain.ErrWarehouseAccess, res.status)
	}

	var body verdictResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: decode verdict: %v", domain.ErrWarehouseAccess, err)
	}

	return domain.Verdict{Decision: body.Decision, WarrantyDate: body.WarrantyDate}, nil
}

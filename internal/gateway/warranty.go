package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/wh75er/store-microservices/internal/domain"
)

// WarrantyClient вызывает сервис гарантий через health gate.
type WarrantyClient struct {
	client *Client
	host   string
}

// NewWarrantyClient создаёт клиент сервиса гарантий.
func NewWarrantyClient(client *Client, host string) *WarrantyClient {
	return &WarrantyClient{client: client, host: host}
}

var _ domain.WarrantyGateway = (*WarrantyClient)(nil)

type warrantyInfoResponse struct {
	ItemUID      uuid.UUID `json:"itemUid"`
	Status       string    `json:"status"`
	WarrantyDate string    `json:"warrantyDate"`
}

type warrantyVerdictRequest struct {
	AvailableCount int32  `json:"availableCount"`
	Reason         string `json:"reason"`
}

// StartWarranty заводит гарантию на позицию.
func (c *WarrantyClient) StartWarranty(itemUID uuid.UUID) error {
	res, err := c.client.do(PeerWarranty, c.host, http.MethodPost, "/api/v1/warranty/"+itemUID.String(), nil)
	if err != nil {
		return err
	}
	if res.status != http.StatusNoContent {
		return fmt.Errorf("%w: start warranty returned status %d", domain.ErrWarrantyAccess, res.status)
	}
	return nil
}

// StopWarranty закрывает гарантию.
func (c *WarrantyClient) StopWarranty(itemUID uuid.UUID) error {
	res, err := c.client.do(PeerWarranty, c.host, http.MethodDelete, "/api/v1/warranty/"+itemUID.String(), nil)
	if err != nil {
		return err
	}
	if res.status != http.StatusNoContent {
		return fmt.Errorf("%w: stop warranty returned status %d", domain.ErrWarrantyAccess, res.status)
	}
	return nil
}

// WarrantyInfo возвращает состояние гарантии по item_uid.
func (c *WarrantyClient) WarrantyInfo(itemUID uuid.UUID) (domain.WarrantyInfo, error) {
	res, err := c.client.do(PeerWarranty, c.host, http.MethodGet, "/api/v1/warranty/"+itemUID.String(), nil)
	if err != nil {
		return domain.WarrantyInfo{}, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.WarrantyInfo{}, domain.ErrWarrantyNotFound
	default:
		return domain.WarrantyInfo{}, fmt.Errorf("%w: warranty info returned status %d", domain.ErrWarrantyAccess, res.status)
	}

	var body warrantyInfoResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return domain.WarrantyInfo{}, fmt.Errorf("%w: decode warranty info: %v", domain.ErrWarrantyAccess, err)
	}

	return domain.WarrantyInfo{
		ItemUID:      body.ItemUID,
		Status:       body.Status,
		WarrantyDate: body.WarrantyDate,
	}, nil
}

// RequestVerdict передаёт обращение с подставленным остатком стока.
func (c *WarrantyClient) RequestVerdict(itemUID uuid.UUID, availableCount int32, reason string) (domain.Verdict, error) {
	res, err := c.client.do(PeerWarranty, c.host, http.MethodPost,
		"/api/v1/warranty/"+itemUID.String()+"/warranty", warrantyVerdictRequest{
			AvailableCount: availableCount,
			Reason:         reason,
		})
	if err != nil {
		return domain.Verdict{}, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.Verdict{}, domain.ErrWarrantyNotFound
	default:
		return domain.Verdict{}, fmt.Errorf("%w: verdict returned status %d", domain.ErrWarrantyAccess, res.status)
	}

	var body verdictResponse
	if err := json.Unmarshal(res.body, &body); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: decode verdict: %v", domain.ErrWarrantyAccess, err)
	}

	return domain.Verdict{Decision: body.Decision, WarrantyDate: body.WarrantyDate}, nil
}

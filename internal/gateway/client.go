package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/metrics"
)

// response — прочитанный целиком ответ peer-а.
type response struct {
	status int
	body   []byte
}

// Client — общий исходящий вызыватель: health gate на входе, до
// CalloutNumber попыток с таймаутом CalloutTimeout на каждую, без backoff.
// Транспортные ошибки всех попыток открывают breaker; любой полученный
// HTTP-ответ (включая 4xx/5xx) breaker не трогает.
type Client struct {
	httpClient *http.Client
	registry   *Registry
	attempts   int
	timeout    time.Duration
	metrics    *metrics.GateMetrics
	logger     *log.Entry
}

// NewClient создаёт вызыватель поверх общего http.Client и реестра.
func NewClient(httpClient *http.Client, registry *Registry, gate config.Gate, gm *metrics.GateMetrics, logger *log.Entry) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.WithField("component", "gateway-client")
	}

	attempts := gate.CalloutNumber
	if attempts <= 0 {
		attempts = 1
	}

	return &Client{
		httpClient: httpClient,
		registry:   registry,
		attempts:   attempts,
		timeout:    gate.CalloutTimeout,
		metrics:    gm,
		logger:     logger,
	}
}

// HealthProbe строит пробу GET {host}/manage/health. Живым считается peer,
// от которого пришёл любой HTTP-ответ.
func HealthProbe(httpClient *http.Client, timeout time.Duration) ProbeFunc {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return func(host string) bool {
		return probeHost(httpClient, timeout, host)
	}
}

func probeHost(httpClient *http.Client, timeout time.Duration, host string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/manage/health", nil)
	if err != nil {
		return false
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return true
}

// Probe проверяет живость host напрямую, минуя реестр. Используется
// воркером отложенного оформления гарантии.
func (c *Client) Probe(host string) bool {
	return probeHost(c.httpClient, c.timeout, host)
}

// do выполняет запрос к peer-у через health gate. body != nil сериализуется
// в JSON. Пустой host означает ненастроенный peer и сразу даёт access error.
func (c *Client) do(peer, host, method, path string, body any) (response, error) {
	if host == "" {
		c.logger.WithField("peer", peer).Warn("peer host is not configured")
		return response{}, accessError(peer)
	}

	if !c.registry.Allow(peer, host) {
		c.logger.WithField("peer", peer).Debug("circuit open, call short-circuited")
		return response{}, accessError(peer)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("marshal request for %s: %w", peer, err)
		}
	}

	url := host + path
	for attempt := 1; attempt <= c.attempts; attempt++ {
		res, err := c.attempt(method, url, payload)
		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordAttempt(peer, false)
			}
			c.logger.WithError(err).WithFields(log.Fields{
				"peer":    peer,
				"attempt": attempt,
			}).Warn("outbound call attempt failed")
			continue
		}
		if c.metrics != nil {
			c.metrics.RecordAttempt(peer, true)
		}
		return res, nil
	}

	c.registry.MarkDown(peer)
	return response{}, accessError(peer)
}

// attempt — одна сетевая попытка со своим таймаутом; тело ответа
// вычитывается полностью до снятия контекста.
func (c *Client) attempt(method, url string, payload []byte) (response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return response{}, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, err
	}

	return response{status: resp.StatusCode, body: data}, nil
}

// accessError возвращает типовую ошибку недоступности для peer-а.
func accessError(peer string) error {
	switch peer {
	case PeerWarehouse:
		return domain.ErrWarehouseAccess
	case PeerWarranty:
		return domain.ErrWarrantyAccess
	case PeerOrder:
		return domain.ErrOrderAccess
	default:
		return fmt.Errorf("unknown peer %q unavailable", peer)
	}
}

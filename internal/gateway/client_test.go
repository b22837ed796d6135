package gateway

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/domain"
)

// flakyServer рвёт TCP-соединение до ответа, пока failures > 0, имитируя
// транспортную ошибку.
type flakyServer struct {
	srv      *httptest.Server
	failures atomic.Int32
	requests atomic.Int32
	status   int
	body     string
}

func newFlakyServer(t *testing.T, status int, body string) *flakyServer {
	t.Helper()
	fs := &flakyServer{status: status, body: body}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.requests.Add(1)
		if fs.failures.Load() > 0 {
			fs.failures.Add(-1)
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			conn.Close()
			return
		}
		w.WriteHeader(fs.status)
		if fs.body != "" {
			_, _ = w.Write([]byte(fs.body))
		}
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func newTestClient(attempts int, cooldown time.Duration) (*Client, *Registry) {
	gate := config.Gate{
		UpdateDuration: cooldown,
		CalloutNumber:  attempts,
		CalloutTimeout: time.Second,
	}
	registry := NewRegistry(cooldown, HealthProbe(http.DefaultClient, gate.CalloutTimeout), nil, testLogger())
	client := NewClient(http.DefaultClient, registry, gate, nil, testLogger())
	return client, registry
}

func TestClientRetriesTransportFailures(t *testing.T) {
	fs := newFlakyServer(t, http.StatusOK, `{}`)
	fs.failures.Store(2)

	client, registry := newTestClient(4, time.Minute)

	res, err := client.do(PeerWarehouse, fs.srv.URL, http.MethodGet, "/api/v1/warehouse", nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if res.status != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.status)
	}
	if got := fs.requests.Load(); got != 3 {
		t.Fatalf("server saw %d requests, want 3 (2 failures + 1 success)", got)
	}

	up, _ := registry.Snapshot(PeerWarehouse)
	if !up {
		t.Fatal("peer must stay up when a retry eventually succeeds")
	}
}

func TestClientMarksPeerDownAfterExhaustedAttempts(t *testing.T) {
	fs := newFlakyServer(t, http.StatusOK, `{}`)
	fs.failures.Store(100)

	client, registry := newTestClient(2, time.Minute)

	_, err := client.do(PeerWarranty, fs.srv.URL, http.MethodGet, "/api/v1/warranty", nil)
	if !errors.Is(err, domain.ErrWarrantyAccess) {
		t.Fatalf("err = %v, want ErrWarrantyAccess", err)
	}
	if got := fs.requests.Load(); got != 2 {
		t.Fatalf("server saw %d requests, want 2 attempts", got)
	}

	up, _ := registry.Snapshot(PeerWarranty)
	if up {
		t.Fatal("peer must be marked down after all attempts failed")
	}

	// Открытый breaker отсекает следующий вызов без сети.
	_, err = client.do(PeerWarranty, fs.srv.URL, http.MethodGet, "/api/v1/warranty", nil)
	if !errors.Is(err, domain.ErrWarrantyAccess) {
		t.Fatalf("err = %v, want ErrWarrantyAccess", err)
	}
	if got := fs.requests.Load(); got != 2 {
		t.Fatalf("short-circuited call must not reach the server, saw %d requests", got)
	}
}

func TestClientHTTPErrorsDoNotOpenCircuit(t *testing.T) {
	fs := newFlakyServer(t, http.StatusNotFound, `{"message":"nope"}`)

	client, registry := newTestClient(4, time.Minute)

	res, err := client.do(PeerWarehouse, fs.srv.URL, http.MethodGet, "/api/v1/warehouse/x", nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if res.status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.status)
	}
	if got := fs.requests.Load(); got != 1 {
		t.Fatalf("HTTP error must not be retried, saw %d requests", got)
	}

	up, _ := registry.Snapshot(PeerWarehouse)
	if !up {
		t.Fatal("4xx/5xx must not open the circuit")
	}
}

func TestClientEmptyHost(t *testing.T) {
	client, _ := newTestClient(4, time.Minute)

	_, err := client.do(PeerOrder, "", http.MethodGet, "/api/v1/orders", nil)
	if !errors.Is(err, domain.ErrOrderAccess) {
		t.Fatalf("err = %v, want ErrOrderAccess for unconfigured host", err)
	}
}

func TestClientProbeClosesCircuitAfterCooldown(t *testing.T) {
	fs := newFlakyServer(t, http.StatusOK, `{}`)
	fs.failures.Store(1)

	client, registry := newTestClient(1, 15*time.Millisecond)

	_, err := client.do(PeerWarehouse, fs.srv.URL, http.MethodGet, "/api/v1/warehouse", nil)
	if !errors.Is(err, domain.ErrWarehouseAccess) {
		t.Fatalf("err = %v, want ErrWarehouseAccess", err)
	}
	if up, _ := registry.Snapshot(PeerWarehouse); up {
		t.Fatal("peer must be down")
	}

	time.Sleep(25 * time.Millisecond)

	// Проба /manage/health проходит (сервер снова отвечает), breaker
	// закрывается и настоящий запрос уходит.
	res, err := client.do(PeerWarehouse, fs.srv.URL, http.MethodGet, "/api/v1/warehouse", nil)
	if err != nil {
		t.Fatalf("do after recovery: %v", err)
	}
	if res.status != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.status)
	}
	if up, _ := registry.Snapshot(PeerWarehouse); !up {
		t.Fatal("peer must be up after successful probe")
	}
}

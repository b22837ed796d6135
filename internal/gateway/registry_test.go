package gateway

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.ErrorLevel)
	return logger.WithField("component", "test")
}

// fakeClock позволяет управлять временем реестра в тестах.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func TestRegistryAllowsHealthyPeer(t *testing.T) {
	probeCalls := 0
	r := NewRegistry(time.Minute, func(string) bool {
		probeCalls++
		return true
	}, nil, testLogger())

	if !r.Allow(PeerWarehouse, "http://warehouse") {
		t.Fatal("fresh peer should be allowed")
	}
	if probeCalls != 0 {
		t.Fatalf("healthy peer must not be probed, got %d probes", probeCalls)
	}
}

func TestRegistryShortCircuitsDuringCooldown(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	probeCalls := 0
	r := NewRegistry(time.Minute, func(string) bool {
		probeCalls++
		return true
	}, nil, testLogger())
	r.now = clock.now

	r.MarkDown(PeerWarranty)

	if r.Allow(PeerWarranty, "http://warranty") {
		t.Fatal("peer must stay blocked during cooldown")
	}
	if probeCalls != 0 {
		t.Fatalf("no probe expected before cooldown elapses, got %d", probeCalls)
	}

	clock.advance(30 * time.Second)
	if r.Allow(PeerWarranty, "http://warranty") {
		t.Fatal("cooldown has not elapsed yet")
	}
	if probeCalls != 0 {
		t.Fatalf("no probe expected before cooldown elapses, got %d", probeCalls)
	}
}

func TestRegistryProbeRecoversPeer(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	probeResult := false
	probeCalls := 0
	r := NewRegistry(time.Minute, func(string) bool {
		probeCalls++
		return probeResult
	}, nil, testLogger())
	r.now = clock.now

	r.MarkDown(PeerWarehouse)
	clock.advance(time.Minute)

	// Неудачная проба оставляет состояние нетронутым, так что следующий
	// вызов пробует снова.
	if r.Allow(PeerWarehouse, "http://warehouse") {
		t.Fatal("failed probe must keep the circuit open")
	}
	if probeCalls != 1 {
		t.Fatalf("probe calls = %d, want 1", probeCalls)
	}

	if r.Allow(PeerWarehouse, "http://warehouse") {
		t.Fatal("circuit must stay open while probes fail")
	}
	if probeCalls != 2 {
		t.Fatalf("probe calls = %d, want 2 (failed probe does not refresh the cooldown)", probeCalls)
	}

	probeResult = true
	if !r.Allow(PeerWarehouse, "http://warehouse") {
		t.Fatal("successful probe must close the circuit")
	}

	up, _ := r.Snapshot(PeerWarehouse)
	if !up {
		t.Fatal("snapshot must report the peer as up after recovery")
	}

	// Закрытый breaker больше не пробует.
	if !r.Allow(PeerWarehouse, "http://warehouse") {
		t.Fatal("recovered peer should be allowed")
	}
	if probeCalls != 3 {
		t.Fatalf("probe calls = %d, want 3", probeCalls)
	}
}

func TestRegistryMarkDownStampsTime(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	r := NewRegistry(time.Minute, func(string) bool { return true }, nil, testLogger())
	r.now = clock.now

	r.MarkDown(PeerOrder)

	up, updated := r.Snapshot(PeerOrder)
	if up {
		t.Fatal("peer must be down after MarkDown")
	}
	if !updated.Equal(clock.current) {
		t.Fatalf("updated = %v, want %v", updated, clock.current)
	}
}

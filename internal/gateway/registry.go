package gateway

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/metrics"
)

// Имена peer-ов в реестре health gate.
const (
	PeerWarehouse = "warehouse"
	PeerWarranty  = "warranty"
	PeerOrder     = "order"
)

// ProbeFunc проверяет живость сервиса по его host. Успехом считается любой
// завершившийся HTTP-обмен, код ответа не важен.
type ProbeFunc func(host string) bool

type peerState struct {
	up      bool
	updated time.Time
}

// Registry — процессный реестр доступности peer-ов: coarse circuit breaker
// с пробой восстановления по истечении cooldown. Все peer-ы стартуют в
// состоянии up.
type Registry struct {
	mu       sync.Mutex
	peers    map[string]*peerState
	cooldown time.Duration
	probe    ProbeFunc
	metrics  *metrics.GateMetrics
	logger   *log.Entry
	now      func() time.Time
}

// NewRegistry создаёт реестр. probe обязана быть не nil; metrics может быть nil.
func NewRegistry(cooldown time.Duration, probe ProbeFunc, gm *metrics.GateMetrics, logger *log.Entry) *Registry {
	if logger == nil {
		logger = log.WithField("component", "gateway-registry")
	}

	return &Registry{
		peers:    make(map[string]*peerState),
		cooldown: cooldown,
		probe:    probe,
		metrics:  gm,
		logger:   logger,
		now:      time.Now,
	}
}

// Allow сообщает, можно ли обращаться к peer-у. У лежащего peer-а с истёкшим
// cooldown выполняется проба /manage/health: успех закрывает breaker, неудача
// оставляет состояние нетронутым, так что следующий вызов пробует снова.
// Проба выполняется под общим мьютексом и тем самым не дублируется
// конкурентными вызовами.
func (r *Registry) Allow(peer, host string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.state(peer)
	if !st.up && r.now().Sub(st.updated) >= r.cooldown {
		ok := r.probe(host)
		if r.metrics != nil {
			r.metrics.RecordProbe(peer, ok)
		}
		if ok {
			st.up = true
			st.updated = r.now()
			if r.metrics != nil {
				r.metrics.RecordPeerState(peer, true)
			}
			r.logger.WithField("peer", peer).Info("peer recovered, circuit closed")
		}
	}

	if !st.up {
		if r.metrics != nil {
			r.metrics.RecordShortCircuit(peer)
		}
		return false
	}
	return true
}

// MarkDown открывает breaker после исчерпанных попыток вызова.
func (r *Registry) MarkDown(peer string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.state(peer)
	st.up = false
	st.updated = r.now()

	if r.metrics != nil {
		r.metrics.RecordPeerState(peer, false)
	}
	r.logger.WithField("peer", peer).Warn("peer marked down, circuit open")
}

// Snapshot возвращает текущее состояние peer-а.
func (r *Registry) Snapshot(peer string) (up bool, updated time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.state(peer)
	return st.up, st.updated
}

// state возвращает запись peer-а, создавая её в исходном состоянии up.
func (r *Registry) state(peer string) *peerState {
	st, ok := r.peers[peer]
	if !ok {
		st = &peerState{up: true, updated: r.now()}
		r.peers[peer] = st
	}
	return st
}

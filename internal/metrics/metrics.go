package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SagaMetrics содержит метрики саг покупки и возврата сервиса заказов.
type SagaMetrics struct {
	purchasesStarted   prometheus.Counter
	purchasesCompleted prometheus.Counter
	purchasesDeferred  prometheus.Counter
	purchasesFailed    prometheus.Counter

	returnsStarted   prometheus.Counter
	returnsCompleted prometheus.Counter
	returnsFailed    prometheus.Counter

	compensations *prometheus.CounterVec
	sagaDuration  *prometheus.HistogramVec
}

// NewSagaMetrics создаёт метрики саг в default registry.
func NewSagaMetrics() *SagaMetrics {
	return newSagaMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newSagaMetricsWithRegisterer(registerer prometheus.Registerer) *SagaMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &SagaMetrics{
		purchasesStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_saga_purchases_started_total",
			Help: "Total number of purchase sagas started",
		}),
		purchasesCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_saga_purchases_completed_total",
			Help: "Total number of purchase sagas completed successfully",
		}),
		purchasesDeferred: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_saga_purchases_deferred_total",
			Help: "Total number of purchases accepted with warranty enrolment deferred to the queue",
		}),
		purchasesFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_saga_purchases_failed_total",
			Help: "Total number of purchase sagas failed",
		}),
		returnsStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_saga_returns_started_total",
			Help: "Total number of return sagas started",
		}),
		returnsCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_saga_returns_completed_total",
			Help: "Total number of return sagas completed successfully",
		}),
		returnsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_saga_returns_failed_total",
			Help: "Total number of return sagas failed",
		}),
		compensations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "store_saga_compensations_total",
			Help: "Total number of compensating actions grouped by step",
		}, []string{"step"}),
		sagaDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "store_saga_duration_seconds",
			Help:    "Duration of saga execution in seconds grouped by saga kind",
			Buckets: prometheus.DefBuckets,
		}, []string{"saga"}),
	}
}

// RecordPurchaseStarted увеличивает счётчик запущенных саг покупки.
func (m *SagaMetrics) RecordPurchaseStarted() { m.purchasesStarted.Inc() }

// RecordPurchaseCompleted увеличивает счётчик успешных покупок.
func (m *SagaMetrics) RecordPurchaseCompleted() { m.purchasesCompleted.Inc() }

// RecordPurchaseDeferred отмечает покупку, ушедшую по оптимистичному пути.
func (m *SagaMetrics) RecordPurchaseDeferred() { m.purchasesDeferred.Inc() }

// RecordPurchaseFailed увеличивает счётчик неудачных покупок.
func (m *SagaMetrics) RecordPurchaseFailed() { m.purchasesFailed.Inc() }

// RecordReturnStarted увеличивает счётчик запущенных саг возврата.
func (m *SagaMetrics) RecordReturnStarted() { m.returnsStarted.Inc() }

// RecordReturnCompleted увеличивает счётчик успешных возвратов.
func (m *SagaMetrics) RecordReturnCompleted() { m.returnsCompleted.Inc() }

// RecordReturnFailed увеличивает счётчик неудачных возвратов.
func (m *SagaMetrics) RecordReturnFailed() { m.returnsFailed.Inc() }

// RecordCompensation фиксирует компенсирующее действие шага step.
func (m *SagaMetrics) RecordCompensation(step string) {
	m.compensations.WithLabelValues(step).Inc()
}

// RecordSagaDuration записывает время выполнения саги.
func (m *SagaMetrics) RecordSagaDuration(saga string, duration time.Duration) {
	m.sagaDuration.WithLabelValues(saga).Observe(duration.Seconds())
}

// GateMetrics содержит метрики health gate исходящих вызовов.
type GateMetrics struct {
	peerUp        *prometheus.GaugeVec
	probes        *prometheus.CounterVec
	shortCircuits *prometheus.CounterVec
	attempts      *prometheus.CounterVec
}

// NewGateMetrics создаёт метрики health gate в default registry.
func NewGateMetrics() *GateMetrics {
	return newGateMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newGateMetricsWithRegisterer(registerer prometheus.Registerer) *GateMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &GateMetrics{
		peerUp: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "store_gate_peer_up",
			Help: "Current circuit state per peer: 1 up, 0 down",
		}, []string{"peer"}),
		probes: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "store_gate_probes_total",
			Help: "Total number of recovery probes grouped by peer and result",
		}, []string{"peer", "result"}),
		shortCircuits: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "store_gate_short_circuits_total",
			Help: "Total number of calls short-circuited by an open circuit",
		}, []string{"peer"}),
		attempts: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "store_gate_callout_attempts_total",
			Help: "Total number of outbound call attempts grouped by peer and result",
		}, []string{"peer", "result"}),
	}
}

// RecordPeerState выставляет gauge состояния peer-а.
func (m *GateMetrics) RecordPeerState(peer string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	m.peerUp.WithLabelValues(peer).Set(v)
}

// RecordProbe фиксирует пробу восстановления.
func (m *GateMetrics) RecordProbe(peer string, ok bool) {
	m.probes.WithLabelValues(peer, resultLabel(ok)).Inc()
}

// RecordShortCircuit фиксирует вызов, отклонённый открытым breaker-ом.
func (m *GateMetrics) RecordShortCircuit(peer string) {
	m.shortCircuits.WithLabelValues(peer).Inc()
}

// RecordAttempt фиксирует одну сетевую попытку исходящего вызова.
func (m *GateMetrics) RecordAttempt(peer string, ok bool) {
	m.attempts.WithLabelValues(peer, resultLabel(ok)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// WorkerMetrics содержит метрики воркера отложенного оформления гарантии.
type WorkerMetrics struct {
	processed prometheus.Counter
	failed    prometheus.Counter
	dropped   prometheus.Counter
}

// NewWorkerMetrics создаёт метрики воркера в default registry.
func NewWorkerMetrics() *WorkerMetrics {
	return newWorkerMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newWorkerMetricsWithRegisterer(registerer prometheus.Registerer) *WorkerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &WorkerMetrics{
		processed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_enrolment_worker_processed_total",
			Help: "Total number of deferred enrolments completed and acked",
		}),
		failed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_enrolment_worker_failed_total",
			Help: "Total number of enrolment attempts that failed and were requeued",
		}),
		dropped: registerCounter(registerer, prometheus.CounterOpts{
			Name: "store_enrolment_worker_dropped_total",
			Help: "Total number of queue messages dropped as unparseable",
		}),
	}
}

// RecordProcessed увеличивает счётчик успешно оформленных гарантий.
func (m *WorkerMetrics) RecordProcessed() { m.processed.Inc() }

// RecordFailed увеличивает счётчик неудачных попыток оформления.
func (m *WorkerMetrics) RecordFailed() { m.failed.Inc() }

// RecordDropped увеличивает счётчик выброшенных сообщений.
func (m *WorkerMetrics) RecordDropped() { m.dropped.Inc() }

// HTTPMetrics содержит метрики входящего HTTP трафика одного сервиса.
type HTTPMetrics struct {
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics создаёт метрики HTTP с меткой service в default registry.
func NewHTTPMetrics(service string) *HTTPMetrics {
	return newHTTPMetricsWithRegisterer(prometheus.DefaultRegisterer, service)
}

func newHTTPMetricsWithRegisterer(registerer prometheus.Registerer, service string) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &HTTPMetrics{
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:        "store_http_request_duration_seconds",
			Help:        "Duration of inbound HTTP requests",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{"service": service},
		}, []string{"method", "code"}),
	}
}

// RecordRequest записывает длительность обработки входящего запроса.
func (m *HTTPMetrics) RecordRequest(method string, code int, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, fmt.Sprintf("%d", code)).Observe(duration.Seconds())
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGaugeVec(registerer prometheus.Registerer, opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	collector := prometheus.NewGaugeVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.GaugeVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

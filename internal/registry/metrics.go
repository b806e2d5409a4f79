package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики реестра
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации
// - Анализ частоты операций и сбоев персистенции в production

// OperationsTotal - количество операций реестра по типам и результатам.
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "botregistry",
		Subsystem: "registry",
		Name:      "operations_total",
		Help:      "Total number of registry operations",
	},
	[]string{"operation", "result"}, // result: ok, error
)

// PersistLatency - длительность записи состояния на диск.
var PersistLatency = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "botregistry",
		Subsystem: "registry",
		Name:      "persist_latency_ms",
		Help:      "Time to persist the full registry state in milliseconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250},
	},
)

// BotsTotal - текущее количество ботов в реестре.
var BotsTotal = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "botregistry",
		Subsystem: "registry",
		Name:      "bots_total",
		Help:      "Current number of bots in the registry",
	},
)

// ListenersTotal - текущее количество листенеров по всем ботам.
var ListenersTotal = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "botregistry",
		Subsystem: "registry",
		Name:      "listeners_total",
		Help:      "Current number of listeners across all bots",
	},
)

// AlertsTotal - количество принятых webhook-алертов по результатам.
var AlertsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "botregistry",
		Subsystem: "webhook",
		Name:      "alerts_total",
		Help:      "Total number of webhook alerts received",
	},
	[]string{"service", "result"}, // result: accepted, rejected
)

// recordOp записывает результат операции реестра.
func recordOp(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	OperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordAlert записывает результат приема webhook-алерта.
func RecordAlert(service string, accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	AlertsTotal.WithLabelValues(service, result).Inc()
}

package metrics

import (
	"runtime"
	"time"

	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SystemMetrics интерфейс для системных метрик
type SystemMetrics interface {
	StartRecording(interval time.Duration)
	Stop()
}

type systemMetrics struct {
	log         *logger.Logger
	goroutines  prometheus.Gauge
	memoryAlloc prometheus.Gauge
	memoryGC    prometheus.Counter
	lastNumGC   uint32
	stopCh      chan struct{}
}

// NewSystemMetrics создает новые системные метрики
func NewSystemMetrics(registry *prometheus.Registry, log *logger.Logger) SystemMetrics {
	goroutines := promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "system_goroutines",
			Help: "Current number of goroutines",
		},
	)

	memoryAlloc := promauto.With(registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "system_memory_alloc_bytes",
			Help: "Currently allocated memory in bytes",
		},
	)

	memoryGC := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "system_memory_gc_total",
			Help: "Total number of garbage collections",
		},
	)

	return &systemMetrics{
		log:         log,
		goroutines:  goroutines,
		memoryAlloc: memoryAlloc,
		memoryGC:    memoryGC,
		stopCh:      make(chan struct{}),
	}
}

// record снимает текущие значения рантайма
func (m *systemMetrics) record() {
	m.goroutines.Set(float64(runtime.NumGoroutine()))

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	m.memoryAlloc.Set(float64(stats.Alloc))

	if stats.NumGC > m.lastNumGC {
		m.memoryGC.Add(float64(stats.NumGC - m.lastNumGC))
		m.lastNumGC = stats.NumGC
	}
}

// StartRecording запускает периодический сбор системных метрик
func (m *systemMetrics) StartRecording(interval time.Duration) {
	m.log.Debug("Starting system metrics recording every %s", interval)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.record()
			case <-m.stopCh:
				return
			}
		}
	}()
}

// Stop останавливает сбор системных метрик
func (m *systemMetrics) Stop() {
	close(m.stopCh)
}

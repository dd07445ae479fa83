package metrics

import (
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CustomerMetrics интерфейс для метрик сервиса клиентов
type CustomerMetrics interface {
	IncCustomerCreated()
	IncCustomerUpdated()
	IncCustomerDeleted()
	IncConflict(field string)
	IncSentiment(label, source string)
	IncSubjectSuggested()
}

type customerMetrics struct {
	log               *logger.Logger
	customerOps       *prometheus.CounterVec
	conflicts         *prometheus.CounterVec
	sentimentRequests *prometheus.CounterVec
	subjectsSuggested prometheus.Counter
}

// NewCustomerMetrics создает новые метрики сервиса клиентов
func NewCustomerMetrics(registry *prometheus.Registry, log *logger.Logger) CustomerMetrics {
	customerOps := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "customers_operations_total",
			Help: "The total number of customer mutations by operation",
		},
		[]string{"operation"},
	)

	conflicts := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "customers_conflicts_total",
			Help: "The total number of uniqueness conflicts by field",
		},
		[]string{"field"},
	)

	sentimentRequests := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_sentiment_requests_total",
			Help: "The total number of sentiment classifications by label and classifier source",
		},
		[]string{"label", "source"},
	)

	subjectsSuggested := promauto.With(registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ai_subjects_suggested_total",
			Help: "The total number of suggested email subjects",
		},
	)

	return &customerMetrics{
		log:               log,
		customerOps:       customerOps,
		conflicts:         conflicts,
		sentimentRequests: sentimentRequests,
		subjectsSuggested: subjectsSuggested,
	}
}

// IncCustomerCreated увеличивает счетчик созданных клиентов
func (m *customerMetrics) IncCustomerCreated() {
	m.customerOps.WithLabelValues("create").Inc()
}

// IncCustomerUpdated увеличивает счетчик обновленных клиентов
func (m *customerMetrics) IncCustomerUpdated() {
	m.customerOps.WithLabelValues("update").Inc()
}

// IncCustomerDeleted увеличивает счетчик удаленных клиентов
func (m *customerMetrics) IncCustomerDeleted() {
	m.customerOps.WithLabelValues("delete").Inc()
}

// IncConflict увеличивает счетчик конфликтов уникальности
func (m *customerMetrics) IncConflict(field string) {
	m.conflicts.WithLabelValues(field).Inc()
}

// IncSentiment увеличивает счетчик классификаций тональности
func (m *customerMetrics) IncSentiment(label, source string) {
	m.sentimentRequests.WithLabelValues(label, source).Inc()
}

// IncSubjectSuggested увеличивает счетчик предложенных тем письма
func (m *customerMetrics) IncSubjectSuggested() {
	m.subjectsSuggested.Inc()
}

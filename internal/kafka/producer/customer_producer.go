package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

const (
	TopicCustomerCreated = "customer.created"
	TopicCustomerUpdated = "customer.updated"
	TopicCustomerDeleted = "customer.deleted"
)

// CustomerEvent представляет событие жизненного цикла клиента для Kafka
type CustomerEvent struct {
	EventID    string          `json:"event_id"`
	CustomerID int64           `json:"customer_id"`
	Customer   domain.Customer `json:"customer,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// CustomerProducer интерфейс для отправки событий клиентов
type CustomerProducer interface {
	PublishCustomerCreated(ctx context.Context, customer domain.Customer) error
	PublishCustomerUpdated(ctx context.Context, customer domain.Customer) error
	PublishCustomerDeleted(ctx context.Context, id int64) error
	Close() error
}

type kafkaCustomerProducer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
}

// NewKafkaCustomerProducer создает новый продюсер событий клиентов
func NewKafkaCustomerProducer(producer sarama.SyncProducer, log *logger.Logger) CustomerProducer {
	return &kafkaCustomerProducer{
		producer: producer,
		log:      log,
	}
}

// PublishCustomerCreated публикует событие о создании клиента
func (p *kafkaCustomerProducer) PublishCustomerCreated(ctx context.Context, customer domain.Customer) error {
	return p.publishEvent(ctx, TopicCustomerCreated, customer.ID, customer)
}

// PublishCustomerUpdated публикует событие об обновлении клиента
func (p *kafkaCustomerProducer) PublishCustomerUpdated(ctx context.Context, customer domain.Customer) error {
	return p.publishEvent(ctx, TopicCustomerUpdated, customer.ID, customer)
}

// PublishCustomerDeleted публикует событие об удалении клиента
func (p *kafkaCustomerProducer) PublishCustomerDeleted(ctx context.Context, id int64) error {
	return p.publishEvent(ctx, TopicCustomerDeleted, id, domain.Customer{})
}

// publishEvent публикует событие клиента в Kafka. Ключ сообщения - ID клиента,
// поэтому все события одного клиента попадают в одну партицию.
func (p *kafkaCustomerProducer) publishEvent(ctx context.Context, topic string, customerID int64, customer domain.Customer) error {
	event := CustomerEvent{
		EventID:    uuid.NewString(),
		CustomerID: customerID,
		Customer:   customer,
		Timestamp:  time.Now().UTC(),
	}

	messageValue, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal customer event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(customerID, 10)),
		Value: sarama.ByteEncoder(messageValue),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event_type"),
				Value: []byte(topic),
			},
		},
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish customer event: %w", err)
	}

	p.log.Info("Published customer event to topic %s: partition=%d offset=%d",
		topic, partition, offset)

	return nil
}

// Close закрывает продюсер
func (p *kafkaCustomerProducer) Close() error {
	return p.producer.Close()
}

// noopCustomerProducer используется, когда Kafka отключена конфигурацией
type noopCustomerProducer struct {
	log *logger.Logger
}

// NewNoopCustomerProducer создает продюсер-заглушку
func NewNoopCustomerProducer(log *logger.Logger) CustomerProducer {
	return &noopCustomerProducer{log: log}
}

func (p *noopCustomerProducer) PublishCustomerCreated(ctx context.Context, customer domain.Customer) error {
	p.log.Debug("Kafka disabled, skipping customer.created event for ID %d", customer.ID)
	return nil
}

func (p *noopCustomerProducer) PublishCustomerUpdated(ctx context.Context, customer domain.Customer) error {
	p.log.Debug("Kafka disabled, skipping customer.updated event for ID %d", customer.ID)
	return nil
}

func (p *noopCustomerProducer) PublishCustomerDeleted(ctx context.Context, id int64) error {
	p.log.Debug("Kafka disabled, skipping customer.deleted event for ID %d", id)
	return nil
}

func (p *noopCustomerProducer) Close() error {
	return nil
}

package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/kafka/producer"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	kafkaGo "github.com/segmentio/kafka-go"
)

// EnsureKafkaTopics проверяет и создает топики событий клиентов.
func EnsureKafkaTopics(brokers []string, log *logger.Logger) error {
	requiredTopics := []kafkaGo.TopicConfig{
		{
			Topic:             producer.TopicCustomerCreated,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
		{
			Topic:             producer.TopicCustomerUpdated,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
		{
			Topic:             producer.TopicCustomerDeleted,
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}

	log.Infow("Ensuring Kafka topics exist...", "topics", topicNames(requiredTopics))

	if len(brokers) == 0 || brokers[0] == "" {
		log.Errorw("Kafka broker address is empty")
		return errors.New("kafka broker address is empty")
	}

	_, portStr, err := net.SplitHostPort(strings.TrimSpace(brokers[0]))
	if err != nil {
		log.Errorw("Invalid Kafka broker address format", "broker", brokers[0], "error", err)
		return fmt.Errorf("invalid broker address %s: %w", brokers[0], err)
	}
	if _, err = strconv.Atoi(portStr); err != nil {
		log.Errorw("Invalid Kafka broker port", "broker", brokers[0], "error", err)
		return fmt.Errorf("invalid broker port %s: %w", portStr, err)
	}

	connCtx, cancelConn := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelConn()

	conn, err := kafkaGo.DialContext(connCtx, "tcp", brokers[0])
	if err != nil {
		log.Errorw("Failed to dial Kafka broker", "broker", brokers[0], "error", err)
		return fmt.Errorf("failed to dial broker %s: %w", brokers[0], err)
	}
	defer conn.Close()

	// Админские операции выполняются на контроллере кластера
	controller, err := conn.Controller()
	if err != nil {
		log.Errorw("Failed to get Kafka controller", "error", err)
		return fmt.Errorf("failed to get controller: %w", err)
	}

	controllerAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	controllerConn, err := kafkaGo.DialContext(connCtx, "tcp", controllerAddr)
	if err != nil {
		log.Errorw("Failed to dial Kafka controller", "controller", controllerAddr, "error", err)
		return fmt.Errorf("failed to dial controller %s: %w", controllerAddr, err)
	}
	defer controllerConn.Close()

	// CreateTopics идемпотентен: существующие топики не пересоздаются
	if err := controllerConn.CreateTopics(requiredTopics...); err != nil {
		log.Errorw("Failed to create Kafka topics", "error", err)
		return fmt.Errorf("failed to create topics: %w", err)
	}

	log.Infow("Kafka topics are ready")
	return nil
}

func topicNames(topics []kafkaGo.TopicConfig) []string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Topic
	}
	return names
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dhoini/Customer-microservice/config"
	"github.com/Dhoini/Customer-microservice/internal/ai"
	"github.com/Dhoini/Customer-microservice/internal/api/rest"
	"github.com/Dhoini/Customer-microservice/internal/api/rest/handlers"
	"github.com/Dhoini/Customer-microservice/internal/kafka"
	"github.com/Dhoini/Customer-microservice/internal/kafka/producer"
	"github.com/Dhoini/Customer-microservice/internal/metrics"
	"github.com/Dhoini/Customer-microservice/internal/repository/postgres"
	"github.com/Dhoini/Customer-microservice/internal/service"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.INFO).Fatal("Failed to load configuration: %v", err)
	}

	// Инициализация логгера
	log := logger.New(logger.ParseLevel(cfg.Logging.Level))

	// Создаем контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация Prometheus
	promRegistry := prometheus.NewRegistry()
	customerMetrics := metrics.NewCustomerMetrics(promRegistry, log)
	systemMetrics := metrics.NewSystemMetrics(promRegistry, log)

	// Запускаем сбор системных метрик
	systemMetrics.StartRecording(15 * time.Second)
	defer systemMetrics.Stop()

	// Подключение к базе данных
	dbPool, err := postgres.NewConnection(ctx, cfg.Database.GetDSN(), log)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := postgres.EnsureSchema(ctx, dbPool, log); err != nil {
		log.Fatal("Failed to ensure database schema: %v", err)
	}

	customerRepo := postgres.NewPostgresCustomerRepository(dbPool, log)

	// Инициализация Kafka продюсера
	customerProducer := producer.NewNoopCustomerProducer(log)
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureKafkaTopics(cfg.Kafka.Brokers, log); err != nil {
			log.Fatal("Failed to ensure Kafka topics: %v", err)
		}

		kafkaConfig := kafka.NewConfig(cfg.Kafka.Brokers)
		saramaConfig := kafka.NewSaramaConfig(kafkaConfig, log)

		syncProducer, err := sarama.NewSyncProducer(kafkaConfig.Brokers, saramaConfig)
		if err != nil {
			log.Fatal("Failed to create Kafka producer: %v", err)
		}

		customerProducer = producer.NewKafkaCustomerProducer(syncProducer, log)
	}
	defer customerProducer.Close()

	// Сервис клиентов
	customerService := service.NewCustomerService(customerRepo, customerProducer, customerMetrics, log)

	// Движок текстовой аналитики
	aiEngine := ai.NewEngine(ai.Config{
		UseExternal:    cfg.AI.UseExternal,
		ExternalURL:    cfg.AI.ExternalURL,
		APIKey:         cfg.AI.APIKey,
		TimeoutSeconds: cfg.AI.TimeoutSeconds,
	}, log)

	// Установка режима Gin
	if os.Getenv("GIN_MODE") == "release" || cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Настройка маршрутизатора
	customerHandler := handlers.NewCustomerHandler(customerService, log)
	aiHandler := handlers.NewAIHandler(aiEngine, customerMetrics, log)
	router := rest.SetupRouter(customerHandler, aiHandler, promRegistry, cfg, log)

	// Создание и запуск HTTP сервера
	server := rest.NewServer(router, cfg, log)

	// Запуск сервера в горутине
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Останавливаем сервер
	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

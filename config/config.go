package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config представляет структуру конфигурации для приложения.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	AI       AIConfig       `mapstructure:"ai"`
}

// AppConfig общие сведения о приложении
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	Port            string `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"readTimeout"`
	WriteTimeout    int    `mapstructure:"writeTimeout"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
}

// DatabaseConfig конфигурация базы данных
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LoggingConfig конфигурация логгера
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// KafkaConfig конфигурация Kafka
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
}

// AIConfig конфигурация текстовой аналитики
type AIConfig struct {
	UseExternal    bool   `mapstructure:"useExternal"`
	ExternalURL    string `mapstructure:"externalUrl"`
	APIKey         string `mapstructure:"apiKey"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Load загружает конфигурацию из config.yaml и переменных окружения.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// .env не обязателен
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // Чтение переменных окружения

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Отсутствие config.yaml не ошибка: работаем на дефолтах и env
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Customer API")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 15)
	v.SetDefault("server.writeTimeout", 15)
	v.SetDefault("server.shutdownTimeout", 30)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.database", "customer_service")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("logging.level", "info")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})

	v.SetDefault("ai.useExternal", false)
	v.SetDefault("ai.externalUrl", "")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.timeoutSeconds", 5)
}

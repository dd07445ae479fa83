package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema создается при старте сервиса. Частичный уникальный индекс по phone
// допускает любое количество клиентов без телефона.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id         BIGSERIAL PRIMARY KEY,
	full_name  VARCHAR(200) NOT NULL,
	email      VARCHAR(254) NOT NULL,
	phone      VARCHAR(50),
	address    VARCHAR(400),
	created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS customers_email_key
	ON customers (email);

CREATE UNIQUE INDEX IF NOT EXISTS customers_phone_key
	ON customers (phone) WHERE phone IS NOT NULL;

CREATE INDEX IF NOT EXISTS customers_full_name_idx
	ON customers (lower(full_name));
`

// NewConnection создает новое подключение к PostgreSQL
func NewConnection(ctx context.Context, connString string, log *logger.Logger) (*pgxpool.Pool, error) {
	log.Info("Connecting to PostgreSQL")

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Настраиваем пул соединений
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Проверяем подключение
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Info("Successfully connected to PostgreSQL")
	return pool, nil
}

// EnsureSchema создает таблицу клиентов и индексы, если их еще нет
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("unable to ensure schema: %w", err)
	}

	log.Info("Database schema is up to date")
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникальности
const uniqueViolation = "23505"

// PostgresCustomerRepository реализация репозитория клиентов через PostgreSQL
type PostgresCustomerRepository struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewPostgresCustomerRepository создает новый репозиторий клиентов через PostgreSQL
func NewPostgresCustomerRepository(db *pgxpool.Pool, log *logger.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		db:  db,
		log: log,
	}
}

// scanCustomer читает строку результата в модель клиента
func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var customer domain.Customer
	var phone, address *string

	err := row.Scan(
		&customer.ID,
		&customer.FullName,
		&customer.Email,
		&phone,
		&address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return domain.Customer{}, err
	}

	if phone != nil {
		customer.Phone = *phone
	}
	if address != nil {
		customer.Address = *address
	}

	return customer, nil
}

// duplicateFromPgError переводит нарушение уникального индекса в доменную ошибку
// с указанием конфликтующего поля. Индекс - единственный источник истины
// для конфликтов, пред-проверки сервиса лишь ускоряют отказ.
func duplicateFromPgError(pgErr *pgconn.PgError, c domain.Customer) error {
	if strings.Contains(pgErr.ConstraintName, "phone") {
		return domain.NewDuplicateError("customer", "phone", c.Phone)
	}
	return domain.NewDuplicateError("customer", "email", c.Email)
}

// nullable преобразует пустую строку в NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// List возвращает страницу клиентов и общее число совпадений без учета limit/offset
func (r *PostgresCustomerRepository) List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, int64, error) {
	var conditions []string
	var args []interface{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+strings.ToLower(q)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(lower(full_name) LIKE $%d OR lower(email) LIKE $%d)", n, n))
	}

	if p := strings.TrimSpace(filter.Phone); p != "" {
		args = append(args, "%"+p+"%")
		conditions = append(conditions, fmt.Sprintf("phone ILIKE $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT count(*) FROM customers" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	pageQuery := fmt.Sprintf(
		"SELECT id, full_name, email, phone, address, created_at, updated_at FROM customers%s ORDER BY id LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, total, nil
}

// GetByID возвращает клиента по ID
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id int64) (domain.Customer, error) {
	query := `
		SELECT id, full_name, email, phone, address, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	customer, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetByEmail возвращает клиента по точному совпадению email.
// Email ожидается уже нормализованным (в нижнем регистре).
func (r *PostgresCustomerRepository) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	query := `
		SELECT id, full_name, email, phone, address, created_at, updated_at
		FROM customers
		WHERE email = $1
	`

	customer, err := scanCustomer(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer by email: %w", err)
	}

	return customer, nil
}

// GetByPhone возвращает клиента по точному совпадению телефона
func (r *PostgresCustomerRepository) GetByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	query := `
		SELECT id, full_name, email, phone, address, created_at, updated_at
		FROM customers
		WHERE phone = $1
	`

	customer, err := scanCustomer(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer by phone: %w", err)
	}

	return customer, nil
}

// Create создает нового клиента
func (r *PostgresCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	query := `
		INSERT INTO customers (full_name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		customer.FullName,
		customer.Email,
		nullable(customer.Phone),
		nullable(customer.Address),
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Customer{}, duplicateFromPgError(pgErr, customer)
		}
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// Update применяет частичное обновление: перезаписываются только поля,
// присутствующие в патче, updated_at обновляется всегда.
func (r *PostgresCustomerRepository) Update(ctx context.Context, id int64, patch domain.CustomerPatch) (domain.Customer, error) {
	sets := []string{"updated_at = now()"}
	var args []interface{}

	if patch.FullName != nil {
		args = append(args, *patch.FullName)
		sets = append(sets, fmt.Sprintf("full_name = $%d", len(args)))
	}
	if patch.Email != nil {
		args = append(args, *patch.Email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if patch.Phone != nil {
		args = append(args, nullable(*patch.Phone))
		sets = append(sets, fmt.Sprintf("phone = $%d", len(args)))
	}
	if patch.Address != nil {
		args = append(args, nullable(*patch.Address))
		sets = append(sets, fmt.Sprintf("address = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE customers
		SET %s
		WHERE id = $%d
		RETURNING id, full_name, email, phone, address, created_at, updated_at
	`, strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)

	customer, err := scanCustomer(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			conflicting := domain.Customer{}
			if patch.Email != nil {
				conflicting.Email = *patch.Email
			}
			if patch.Phone != nil {
				conflicting.Phone = *patch.Phone
			}
			return domain.Customer{}, duplicateFromPgError(pgErr, conflicting)
		}
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// Delete удаляет клиента
func (r *PostgresCustomerRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

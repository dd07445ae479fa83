package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
)

// CustomerRepository интерфейс для работы с клиентами
type CustomerRepository interface {
	List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, int64, error)
	GetByID(ctx context.Context, id int64) (domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (domain.Customer, error)
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, id int64, patch domain.CustomerPatch) (domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}

// InMemoryCustomerRepository реализация репозитория в памяти
type InMemoryCustomerRepository struct {
	customers map[int64]domain.Customer
	nextID    int64
	mutex     sync.RWMutex
	log       *logger.Logger
}

// NewInMemoryCustomerRepository создает новый репозиторий клиентов в памяти
func NewInMemoryCustomerRepository(log *logger.Logger) *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{
		customers: make(map[int64]domain.Customer),
		nextID:    1,
		log:       log,
	}
}

// matches проверяет, проходит ли клиент фильтры списка
func matches(c domain.Customer, filter domain.CustomerFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		name := strings.ToLower(c.FullName)
		email := strings.ToLower(c.Email)
		if !strings.Contains(name, q) && !strings.Contains(email, q) {
			return false
		}
	}

	if p := strings.TrimSpace(filter.Phone); p != "" {
		if !strings.Contains(strings.ToLower(c.Phone), strings.ToLower(p)) {
			return false
		}
	}

	return true
}

// List возвращает страницу клиентов и общее число совпадений.
/// Порядок детерминированный: по возрастанию ID.
func (r *InMemoryCustomerRepository) List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, int64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	matched := make([]domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		if matches(customer, filter) {
			matched = append(matched, customer)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))

	if filter.Offset >= len(matched) {
		return []domain.Customer{}, total, nil
	}
	matched = matched[filter.Offset:]

	if filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

// GetByID возвращает клиента по ID
func (r *InMemoryCustomerRepository) GetByID(ctx context.Context, id int64) (domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return domain.Customer{}, ErrNotFound
	}

	return customer, nil
}

// GetByEmail возвращает клиента по точному совпадению email
func (r *InMemoryCustomerRepository) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, customer := range r.customers {
		if customer.Email == email {
			return customer, nil
		}
	}

	return domain.Customer{}, ErrNotFound
}

// GetByPhone возвращает клиента по точному совпадению телефона
func (r *InMemoryCustomerRepository) GetByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, customer := range r.customers {
		if customer.Phone != "" && customer.Phone == phone {
			return customer, nil
		}
	}

	return domain.Customer{}, ErrNotFound
}

// Create создает нового клиента. Уникальность email и телефона
// проверяется под write-блокировкой, так что гонка check-then-insert исключена.
func (r *InMemoryCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, c := range r.customers {
		if c.Email == customer.Email {
			return domain.Customer{}, domain.NewDuplicateError("customer", "email", customer.Email)
		}
		if customer.Phone != "" && c.Phone == customer.Phone {
			return domain.Customer{}, domain.NewDuplicateError("customer", "phone", customer.Phone)
		}
	}

	now := time.Now().UTC()
	customer.ID = r.nextID
	customer.CreatedAt = now
	customer.UpdatedAt = now
	r.nextID++

	r.customers[customer.ID] = customer

	return customer, nil
}

// Update применяет частичное обновление существующего клиента
func (r *InMemoryCustomerRepository) Update(ctx context.Context, id int64, patch domain.CustomerPatch) (domain.Customer, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, exists := r.customers[id]
	if !exists {
		return domain.Customer{}, ErrNotFound
	}

	updated := existing
	if patch.FullName != nil {
		updated.FullName = *patch.FullName
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Phone != nil {
		updated.Phone = *patch.Phone
	}
	if patch.Address != nil {
		updated.Address = *patch.Address
	}

	for cid, c := range r.customers {
		if cid == id {
			continue
		}
		if c.Email == updated.Email {
			return domain.Customer{}, domain.NewDuplicateError("customer", "email", updated.Email)
		}
		if updated.Phone != "" && c.Phone == updated.Phone {
			return domain.Customer{}, domain.NewDuplicateError("customer", "phone", updated.Phone)
		}
	}

	updated.UpdatedAt = time.Now().UTC()
	r.customers[id] = updated

	return updated, nil
}

// Delete удаляет клиента
func (r *InMemoryCustomerRepository) Delete(ctx context.Context, id int64) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.customers[id]; !exists {
		return ErrNotFound
	}

	delete(r.customers, id)

	return nil
}

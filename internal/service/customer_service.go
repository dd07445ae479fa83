package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/kafka/producer"
	"github.com/Dhoini/Customer-microservice/internal/metrics"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
)

// CustomerService интерфейс сервиса для работы с клиентами
type CustomerService interface {
	List(ctx context.Context, filter domain.CustomerFilter) (domain.CustomerPage, error)
	GetByID(ctx context.Context, id int64) (domain.Customer, error)
	Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error)
	Update(ctx context.Context, id int64, req domain.UpdateCustomerRequest) (domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type customerService struct {
	repo     repository.CustomerRepository
	events   producer.CustomerProducer
	appStats metrics.CustomerMetrics
	log      *logger.Logger
}

// NewCustomerService создает новый сервис для работы с клиентами
func NewCustomerService(repo repository.CustomerRepository, events producer.CustomerProducer, appStats metrics.CustomerMetrics, log *logger.Logger) CustomerService {
	return &customerService{
		repo:     repo,
		events:   events,
		appStats: appStats,
		log:      log,
	}
}

// normalizeEmail приводит email к нижнему регистру и проверяет синтаксис
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		var verrs domain.ValidationErrors
		verrs.Add("email", "must be a valid email address")
		return "", verrs
	}

	return email, nil
}

func (s *customerService) List(ctx context.Context, filter domain.CustomerFilter) (domain.CustomerPage, error) {
	s.log.Debug("Listing customers: query=%q phone=%q limit=%d offset=%d",
		filter.Query, filter.Phone, filter.Limit, filter.Offset)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.CustomerPage{}, fmt.Errorf("list customers: %w", err)
	}

	return domain.CustomerPage{Items: items, Total: total}, nil
}

func (s *customerService) GetByID(ctx context.Context, id int64) (domain.Customer, error) {
	s.log.Debug("Getting customer by ID: %d", id)

	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, domain.NewNotFoundError("customer", id)
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}

	return customer, nil
}

func (s *customerService) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	s.log.Debug("Creating customer with email: %s", req.Email)

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		var verrs domain.ValidationErrors
		verrs.Add("full_name", "must not be empty")
		return domain.Customer{}, verrs
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.Customer{}, err
	}

	phone := strings.TrimSpace(req.Phone)
	address := strings.TrimSpace(req.Address)

	// Пред-проверки уникальности. Окончательную гарантию дает уникальный
	// индекс в хранилище, здесь только ранний отказ с понятной ошибкой.
	if err := s.checkEmailFree(ctx, email, 0); err != nil {
		return domain.Customer{}, err
	}
	if phone != "" {
		if err := s.checkPhoneFree(ctx, phone, 0); err != nil {
			return domain.Customer{}, err
		}
	}

	created, err := s.repo.Create(ctx, domain.Customer{
		FullName: fullName,
		Email:    email,
		Phone:    phone,
		Address:  address,
	})
	if err != nil {
		return domain.Customer{}, s.translateDuplicate(err)
	}

	s.appStats.IncCustomerCreated()

	if err := s.events.PublishCustomerCreated(ctx, created); err != nil {
		s.log.Warnw("Failed to publish customer.created event", "customer_id", created.ID, "error", err)
	}

	return created, nil
}

func (s *customerService) Update(ctx context.Context, id int64, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	s.log.Debug("Updating customer with ID: %d", id)

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, domain.NewNotFoundError("customer", id)
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}

	patch := domain.CustomerPatch{}

	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			var verrs domain.ValidationErrors
			verrs.Add("full_name", "must not be empty")
			return domain.Customer{}, verrs
		}
		patch.FullName = &fullName
	}

	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return domain.Customer{}, err
		}
		if err := s.checkEmailFree(ctx, email, id); err != nil {
			return domain.Customer{}, err
		}
		patch.Email = &email
	}

	if req.Phone != nil {
		// Пустая строка означает "очистить телефон": проверять нечего
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" {
			if err := s.checkPhoneFree(ctx, phone, id); err != nil {
				return domain.Customer{}, err
			}
		}
		patch.Phone = &phone
	}

	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		patch.Address = &address
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, domain.NewNotFoundError("customer", id)
		}
		return domain.Customer{}, s.translateDuplicate(err)
	}

	s.appStats.IncCustomerUpdated()

	if err := s.events.PublishCustomerUpdated(ctx, updated); err != nil {
		s.log.Warnw("Failed to publish customer.updated event", "customer_id", updated.ID, "error", err)
	}

	return updated, nil
}

func (s *customerService) Delete(ctx context.Context, id int64) error {
	s.log.Debug("Deleting customer with ID: %d", id)

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFoundError("customer", id)
		}
		return fmt.Errorf("delete customer: %w", err)
	}

	s.appStats.IncCustomerDeleted()

	if err := s.events.PublishCustomerDeleted(ctx, id); err != nil {
		s.log.Warnw("Failed to publish customer.deleted event", "customer_id", id, "error", err)
	}

	return nil
}

// checkEmailFree возвращает DuplicateError, если email занят другим клиентом.
// selfID исключает сравниваемую запись: клиент не конфликтует сам с собой.
func (s *customerService) checkEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check email uniqueness: %w", err)
	}

	if existing.ID != selfID {
		s.appStats.IncConflict("email")
		return domain.NewDuplicateError("customer", "email", email)
	}

	return nil
}

// checkPhoneFree возвращает DuplicateError, если телефон занят другим клиентом
func (s *customerService) checkPhoneFree(ctx context.Context, phone string, selfID int64) error {
	existing, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("check phone uniqueness: %w", err)
	}

	if existing.ID != selfID {
		s.appStats.IncConflict("phone")
		return domain.NewDuplicateError("customer", "phone", phone)
	}

	return nil
}

// translateDuplicate учитывает конфликт в метриках, когда дубликат поймал
// не пред-чек, а уникальный индекс хранилища
func (s *customerService) translateDuplicate(err error) error {
	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		s.appStats.IncConflict(dup.Field)
		return dup
	}
	return fmt.Errorf("store customer: %w", err)
}

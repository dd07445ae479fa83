package repository

import "github.com/Dhoini/Customer-microservice/internal/domain"

var (
	// ErrNotFound запись не найдена
	ErrNotFound = domain.ErrNotFound

	// ErrDuplicate дубликат записи
	ErrDuplicate = domain.ErrDuplicate

	// ErrInvalidData неверные данные
	ErrInvalidData = domain.ErrInvalidInput
)

package domain

import (
	"time"
)

// Customer представляет собой модель клиента
type Customer struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCustomerRequest представляет запрос на создание клиента
type CreateCustomerRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpdateCustomerRequest представляет запрос на частичное обновление клиента.
// nil означает "поле отсутствует в запросе", пустая строка - "очистить поле".
type UpdateCustomerRequest struct {
	FullName *string `json:"full_name" binding:"omitempty"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// CustomerPatch набор полей для частичного обновления на уровне хранилища.
// Значения уже нормализованы сервисом.
type CustomerPatch struct {
	FullName *string
	Email    *string
	Phone    *string
	Address  *string
}

// IsEmpty проверяет, что патч не содержит ни одного поля
func (p CustomerPatch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.Phone == nil && p.Address == nil
}

// CustomerFilter параметры фильтрации и пагинации списка клиентов
type CustomerFilter struct {
	Query  string
	Phone  string
	Limit  int
	Offset int
}

// CustomerPage страница клиентов вместе с общим количеством совпадений
type CustomerPage struct {
	Items []Customer `json:"items"`
	Total int64      `json:"total"`
}

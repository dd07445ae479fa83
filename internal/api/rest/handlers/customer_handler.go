package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/service"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Границы пагинации на уровне API
const (
	defaultLimit = 50
	maxLimit     = 200
)

// CustomerHandler обработчик для клиентов
type CustomerHandler struct {
	service service.CustomerService
	log     *logger.Logger
}

// NewCustomerHandler создает новый обработчик клиентов
func NewCustomerHandler(svc service.CustomerService, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: svc,
		log:     log,
	}
}

// parseID разбирает целочисленный идентификатор из пути
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format"})
		return 0, false
	}
	return id, true
}

// clampPagination приводит limit/offset к допустимым границам
func clampPagination(c *gin.Context) (int, int) {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	return limit, offset
}

// respondError переводит доменную ошибку в HTTP-ответ
func (h *CustomerHandler) respondError(c *gin.Context, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		h.log.Warn("Validation failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": verrs.Error(), "fields": verrs.Fields()})
		return
	}

	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		h.log.Warn("Uniqueness conflict on %s", dup.Field)
		c.JSON(http.StatusConflict, gin.H{"error": dup.Error(), "field": dup.Field})
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		h.log.Warn("Customer not found: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	h.log.Error("Customer operation failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// ListCustomers возвращает страницу клиентов c фильтрацией и пагинацией
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	limit, offset := clampPagination(c)

	filter := domain.CustomerFilter{
		Query:  c.Query("query"),
		Phone:  c.Query("phone"),
		Limit:  limit,
		Offset: offset,
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(page.Total, 10))
	c.Header("X-Limit", strconv.Itoa(limit))
	c.Header("X-Offset", strconv.Itoa(offset))

	h.log.Info("Returned %d of %d customers", len(page.Items), page.Total)
	c.JSON(http.StatusOK, gin.H{
		"items":  page.Items,
		"total":  page.Total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetCustomer возвращает клиента по ID
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// CreateCustomer создает нового клиента
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req domain.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("Created customer with ID: %d", customer.ID)
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer частично обновляет существующего клиента
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req domain.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("Updated customer with ID: %d", customer.ID)
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer удаляет клиента
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("Deleted customer with ID: %d", id)
	c.Status(http.StatusNoContent)
}

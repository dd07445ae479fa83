package service

import (
	"context"
	"testing"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/internal/kafka/producer"
	"github.com/Dhoini/Customer-microservice/internal/metrics"
	"github.com/Dhoini/Customer-microservice/internal/repository"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() CustomerService {
	log := logger.New(logger.ERROR)
	repo := repository.NewInMemoryCustomerRepository(log)
	events := producer.NewNoopCustomerProducer(log)
	appStats := metrics.NewCustomerMetrics(prometheus.NewRegistry(), log)
	return NewCustomerService(repo, events, appStats, log)
}

func strPtr(s string) *string { return &s }

func TestCreateNormalizesFields(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "  Alice Smith  ",
		Email:    "Alice.Smith@EXAMPLE.com",
		Phone:    " +111 ",
		Address:  " 1 Main St ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Smith", created.FullName)
	assert.Equal(t, "alice.smith@example.com", created.Email)
	assert.Equal(t, "+111", created.Phone)
	assert.Equal(t, "1 Main St", created.Address)
	assert.NotZero(t, created.ID)

	fetched, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "   ",
		Email:    "alice@example.com",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"full_name"}, verrs.Fields())

	_, err = svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Alice",
		Email:    "not-an-email",
	})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"email"}, verrs.Fields())
}

func TestCreateConflicts(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Phone:    "+111",
	})
	require.NoError(t, err)

	// Email сравнивается без учета регистра
	_, err = svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Impostor",
		Email:    "ALICE@example.COM",
	})
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	_, err = svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Impostor",
		Email:    "impostor@example.com",
		Phone:    "+111",
	})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "phone", dup.Field)

	// Пустой телефон не участвует в проверке уникальности
	_, err = svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Second",
		Email:    "second@example.com",
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Third",
		Email:    "third@example.com",
	})
	require.NoError(t, err)
}

func TestUpdatePartialSemantics(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Phone:    "+111",
		Address:  "1 Main St",
	})
	require.NoError(t, err)

	// Отсутствующие поля не меняются
	updated, err := svc.Update(context.Background(), created.ID, domain.UpdateCustomerRequest{
		FullName: strPtr("Alice Cooper"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.FullName)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, "+111", updated.Phone)
	assert.Equal(t, "1 Main St", updated.Address)

	// Явная пустая строка очищает телефон
	updated, err = svc.Update(context.Background(), created.ID, domain.UpdateCustomerRequest{
		Phone: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Phone)
	assert.Equal(t, "Alice Cooper", updated.FullName)

	// Email нормализуется при обновлении
	updated, err = svc.Update(context.Background(), created.ID, domain.UpdateCustomerRequest{
		Email: strPtr(" Cooper@Example.COM "),
	})
	require.NoError(t, err)
	assert.Equal(t, "cooper@example.com", updated.Email)
}

func TestUpdateSelfNeverConflicts(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Phone:    "+111",
	})
	require.NoError(t, err)

	// Неизменные собственные email и телефон проходят без конфликта
	_, err = svc.Update(context.Background(), created.ID, domain.UpdateCustomerRequest{
		Email: strPtr("alice@example.com"),
		Phone: strPtr("+111"),
	})
	require.NoError(t, err)
}

func TestUpdateConflictsWithOtherRecord(t *testing.T) {
	svc := newTestService()

	alice, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
		Phone:    "+111",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Bob",
		Email:    "bob@example.com",
		Phone:    "+222",
	})
	require.NoError(t, err)

	var dup *domain.DuplicateError
	_, err = svc.Update(context.Background(), alice.ID, domain.UpdateCustomerRequest{
		Email: strPtr("bob@example.com"),
	})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	_, err = svc.Update(context.Background(), alice.ID, domain.UpdateCustomerRequest{
		Phone: strPtr("+222"),
	})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "phone", dup.Field)
}

func TestUpdateRejectsBlankName(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	var verrs domain.ValidationErrors
	_, err = svc.Update(context.Background(), created.ID, domain.UpdateCustomerRequest{
		FullName: strPtr("   "),
	})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"full_name"}, verrs.Fields())
}

func TestNotFoundTranslation(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(context.Background(), 42, domain.UpdateCustomerRequest{FullName: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 42), domain.ErrNotFound)
}

func TestDeleteThenOperationsNotFound(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		FullName: "Alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), domain.ErrNotFound)
	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPassThrough(t *testing.T) {
	svc := newTestService()

	for _, req := range []domain.CreateCustomerRequest{
		{FullName: "Alice Smith", Email: "alice@example.com"},
		{FullName: "Bob Jones", Email: "bob@example.com"},
	} {
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}

	page, err := svc.List(context.Background(), domain.CustomerFilter{Query: "alice", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Alice Smith", page.Items[0].FullName)
}

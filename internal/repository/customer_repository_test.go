package repository

import (
	"context"
	"testing"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo() *InMemoryCustomerRepository {
	return NewInMemoryCustomerRepository(logger.New(logger.ERROR))
}

func mustCreate(t *testing.T, repo *InMemoryCustomerRepository, name, email, phone string) domain.Customer {
	t.Helper()
	created, err := repo.Create(context.Background(), domain.Customer{
		FullName: name,
		Email:    email,
		Phone:    phone,
	})
	require.NoError(t, err)
	return created
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	repo := newTestRepo()

	created := mustCreate(t, repo, "Alice Smith", "alice@example.com", "+111")
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	second := mustCreate(t, repo, "Bob Jones", "bob@example.com", "")
	assert.Equal(t, int64(2), second.ID)

	fetched, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestCreateRejectsDuplicateEmailAndPhone(t *testing.T) {
	repo := newTestRepo()
	mustCreate(t, repo, "Alice Smith", "alice@example.com", "+111")

	_, err := repo.Create(context.Background(), domain.Customer{
		FullName: "Other",
		Email:    "alice@example.com",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)

	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	_, err = repo.Create(context.Background(), domain.Customer{
		FullName: "Other",
		Email:    "other@example.com",
		Phone:    "+111",
	})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "phone", dup.Field)
}

func TestEmptyPhonesNeverCollide(t *testing.T) {
	repo := newTestRepo()
	mustCreate(t, repo, "Alice Smith", "alice@example.com", "")
	mustCreate(t, repo, "Bob Jones", "bob@example.com", "")

	_, _, err := repo.List(context.Background(), domain.CustomerFilter{Limit: 10})
	require.NoError(t, err)
}

func TestGetByEmailAndPhone(t *testing.T) {
	repo := newTestRepo()
	created := mustCreate(t, repo, "Alice Smith", "alice@example.com", "+111")

	byEmail, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	byPhone, err := repo.GetByPhone(context.Background(), "+111")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	_, err = repo.GetByPhone(context.Background(), "+999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersAndPaginates(t *testing.T) {
	repo := newTestRepo()
	mustCreate(t, repo, "Alice Smith", "alice@example.com", "+111")
	mustCreate(t, repo, "Bob Jones", "bob@shop.org", "+222")
	mustCreate(t, repo, "Charlie Smith", "charlie@example.com", "+333")

	// Подстрока имени без учета регистра
	items, total, err := repo.List(context.Background(), domain.CustomerFilter{Query: "smith", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Alice Smith", items[0].FullName)
	assert.Equal(t, "Charlie Smith", items[1].FullName)

	// Подстрока email тоже совпадает (OR-семантика)
	_, total, err = repo.List(context.Background(), domain.CustomerFilter{Query: "shop.org", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// Фильтр по телефону независим
	items, total, err = repo.List(context.Background(), domain.CustomerFilter{Query: "smith", Phone: "333", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Charlie Smith", items[0].FullName)

	// Пагинация не влияет на total
	items, total, err = repo.List(context.Background(), domain.CustomerFilter{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)

	items, total, err = repo.List(context.Background(), domain.CustomerFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Charlie Smith", items[0].FullName)

	// Offset за пределами выборки
	items, total, err = repo.List(context.Background(), domain.CustomerFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, items)
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	repo := newTestRepo()
	created := mustCreate(t, repo, "Alice Smith", "alice@example.com", "+111")

	newName := "Alice Cooper"
	updated, err := repo.Update(context.Background(), created.ID, domain.CustomerPatch{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.FullName)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, "+111", updated.Phone)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	empty := ""
	updated, err = repo.Update(context.Background(), created.ID, domain.CustomerPatch{Phone: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Phone)
}

func TestUpdateDetectsConflictsExcludingSelf(t *testing.T) {
	repo := newTestRepo()
	alice := mustCreate(t, repo, "Alice Smith", "alice@example.com", "+111")
	mustCreate(t, repo, "Bob Jones", "bob@example.com", "+222")

	// Собственные значения записи конфликтом не считаются
	ownEmail := "alice@example.com"
	_, err := repo.Update(context.Background(), alice.ID, domain.CustomerPatch{Email: &ownEmail})
	require.NoError(t, err)

	taken := "bob@example.com"
	_, err = repo.Update(context.Background(), alice.ID, domain.CustomerPatch{Email: &taken})
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	takenPhone := "+222"
	_, err = repo.Update(context.Background(), alice.ID, domain.CustomerPatch{Phone: &takenPhone})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "phone", dup.Field)
}

func TestUpdateMissingCustomer(t *testing.T) {
	repo := newTestRepo()

	name := "Nobody"
	_, err := repo.Update(context.Background(), 42, domain.CustomerPatch{FullName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIsHardAndIdempotentlyNotFound(t *testing.T) {
	repo := newTestRepo()
	created := mustCreate(t, repo, "Alice Smith", "alice@example.com", "")

	require.NoError(t, repo.Delete(context.Background(), created.ID))

	_, err := repo.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Повторное удаление того же ID
	assert.ErrorIs(t, repo.Delete(context.Background(), created.ID), ErrNotFound)
}

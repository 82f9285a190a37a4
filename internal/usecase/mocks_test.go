package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	category, _ := args.Get(0).(*domain.Category)
	return category, args.Error(1)
}

func (m *mockCategoryRepo) List(ctx context.Context, filter ListCategoriesFilter) ([]*domain.Category, int64, error) {
	args := m.Called(ctx, filter)
	categories, _ := args.Get(0).([]*domain.Category)
	return categories, args.Get(1).(int64), args.Error(2)
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	args := m.Called(ctx, event)
	created, _ := args.Get(0).(*OutboxEvent)
	return created, args.Error(1)
}

func (m *mockOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]*OutboxEvent)
	return events, args.Error(1)
}

func (m *mockOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOutboxRepo) MarkAsFailed(ctx context.Context, id int64, retry bool) error {
	return m.Called(ctx, id, retry).Error(0)
}

type mockCacheRepo struct {
	mock.Mock
}

func (m *mockCacheRepo) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryInfo, bool, error) {
	args := m.Called(ctx, id)
	info, _ := args.Get(0).(*CategoryInfo)
	return info, args.Bool(1), args.Error(2)
}

func (m *mockCacheRepo) SetCategory(ctx context.Context, category *CategoryInfo) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCacheRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockEncoder struct {
	mock.Mock
}

func (m *mockEncoder) Encode(event *CategoryEvent) ([]byte, error) {
	args := m.Called(event)
	payload, _ := args.Get(0).([]byte)
	return payload, args.Error(1)
}

// inlineTxManager выполняет fn без настоящей транзакции и запоминает число вызовов.
type inlineTxManager struct {
	calls int
}

func (m *inlineTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

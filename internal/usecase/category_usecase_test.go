package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type categoryUCDeps struct {
	categories *mockCategoryRepo
	outbox     *mockOutboxRepo
	cache      *mockCacheRepo
	encoder    *mockEncoder
	tx         *inlineTxManager
}

func newCategoryUC(t *testing.T) (*CategoryUseCase, *categoryUCDeps) {
	t.Helper()

	deps := &categoryUCDeps{
		categories: &mockCategoryRepo{},
		outbox:     &mockOutboxRepo{},
		cache:      &mockCacheRepo{},
		encoder:    &mockEncoder{},
		tx:         &inlineTxManager{},
	}

	uc := NewCategoryUC(deps.categories, deps.outbox, deps.cache, deps.tx, deps.encoder, logger.NewNop())
	uc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	t.Cleanup(func() {
		deps.categories.AssertExpectations(t)
		deps.outbox.AssertExpectations(t)
		deps.cache.AssertExpectations(t)
		deps.encoder.AssertExpectations(t)
	})

	return uc, deps
}

func existingCategory(t *testing.T, isActive bool) *domain.Category {
	t.Helper()

	category, err := domain.NewCategory("Category Name", "Category Description", domain.WithIsActive(isActive))
	require.NoError(t, err)

	return category
}

func eventOfType(eventType OutboxEventType) any {
	return mock.MatchedBy(func(event *CategoryEvent) bool {
		return event.Type == eventType
	})
}

func outboxOfType(eventType OutboxEventType) any {
	return mock.MatchedBy(func(event *OutboxEvent) bool {
		return event.EventType == eventType && event.Status == Pending && string(event.Payload) == "payload"
	})
}

func TestCreateCategory(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()

	deps.categories.On("Create", ctx, mock.AnythingOfType("*domain.Category")).Return(nil)
	deps.encoder.On("Encode", eventOfType(CategoryCreated)).Return([]byte("payload"), nil)
	deps.outbox.On("Create", ctx, outboxOfType(CategoryCreated)).Return(&OutboxEvent{ID: 1}, nil)

	info, err := uc.CreateCategory(ctx, &CreateCategoryReq{Name: "Category Name", Description: "Category Description"})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, info.ID)
	assert.Equal(t, "Category Name", info.Name)
	assert.True(t, info.IsActive)
	assert.Equal(t, 1, deps.tx.calls)
}

func TestCreateCategory_Inactive(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	isActive := false

	deps.categories.On("Create", ctx, mock.AnythingOfType("*domain.Category")).Return(nil)
	deps.encoder.On("Encode", mock.Anything).Return([]byte("payload"), nil)
	deps.outbox.On("Create", ctx, mock.Anything).Return(&OutboxEvent{ID: 1}, nil)

	info, err := uc.CreateCategory(ctx, &CreateCategoryReq{Name: "Category Name", Description: "d", IsActive: &isActive})

	require.NoError(t, err)
	assert.False(t, info.IsActive)
}

func TestCreateCategory_ValidationError(t *testing.T) {
	uc, deps := newCategoryUC(t)

	_, err := uc.CreateCategory(context.Background(), &CreateCategoryReq{Name: "ab", Description: "Category Description"})

	require.Error(t, err)
	validationErr, ok := e.AsEntityValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Name should be at least 3 characters long", validationErr.Message)
	assert.Equal(t, 0, deps.tx.calls)
}

func TestCreateCategory_RepositoryError(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	deps.categories.On("Create", ctx, mock.Anything).Return(dbErr)

	_, err := uc.CreateCategory(ctx, &CreateCategoryReq{Name: "Category Name", Description: "Category Description"})

	assert.ErrorIs(t, err, dbErr)
}

func TestGetCategory_FromCache(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	cached := &CategoryInfo{ID: uuid.New(), Name: "Cached"}

	deps.cache.On("GetCategory", ctx, cached.ID).Return(cached, true, nil)

	info, err := uc.GetCategory(ctx, cached.ID)

	require.NoError(t, err)
	assert.Same(t, cached, info)
}

func TestGetCategory_CacheMissFillsCache(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	category := existingCategory(t, true)

	deps.cache.On("GetCategory", ctx, category.ID()).Return(nil, false, nil)
	deps.categories.On("GetByID", ctx, category.ID()).Return(category, nil)
	deps.cache.On("SetCategory", ctx, mock.MatchedBy(func(info *CategoryInfo) bool {
		return info.ID == category.ID()
	})).Return(nil)

	info, err := uc.GetCategory(ctx, category.ID())

	require.NoError(t, err)
	assert.Equal(t, category.Name(), info.Name)
}

func TestGetCategory_CacheFailureIsNotFatal(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	category := existingCategory(t, true)

	deps.cache.On("GetCategory", ctx, category.ID()).Return(nil, false, errors.New("redis down"))
	deps.categories.On("GetByID", ctx, category.ID()).Return(category, nil)
	deps.cache.On("SetCategory", ctx, mock.Anything).Return(errors.New("redis down"))

	info, err := uc.GetCategory(ctx, category.ID())

	require.NoError(t, err)
	assert.Equal(t, category.ID(), info.ID)
}

func TestGetCategory_NotFound(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	id := uuid.New()

	deps.cache.On("GetCategory", ctx, id).Return(nil, false, nil)
	deps.categories.On("GetByID", ctx, id).Return(nil, e.ErrCategoryNotFound)

	_, err := uc.GetCategory(ctx, id)

	assert.ErrorIs(t, err, e.ErrCategoryNotFound)
}

func TestListCategories(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	categories := []*domain.Category{existingCategory(t, true), existingCategory(t, false)}

	deps.categories.On("List", ctx, ListCategoriesFilter{
		Search:  "film",
		SortBy:  SortByCreatedAt,
		SortDir: SortDesc,
		Limit:   10,
		Offset:  20,
	}).Return(categories, int64(22), nil)

	res, err := uc.ListCategories(ctx, &ListCategoriesReq{
		Page:    3,
		PerPage: 10,
		Search:  "  film ",
		SortBy:  SortByCreatedAt,
		SortDir: "DESC",
	})

	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, int64(22), res.Total)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, 10, res.PerPage)
}

func TestBuildListFilter(t *testing.T) {
	filter, page, perPage, err := buildListFilter(&ListCategoriesReq{})
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 15, perPage)
	assert.Equal(t, ListCategoriesFilter{SortBy: SortByName, SortDir: SortAsc, Limit: 15}, filter)

	_, _, perPage, err = buildListFilter(&ListCategoriesReq{PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, perPage)

	_, _, _, err = buildListFilter(&ListCategoriesReq{Page: -1})
	assert.ErrorIs(t, err, e.ErrInvalidPagination)

	_, _, _, err = buildListFilter(&ListCategoriesReq{Page: math.MaxInt, PerPage: 100})
	assert.ErrorIs(t, err, e.ErrInvalidPagination)

	filter, _, _, err = buildListFilter(&ListCategoriesReq{Page: math.MaxInt/100 + 1, PerPage: 100})
	require.NoError(t, err)
	assert.Positive(t, filter.Offset)

	_, _, _, err = buildListFilter(&ListCategoriesReq{SortBy: "description"})
	assert.ErrorIs(t, err, e.ErrInvalidSort)

	_, _, _, err = buildListFilter(&ListCategoriesReq{SortDir: "sideways"})
	assert.ErrorIs(t, err, e.ErrInvalidSort)
}

func TestUpdateCategory_KeepsDescriptionWhenOmitted(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	category := existingCategory(t, false)

	deps.categories.On("GetByID", ctx, category.ID()).Return(category, nil)
	deps.categories.On("Update", ctx, category).Return(nil)
	deps.encoder.On("Encode", eventOfType(CategoryUpdated)).Return([]byte("payload"), nil)
	deps.outbox.On("Create", ctx, outboxOfType(CategoryUpdated)).Return(&OutboxEvent{ID: 2}, nil)
	deps.cache.On("DeleteCategory", ctx, category.ID()).Return(nil)

	info, err := uc.UpdateCategory(ctx, &UpdateCategoryReq{ID: category.ID(), Name: "New Name"})

	require.NoError(t, err)
	assert.Equal(t, "New Name", info.Name)
	assert.Equal(t, "Category Description", info.Description)
	assert.False(t, info.IsActive)
}

func TestUpdateCategory_ValidationErrorSkipsSave(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	category := existingCategory(t, true)
	empty := ""

	deps.categories.On("GetByID", ctx, category.ID()).Return(category, nil)

	_, err := uc.UpdateCategory(ctx, &UpdateCategoryReq{ID: category.ID(), Name: "New Name", Description: &empty})

	require.Error(t, err)
	validationErr, ok := e.AsEntityValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Description should not be empty or null", validationErr.Message)
	deps.categories.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestActivateCategory(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	category := existingCategory(t, false)

	deps.categories.On("GetByID", ctx, category.ID()).Return(category, nil)
	deps.categories.On("Update", ctx, category).Return(nil)
	deps.encoder.On("Encode", eventOfType(CategoryActivated)).Return([]byte("payload"), nil)
	deps.outbox.On("Create", ctx, outboxOfType(CategoryActivated)).Return(&OutboxEvent{ID: 3}, nil)
	deps.cache.On("DeleteCategory", ctx, category.ID()).Return(errors.New("redis down"))

	info, err := uc.ActivateCategory(ctx, category.ID())

	require.NoError(t, err)
	assert.True(t, info.IsActive)
}

func TestDeactivateCategory(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	category := existingCategory(t, true)

	deps.categories.On("GetByID", ctx, category.ID()).Return(category, nil)
	deps.categories.On("Update", ctx, category).Return(nil)
	deps.encoder.On("Encode", eventOfType(CategoryDeactivated)).Return([]byte("payload"), nil)
	deps.outbox.On("Create", ctx, outboxOfType(CategoryDeactivated)).Return(&OutboxEvent{ID: 4}, nil)
	deps.cache.On("DeleteCategory", ctx, category.ID()).Return(nil)

	info, err := uc.DeactivateCategory(ctx, category.ID())

	require.NoError(t, err)
	assert.False(t, info.IsActive)
}

func TestDeactivateCategory_NotFound(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	id := uuid.New()

	deps.categories.On("GetByID", ctx, id).Return(nil, e.ErrCategoryNotFound)

	_, err := uc.DeactivateCategory(ctx, id)

	assert.ErrorIs(t, err, e.ErrCategoryNotFound)
}

func TestDeleteCategory(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	category := existingCategory(t, true)

	deps.categories.On("GetByID", ctx, category.ID()).Return(category, nil)
	deps.categories.On("Delete", ctx, category.ID()).Return(nil)
	deps.encoder.On("Encode", eventOfType(CategoryDeleted)).Return([]byte("payload"), nil)
	deps.outbox.On("Create", ctx, outboxOfType(CategoryDeleted)).Return(&OutboxEvent{ID: 5}, nil)
	deps.cache.On("DeleteCategory", ctx, category.ID()).Return(nil)

	require.NoError(t, uc.DeleteCategory(ctx, category.ID()))
}

func TestDeleteCategory_EncoderErrorAbortsTransaction(t *testing.T) {
	uc, deps := newCategoryUC(t)
	ctx := context.Background()
	category := existingCategory(t, true)
	encodeErr := errors.New("encode failed")

	deps.categories.On("GetByID", ctx, category.ID()).Return(category, nil)
	deps.categories.On("Delete", ctx, category.ID()).Return(nil)
	deps.encoder.On("Encode", mock.Anything).Return(nil, encodeErr)

	err := uc.DeleteCategory(ctx, category.ID())

	assert.ErrorIs(t, err, encodeErr)
	deps.cache.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
}

func TestNewOutboxEvent(t *testing.T) {
	category := existingCategory(t, true)
	occurredAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	event := NewCategoryEvent(CategoryCreated, category, occurredAt)
	outbox := NewOutboxEvent(event, []byte("payload"))

	assert.Equal(t, event.EventID, outbox.EventID)
	assert.Equal(t, category.ID(), outbox.AggregateID)
	assert.Equal(t, Pending, outbox.Status)
	assert.Equal(t, occurredAt, outbox.CreatedAt)

	msg := NewWriteRawMessageReq(outbox)
	assert.Equal(t, category.ID().String(), msg.Key)
	assert.Equal(t, "category.created", msg.EventType)
}

package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/google/uuid"
)

const (
	defaultPage    = 1
	defaultPerPage = 15
	maxPerPage     = 100
)

// CategoryUseCase реализует бизнес-логику управления категориями каталога.
// Каждое изменение сохраняется вместе с событием outbox в одной транзакции.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	cacheRepo    CacheRepository
	txManager    TxManager
	encoder      EventEncoder
	logger       logger.Logger
	now          func() time.Time
}

func NewCategoryUC(
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	txManager TxManager,
	encoder EventEncoder,
	logger logger.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		cacheRepo:    cacheRepo,
		txManager:    txManager,
		encoder:      encoder,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateCategory создаёт категорию и публикует событие category.created.
func (c *CategoryUseCase) CreateCategory(ctx context.Context, req *CreateCategoryReq) (*CategoryInfo, error) {
	const op = "CategoryUseCase.CreateCategory"

	var opts []domain.CategoryOption
	if req.IsActive != nil {
		opts = append(opts, domain.WithIsActive(*req.IsActive))
	}

	category, err := domain.NewCategory(req.Name, req.Description, opts...)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = c.txManager.Do(ctx, func(ctx context.Context) error {
		if err := c.categoryRepo.Create(ctx, category); err != nil {
			return err
		}

		return c.saveEvent(ctx, CategoryCreated, category)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCategoryInfo(category), nil
}

// GetCategory возвращает категорию, сначала пытаясь найти её в кэше.
func (c *CategoryUseCase) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryInfo, error) {
	const op = "CategoryUseCase.GetCategory"

	cached, ok, err := c.cacheRepo.GetCategory(ctx, id)
	if err != nil {
		c.logger.Warnf("Failed to read category from cache: %v", e.Wrap(op, err))
	}
	if ok {
		return cached, nil
	}

	category, err := c.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info := NewCategoryInfo(category)
	if err := c.cacheRepo.SetCategory(ctx, info); err != nil {
		c.logger.Warnf("Failed to cache category: %v", e.Wrap(op, err))
	}

	return info, nil
}

// ListCategories возвращает страницу категорий с поиском по имени и сортировкой.
func (c *CategoryUseCase) ListCategories(ctx context.Context, req *ListCategoriesReq) (*ListCategoriesRes, error) {
	const op = "CategoryUseCase.ListCategories"

	filter, page, perPage, err := buildListFilter(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	categories, total, err := c.categoryRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	items := make([]CategoryInfo, 0, len(categories))
	for _, category := range categories {
		items = append(items, *NewCategoryInfo(category))
	}

	return NewListCategoriesRes(items, total, page, perPage), nil
}

// UpdateCategory меняет имя и описание категории.
func (c *CategoryUseCase) UpdateCategory(ctx context.Context, req *UpdateCategoryReq) (*CategoryInfo, error) {
	const op = "CategoryUseCase.UpdateCategory"

	category, err := c.mutate(ctx, req.ID, CategoryUpdated, func(category *domain.Category) error {
		return category.Update(req.Name, req.Description)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCategoryInfo(category), nil
}

// ActivateCategory делает категорию активной.
func (c *CategoryUseCase) ActivateCategory(ctx context.Context, id uuid.UUID) (*CategoryInfo, error) {
	const op = "CategoryUseCase.ActivateCategory"

	category, err := c.mutate(ctx, id, CategoryActivated, func(category *domain.Category) error {
		category.Activate()
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCategoryInfo(category), nil
}

// DeactivateCategory делает категорию неактивной.
func (c *CategoryUseCase) DeactivateCategory(ctx context.Context, id uuid.UUID) (*CategoryInfo, error) {
	const op = "CategoryUseCase.DeactivateCategory"

	category, err := c.mutate(ctx, id, CategoryDeactivated, func(category *domain.Category) error {
		category.Deactivate()
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCategoryInfo(category), nil
}

// DeleteCategory удаляет категорию; событие содержит её последнее состояние.
func (c *CategoryUseCase) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "CategoryUseCase.DeleteCategory"

	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		category, err := c.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := c.categoryRepo.Delete(ctx, id); err != nil {
			return err
		}

		return c.saveEvent(ctx, CategoryDeleted, category)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	c.invalidate(ctx, id)

	return nil
}

// mutate загружает категорию, применяет apply и сохраняет результат вместе с событием.
func (c *CategoryUseCase) mutate(
	ctx context.Context,
	id uuid.UUID,
	eventType OutboxEventType,
	apply func(category *domain.Category) error,
) (*domain.Category, error) {
	var category *domain.Category

	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		category, err = c.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := apply(category); err != nil {
			return err
		}

		if err := c.categoryRepo.Update(ctx, category); err != nil {
			return err
		}

		return c.saveEvent(ctx, eventType, category)
	})
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, id)

	return category, nil
}

// saveEvent кодирует событие и кладёт его в outbox в текущей транзакции.
func (c *CategoryUseCase) saveEvent(ctx context.Context, eventType OutboxEventType, category *domain.Category) error {
	event := NewCategoryEvent(eventType, category, c.now())

	payload, err := c.encoder.Encode(event)
	if err != nil {
		return err
	}

	_, err = c.outboxRepo.Create(ctx, NewOutboxEvent(event, payload))
	return err
}

// invalidate удаляет категорию из кэша; ошибка кэша не ломает операцию.
func (c *CategoryUseCase) invalidate(ctx context.Context, id uuid.UUID) {
	const op = "CategoryUseCase.invalidate"

	if err := c.cacheRepo.DeleteCategory(ctx, id); err != nil {
		c.logger.Warnf("Failed to delete category from cache: %v", e.Wrap(op, err))
	}
}

// buildListFilter проверяет параметры списка и подставляет значения по умолчанию.
func buildListFilter(req *ListCategoriesReq) (ListCategoriesFilter, int, int, error) {
	page, perPage := req.Page, req.PerPage
	if page == 0 {
		page = defaultPage
	}
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if page < 1 || perPage < 1 {
		return ListCategoriesFilter{}, 0, 0, e.ErrInvalidPagination
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	// OFFSET = (page-1)*perPage не должен переполнять int.
	if page-1 > math.MaxInt/perPage {
		return ListCategoriesFilter{}, 0, 0, e.ErrInvalidPagination
	}

	sortBy := req.SortBy
	switch sortBy {
	case "":
		sortBy = SortByName
	case SortByName, SortByCreatedAt, SortByID:
	default:
		return ListCategoriesFilter{}, 0, 0, e.ErrInvalidSort
	}

	sortDir := SortDirection(strings.ToLower(string(req.SortDir)))
	switch sortDir {
	case "":
		sortDir = SortAsc
	case SortAsc, SortDesc:
	default:
		return ListCategoriesFilter{}, 0, 0, e.ErrInvalidSort
	}

	return ListCategoriesFilter{
		Search:  strings.TrimSpace(req.Search),
		SortBy:  sortBy,
		SortDir: sortDir,
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
	}, page, perPage, nil
}

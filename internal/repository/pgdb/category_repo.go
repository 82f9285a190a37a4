package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// sortColumns — разрешённые колонки сортировки; в запрос попадают только они.
var sortColumns = map[string]string{
	usecase.SortByName:      "name",
	usecase.SortByCreatedAt: "created_at",
	usecase.SortByID:        "id",
}

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// Create сохраняет новую категорию в рамках транзакции из контекста.
func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := c.conv.ToModel(category)
	query := `
		INSERT INTO categories(id, name, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`

	if _, err := tx.Exec(ctx, query,
		model.ID, model.Name, model.Description, model.IsActive, model.CreatedAt,
	); err != nil {
		if postgresDuplicate(err) {
			return fmt.Errorf("%s: category with id %s already exists", whereami.WhereAmI(), model.ID)
		}

		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Update перезаписывает изменяемые поля категории.
func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := c.conv.ToModel(category)
	query := `
		UPDATE categories
		SET name = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1;
	`

	tag, err := tx.Exec(ctx, query, model.ID, model.Name, model.Description, model.IsActive)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
	}

	return nil
}

// Delete удаляет категорию по идентификатору.
func (c *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
	}

	return nil
}

// GetByID ищет категорию; внутри транзакции строка блокируется до её завершения.
func (c *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM categories
		WHERE id = $1
	`
	if _, err := tr.TxFromCtx(ctx); err == nil {
		query += " FOR UPDATE"
	}

	var model converter.CategoryModel
	if err := querierFromCtx(ctx, c.pool).QueryRow(ctx, query, id).Scan(
		&model.ID, &model.Name, &model.Description, &model.IsActive, &model.CreatedAt, &model.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	category, err := c.conv.ToEntity(&model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return category, nil
}

// List возвращает страницу категорий и общее число подходящих под фильтр.
func (c *CategoryRepo) List(ctx context.Context, filter usecase.ListCategoriesFilter) ([]*domain.Category, int64, error) {
	column, ok := sortColumns[filter.SortBy]
	if !ok {
		return nil, 0, e.Wrap(whereami.WhereAmI(), e.ErrInvalidSort)
	}

	direction := "ASC"
	if filter.SortDir == usecase.SortDesc {
		direction = "DESC"
	}

	const where = `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`
	search := escapeLike(filter.Search)
	q := querierFromCtx(ctx, c.pool)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM categories `+where, search).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	if total == 0 {
		return []*domain.Category{}, 0, nil
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, is_active, created_at, updated_at
		FROM categories
		%s
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3
	`, where, column, direction)

	rows, err := q.Query(ctx, query, search, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0, filter.Limit)
	for rows.Next() {
		var model converter.CategoryModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.IsActive, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		category, err := c.conv.ToEntity(&model)
		if err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return categories, total, nil
}

package usecase

import (
	"context"

	"github.com/google/uuid"
)

type CategoryUC interface {
	CreateCategory(ctx context.Context, req *CreateCategoryReq) (*CategoryInfo, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryInfo, error)
	ListCategories(ctx context.Context, req *ListCategoriesReq) (*ListCategoriesRes, error)
	UpdateCategory(ctx context.Context, req *UpdateCategoryReq) (*CategoryInfo, error)
	ActivateCategory(ctx context.Context, id uuid.UUID) (*CategoryInfo, error)
	DeactivateCategory(ctx context.Context, id uuid.UUID) (*CategoryInfo, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

package http

import (
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/google/uuid"
)

// Поля-указатели отличают отсутствующее (или null) значение от пустой строки.

type CreateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description,omitempty"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListCategoriesResponse struct {
	Items   []CategoryResponse `json:"items"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

func (r *CreateCategoryRequest) toUseCase() *usecase.CreateCategoryReq {
	return &usecase.CreateCategoryReq{
		Name:        deref(r.Name),
		Description: deref(r.Description),
		IsActive:    r.IsActive,
	}
}

func (r *UpdateCategoryRequest) toUseCase(id uuid.UUID) *usecase.UpdateCategoryReq {
	return &usecase.UpdateCategoryReq{
		ID:          id,
		Name:        deref(r.Name),
		Description: r.Description,
	}
}

func newCategoryResponse(info *usecase.CategoryInfo) *CategoryResponse {
	return &CategoryResponse{
		ID:          info.ID,
		Name:        info.Name,
		Description: info.Description,
		IsActive:    info.IsActive,
		CreatedAt:   info.CreatedAt,
	}
}

func newListCategoriesResponse(res *usecase.ListCategoriesRes) *ListCategoriesResponse {
	items := make([]CategoryResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *newCategoryResponse(&res.Items[i]))
	}

	return &ListCategoriesResponse{
		Items:   items,
		Total:   res.Total,
		Page:    res.Page,
		PerPage: res.PerPage,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

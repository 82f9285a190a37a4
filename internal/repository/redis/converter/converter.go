package converter

import (
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
)

type CategoryInfoConverter interface {
	ToRedisModel(entity *usecase.CategoryInfo) *CategoryInfoRedisModel
	ToUseCase(model *CategoryInfoRedisModel) *usecase.CategoryInfo
}

type CategoryInfoConverterImpl struct{}

func NewCategoryInfoConverterImpl() *CategoryInfoConverterImpl {
	return &CategoryInfoConverterImpl{}
}

func (c *CategoryInfoConverterImpl) ToRedisModel(entity *usecase.CategoryInfo) *CategoryInfoRedisModel {
	if entity == nil {
		return nil
	}

	return &CategoryInfoRedisModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		IsActive:    entity.IsActive,
		CreatedAt:   entity.CreatedAt,
	}
}

func (c *CategoryInfoConverterImpl) ToUseCase(model *CategoryInfoRedisModel) *usecase.CategoryInfo {
	if model == nil {
		return nil
	}

	return &usecase.CategoryInfo{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		IsActive:    model.IsActive,
		CreatedAt:   model.CreatedAt,
	}
}

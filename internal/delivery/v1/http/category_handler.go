package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUC
	logger          logger.Logger
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger}
}

// createCategory
//
//	@Summary		Создание категории
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			category	body		CreateCategoryRequest	true	"Категория"
//	@Success		201			{object}	CategoryResponse
//	@Failure		400			{object}	ErrorResponse	"Некорректный JSON"
//	@Failure		422			{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/categories [post]
func (h *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	info, err := h.categoryUsecase.CreateCategory(r.Context(), req.toUseCase())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, newCategoryResponse(info))
}

// getCategory
//
//	@Summary	Получение категории
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"ID категории (UUID)"
//	@Success	200	{object}	CategoryResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id} [get]
func (h *CategoryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseCategoryID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	info, err := h.categoryUsecase.GetCategory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCategoryResponse(info))
}

// listCategories
//
//	@Summary	Список категорий
//	@Tags		categories
//	@Produce	json
//	@Param		page		query		int		false	"Номер страницы, с 1"
//	@Param		per_page	query		int		false	"Размер страницы, до 100"
//	@Param		search		query		string	false	"Подстрока имени"
//	@Param		sort_by		query		string	false	"name | created_at | id"
//	@Param		sort_dir	query		string	false	"asc | desc"
//	@Success	200			{object}	ListCategoriesResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/categories [get]
func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	req, err := parseListQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.categoryUsecase.ListCategories(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newListCategoriesResponse(res))
}

// updateCategory
//
//	@Summary		Изменение категории
//	@Description	Отсутствующее description оставляет текущее значение
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string					true	"ID категории (UUID)"
//	@Param			category	body		UpdateCategoryRequest	true	"Новые значения"
//	@Success		200			{object}	CategoryResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/categories/{id} [put]
func (h *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseCategoryID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req UpdateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	info, err := h.categoryUsecase.UpdateCategory(r.Context(), req.toUseCase(id))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCategoryResponse(info))
}

// activateCategory
//
//	@Summary	Активация категории
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"ID категории (UUID)"
//	@Success	200	{object}	CategoryResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id}/activate [post]
func (h *CategoryHandler) activateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseCategoryID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	info, err := h.categoryUsecase.ActivateCategory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCategoryResponse(info))
}

// deactivateCategory
//
//	@Summary	Деактивация категории
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"ID категории (UUID)"
//	@Success	200	{object}	CategoryResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id}/deactivate [post]
func (h *CategoryHandler) deactivateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseCategoryID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	info, err := h.categoryUsecase.DeactivateCategory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCategoryResponse(info))
}

// deleteCategory
//
//	@Summary	Удаление категории
//	@Tags		categories
//	@Param		id	path	string	true	"ID категории (UUID)"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id} [delete]
func (h *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseCategoryID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.categoryUsecase.DeleteCategory(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError пишет ответ и логирует: 5xx как ошибку, остальное как предупреждение.
func (h *CategoryHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		h.logger.Errorf(err, "%s %s: %d", r.Method, r.URL.Path, code)
	} else {
		h.logger.Warnf("%s %s: %d %v", r.Method, r.URL.Path, code, err)
	}

	WriteError(w, err)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCategoryUC struct {
	mock.Mock
}

func (m *mockCategoryUC) CreateCategory(ctx context.Context, req *usecase.CreateCategoryReq) (*usecase.CategoryInfo, error) {
	args := m.Called(ctx, req)
	info, _ := args.Get(0).(*usecase.CategoryInfo)
	return info, args.Error(1)
}

func (m *mockCategoryUC) GetCategory(ctx context.Context, id uuid.UUID) (*usecase.CategoryInfo, error) {
	args := m.Called(ctx, id)
	info, _ := args.Get(0).(*usecase.CategoryInfo)
	return info, args.Error(1)
}

func (m *mockCategoryUC) ListCategories(ctx context.Context, req *usecase.ListCategoriesReq) (*usecase.ListCategoriesRes, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*usecase.ListCategoriesRes)
	return res, args.Error(1)
}

func (m *mockCategoryUC) UpdateCategory(ctx context.Context, req *usecase.UpdateCategoryReq) (*usecase.CategoryInfo, error) {
	args := m.Called(ctx, req)
	info, _ := args.Get(0).(*usecase.CategoryInfo)
	return info, args.Error(1)
}

func (m *mockCategoryUC) ActivateCategory(ctx context.Context, id uuid.UUID) (*usecase.CategoryInfo, error) {
	args := m.Called(ctx, id)
	info, _ := args.Get(0).(*usecase.CategoryInfo)
	return info, args.Error(1)
}

func (m *mockCategoryUC) DeactivateCategory(ctx context.Context, id uuid.UUID) (*usecase.CategoryInfo, error) {
	args := m.Called(ctx, id)
	info, _ := args.Get(0).(*usecase.CategoryInfo)
	return info, args.Error(1)
}

func (m *mockCategoryUC) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newTestRouter(uc usecase.CategoryUC) http.Handler {
	mux := chi.NewRouter()
	NewRouter(mux, logger.NewNop()).Init(uc)
	return mux
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func sampleInfo() *usecase.CategoryInfo {
	return &usecase.CategoryInfo{
		ID:          uuid.New(),
		Name:        "Category Name",
		Description: "Category Description",
		IsActive:    true,
		CreatedAt:   time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func TestCreateCategory_Created(t *testing.T) {
	uc := new(mockCategoryUC)
	info := sampleInfo()
	uc.On("CreateCategory", mock.Anything, &usecase.CreateCategoryReq{
		Name:        "Category Name",
		Description: "Category Description",
	}).Return(info, nil)

	rec := doRequest(t, newTestRouter(uc), http.MethodPost, "/api/v1/categories",
		`{"name":"Category Name","description":"Category Description"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CategoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, info.ID, resp.ID)
	assert.Equal(t, "Category Name", resp.Name)
	assert.True(t, resp.IsActive)
	uc.AssertExpectations(t)
}

func TestCreateCategory_NullNameIsValidationError(t *testing.T) {
	uc := new(mockCategoryUC)
	uc.On("CreateCategory", mock.Anything, &usecase.CreateCategoryReq{Description: "Category Description"}).
		Return(nil, e.Wrap("CategoryUseCase.CreateCategory", e.NewEntityValidationError("Name should not be empty or null")))

	rec := doRequest(t, newTestRouter(uc), http.MethodPost, "/api/v1/categories",
		`{"name":null,"description":"Category Description"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Name should not be empty or null", decodeError(t, rec).Message)
}

func TestCreateCategory_InvalidJSON(t *testing.T) {
	uc := new(mockCategoryUC)

	for _, body := range []string{`{"name":`, `{"unknown":1}`, `{"name":"a"} {}`} {
		rec := doRequest(t, newTestRouter(uc), http.MethodPost, "/api/v1/categories", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, e.ErrInvalidJSON.Error(), decodeError(t, rec).Message)
	}
	uc.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
}

func TestGetCategory(t *testing.T) {
	uc := new(mockCategoryUC)
	info := sampleInfo()
	missing := uuid.New()
	uc.On("GetCategory", mock.Anything, info.ID).Return(info, nil)
	uc.On("GetCategory", mock.Anything, missing).Return(nil, e.Wrap("repo", e.ErrCategoryNotFound))
	router := newTestRouter(uc)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/categories/"+info.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/categories/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/categories/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, e.ErrInvalidCategoryID.Error(), decodeError(t, rec).Message)
}

func TestListCategories(t *testing.T) {
	uc := new(mockCategoryUC)
	info := sampleInfo()
	uc.On("ListCategories", mock.Anything, &usecase.ListCategoriesReq{
		Page:    2,
		PerPage: 5,
		Search:  "cat",
		SortBy:  "name",
		SortDir: usecase.SortDesc,
	}).Return(&usecase.ListCategoriesRes{Items: []usecase.CategoryInfo{*info}, Total: 6, Page: 2, PerPage: 5}, nil)
	router := newTestRouter(uc)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/categories?page=2&per_page=5&search=cat&sort_by=name&sort_dir=desc", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListCategoriesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(6), resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, info.ID, resp.Items[0].ID)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/categories?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, e.ErrInvalidPagination.Error(), decodeError(t, rec).Message)
}

func TestUpdateCategory_KeepsDescriptionWhenAbsent(t *testing.T) {
	uc := new(mockCategoryUC)
	info := sampleInfo()
	uc.On("UpdateCategory", mock.Anything, &usecase.UpdateCategoryReq{ID: info.ID, Name: "New Name"}).
		Return(info, nil)

	rec := doRequest(t, newTestRouter(uc), http.MethodPut, "/api/v1/categories/"+info.ID.String(), `{"name":"New Name"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestActivateDeactivateDelete(t *testing.T) {
	uc := new(mockCategoryUC)
	info := sampleInfo()
	uc.On("ActivateCategory", mock.Anything, info.ID).Return(info, nil)
	uc.On("DeactivateCategory", mock.Anything, info.ID).Return(info, nil)
	uc.On("DeleteCategory", mock.Anything, info.ID).Return(nil)
	router := newTestRouter(uc)
	base := "/api/v1/categories/" + info.ID.String()

	assert.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, base+"/activate", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, base+"/deactivate", "").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(t, router, http.MethodDelete, base, "").Code)
	uc.AssertExpectations(t)
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, newTestRouter(new(mockCategoryUC)), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", e.NewEntityValidationError("Id should not be empty"), http.StatusUnprocessableEntity, "Id should not be empty"},
		{"not found", e.Wrap("op", e.ErrCategoryNotFound), http.StatusNotFound, e.ErrCategoryNotFound.Error()},
		{"sort", e.ErrInvalidSort, http.StatusBadRequest, e.ErrInvalidSort.Error()},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, e.ErrInternalServerError.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse сопоставляет ошибку статусу. Сообщение валидации уходит клиенту дословно.
func ToHTTPResponse(err error) (int, string) {
	if vErr, ok := e.AsEntityValidation(err); ok {
		return http.StatusUnprocessableEntity, vErr.Message
	}

	switch {
	case errors.Is(err, e.ErrInvalidCategoryID):
		return http.StatusBadRequest, e.ErrInvalidCategoryID.Error()
	case errors.Is(err, e.ErrInvalidJSON):
		return http.StatusBadRequest, e.ErrInvalidJSON.Error()
	case errors.Is(err, e.ErrInvalidPagination):
		return http.StatusBadRequest, e.ErrInvalidPagination.Error()
	case errors.Is(err, e.ErrInvalidSort):
		return http.StatusBadRequest, e.ErrInvalidSort.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrCategoryNotFound):
		return http.StatusNotFound, e.ErrCategoryNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI()+": "+err.Error(), e.ErrInvalidJSON)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return e.Wrap(whereami.WhereAmI()+": trailing data", e.ErrInvalidJSON)
	}

	return nil
}

func parseCategoryID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, e.Wrap(raw, e.ErrInvalidCategoryID)
	}

	return id, nil
}

func parseListQuery(r *http.Request) (*usecase.ListCategoriesReq, error) {
	q := r.URL.Query()

	page, err := parseOptionalInt(q.Get("page"))
	if err != nil {
		return nil, e.Wrap("page", e.ErrInvalidPagination)
	}

	perPage, err := parseOptionalInt(q.Get("per_page"))
	if err != nil {
		return nil, e.Wrap("per_page", e.ErrInvalidPagination)
	}

	return &usecase.ListCategoriesReq{
		Page:    page,
		PerPage: perPage,
		Search:  q.Get("search"),
		SortBy:  q.Get("sort_by"),
		SortDir: usecase.SortDirection(q.Get("sort_dir")),
	}, nil
}

// parseOptionalInt возвращает 0 для пустой строки, что означает значение по умолчанию.
func parseOptionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	return strconv.Atoi(s)
}

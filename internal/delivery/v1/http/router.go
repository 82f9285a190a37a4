package http

import (
	"net/http"

	_ "github.com/DRSN-tech/catalog-admin/docs" // Регистрация swagger-спецификации
	"github.com/DRSN-tech/catalog-admin/internal/usecase"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(catUC usecase.CategoryUC) {
	r.router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		catHandler := NewCategoryHandler(catUC, r.logger)
		registerCategoryRoutes(v1, catHandler)
	})
}

func registerCategoryRoutes(router chi.Router, h *CategoryHandler) {
	router.Route("/categories", func(cr chi.Router) {
		cr.Post("/", h.createCategory)
		cr.Get("/", h.listCategories)

		cr.Route("/{id}", func(one chi.Router) {
			one.Get("/", h.getCategory)
			one.Put("/", h.updateCategory)
			one.Delete("/", h.deleteCategory)
			one.Post("/activate", h.activateCategory)
			one.Post("/deactivate", h.deactivateCategory)
		})
	})
}

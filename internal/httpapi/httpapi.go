package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/httpx"
	"github.com/BIDMYLIFE/POS/internal/logging"
	"github.com/BIDMYLIFE/POS/internal/service"
	"github.com/BIDMYLIFE/POS/internal/store"
)

// API is the catalog backend REST surface the terminals talk to.
type API struct {
	service       *service.Service
	allowedOrigin string
	logger        *zap.Logger
}

func New(svc *service.Service, allowedOrigin string, logger *zap.Logger) *API {
	return &API{
		service:       svc,
		allowedOrigin: allowedOrigin,
		logger:        logging.OrNop(logger),
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpx.RequestLogger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(httpx.Headers(a.allowedOrigin, "GET,POST,PUT,DELETE,OPTIONS"))

	r.Get("/healthz", a.handleHealth)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", a.handleListProducts)
		r.Post("/", a.handleCreateProduct)
		r.Get("/{id}", a.handleGetProduct)
		r.Put("/{id}", a.handleUpdateProduct)
		r.Delete("/{id}", a.handleDeleteProduct)
	})

	r.Route("/pos", func(r chi.Router) {
		r.Post("/posSave", a.handleSaveOrder)
		r.Get("/orders/{id}", a.handleGetOrder)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.service.ListProducts(r.Context())
	if err != nil {
		httpx.WriteError(w, a.logger, http.StatusInternalServerError, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	product, err := a.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, a.logger, statusForStoreError(err), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.Product
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	product, err := a.service.CreateProduct(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, a.logger, statusForStoreError(err), err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, product)
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	var req domain.Product
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	product, err := a.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		httpx.WriteError(w, a.logger, statusForStoreError(err), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	if err := a.service.DeleteProduct(r.Context(), id); err != nil {
		httpx.WriteError(w, a.logger, statusForStoreError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSaveOrder(w http.ResponseWriter, r *http.Request) {
	var tx domain.Transaction
	if err := httpx.DecodeJSON(r, &tx); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	order, err := a.service.SaveTransaction(r.Context(), tx)
	if err != nil {
		httpx.WriteError(w, a.logger, statusForStoreError(err), err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, order)
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	order, err := a.service.GetOrder(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, a.logger, statusForStoreError(err), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

func statusForStoreError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidProduct), errors.Is(err, store.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicateBarcode):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

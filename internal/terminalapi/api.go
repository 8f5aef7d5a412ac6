package terminalapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/httpx"
	"github.com/BIDMYLIFE/POS/internal/logging"
	"github.com/BIDMYLIFE/POS/internal/receipt"
	"github.com/BIDMYLIFE/POS/internal/reports"
	"github.com/BIDMYLIFE/POS/internal/sale"
	"github.com/BIDMYLIFE/POS/internal/terminal"
)

type API struct {
	terminal      *terminal.Terminal
	auth          *AuthManager
	allowedOrigin string
	loginLimiter  *attemptLimiter
	logger        *zap.Logger
}

func New(term *terminal.Terminal, auth *AuthManager, allowedOrigin string, logger *zap.Logger) *API {
	return &API{
		terminal:      term,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
		logger:        logging.OrNop(logger),
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpx.RequestLogger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(httpx.Headers(a.allowedOrigin, "GET,POST,PUT,PATCH,DELETE,OPTIONS"))

	r.Get("/healthz", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", a.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(a.requireAuth)

			r.Get("/state", a.handleState)
			r.Put("/view/tab", a.handleSetTab)
			r.Put("/view/search", a.handleSetSearch)
			r.Post("/view/search/enter", a.handleSearchEnter)
			r.Put("/view/category", a.handleSetCategory)

			r.Get("/products", a.handleProducts)

			r.Post("/cart/items", a.handleAddItem)
			r.Patch("/cart/items/{id}", a.handleChangeQuantity)
			r.Delete("/cart/items/{id}", a.handleRemoveItem)
			r.Delete("/cart", a.handleClearCart)
			r.Put("/cart/discount", a.handleSetDiscount)
			r.Put("/cart/payment-method", a.handleSetPaymentMethod)

			r.Post("/scan", a.handleScan)

			r.Post("/sales", a.handleCompleteSale)
			r.Get("/receipt", a.handleReceipt)
			r.Get("/receipt/print", a.handleReceiptPrint)
			r.Post("/receipt/save", a.handleReceiptSave)
			r.Post("/receipt/dismiss", a.handleReceiptDismiss)

			r.Get("/reports", a.handleReports)
			r.Get("/reports/print", a.handleReportsPrint)
			r.Get("/reports/export", a.handleReportsExport)
		})
	})

	return r
}

func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			httpx.WriteError(w, a.logger, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(token)
		if err != nil {
			httpx.WriteError(w, a.logger, http.StatusUnauthorized, err)
			return
		}
		if actor.Role != roleCashier {
			httpx.WriteError(w, a.logger, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"session": a.terminal.SessionID(),
		"at":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !a.loginLimiter.Allow(clientKey(r)) {
		httpx.WriteError(w, a.logger, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}

	resp, err := a.auth.Login(req)
	if err != nil {
		a.logger.Warn("login rejected", zap.String("username", req.Username), zap.String("client", clientKey(r)))
		httpx.WriteError(w, a.logger, http.StatusUnauthorized, err)
		return
	}
	a.logger.Info("cashier signed in", zap.String("username", strings.ToLower(strings.TrimSpace(req.Username))))
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (a *API) writeState(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusOK, a.terminal.Snapshot())
}

func (a *API) handleState(w http.ResponseWriter, r *http.Request) {
	a.writeState(w)
}

type tabRequest struct {
	Tab string `json:"tab"`
}

func (a *API) handleSetTab(w http.ResponseWriter, r *http.Request) {
	var req tabRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	if err := a.terminal.SetTab(req.Tab); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	a.writeState(w)
}

type searchRequest struct {
	Search string `json:"search"`
}

func (a *API) handleSetSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	a.terminal.SetSearch(req.Search)
	a.writeState(w)
}

func (a *API) handleSearchEnter(w http.ResponseWriter, r *http.Request) {
	res := a.terminal.SubmitSearch()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"scan":  res,
		"state": a.terminal.Snapshot(),
	})
}

type categoryRequest struct {
	Category string `json:"category"`
}

func (a *API) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	a.terminal.SetCategory(req.Category)
	a.writeState(w)
}

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	products := a.terminal.Products()
	rows := make([]inventoryRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, inventoryRow{Product: p, LowStock: p.LowStock()})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"products": rows})
}

type inventoryRow struct {
	domain.Product
	LowStock bool `json:"lowStock"`
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
}

func (a *API) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	if err := a.terminal.SelectProduct(req.ProductID); err != nil {
		httpx.WriteError(w, a.logger, statusForCartError(err), err)
		return
	}
	a.writeState(w)
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

func (a *API) handleChangeQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	var req quantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	if _, err := a.terminal.ChangeQuantity(id, req.Delta); err != nil {
		httpx.WriteError(w, a.logger, statusForCartError(err), err)
		return
	}
	a.writeState(w)
}

func (a *API) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	a.terminal.RemoveFromCart(id)
	a.writeState(w)
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	a.terminal.ClearCart()
	a.writeState(w)
}

type discountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

func (a *API) handleSetDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	a.terminal.SetDiscount(req.Discount)
	a.writeState(w)
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (a *API) handleSetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	if err := a.terminal.SetPaymentMethod(req.PaymentMethod); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	a.writeState(w)
}

type scanRequest struct {
	Code string `json:"code"`
}

func (a *API) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	res := a.terminal.Scan(req.Code)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"scan":  res,
		"state": a.terminal.Snapshot(),
	})
}

func (a *API) handleCompleteSale(w http.ResponseWriter, r *http.Request) {
	tx, ok := a.terminal.CompleteSale()
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"completed": false})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"completed": true,
		"receipt":   tx,
	})
}

func (a *API) handleReceipt(w http.ResponseWriter, r *http.Request) {
	tx, ok := a.terminal.Receipt()
	if !ok {
		httpx.WriteError(w, a.logger, http.StatusNotFound, sale.ErrNoReceipt)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"receipt": tx,
		"lines":   receipt.Lines(tx),
	})
}

func (a *API) handleReceiptPrint(w http.ResponseWriter, r *http.Request) {
	tx, ok := a.terminal.Receipt()
	if !ok {
		httpx.WriteError(w, a.logger, http.StatusNotFound, sale.ErrNoReceipt)
		return
	}
	httpx.WriteHTML(w, receipt.HTML(tx))
}

func (a *API) handleReceiptSave(w http.ResponseWriter, r *http.Request) {
	tx, err := a.terminal.SaveReceipt(r.Context())
	if err != nil {
		if errors.Is(err, sale.ErrNoReceipt) {
			httpx.WriteError(w, a.logger, http.StatusNotFound, err)
			return
		}
		a.logger.Error("receipt save failed", zap.Int64("transaction_id", tx.ID), zap.Error(err))
		httpx.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error": "failed to save receipt",
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"saved":         true,
		"transactionId": tx.ID,
	})
}

func (a *API) handleReceiptDismiss(w http.ResponseWriter, r *http.Request) {
	a.terminal.DismissReceipt()
	a.writeState(w)
}

const maxRecentLimit = 200

func (a *API) report(r *http.Request) reports.Summary {
	limit := httpx.ParsePositiveLimit(r.URL.Query().Get("limit"), a.terminal.RecentLimit(), maxRecentLimit)
	return a.terminal.ReportRecent(limit)
}

func (a *API) handleReports(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, a.report(r))
}

func (a *API) handleReportsPrint(w http.ResponseWriter, r *http.Request) {
	httpx.WriteHTML(w, a.report(r).HTML())
}

func (a *API) handleReportsExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sales-report.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(a.report(r).CSV()))
}

func statusForCartError(err error) int {
	switch {
	case errors.Is(err, terminal.ErrUnknownProduct), errors.Is(err, terminal.ErrNotInCart):
		return http.StatusNotFound
	case errors.Is(err, terminal.ErrOutOfStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

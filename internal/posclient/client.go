package posclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/logging"
)

const (
	HeaderRequestID      = "X-Request-Id"
	HeaderIdempotencyKey = "X-Idempotency-Key"

	productsPath = "/products"
	savePath     = "/pos/posSave"

	maxErrorBody = 512
)

var ErrUnexpectedStatus = errors.New("unexpected backend status")

// Client talks to the catalog backend. It satisfies catalog.Source and
// sale.ReceiptSaver.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logging.OrNop(logger),
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, productsPath, nil)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := c.do(req, http.StatusOK, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// SaveReceipt posts a completed transaction. The transaction id doubles as
// the idempotency key so a retried save does not create a second order.
func (c *Client) SaveReceipt(ctx context.Context, tx domain.Transaction) error {
	body, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, savePath, body)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderIdempotencyKey, strconv.FormatInt(tx.ID, 10))

	if err := c.do(req, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("save transaction %d: %w", tx.ID, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(HeaderRequestID, requestID)
	return req, nil
}

func (c *Client) do(req *http.Request, want int, out any) error {
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("backend call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)),
		zap.String("request_id", req.Header.Get(HeaderRequestID)),
	)

	if resp.StatusCode != want {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

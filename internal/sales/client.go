package sales

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/models"
)

// Client talks to the back-office sales API. Every call is an independent
// remote step: no retries, no compensation — a failed step is surfaced to
// the caller with the previous steps already committed server-side.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

type createSaleRequest struct {
	ClientRef string `json:"client_ref"`
}

type createSaleResponse struct {
	ID string `json:"id"`
}

type saleLineRequest struct {
	ProductRef string          `json:"product_ref"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type closeSaleRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Total         decimal.Decimal      `json:"total"`
}

// CreateSale opens a sale record for the client and returns its id.
func (c *Client) CreateSale(ctx context.Context, clientRef string) (string, error) {
	var resp createSaleResponse
	err := c.post(ctx, "/sales", createSaleRequest{ClientRef: clientRef}, &resp)
	if err != nil {
		return "", fmt.Errorf("create sale: %w", err)
	}
	return resp.ID, nil
}

// AddSaleLine attaches one cart line to the open sale.
func (c *Client) AddSaleLine(ctx context.Context, saleID string, line models.CartLine) error {
	req := saleLineRequest{
		ProductRef: line.ProductRef,
		Quantity:   line.Quantity,
		Price:      line.Price,
		Subtotal:   line.Subtotal,
	}
	if err := c.post(ctx, "/sales/"+saleID+"/lines", req, nil); err != nil {
		return fmt.Errorf("add sale line %s: %w", line.ProductRef, err)
	}
	return nil
}

// CloseSale finalizes the sale server-side.
func (c *Client) CloseSale(ctx context.Context, saleID string, method models.PaymentMethod, total decimal.Decimal) error {
	req := closeSaleRequest{PaymentMethod: method, Total: total}
	if err := c.post(ctx, "/sales/"+saleID+"/close", req, nil); err != nil {
		return fmt.Errorf("close sale: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("sales API call failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("sales API %s returned %d: %s", path, resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

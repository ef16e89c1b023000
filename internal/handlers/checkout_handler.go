package handlers

import (
	"net/http"

	"github.com/karelbyte/redfox-pos/internal/services"
)

// CheckoutHandler handles checkout and receipt preview
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
}

func NewCheckoutHandler(checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
	Tendered      string `json:"tendered"`
	Cashier       string `json:"cashier"`
}

// POST /checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.checkoutService.Checkout(r.Context(), req.PaymentMethod, req.Tendered, req.Cashier)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]interface{}{
		"sale_id": result.SaleID,
		"total":   result.Total.StringFixed(2),
		"change":  result.Change.StringFixed(2),
	}
	if result.Transaction != nil {
		resp["transaction"] = result.Transaction
	}
	if result.Receipt != nil {
		resp["receipt"] = result.Receipt
	}
	// tail failures are reported, never fatal: the sale is already closed
	if result.LedgerErr != nil {
		resp["ledger_error"] = result.LedgerErr.Error()
	}
	if result.ReceiptErr != nil {
		resp["receipt_error"] = result.ReceiptErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /receipt/preview
func (h *CheckoutHandler) PreviewReceipt(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := h.checkoutService.Preview(r.Context(), req.PaymentMethod, req.Tendered, req.Cashier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

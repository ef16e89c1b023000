package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karelbyte/redfox-pos/internal/services"
)

// CartHandler handles the terminal cart endpoints
type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type cartView struct {
	Lines             interface{} `json:"lines"`
	SelectedClientRef string      `json:"selectedClientRef"`
	Total             string      `json:"total"`
	TotalQuantity     string      `json:"totalQuantity"`
}

func (h *CartHandler) view() cartView {
	snap := h.cartService.Snapshot()
	return cartView{
		Lines:             snap.Lines,
		SelectedClientRef: snap.SelectedClientRef,
		Total:             h.cartService.Total().StringFixed(2),
		TotalQuantity:     h.cartService.TotalQuantity().String(),
	}
}

// GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

// POST /cart/lines
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductRef string `json:"product_ref"`
		Quantity   string `json:"quantity"`
		Price      string `json:"price"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.cartService.AddLine(r.Context(), req.ProductRef, req.Quantity, req.Price); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

// PATCH /cart/lines/{productRef}/quantity
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity string `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	productRef := chi.URLParam(r, "productRef")
	if _, err := h.cartService.UpdateQuantity(r.Context(), productRef, req.Quantity); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

// PATCH /cart/lines/{productRef}/price
func (h *CartHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price string `json:"price"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	productRef := chi.URLParam(r, "productRef")
	if _, err := h.cartService.UpdatePrice(r.Context(), productRef, req.Price); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

// DELETE /cart/lines/{productRef}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	h.cartService.RemoveLine(r.Context(), chi.URLParam(r, "productRef"))
	writeJSON(w, http.StatusOK, h.view())
}

// DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cartService.Clear(r.Context())
	writeJSON(w, http.StatusOK, h.view())
}

// PUT /cart/client
func (h *CartHandler) SetClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientRef string `json:"client_ref"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.cartService.SetSelectedClient(r.Context(), req.ClientRef)
	writeJSON(w, http.StatusOK, h.view())
}

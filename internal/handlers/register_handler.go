package handlers

import (
	"net/http"

	"github.com/karelbyte/redfox-pos/internal/services"
)

// RegisterHandler handles the cash register session endpoints
type RegisterHandler struct {
	registerService *services.RegisterService
}

func NewRegisterHandler(registerService *services.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// POST /register/session
func (h *RegisterHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OpeningAmount string `json:"opening_amount"`
		Name          string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.registerService.OpenSession(r.Context(), req.OpeningAmount, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// GET /register/session
func (h *RegisterHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.registerService.CurrentSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// POST /register/session/transactions
func (h *RegisterHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type          string  `json:"type"`
		Amount        string  `json:"amount"`
		PaymentMethod string  `json:"payment_method"`
		Description   string  `json:"description"`
		Reference     string  `json:"reference"`
		SaleID        *string `json:"sale_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.registerService.RecordTransaction(r.Context(),
		req.Type, req.Amount, req.PaymentMethod, req.Description, req.Reference, req.SaleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// GET /register/session/balance
func (h *RegisterHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.registerService.Balance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// POST /register/session/close
func (h *RegisterHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CountedAmount string `json:"counted_amount"`
		Description   string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.registerService.CloseSession(r.Context(), req.CountedAmount, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

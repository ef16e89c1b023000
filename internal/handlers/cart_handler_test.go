package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/cart"
	"github.com/karelbyte/redfox-pos/internal/services"
	"github.com/karelbyte/redfox-pos/internal/storage"
)

func newCartRouter(t *testing.T) *chi.Mux {
	t.Helper()
	log := zap.NewNop()
	store := cart.NewStore(context.Background(), storage.NewMemory(), log)
	h := NewCartHandler(services.NewCartService(store, log))

	r := chi.NewRouter()
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.Clear)
		r.Post("/lines", h.AddLine)
		r.Patch("/lines/{productRef}/quantity", h.UpdateQuantity)
		r.Patch("/lines/{productRef}/price", h.UpdatePrice)
		r.Delete("/lines/{productRef}", h.RemoveLine)
		r.Put("/client", h.SetClient)
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp map[string]interface{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestAddLineEndpoint(t *testing.T) {
	r := newCartRouter(t)

	rec, resp := doJSON(t, r, http.MethodPost, "/cart/lines",
		`{"product_ref":"prod-a","quantity":"2","price":"10"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "20.00", resp["total"])

	lines := resp["lines"].([]interface{})
	require.Len(t, lines, 1)
}

func TestAddLineRejectsNonPositiveQuantity(t *testing.T) {
	r := newCartRouter(t)

	rec, _ := doJSON(t, r, http.MethodPost, "/cart/lines",
		`{"product_ref":"prod-a","quantity":"-1","price":"10"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNonNumericPriceCoercedToZero(t *testing.T) {
	r := newCartRouter(t)

	_, _ = doJSON(t, r, http.MethodPost, "/cart/lines",
		`{"product_ref":"prod-a","quantity":"2","price":"banana"}`)
	rec, resp := doJSON(t, r, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0.00", resp["total"])
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	r := newCartRouter(t)

	doJSON(t, r, http.MethodPost, "/cart/lines", `{"product_ref":"prod-a","quantity":"2","price":"10"}`)
	rec, resp := doJSON(t, r, http.MethodPatch, "/cart/lines/prod-a/quantity", `{"quantity":"0"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp["lines"])
	assert.Equal(t, "0.00", resp["total"])
}

func TestClearEndpoint(t *testing.T) {
	r := newCartRouter(t)

	doJSON(t, r, http.MethodPost, "/cart/lines", `{"product_ref":"prod-a","quantity":"1","price":"10"}`)
	doJSON(t, r, http.MethodPut, "/cart/client", `{"client_ref":"client-1"}`)

	rec, resp := doJSON(t, r, http.MethodDelete, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp["lines"])
	assert.Equal(t, "", resp["selectedClientRef"])
}

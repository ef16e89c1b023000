package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func guardedOK(registerID string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RegisterGuard(registerID)(next)
}

func TestRegisterGuardAllowsConfiguredRegister(t *testing.T) {
	h := guardedOK("register-1")

	for _, target := range []string{"/cart", "/cart?register=register-1"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Register-ID", "register-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterGuardRejectsOtherRegister(t *testing.T) {
	h := guardedOK("register-1")

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Register-ID", "register-2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/cart?register=register-2", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

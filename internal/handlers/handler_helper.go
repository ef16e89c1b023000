package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/karelbyte/redfox-pos/internal/checkout"
	"github.com/karelbyte/redfox-pos/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Validation problems are
// 422 (operator re-input fixes them), session conflicts 409, failed remote
// checkout steps 502, anything else 500.
func writeError(w http.ResponseWriter, err error) {
	var stepErr *checkout.StepError

	switch {
	case errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrNoClientSelected),
		errors.Is(err, models.ErrInsufficientTender):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrSessionAlreadyOpen),
		errors.Is(err, models.ErrSessionClosed),
		errors.Is(err, models.ErrNoOpenSession):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &stepErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": stepErr.Err.Error(),
			"step":  string(stepErr.Step),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

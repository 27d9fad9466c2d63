package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hassan3208/Rangista-Backend/internal/cart"
	"github.com/hassan3208/Rangista-Backend/internal/catalog"
	"github.com/hassan3208/Rangista-Backend/internal/orders"
	"github.com/hassan3208/Rangista-Backend/internal/stock"
	"github.com/hassan3208/Rangista-Backend/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// respondBusinessError maps the domain taxonomy to 4xx responses. Anything
// outside the taxonomy is a server fault: logged, surfaced as 500, and safe
// for the client to retry.
func respondBusinessError(w http.ResponseWriter, err error) {
	var (
		insufficient *stock.InsufficientStockError
		notFound     *catalog.ProductNotFoundError
	)
	switch {
	case errors.As(err, &insufficient):
		writeError(w, http.StatusConflict, insufficient.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, orders.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrCartEmpty),
		errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/hassan3208/Rangista-Backend/internal/catalog"
	"github.com/hassan3208/Rangista-Backend/internal/redisx"
)

type CartHandler struct {
	Carts CartService
	Redis *redis.Client
}

type addToCartReq struct {
	UserID    int64  `json:"user_id"`
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type updateCartReq struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Post("/cart", h.addToCart)
	r.Get("/cart/{userID}", h.getCart)
	r.Put("/cart/{userID}/{productID}", h.updateQuantity)
	r.Delete("/cart/{userID}/{productID}", h.removeFromCart)
}

func (h *CartHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	size, err := catalog.ParseSize(req.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID <= 0 || req.ProductID == "" || req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Carts.AddOrUpdate(ctx, req.UserID, req.ProductID, size, req.Quantity); err != nil {
		respondBusinessError(w, err)
		return
	}
	h.respondWithCart(ctx, w, req.UserID)
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	productID := chi.URLParam(r, "productID")

	var req updateCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	size, err := catalog.ParseSize(req.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Carts.UpdateQuantity(ctx, userID, productID, size, req.Quantity); err != nil {
		respondBusinessError(w, err)
		return
	}
	h.respondWithCart(ctx, w, userID)
}

func (h *CartHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	productID := chi.URLParam(r, "productID")
	size, err := catalog.ParseSize(r.URL.Query().Get("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Removal of an absent entry is a success: the end state is the same.
	if _, err := h.Carts.Remove(ctx, userID, productID, size); err != nil {
		respondBusinessError(w, err)
		return
	}
	h.respondWithCart(ctx, w, userID)
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyCartView, userID)
		if s, ok := redisx.GetJSON(ctx, h.Redis, key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}
	h.respondWithCart(ctx, w, userID)
}

// respondWithCart writes the fresh view and refreshes the cache, replacing
// whatever a prior mutation left there.
func (h *CartHandler) respondWithCart(ctx context.Context, w http.ResponseWriter, userID int64) {
	view, err := h.Carts.View(ctx, userID)
	if err != nil {
		respondBusinessError(w, err)
		return
	}
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyCartView, userID)
		b, _ := json.Marshal(view)
		_ = h.Redis.Set(ctx, key, b, redisx.TTLCartView).Err()
	}
	writeJSON(w, http.StatusOK, view)
}

func parseUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
}

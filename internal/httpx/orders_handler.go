package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/hassan3208/Rangista-Backend/internal/kafka"
	"github.com/hassan3208/Rangista-Backend/internal/orders"
	"github.com/hassan3208/Rangista-Backend/internal/redisx"
)

type OrdersHandler struct {
	Orders   OrderService
	Catalog  ProductCatalog
	Redis    *redis.Client
	Producer *kafkax.Producer
	Service  string
}

type createOrderReq struct {
	UserID    int64  `json:"user_id"`
	OrderTime string `json:"order_time"` // RFC 3339; empty means now
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders/from-cart", h.createOrderFromCart)
	r.Get("/orders", h.listAllOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Put("/orders/{id}/status", h.updateStatus)
	r.Get("/users/{userID}/orders", h.listUserOrders)
	r.Get("/products", h.listProducts)
}

func (h *OrdersHandler) createOrderFromCart(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "missing user_id")
		return
	}
	orderTime := time.Now().UTC()
	if req.OrderTime != "" {
		t, err := time.Parse(time.RFC3339, req.OrderTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid order_time")
			return
		}
		orderTime = t
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	views, err := h.Orders.CreateOrderFromCart(ctx, req.UserID, orderTime)
	if err != nil {
		respondBusinessError(w, err)
		return
	}

	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyCartView, req.UserID)).Err()
	}
	// Views come back oldest first; the commit we just made is the last one.
	if len(views) > 0 {
		h.publishOrderPlaced(views[len(views)-1], r.Header.Get("X-Request-Id"))
	}
	writeJSON(w, http.StatusCreated, views)
}

func (h *OrdersHandler) publishOrderPlaced(v orders.View, traceID string) {
	if h.Producer == nil {
		return
	}
	items := make([]orders.PlacedItem, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, orders.PlacedItem{ProductID: it.ProductID, Size: it.Size, Qty: it.Quantity})
	}
	ev := orders.Envelope{
		EventID:      uuid.NewString(),
		EventType:    orders.EventOrderPlaced,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     h.Service,
		TraceID:      traceID,
		Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
			OrderID:       v.OrderID,
			UserID:        v.UserID,
			Items:         items,
			TotalPrice:    v.TotalPrice,
			TotalProducts: v.TotalProducts,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(v.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderView, orderID)
	if h.Redis != nil {
		if s, ok := redisx.GetJSON(ctx, h.Redis, key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	view, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		respondBusinessError(w, err)
		return
	}
	if h.Redis != nil {
		b, _ := json.Marshal(view)
		_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderView).Err()
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := h.Orders.UpdateStatus(ctx, orderID, orders.Status(req.Status))
	if err != nil {
		respondBusinessError(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderView, orderID)).Err()
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *OrdersHandler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	views, err := h.Orders.ListUserOrders(ctx, userID)
	if err != nil {
		respondBusinessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *OrdersHandler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	views, err := h.Orders.ListAllOrders(ctx)
	if err != nil {
		respondBusinessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.ListProducts(ctx)
	if err != nil {
		respondBusinessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

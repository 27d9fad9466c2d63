package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hassan3208/Rangista-Backend/internal/cart"
	"github.com/hassan3208/Rangista-Backend/internal/catalog"
	"github.com/hassan3208/Rangista-Backend/internal/orders"
	"github.com/hassan3208/Rangista-Backend/internal/stock"
	"github.com/hassan3208/Rangista-Backend/internal/users"
)

// mockShop is an in-memory stand-in for the pgx-backed stores, with the same
// reservation semantics: cart quantities are already subtracted from stock.
type entryID struct {
	userID    int64
	productID string
	size      catalog.Size
}

type mockShop struct {
	mu      sync.Mutex
	stock   map[string]*[catalog.NumSizes]int
	prices  map[string]*[catalog.NumSizes]int
	entries map[entryID]int
	users   map[int64]bool
	orders  []orders.View
}

func newMockShop() *mockShop {
	return &mockShop{
		stock:   map[string]*[catalog.NumSizes]int{},
		prices:  map[string]*[catalog.NumSizes]int{},
		entries: map[entryID]int{},
		users:   map[int64]bool{},
	}
}

func (m *mockShop) addProduct(id string, price, qty int) {
	var prices, stocks [catalog.NumSizes]int
	for i := range stocks {
		prices[i] = price
		stocks[i] = qty
	}
	m.prices[id] = &prices
	m.stock[id] = &stocks
}

func (m *mockShop) reserve(productID string, size catalog.Size, qty int) error {
	s, ok := m.stock[productID]
	if !ok {
		return &catalog.ProductNotFoundError{ProductID: productID}
	}
	if s[size] < qty {
		return &stock.InsufficientStockError{ProductID: productID, Size: size, Requested: qty, Available: s[size]}
	}
	s[size] -= qty
	return nil
}

func (m *mockShop) AddOrUpdate(_ context.Context, userID int64, productID string, size catalog.Size, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := entryID{userID, productID, size}
	delta := qty - m.entries[key]
	if delta > 0 {
		if err := m.reserve(productID, size, delta); err != nil {
			return err
		}
	} else if delta < 0 {
		m.stock[productID][size] -= delta
	}
	m.entries[key] = qty
	return nil
}

func (m *mockShop) UpdateQuantity(ctx context.Context, userID int64, productID string, size catalog.Size, qty int) error {
	m.mu.Lock()
	_, exists := m.entries[entryID{userID, productID, size}]
	m.mu.Unlock()
	if !exists {
		return cart.ErrItemNotFound
	}
	return m.AddOrUpdate(ctx, userID, productID, size, qty)
}

func (m *mockShop) Remove(_ context.Context, userID int64, productID string, size catalog.Size) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := entryID{userID, productID, size}
	qty, exists := m.entries[key]
	if !exists {
		return false, nil
	}
	m.stock[productID][size] += qty
	delete(m.entries, key)
	return true, nil
}

func (m *mockShop) View(_ context.Context, userID int64) (cart.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := cart.View{Items: []cart.ViewItem{}}
	for key, qty := range m.entries {
		if key.userID != userID {
			continue
		}
		unit := m.prices[key.productID][key.size]
		v.Items = append(v.Items, cart.ViewItem{
			ProductID: key.productID, Size: key.size.String(), Quantity: qty,
			UnitPrice: unit, LinePrice: unit * qty,
		})
	}
	v.TotalProducts = len(v.Items)
	return v, nil
}

func (m *mockShop) CreateOrderFromCart(ctx context.Context, userID int64, orderTime time.Time) ([]orders.View, error) {
	if !m.users[userID] {
		return nil, users.ErrUserNotFound
	}
	view, _ := m.View(ctx, userID)
	if len(view.Items) == 0 {
		return nil, orders.ErrCartEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ov := orders.View{
		OrderID:   fmt.Sprintf("order-%d", len(m.orders)+1),
		UserID:    userID,
		Status:    orders.StatusPending,
		OrderTime: orderTime,
		Items:     []orders.ViewItem{},
	}
	for _, it := range view.Items {
		if _, ok := m.stock[it.ProductID]; !ok {
			return nil, &catalog.ProductNotFoundError{ProductID: it.ProductID}
		}
		ov.Items = append(ov.Items, orders.ViewItem{
			ProductID: it.ProductID, Size: it.Size, Quantity: it.Quantity, UnitPrice: it.UnitPrice,
		})
		ov.TotalPrice += it.LinePrice
	}
	ov.TotalProducts = len(ov.Items)
	for key := range m.entries {
		if key.userID == userID {
			delete(m.entries, key)
		}
	}
	m.orders = append(m.orders, ov)

	out := make([]orders.View, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockShop) GetOrder(_ context.Context, orderID string) (orders.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderID == orderID {
			return o, nil
		}
	}
	return orders.View{}, orders.ErrOrderNotFound
}

func (m *mockShop) ListUserOrders(_ context.Context, userID int64) ([]orders.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []orders.View{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockShop) ListAllOrders(_ context.Context) ([]orders.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]orders.View{}, m.orders...), nil
}

func (m *mockShop) UpdateStatus(_ context.Context, orderID string, to orders.Status) (orders.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.orders {
		if o.OrderID != orderID {
			continue
		}
		if !to.Valid() || !orders.CanTransition(o.Status, to) {
			return orders.View{}, orders.ErrInvalidTransition
		}
		m.orders[i].Status = to
		return m.orders[i], nil
	}
	return orders.View{}, orders.ErrOrderNotFound
}

func (m *mockShop) ListProducts(_ context.Context) ([]catalog.Product, error) {
	return nil, nil
}

func newTestServer(shop *mockShop) *httptest.Server {
	router := NewRouter()
	(&CartHandler{Carts: shop}).Register(router)
	(&OrdersHandler{Orders: shop, Catalog: shop, Service: "test"}).Register(router)
	return httptest.NewServer(router)
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestAddToCart_DefaultsQuantityToOne(t *testing.T) {
	shop := newMockShop()
	shop.addProduct("p1", 500, 5)
	srv := newTestServer(shop)
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart", map[string]any{
		"user_id": 1, "product_id": "p1", "size": "M",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var view cart.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.TotalProducts != 1 || view.Items[0].Quantity != 1 {
		t.Errorf("unexpected view: %+v", view)
	}
	if shop.stock["p1"][catalog.SizeM] != 4 {
		t.Errorf("stock = %d, want 4", shop.stock["p1"][catalog.SizeM])
	}
}

func TestAddToCart_InsufficientStockIsConflict(t *testing.T) {
	shop := newMockShop()
	shop.addProduct("p1", 500, 2)
	srv := newTestServer(shop)
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart", map[string]any{
		"user_id": 1, "product_id": "p1", "size": "L", "quantity": 3,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	if shop.stock["p1"][catalog.SizeL] != 2 {
		t.Errorf("stock mutated on rejection: %d", shop.stock["p1"][catalog.SizeL])
	}
}

func TestAddToCart_UnknownProductIsNotFound(t *testing.T) {
	shop := newMockShop()
	srv := newTestServer(shop)
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart", map[string]any{
		"user_id": 1, "product_id": "ghost", "size": "M", "quantity": 1,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAddToCart_BadSizeIsBadRequest(t *testing.T) {
	shop := newMockShop()
	shop.addProduct("p1", 500, 5)
	srv := newTestServer(shop)
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart", map[string]any{
		"user_id": 1, "product_id": "p1", "size": "HUGE", "quantity": 1,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateQuantity_MissingItemIsNotFound(t *testing.T) {
	shop := newMockShop()
	shop.addProduct("p1", 500, 5)
	srv := newTestServer(shop)
	defer srv.Close()

	resp := doJSON(t, http.MethodPut, srv.URL+"/cart/1/p1", map[string]any{
		"size": "M", "quantity": 2,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRemoveFromCart_Idempotent(t *testing.T) {
	shop := newMockShop()
	shop.addProduct("p1", 500, 5)
	srv := newTestServer(shop)
	defer srv.Close()

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodDelete, srv.URL+"/cart/1/p1?size=M", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("remove #%d: status = %d, want 200", i+1, resp.StatusCode)
		}
	}
}

func TestCreateOrderFromCart_EmptyCartIsBadRequest(t *testing.T) {
	shop := newMockShop()
	shop.users[1] = true
	srv := newTestServer(shop)
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/orders/from-cart", map[string]any{"user_id": 1})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateOrderFromCart_UnknownUserIsNotFound(t *testing.T) {
	shop := newMockShop()
	srv := newTestServer(shop)
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/orders/from-cart", map[string]any{"user_id": 42})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCartToOrderFlow(t *testing.T) {
	shop := newMockShop()
	shop.addProduct("p1", 500, 5)
	shop.users[1] = true
	srv := newTestServer(shop)
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart", map[string]any{
		"user_id": 1, "product_id": "p1", "size": "M", "quantity": 3,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/orders/from-cart", map[string]any{
		"user_id": 1, "order_time": time.Now().UTC().Format(time.RFC3339),
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("commit: status = %d, want 201", resp.StatusCode)
	}

	var views []orders.View
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 order, got %d", len(views))
	}
	if views[0].TotalPrice != 1500 || views[0].TotalProducts != 1 {
		t.Errorf("unexpected order view: %+v", views[0])
	}

	// commit never releases stock
	if shop.stock["p1"][catalog.SizeM] != 2 {
		t.Errorf("stock = %d, want 2", shop.stock["p1"][catalog.SizeM])
	}

	// cart is now empty
	getResp := doJSON(t, http.MethodGet, srv.URL+"/cart/1", nil)
	defer getResp.Body.Close()
	var view cart.View
	if err := json.NewDecoder(getResp.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.TotalProducts != 0 {
		t.Errorf("cart not cleared: %+v", view)
	}
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	shop := newMockShop()
	shop.addProduct("p1", 500, 5)
	shop.users[1] = true
	srv := newTestServer(shop)
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart", map[string]any{
		"user_id": 1, "product_id": "p1", "size": "S", "quantity": 1,
	})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, srv.URL+"/orders/from-cart", map[string]any{"user_id": 1})
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, srv.URL+"/orders/order-1/status", map[string]any{"status": "delivered"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/orders/order-1/status", map[string]any{"status": "confirmed"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

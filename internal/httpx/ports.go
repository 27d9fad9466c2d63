package httpx

import (
	"context"
	"time"

	"github.com/hassan3208/Rangista-Backend/internal/cart"
	"github.com/hassan3208/Rangista-Backend/internal/catalog"
	"github.com/hassan3208/Rangista-Backend/internal/orders"
)

// Handler dependencies as interfaces; the pgx-backed stores satisfy them.

type CartService interface {
	AddOrUpdate(ctx context.Context, userID int64, productID string, size catalog.Size, qty int) error
	UpdateQuantity(ctx context.Context, userID int64, productID string, size catalog.Size, qty int) error
	Remove(ctx context.Context, userID int64, productID string, size catalog.Size) (bool, error)
	View(ctx context.Context, userID int64) (cart.View, error)
}

type OrderService interface {
	CreateOrderFromCart(ctx context.Context, userID int64, orderTime time.Time) ([]orders.View, error)
	GetOrder(ctx context.Context, orderID string) (orders.View, error)
	ListUserOrders(ctx context.Context, userID int64) ([]orders.View, error)
	ListAllOrders(ctx context.Context) ([]orders.View, error)
	UpdateStatus(ctx context.Context, orderID string, to orders.Status) (orders.View, error)
}

type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
}

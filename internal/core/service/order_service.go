package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

type OrderService struct {
	orders   ports.OrderRepository
	carts    ports.CartRepository
	products ports.ProductRepository
	stock    ports.StockQueue
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, carts ports.CartRepository, products ports.ProductRepository, stock ports.StockQueue, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products, stock: stock, logger: logger}
}

// Checkout turns the user's cart into a pending order. Product name and
// price are snapshotted, stock decrements are queued and the cart is emptied.
// Lines whose product has been deleted are skipped.
func (s *OrderService) Checkout(ctx context.Context, userID, shippingAddress string) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          domain.OrderPending,
		ShippingAddress: strings.TrimSpace(shippingAddress),
		CreatedAt:       time.Now().UTC(),
	}
	for _, line := range cart.Lines {
		p, err := s.products.FindByID(ctx, line.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if line.Quantity > p.Stock {
			return nil, domain.ErrInsufficientStock
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:       p.ID,
			ProductName:     p.Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: p.Price,
		})
		order.TotalAmount += p.Price * float64(line.Quantity)
	}
	if len(order.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	for _, item := range order.Items {
		s.stock.Enqueue(ports.StockAdjustment{OrderID: order.ID, ProductID: item.ProductID, Delta: -item.Quantity})
	}

	cart.Clear()
	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("cart clear after checkout failed")
	}

	s.logger.Info().Str("order_id", order.ID).Str("user_id", userID).Float64("total", order.TotalAmount).Msg("order placed")
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	st, err := domain.ParseOrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if err != nil {
		return nil, err
	}
	return s.orders.UpdateStatus(ctx, orderID, st)
}

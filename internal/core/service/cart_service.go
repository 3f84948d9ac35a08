package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

type CartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewCartService(carts ports.CartRepository, products ports.ProductRepository, logger zerolog.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// View joins the cart with current product data. Lines whose product no
// longer exists are left out. ItemCount is the sum of quantities.
func (s *CartService) View(ctx context.Context, userID string) (*ports.CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ports.CartView{Items: make([]ports.CartLineView, 0, len(cart.Lines))}
	for _, line := range cart.Lines {
		p, err := s.products.FindByID(ctx, line.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		sub := p.Price * float64(line.Quantity)
		view.Items = append(view.Items, ports.CartLineView{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Subtotal:  sub,
		})
		view.TotalAmount += sub
		view.ItemCount += line.Quantity
	}
	return view, nil
}

// Add puts quantity units of a product in the cart, merging with an existing
// line. The resulting quantity may not exceed stock.
func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return err
	}
	if cart.Quantity(productID)+quantity > p.Stock {
		return domain.ErrInsufficientStock
	}
	cart.Add(productID, quantity)
	return s.save(ctx, cart)
}

// Update sets a line's quantity. Zero or less removes the line.
func (s *CartService) Update(ctx context.Context, userID, productID string, quantity int) error {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return err
	}
	if quantity > 0 {
		p, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if quantity > p.Stock {
			return domain.ErrInsufficientStock
		}
	}
	cart.Set(productID, quantity)
	return s.save(ctx, cart)
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) error {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return err
	}
	cart.Remove(productID)
	return s.save(ctx, cart)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return err
	}
	cart.Clear()
	return s.save(ctx, cart)
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("cart save failed")
		return err
	}
	return nil
}

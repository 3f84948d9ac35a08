// Package checkout turns a shipping form into an order and re-syncs the cart
// once the order is placed.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/client/apiclient"
	"github.com/aurawell/storefront/internal/client/cart"
)

// ErrEmptyCart is returned when checking out with nothing in the cart.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// Address is the shipping form. Every field is required.
type Address struct {
	FullName   string `validate:"required"`
	Phone      string `validate:"required"`
	Street     string `validate:"required"`
	City       string `validate:"required"`
	State      string `validate:"required"`
	PostalCode string `validate:"required"`
}

// String formats the address the way orders store it:
// "name, phone, street, city, state postcode".
func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s %s",
		strings.TrimSpace(a.FullName),
		strings.TrimSpace(a.Phone),
		strings.TrimSpace(a.Street),
		strings.TrimSpace(a.City),
		strings.TrimSpace(a.State),
		strings.TrimSpace(a.PostalCode),
	)
}

type OrderAPI interface {
	CreateOrder(ctx context.Context, shippingAddress string) (*apiclient.CreateOrderResponse, error)
}

// Cart is the part of the cart store checkout relies on.
type Cart interface {
	Snapshot() cart.Snapshot
	RefreshCart(ctx context.Context) error
}

type Service struct {
	orders   OrderAPI
	cart     Cart
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(orders OrderAPI, c Cart, log zerolog.Logger) *Service {
	return &Service{orders: orders, cart: c, validate: validator.New(), log: log}
}

// Validate checks that every address field is filled in.
func (s *Service) Validate(a Address) error {
	a = trimmed(a)
	if err := s.validate.Struct(a); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// PlaceOrder creates an order for the current cart, shipped to a. On success
// the cart is refreshed, which leaves it empty. A failed refresh is only
// logged.
func (s *Service) PlaceOrder(ctx context.Context, a Address) (*apiclient.CreateOrderResponse, error) {
	if s.cart.Snapshot().IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := s.Validate(a); err != nil {
		return nil, err
	}

	resp, err := s.orders.CreateOrder(ctx, a.String())
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = apiclient.DefaultErrorMessage
		}
		return nil, &apiclient.Error{Message: msg}
	}

	if err := s.cart.RefreshCart(ctx); err != nil {
		s.log.Warn().Err(err).Str("order_id", resp.OrderID).Msg("cart refresh after order failed")
	}
	s.log.Info().Str("order_id", resp.OrderID).Float64("total", resp.TotalAmount).Msg("order placed")
	return resp, nil
}

func trimmed(a Address) Address {
	return Address{
		FullName:   strings.TrimSpace(a.FullName),
		Phone:      strings.TrimSpace(a.Phone),
		Street:     strings.TrimSpace(a.Street),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
	}
}

var fieldNames = map[string]string{
	"FullName":   "full name",
	"Phone":      "phone",
	"Street":     "address",
	"City":       "city",
	"State":      "state",
	"PostalCode": "postal code",
}

func fieldError(fe validator.FieldError) string {
	name, ok := fieldNames[fe.Field()]
	if !ok {
		name = strings.ToLower(fe.Field())
	}
	if fe.Tag() == "required" {
		return name + " is required"
	}
	return fmt.Sprintf("%s failed validation (%s)", name, fe.Tag())
}

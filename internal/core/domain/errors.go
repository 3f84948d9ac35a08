package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("admin access required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")

	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")

	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageTooLarge = errors.New("image too large")
	ErrImageNotFound = errors.New("image not found")
)

package handler

import (
	"strings"

	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

// --- Request → domain ---

func toProduct(id string, req productRequest) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		AgeGroup:    req.AgeGroup,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
}

// --- Domain → response ---

func toUserResponse(u *domain.User) *userResponse {
	return &userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

func toProductResponse(p *domain.Product) *productResponse {
	return &productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		AgeGroup:    p.AgeGroup,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt.UnixMilli(),
	}
}

func toProductList(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, *toProductResponse(&products[i]))
	}
	return out
}

func toCartResponse(v *ports.CartView) cartResponse {
	items := make([]cartItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, cartItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Name:      it.Name,
			Price:     it.Price,
			ImageURL:  it.ImageURL,
			Subtotal:  it.Subtotal,
		})
	}
	return cartResponse{Items: items, TotalAmount: v.TotalAmount, ItemCount: v.ItemCount}
}

func toOrderResponse(o *domain.Order) *orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse(it))
	}
	return &orderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt.UnixMilli(),
	}
}

func toOrderList(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *toOrderResponse(&orders[i]))
	}
	return out
}

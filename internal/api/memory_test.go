package api

import (
	"context"
	"sort"
	"sync"

	"github.com/aurawell/storefront/internal/core/domain"
)

// In-memory repositories for router tests.

type memUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func (r *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[u.ID] = *u
	clone := *u
	return &clone, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type memProducts struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func (r *memProducts) List(_ context.Context, category string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Product{}
	for _, p := range r.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *memProducts) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *memProducts) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *memProducts) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProducts) AdjustStock(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Stock += delta
	r.products[id] = p
	return nil
}

func (r *memProducts) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func (r *memCarts) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.carts[userID]
	c.UserID = userID
	c.Lines = append([]domain.CartLine(nil), c.Lines...)
	return &c, nil
}

func (r *memCarts) Save(_ context.Context, c *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	clone.Lines = append([]domain.CartLine(nil), c.Lines...)
	r.carts[c.UserID] = clone
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (r *memOrders) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, *o)
	return nil
}

func (r *memOrders) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *memOrders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Order{}
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *memOrders) ListAll(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Order, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		out = append(out, r.orders[i])
	}
	return out, nil
}

func (r *memOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			o := r.orders[i]
			return &o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

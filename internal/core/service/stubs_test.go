package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type stubSessions struct {
	live map[string]time.Duration
}

func newStubSessions() *stubSessions {
	return &stubSessions{live: make(map[string]time.Duration)}
}

func (s *stubSessions) Save(_ context.Context, sess domain.Session, ttl time.Duration) error {
	s.live[sess.ID] = ttl
	return nil
}

func (s *stubSessions) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.live[id]
	return ok, nil
}

func (s *stubSessions) Delete(_ context.Context, id string) error {
	delete(s.live, id)
	return nil
}

type stubProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	lists    int
}

func newStubProductRepo(products ...domain.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[string]*domain.Product)}
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
	}
	return r
}

func (r *stubProductRepo) List(_ context.Context, category string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var out []domain.Product
	for _, p := range r.products {
		if category == "" || p.Category == category {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

type stubCache struct {
	lists       map[string][]domain.Product
	invalidated int
}

func newStubCache() *stubCache {
	return &stubCache{lists: make(map[string][]domain.Product)}
}

func (c *stubCache) GetList(_ context.Context, category string) ([]domain.Product, error) {
	l, ok := c.lists[category]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return l, nil
}

func (c *stubCache) SetList(_ context.Context, category string, products []domain.Product, _ time.Duration) error {
	c.lists[category] = products
	return nil
}

func (c *stubCache) Invalidate(context.Context) error {
	c.lists = make(map[string][]domain.Product)
	c.invalidated++
	return nil
}

type stubCartRepo struct {
	carts map[string]*domain.Cart
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *stubCartRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	c, ok := r.carts[userID]
	if !ok {
		return &domain.Cart{UserID: userID}, nil
	}
	clone := *c
	clone.Lines = append([]domain.CartLine(nil), c.Lines...)
	return &clone, nil
}

func (r *stubCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	clone := *cart
	clone.Lines = append([]domain.CartLine(nil), cart.Lines...)
	r.carts[cart.UserID] = &clone
	return nil
}

type stubOrderRepo struct {
	orders []domain.Order
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.orders = append(r.orders, *o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == id {
			o := r.orders[i]
			return &o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListAll(context.Context) ([]domain.Order, error) {
	return append([]domain.Order(nil), r.orders...), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			o := r.orders[i]
			return &o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

type stubImageStore struct {
	files map[string]string
}

func (s *stubImageStore) Save(_ context.Context, name string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.files[name] = string(b)
	return nil
}

func (s *stubImageStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	b, ok := s.files[name]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return io.NopCloser(strings.NewReader(b)), nil
}

// syncStock applies adjustments immediately.
type syncStock struct {
	products *stubProductRepo
}

func (q *syncStock) Enqueue(adj ports.StockAdjustment) {
	_ = q.products.AdjustStock(context.Background(), adj.ProductID, adj.Delta)
}

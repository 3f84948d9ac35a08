// Package cart keeps a local mirror of the server-side shopping cart.
//
// The Store never patches its snapshot locally. Every mutation is followed by
// a full refresh from the server, and every mutate-then-refresh pair runs on a
// serial queue, so refresh results land in the order they were requested.
// Identity changes published by the session store trigger exactly one refresh
// each; a refresh that started under a previous identity is discarded.
package cart

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/client/apiclient"
	"github.com/aurawell/storefront/internal/client/queue"
	"github.com/aurawell/storefront/internal/client/session"
)

// ErrInvalidQuantity is returned by UpdateQuantity for quantities below one.
// Decrementing to zero is a removal and must go through RemoveFromCart.
var ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

// API is the subset of the API client the Store needs.
type API interface {
	GetCart(ctx context.Context) (*apiclient.CartResponse, error)
	AddCartItem(ctx context.Context, productID string, quantity int) (*apiclient.MessageResponse, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) (*apiclient.MessageResponse, error)
	RemoveCartItem(ctx context.Context, productID string) (*apiclient.MessageResponse, error)
	ClearCart(ctx context.Context) (*apiclient.MessageResponse, error)
}

// Identity is what the Store needs to know about the session.
type Identity interface {
	IsAuthenticated() bool
	Subscribe(fn func(session.Event)) (unsubscribe func())
}

// Snapshot is the server's view of the cart at one point in time. The zero
// value is the empty cart.
type Snapshot struct {
	Items       []apiclient.CartItem
	TotalAmount float64
	ItemCount   int
}

// IsEmpty reports whether the snapshot holds no line items.
func (s Snapshot) IsEmpty() bool { return len(s.Items) == 0 }

// Item returns the line for productID, if present.
func (s Snapshot) Item(productID string) (apiclient.CartItem, bool) {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return apiclient.CartItem{}, false
}

func snapshotFrom(resp *apiclient.CartResponse) Snapshot {
	if resp == nil {
		return Snapshot{}
	}
	return Snapshot{
		Items:       append([]apiclient.CartItem(nil), resp.Items...),
		TotalAmount: resp.TotalAmount,
		ItemCount:   resp.ItemCount,
	}
}

// State is an immutable view of the Store handed to readers and subscribers.
type State struct {
	Snapshot Snapshot
	Loading  bool
	// Pending holds product ids with an in-flight quantity change or removal,
	// sorted.
	Pending []string
}

// IsPending reports whether productID has an in-flight mutation.
func (s State) IsPending(productID string) bool {
	i := sort.SearchStrings(s.Pending, productID)
	return i < len(s.Pending) && s.Pending[i] == productID
}

type Store struct {
	api      API
	identity Identity
	queue    *queue.Serial
	log      zerolog.Logger

	mu       sync.RWMutex
	snapshot Snapshot
	loading  bool
	pending  map[string]int
	// epoch advances on every identity transition.
	epoch uint64

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

func NewStore(api API, identity Identity, log zerolog.Logger) *Store {
	return &Store{
		api:      api,
		identity: identity,
		queue:    queue.NewSerial("cart", 0, log),
		log:      log,
		pending:  make(map[string]int),
		subs:     make(map[int]func(State)),
	}
}

// Start runs the Store's queue and subscribes it to identity changes until
// ctx is cancelled. It must be called before any other operation.
func (s *Store) Start(ctx context.Context) {
	s.queue.Start(ctx)
	unsubscribe := s.identity.Subscribe(s.onIdentity)
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
}

// AddToCart adds quantity units of productID. Quantities below one are sent
// as one.
func (s *Store) AddToCart(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return s.mutate(ctx, "", func(ctx context.Context) error {
		_, err := s.api.AddCartItem(ctx, productID, quantity)
		return err
	})
}

// UpdateQuantity sets the quantity of productID's line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return s.mutate(ctx, productID, func(ctx context.Context) error {
		_, err := s.api.UpdateCartItem(ctx, productID, quantity)
		return err
	})
}

func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	return s.mutate(ctx, productID, func(ctx context.Context) error {
		_, err := s.api.RemoveCartItem(ctx, productID)
		return err
	})
}

func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, "", func(ctx context.Context) error {
		_, err := s.api.ClearCart(ctx)
		return err
	})
}

// RefreshCart replaces the snapshot with the server's cart. Without an
// identity it empties the snapshot and sends no request.
func (s *Store) RefreshCart(ctx context.Context) error {
	return s.queue.Do(ctx, s.refresh)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) Snapshot() Snapshot { return s.State().Snapshot }

func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.ItemCount
}

func (s *Store) TotalAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.TotalAmount
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// mutate runs op followed by a refresh as one queued job. The refresh always
// runs, detached from ctx's cancellation, and its error is only logged.
// A non-empty productID is marked pending for the duration.
func (s *Store) mutate(ctx context.Context, productID string, op func(context.Context) error) error {
	release := s.hold(productID)
	var started atomic.Bool

	err := s.queue.Do(ctx, func(ctx context.Context) error {
		started.Store(true)
		defer release()

		opErr := op(ctx)
		if err := s.refresh(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn().Err(err).Str("product_id", productID).Msg("refresh after mutation failed")
		}
		return opErr
	})
	if err != nil && !started.Load() {
		release()
	}
	return err
}

func (s *Store) refresh(ctx context.Context) error {
	s.mu.Lock()
	epoch := s.epoch
	if !s.identity.IsAuthenticated() {
		changed := !s.snapshot.IsEmpty() || s.snapshot.TotalAmount != 0 || s.snapshot.ItemCount != 0
		s.snapshot = Snapshot{}
		s.mu.Unlock()
		if changed {
			s.emit()
		}
		return nil
	}
	s.loading = true
	s.mu.Unlock()
	s.emit()

	resp, err := s.api.GetCart(ctx)

	s.mu.Lock()
	s.loading = false
	switch {
	case err != nil:
	case epoch != s.epoch:
		s.log.Debug().Msg("discarding cart fetched under a previous identity")
	default:
		s.snapshot = snapshotFrom(resp)
	}
	s.mu.Unlock()
	s.emit()
	return err
}

func (s *Store) onIdentity(ev session.Event) {
	s.mu.Lock()
	s.epoch++
	if ev.Identity == nil {
		s.snapshot = Snapshot{}
	}
	s.mu.Unlock()
	s.emit()

	err := s.queue.Submit(func(ctx context.Context) error {
		if err := s.refresh(ctx); err != nil {
			s.log.Warn().Err(err).Str("cause", string(ev.Cause)).Msg("refresh after identity change failed")
		}
		return nil
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("identity refresh not scheduled")
	}
}

// hold marks productID pending and returns an idempotent release func.
func (s *Store) hold(productID string) func() {
	if productID == "" {
		return func() {}
	}
	s.mu.Lock()
	s.pending[productID]++
	s.mu.Unlock()
	s.emit()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.pending[productID] <= 1 {
				delete(s.pending, productID)
			} else {
				s.pending[productID]--
			}
			s.mu.Unlock()
			s.emit()
		})
	}
}

func (s *Store) stateLocked() State {
	pending := make([]string, 0, len(s.pending))
	for id := range s.pending {
		pending = append(pending, id)
	}
	sort.Strings(pending)

	snap := s.snapshot
	snap.Items = append([]apiclient.CartItem(nil), s.snapshot.Items...)
	return State{Snapshot: snap, Loading: s.loading, Pending: pending}
}

func (s *Store) emit() {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	if len(fns) == 0 {
		return
	}

	st := s.State()
	for _, fn := range fns {
		fn(st)
	}
}

package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	applyTimeout   = 10 * time.Second
)

// StockAdjuster applies one stock change.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, productID string, delta int) error
}

// Dispatcher routes stock adjustments to a fixed set of workers using
// consistent hashing on the product id, so adjustments to one product are
// applied in the order they were queued.
//
// Workers run until Close. Adjustments enqueued after Close are applied on the
// caller's goroutine, so a checkout that finishes while the server is shutting
// down never loses its stock decrement.
type Dispatcher struct {
	workers []chan ports.StockAdjustment
	stock   StockAdjuster
	log     zerolog.Logger

	base   context.Context
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, stock StockAdjuster, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.StockAdjustment, numWorkers),
		stock:   stock,
		log:     log,
		base:    context.Background(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.StockAdjustment, channelBuffer)
	}
	return d
}

// Start launches the workers. Only the values of ctx are used: cancelling it
// does not stop the workers, Close does.
func (d *Dispatcher) Start(ctx context.Context) {
	d.base = context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Enqueue sends adj to the worker responsible for its product. It blocks
// only when that worker's buffer is full. After Close it applies adj inline.
func (d *Dispatcher) Enqueue(adj ports.StockAdjustment) {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		d.apply(-1, adj)
		return
	}
	d.workers[d.shardIndex(adj.ProductID)] <- adj
	d.mu.RUnlock()
}

// Close stops accepting queued work and blocks until every worker has applied
// what was already buffered. It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) shardIndex(productID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(productID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan ports.StockAdjustment) {
	defer d.wg.Done()
	for adj := range ch {
		d.apply(id, adj)
	}
	d.log.Debug().Int("worker_id", id).Msg("stock worker stopped")
}

func (d *Dispatcher) apply(id int, adj ports.StockAdjustment) {
	ctx, cancel := context.WithTimeout(d.base, applyTimeout)
	defer cancel()

	if err := d.stock.AdjustStock(ctx, adj.ProductID, adj.Delta); err != nil {
		d.log.Error().Err(err).
			Str("order_id", adj.OrderID).
			Str("product_id", adj.ProductID).
			Int("delta", adj.Delta).
			Int("worker_id", id).
			Msg("stock adjustment failed")
	}
}

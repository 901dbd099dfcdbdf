package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/example/guitar-shop/internal/infrastructure/store"
	"go.uber.org/zap"
)

// StorageKey is the durable key holding the serialized line list
const StorageKey = "cartItems"

var (
	ErrInvalidProduct = errors.New("product id is required")
	ErrInvalidPrice   = errors.New("unit price must not be negative")
)

// EventPublisher publishes cart activity. Satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, aggregateID, aggregateType, eventType string, data any) error
}

type subscriber struct {
	id int
	fn func(Totals)
}

// Store holds the cart lines and their totals. Every mutation recomputes the
// totals, notifies subscribers and persists the lines.
//
// Store is safe for concurrent use. Subscribers are called in mutation order
// and may read the cart but must not mutate it or subscribe from inside the
// callback.
type Store struct {
	id        string
	storage   store.Storage
	publisher EventPublisher
	log       *zap.Logger

	// pubMu serializes mutations with their notification and persistence
	pubMu sync.Mutex

	mu     sync.RWMutex
	lines  []CartLine
	totals Totals

	subMu       sync.Mutex
	subscribers []subscriber
	nextSubID   int
}

// NewStore restores the cart saved in storage, if any, and computes its
// totals. publisher may be nil.
func NewStore(ctx context.Context, cartID string, storage store.Storage, publisher EventPublisher, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		id:        cartID,
		storage:   storage,
		publisher: publisher,
		log:       log.With(zap.String("cart_id", cartID)),
		lines:     []CartLine{},
	}
	s.lines = s.restore(ctx)
	s.ComputeTotals(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) []CartLine {
	data, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		s.log.Warn("failed to read saved cart, starting empty", zap.Error(err))
		return []CartLine{}
	}
	if !ok {
		return []CartLine{}
	}

	var saved []CartLine
	if err := json.Unmarshal(data, &saved); err != nil {
		s.log.Warn("saved cart is malformed, starting empty", zap.Error(err))
		return []CartLine{}
	}

	lines := make([]CartLine, 0, len(saved))
	seen := make(map[string]bool, len(saved))
	for _, line := range saved {
		if line.ID == "" || line.Quantity <= 0 || line.UnitPrice.IsNegative() || seen[line.ID] {
			s.log.Warn("dropping invalid saved cart line", zap.String("product_id", line.ID), zap.Int("quantity", line.Quantity))
			continue
		}
		seen[line.ID] = true
		lines = append(lines, line)
	}
	return lines
}

// AddToCart increments the quantity of the line with the same product id,
// or appends line with quantity 1.
func (s *Store) AddToCart(ctx context.Context, line CartLine) error {
	if line.ID == "" {
		return ErrInvalidProduct
	}
	if line.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	s.mutate(ctx, func(lines []CartLine) []CartLine {
		if i := indexOf(lines, line.ID); i >= 0 {
			lines[i].Quantity++
			return lines
		}
		line.Quantity = 1
		return append(lines, line)
	})
	return nil
}

// DecrementQuantity decrements the line's quantity, removing it at zero.
// Unknown ids leave the cart unchanged.
func (s *Store) DecrementQuantity(ctx context.Context, productID string) {
	s.mutate(ctx, func(lines []CartLine) []CartLine {
		i := indexOf(lines, productID)
		if i < 0 {
			return lines
		}
		lines[i].Quantity--
		if lines[i].Quantity <= 0 {
			return append(lines[:i], lines[i+1:]...)
		}
		return lines
	})
}

// Remove deletes the line for productID if present
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mutate(ctx, func(lines []CartLine) []CartLine {
		if i := indexOf(lines, productID); i >= 0 {
			return append(lines[:i], lines[i+1:]...)
		}
		return lines
	})
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, func([]CartLine) []CartLine {
		return []CartLine{}
	})
}

// ComputeTotals recomputes the totals from the current lines, publishes them
// to subscribers and persists the lines.
func (s *Store) ComputeTotals(ctx context.Context) {
	s.mutate(ctx, func(lines []CartLine) []CartLine { return lines })
}

func (s *Store) mutate(ctx context.Context, apply func([]CartLine) []CartLine) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.lines = apply(s.lines)
	s.totals = computeTotals(s.lines)
	lines := copyLines(s.lines)
	totals := s.totals
	s.mu.Unlock()

	s.notify(totals)
	s.persist(ctx, lines)
	s.logContents(lines, totals)
	s.publish(ctx, lines, totals)
}

func (s *Store) notify(totals Totals) {
	s.subMu.Lock()
	subs := append([]subscriber(nil), s.subscribers...)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(totals)
	}
}

func (s *Store) persist(ctx context.Context, lines []CartLine) {
	data, err := json.Marshal(lines)
	if err != nil {
		s.log.Warn("failed to encode cart", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		s.log.Warn("failed to save cart", zap.Error(err))
	}
}

func (s *Store) logContents(lines []CartLine, totals Totals) {
	if ce := s.log.Check(zap.DebugLevel, "cart contents"); ce != nil {
		fields := make([]zap.Field, 0, len(lines)+2)
		for _, line := range lines {
			fields = append(fields, zap.Dict(line.ID,
				zap.String("name", line.Name),
				zap.Int("quantity", line.Quantity),
				zap.String("unit_price", line.UnitPrice.StringFixed(2)),
				zap.String("subtotal", line.Subtotal().StringFixed(2)),
			))
		}
		fields = append(fields,
			zap.String("total_price", totals.TotalPrice.StringFixed(2)),
			zap.Int("total_quantity", totals.TotalQuantity),
		)
		ce.Write(fields...)
	}
}

func (s *Store) publish(ctx context.Context, lines []CartLine, totals Totals) {
	if s.publisher == nil {
		return
	}
	event := CartUpdated{
		CartID:    s.id,
		Lines:     lines,
		Totals:    totals,
		UpdatedAt: time.Now(),
	}
	if err := s.publisher.PublishEvent(ctx, s.id, AggregateType, EventCartUpdated, event); err != nil {
		s.log.Warn("failed to publish cart event", zap.Error(err))
	}
}

// Subscribe registers fn to receive totals after every recomputation. fn is
// called immediately with the current totals. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Totals)) func() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.subMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	fn(s.Totals())

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Lines returns a copy of the current lines in insertion order
func (s *Store) Lines() []CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLines(s.lines)
}

func (s *Store) Totals() Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals
}

func indexOf(lines []CartLine, productID string) int {
	for i, line := range lines {
		if line.ID == productID {
			return i
		}
	}
	return -1
}

func copyLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/models"
	"github.com/karelbyte/redfox-pos/internal/storage"
)

// Subscriber receives a copy of the cart snapshot after every committed
// mutation. Callbacks run synchronously inside the mutation; they must not
// call back into the store.
type Subscriber func(models.CartSnapshot)

// Store is the single authoritative representation of the order currently
// being built. Every mutation runs in three strict steps: update memory,
// persist the full snapshot, notify subscribers. A subscriber never sees a
// state that was not first handed to the storage adapter.
type Store struct {
	mu      sync.Mutex
	lines   map[string]*models.CartLine
	order   []string // productRefs in insertion order
	client  string
	subs    map[int]Subscriber
	nextSub int
	adapter storage.Adapter
	log     *zap.Logger
}

// NewStore builds a store and rehydrates the persisted snapshot. A missing
// or corrupt snapshot is logged and treated as an empty cart; a corrupt
// blob is erased, never partially applied.
func NewStore(ctx context.Context, adapter storage.Adapter, log *zap.Logger) *Store {
	s := &Store{
		lines:   make(map[string]*models.CartLine),
		subs:    make(map[int]Subscriber),
		adapter: adapter,
		log:     log,
	}
	s.rehydrate(ctx)
	return s
}

func (s *Store) rehydrate(ctx context.Context) {
	blob, err := s.adapter.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Warn("cart snapshot load failed, starting empty", zap.Error(err))
		return
	}

	var snap models.CartSnapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		s.log.Warn("cart snapshot corrupted, discarding", zap.Error(err))
		if clearErr := s.adapter.Clear(ctx); clearErr != nil {
			s.log.Warn("could not erase corrupted snapshot", zap.Error(clearErr))
		}
		return
	}

	for _, line := range snap.Lines {
		if line.ProductRef == "" || !line.Quantity.IsPositive() {
			continue
		}
		l := line
		// subtotal is never trusted from disk
		l.Subtotal = l.Quantity.Mul(l.Price)
		s.lines[l.ProductRef] = &l
		s.order = append(s.order, l.ProductRef)
	}
	s.client = snap.SelectedClientRef
}

// Subscribe registers fn and returns a function that removes it. fn is
// called immediately with the current state so late subscribers converge.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	snap := s.snapshotLocked()
	s.mu.Unlock()

	fn(snap)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// AddLine inserts the product or, if already present, increments its
// quantity and overwrites its price with the supplied one.
func (s *Store) AddLine(ctx context.Context, productRef string, quantity, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.lines[productRef]; ok {
		line.Quantity = line.Quantity.Add(quantity)
		line.Price = price
		line.Subtotal = line.Quantity.Mul(line.Price)
	} else {
		s.lines[productRef] = &models.CartLine{
			ProductRef: productRef,
			Quantity:   quantity,
			Price:      price,
			Subtotal:   quantity.Mul(price),
		}
		s.order = append(s.order, productRef)
	}
	if line := s.lines[productRef]; !line.Quantity.IsPositive() {
		s.removeLocked(productRef)
	}
	s.commitLocked(ctx)
}

// UpdateQuantity sets the line quantity. Zero or negative removes the line
// entirely; a non-positive quantity must never survive as a record.
func (s *Store) UpdateQuantity(ctx context.Context, productRef string, quantity decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[productRef]
	if !ok {
		return
	}
	if !quantity.IsPositive() {
		s.removeLocked(productRef)
	} else {
		line.Quantity = quantity
		line.Subtotal = line.Quantity.Mul(line.Price)
	}
	s.commitLocked(ctx)
}

// UpdatePrice overwrites the unit price and recomputes the subtotal.
func (s *Store) UpdatePrice(ctx context.Context, productRef string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[productRef]
	if !ok {
		return
	}
	line.Price = price
	line.Subtotal = line.Quantity.Mul(line.Price)
	s.commitLocked(ctx)
}

// RemoveLine deletes the product from the cart.
func (s *Store) RemoveLine(ctx context.Context, productRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[productRef]; !ok {
		return
	}
	s.removeLocked(productRef)
	s.commitLocked(ctx)
}

// Clear empties the in-memory state and erases the persisted snapshot. A
// successful checkout and an explicit cancel both land here and are
// indistinguishable to the store.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = make(map[string]*models.CartLine)
	s.order = nil
	s.client = ""
	if err := s.adapter.Clear(ctx); err != nil {
		s.log.Error("cart snapshot erase failed", zap.Error(err))
	}
	s.notifyLocked()
}

// SetSelectedClient records the client the order will be billed to.
func (s *Store) SetSelectedClient(ctx context.Context, clientRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.client = clientRef
	s.commitLocked(ctx)
}

func (s *Store) SelectedClient() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// Lines returns the surviving cart lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linesLocked()
}

// Snapshot returns a copy of the full observable state.
func (s *Store) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Total is the sum of line subtotals, recomputed from quantity and price on
// every call.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, ref := range s.order {
		line := s.lines[ref]
		total = total.Add(line.Quantity.Mul(line.Price))
	}
	return total
}

// TotalQuantity is the sum of quantities over all lines.
func (s *Store) TotalQuantity() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, ref := range s.order {
		total = total.Add(s.lines[ref].Quantity)
	}
	return total
}

// ==================================================================
// internal, caller holds s.mu
// ==================================================================

func (s *Store) removeLocked(productRef string) {
	delete(s.lines, productRef)
	for i, ref := range s.order {
		if ref == productRef {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) linesLocked() []models.CartLine {
	out := make([]models.CartLine, 0, len(s.order))
	for _, ref := range s.order {
		out = append(out, *s.lines[ref])
	}
	return out
}

func (s *Store) snapshotLocked() models.CartSnapshot {
	return models.CartSnapshot{
		Lines:             s.linesLocked(),
		SelectedClientRef: s.client,
	}
}

// commitLocked persists the full snapshot, then notifies. A persistence
// failure is logged and the in-memory state stands; it never reaches the
// caller.
func (s *Store) commitLocked(ctx context.Context) {
	snap := s.snapshotLocked()
	blob, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("cart snapshot marshal failed", zap.Error(err))
	} else if err := s.adapter.Save(ctx, blob); err != nil {
		s.log.Error("cart snapshot save failed", zap.Error(err))
	}
	s.notifyLocked()
}

func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for _, fn := range s.subs {
		fn(snap)
	}
}

package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/karelbyte/redfox-pos/internal/cart"
	"github.com/karelbyte/redfox-pos/internal/models"
)

// CartService fronts the cart store for the terminal UI. Numeric input
// arrives as strings from the frontend; prices are coerced to 0 when not
// numeric, quantities must be valid.
type CartService struct {
	store *cart.Store
	log   *zap.Logger
}

func NewCartService(store *cart.Store, log *zap.Logger) *CartService {
	return &CartService{store: store, log: log}
}

// AddLine adds the product. Quantity defaults to 1 when empty and must be
// positive; the price is coerced defensively.
func (s *CartService) AddLine(ctx context.Context, productRef, quantity, price string) (models.CartSnapshot, error) {
	if productRef == "" {
		return models.CartSnapshot{}, fmt.Errorf("missing product ref")
	}

	qty := decimal.NewFromInt(1)
	if quantity != "" {
		parsed, err := decimal.NewFromString(quantity)
		if err != nil || !parsed.IsPositive() {
			return models.CartSnapshot{}, fmt.Errorf("quantity must be a positive number")
		}
		qty = parsed
	}

	s.store.AddLine(ctx, productRef, qty, coerceAmount(price))
	return s.store.Snapshot(), nil
}

// UpdateQuantity sets the quantity; zero or negative removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, productRef, quantity string) (models.CartSnapshot, error) {
	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return models.CartSnapshot{}, fmt.Errorf("quantity must be a number")
	}
	s.store.UpdateQuantity(ctx, productRef, qty)
	return s.store.Snapshot(), nil
}

// UpdatePrice overwrites the unit price; non-numeric input becomes 0.
func (s *CartService) UpdatePrice(ctx context.Context, productRef, price string) (models.CartSnapshot, error) {
	s.store.UpdatePrice(ctx, productRef, coerceAmount(price))
	return s.store.Snapshot(), nil
}

func (s *CartService) RemoveLine(ctx context.Context, productRef string) models.CartSnapshot {
	s.store.RemoveLine(ctx, productRef)
	return s.store.Snapshot()
}

func (s *CartService) Clear(ctx context.Context) {
	s.store.Clear(ctx)
}

func (s *CartService) SetSelectedClient(ctx context.Context, clientRef string) models.CartSnapshot {
	s.store.SetSelectedClient(ctx, clientRef)
	return s.store.Snapshot()
}

func (s *CartService) Snapshot() models.CartSnapshot {
	return s.store.Snapshot()
}

func (s *CartService) Total() decimal.Decimal {
	return s.store.Total()
}

func (s *CartService) TotalQuantity() decimal.Decimal {
	return s.store.TotalQuantity()
}

// coerceAmount parses a money string, falling back to 0 on garbage. The
// legacy frontend sometimes sends empty or non-numeric prices; they must
// degrade, not fail the mutation.
func coerceAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

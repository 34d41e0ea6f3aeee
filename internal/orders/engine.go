package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/artisan-market/internal/apperr"
	"github.com/ariefcatur/artisan-market/internal/money"
)

var (
	ErrInvalidQuantity       = errors.New("quantity must be a positive integer")
	ErrInvalidPrice          = errors.New("price must be non-negative with at most 2 decimal places")
	ErrTotalMismatch         = errors.New("total_amount does not match sum of items")
	ErrProductNotFound       = errors.New("product not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrOrderNotFound         = errors.New("order not found")
)

// Store is the persistence port for the engine. CreateOrder must be
// all-or-nothing: lock every product in demand, re-check inventory under
// the lock, then write order + items + decrements in one transaction.
type Store interface {
	CreateOrder(ctx context.Context, buyerID string, items []LineInput, total decimal.Decimal, demand map[string]int) (*Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, next Status) (*Order, error)
}

// Engine validates an order request against a fully resolved view of all
// line items before any mutation starts, then hands the commit to the
// store as a single transaction.
type Engine struct {
	Store Store
}

// PlaceOrder runs the §4-style pipeline: quantities, prices, declared
// total, then product existence and stock inside the store transaction.
func (e *Engine) PlaceOrder(ctx context.Context, buyerID string, items []LineInput, declaredTotal decimal.Decimal) (*Order, error) {
	if len(items) == 0 {
		return nil, apperr.Wrap(apperr.KindValidation, fmt.Errorf("%w: order has no items", ErrInvalidQuantity))
	}
	for i, it := range items {
		if uuid.Validate(it.ProductID) != nil {
			return nil, apperr.Wrap(apperr.KindValidation,
				fmt.Errorf("item %d: invalid product id %q", i, it.ProductID)).
				WithFields(map[string]any{"item": i, "product": it.ProductID})
		}
		if it.Quantity <= 0 {
			return nil, apperr.Wrap(apperr.KindValidation,
				fmt.Errorf("%w: item %d", ErrInvalidQuantity, i)).
				WithFields(map[string]any{"item": i, "quantity": it.Quantity})
		}
	}
	for i, it := range items {
		if err := money.ValidateAmount(it.Price); err != nil {
			return nil, apperr.Wrap(apperr.KindValidation,
				fmt.Errorf("%w: item %d: %v", ErrInvalidPrice, i, err)).
				WithFields(map[string]any{"item": i, "price": it.Price.String()})
		}
	}

	computed := decimal.Zero
	for _, it := range items {
		computed = computed.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	// Exact decimal equality, no tolerance.
	if !computed.Equal(declaredTotal) {
		return nil, apperr.Wrap(apperr.KindBusinessRule, ErrTotalMismatch).
			WithFields(map[string]any{
				"declared": declaredTotal.String(),
				"computed": computed.String(),
			})
	}

	// Aggregate demand per product so repeated references to the same
	// product are checked against stock as one combined quantity.
	demand := make(map[string]int, len(items))
	for _, it := range items {
		demand[it.ProductID] += it.Quantity
	}

	return e.Store.CreateOrder(ctx, buyerID, items, declaredTotal, demand)
}

func (e *Engine) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	return e.Store.OrdersByUser(ctx, userID)
}

// SetStatus applies an external (admin) status transition.
func (e *Engine) SetStatus(ctx context.Context, orderID string, next Status) (*Order, error) {
	if !ValidStatus(next) {
		return nil, apperr.Wrap(apperr.KindValidation, fmt.Errorf("unknown status %q", next))
	}
	return e.Store.UpdateStatus(ctx, orderID, next)
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-commerce/meridian/internal/metrics"
	"github.com/meridian-commerce/meridian/internal/store"
	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

// CartClient is the slice of the storefront API the cart service uses.
type CartClient interface {
	GetCart(ctx context.Context) (*storeapi.Cart, error)
	AddCartItem(ctx context.Context, in storeapi.AddCartItemInput) error
	UpdateCartItem(ctx context.Context, in storeapi.UpdateCartItemInput) error
	RemoveCartItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context) error
}

// CartService keeps the server cart synchronized. Mutations are sent to
// the backend and, on success, followed by a re-fetch; the store is
// only ever committed with what the server confirmed, so the backend's
// line-merging rules (same product, color, and storage collapse into
// one line) are reflected verbatim.
type CartService struct {
	client  CartClient
	cart    *store.Synced[storeapi.Cart]
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCartService creates a CartService with an empty store.
func NewCartService(client CartClient, logger *slog.Logger, m *metrics.Metrics) *CartService {
	return &CartService{
		client:  client,
		cart:    store.NewSynced[storeapi.Cart](),
		logger:  logger,
		metrics: m,
	}
}

// Snapshot returns the current cart view.
func (s *CartService) Snapshot() store.Snapshot[storeapi.Cart] {
	return s.cart.Snapshot()
}

// Subscribe registers a listener for cart snapshots.
func (s *CartService) Subscribe() (<-chan store.Snapshot[storeapi.Cart], func()) {
	return s.cart.Subscribe()
}

// Refresh fetches the cart from the backend. On failure the last
// committed cart is kept and the error is both recorded in the store
// and returned.
func (s *CartService) Refresh(ctx context.Context) error {
	token, err := s.cart.BeginRefresh()
	if err != nil {
		return err
	}
	start := time.Now()
	cart, err := s.client.GetCart(ctx)
	s.metrics.ObserveRefresh("cart", time.Since(start), err)
	if err != nil {
		s.logger.Warn("cart refresh failed", "error", err)
		s.cart.Fail(token, err)
		return err
	}
	if !s.cart.Commit(token, *cart) {
		s.metrics.ObserveStaleDrop("cart")
	}
	return nil
}

// AddItem adds a product line to the cart and re-syncs.
func (s *CartService) AddItem(ctx context.Context, in storeapi.AddCartItemInput) error {
	return s.mutate(ctx, "add_item", func(ctx context.Context) error {
		return s.client.AddCartItem(ctx, in)
	})
}

// UpdateItem changes a line's quantity and re-syncs. A quantity of zero or
// less removes the line instead.
func (s *CartService) UpdateItem(ctx context.Context, in storeapi.UpdateCartItemInput) error {
	if in.Quantity <= 0 {
		return s.RemoveItem(ctx, in.ItemID)
	}
	return s.mutate(ctx, "update_item", func(ctx context.Context) error {
		return s.client.UpdateCartItem(ctx, in)
	})
}

// RemoveItem deletes a cart line and re-syncs.
func (s *CartService) RemoveItem(ctx context.Context, itemID int64) error {
	return s.mutate(ctx, "remove_item", func(ctx context.Context) error {
		return s.client.RemoveCartItem(ctx, itemID)
	})
}

// Clear empties the cart and re-syncs.
func (s *CartService) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", func(ctx context.Context) error {
		return s.client.ClearCart(ctx)
	})
}

// mutate runs op and, on success, re-fetches the cart under the same
// token so that an older in-flight response cannot overwrite the
// confirmed result. On failure the store keeps its last committed cart
// and records the error.
func (s *CartService) mutate(ctx context.Context, op string, call func(context.Context) error) error {
	token, err := s.cart.BeginMutation()
	if err != nil {
		return err
	}
	start := time.Now()
	err = call(ctx)
	if err == nil {
		var cart *storeapi.Cart
		cart, err = s.client.GetCart(ctx)
		if err == nil {
			if !s.cart.Commit(token, *cart) {
				s.metrics.ObserveStaleDrop("cart")
			}
		}
	}
	s.metrics.ObserveMutation("cart", op, time.Since(start), err)
	if err != nil {
		s.logger.Warn("cart mutation failed", "op", op, "error", err)
		s.cart.Fail(token, err)
		return err
	}
	return nil
}

// Reset drops the cart back to its pre-login state.
func (s *CartService) Reset() { s.cart.Reset() }

// Close releases the store.
func (s *CartService) Close() { s.cart.Close() }

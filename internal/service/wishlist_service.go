package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/meridian-commerce/meridian/internal/metrics"
	"github.com/meridian-commerce/meridian/internal/store"
	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

// WishlistClient is the slice of the storefront API the wishlist
// service uses.
type WishlistClient interface {
	GetWishlist(ctx context.Context) (*storeapi.Wishlist, error)
	ToggleWishlistItem(ctx context.Context, productID int64) (*storeapi.WishlistMutation, error)
	ClearWishlist(ctx context.Context) error
}

// WishlistService keeps the server wishlist synchronized. Membership is
// decided by the backend: Toggle sends the product and commits whatever
// the follow-up fetch returns, so the local set never diverges from the
// server's answer.
type WishlistService struct {
	client   WishlistClient
	wishlist *store.Synced[storeapi.Wishlist]
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewWishlistService creates a WishlistService with an empty store.
func NewWishlistService(client WishlistClient, logger *slog.Logger, m *metrics.Metrics) *WishlistService {
	return &WishlistService{
		client:   client,
		wishlist: store.NewSynced[storeapi.Wishlist](),
		logger:   logger,
		metrics:  m,
	}
}

// Snapshot returns the current wishlist view.
func (s *WishlistService) Snapshot() store.Snapshot[storeapi.Wishlist] {
	return s.wishlist.Snapshot()
}

// Subscribe registers a listener for wishlist snapshots.
func (s *WishlistService) Subscribe() (<-chan store.Snapshot[storeapi.Wishlist], func()) {
	return s.wishlist.Subscribe()
}

// Contains reports membership against the last committed wishlist.
func (s *WishlistService) Contains(productID int64) bool {
	snap := s.wishlist.Snapshot()
	if snap.State != store.Ready {
		return false
	}
	return snap.Data.Contains(productID)
}

// Refresh fetches the wishlist from the backend.
func (s *WishlistService) Refresh(ctx context.Context) error {
	token, err := s.wishlist.BeginRefresh()
	if err != nil {
		return err
	}
	start := time.Now()
	wl, err := s.client.GetWishlist(ctx)
	s.metrics.ObserveRefresh("wishlist", time.Since(start), err)
	if err != nil {
		s.logger.Warn("wishlist refresh failed", "error", err)
		s.wishlist.Fail(token, err)
		return err
	}
	if !s.wishlist.Commit(token, *wl) {
		s.metrics.ObserveStaleDrop("wishlist")
	}
	return nil
}

// Toggle flips a product's membership and returns the action the
// backend took. The store is re-synced from the server, so toggling the
// same product twice always lands back where it started.
func (s *WishlistService) Toggle(ctx context.Context, productID int64) (storeapi.WishlistAction, error) {
	token, err := s.wishlist.BeginMutation()
	if err != nil {
		return "", err
	}
	start := time.Now()
	mut, err := s.client.ToggleWishlistItem(ctx, productID)
	if err == nil {
		var wl *storeapi.Wishlist
		wl, err = s.client.GetWishlist(ctx)
		if err == nil {
			if !s.wishlist.Commit(token, *wl) {
				s.metrics.ObserveStaleDrop("wishlist")
			}
		}
	}
	s.metrics.ObserveMutation("wishlist", "toggle", time.Since(start), err)
	if err != nil {
		s.logger.Warn("wishlist toggle failed", "product_id", productID, "error", err)
		s.wishlist.Fail(token, err)
		return "", err
	}
	return mut.Action, nil
}

// Clear empties the wishlist and re-syncs.
func (s *WishlistService) Clear(ctx context.Context) error {
	token, err := s.wishlist.BeginMutation()
	if err != nil {
		return err
	}
	start := time.Now()
	err = s.client.ClearWishlist(ctx)
	if err == nil {
		var wl *storeapi.Wishlist
		wl, err = s.client.GetWishlist(ctx)
		if err == nil {
			if !s.wishlist.Commit(token, *wl) {
				s.metrics.ObserveStaleDrop("wishlist")
			}
		}
	}
	s.metrics.ObserveMutation("wishlist", "clear", time.Since(start), err)
	if err != nil {
		s.logger.Warn("wishlist clear failed", "error", err)
		s.wishlist.Fail(token, err)
		return err
	}
	return nil
}

// Reset drops the wishlist back to its pre-login state.
func (s *WishlistService) Reset() { s.wishlist.Reset() }

// Close releases the store.
func (s *WishlistService) Close() { s.wishlist.Close() }

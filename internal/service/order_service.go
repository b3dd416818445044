package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridian-commerce/meridian/internal/metrics"
	"github.com/meridian-commerce/meridian/internal/store"
	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

// OrderService errors.
var (
	ErrCannotCancel   = errors.New("order cannot be cancelled in its current status")
	ErrPaymentNotOpen = errors.New("order has no resumable payment")
)

// OrderClient is the slice of the storefront API the order service uses.
type OrderClient interface {
	ListOrders(ctx context.Context) ([]storeapi.Order, error)
	OrderHistory(ctx context.Context, page, pageSize int) (*storeapi.OrderPage, error)
	GetOrder(ctx context.Context, orderID string) (*storeapi.Order, error)
	CreateOrderFromCart(ctx context.Context, in storeapi.OrderCreateInput) (*storeapi.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*storeapi.Order, error)
	CheckOrderPayment(ctx context.Context, orderID string) (*storeapi.PaymentCheck, error)
	ContinuePayment(ctx context.Context, orderID string) (*storeapi.CheckoutSession, error)
}

// OrderService keeps the customer's order list synchronized and guards
// the order-level actions (cancel, resume payment) with the same rules
// the backend enforces, so a denied action fails fast without a round
// trip.
type OrderService struct {
	client  OrderClient
	orders  *store.Synced[[]storeapi.Order]
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewOrderService creates an OrderService with an empty store.
func NewOrderService(client OrderClient, logger *slog.Logger, m *metrics.Metrics) *OrderService {
	return &OrderService{
		client:  client,
		orders:  store.NewSynced[[]storeapi.Order](),
		logger:  logger,
		metrics: m,
	}
}

// Snapshot returns the current order-list view.
func (s *OrderService) Snapshot() store.Snapshot[[]storeapi.Order] {
	return s.orders.Snapshot()
}

// Subscribe registers a listener for order-list snapshots.
func (s *OrderService) Subscribe() (<-chan store.Snapshot[[]storeapi.Order], func()) {
	return s.orders.Subscribe()
}

// Refresh fetches the customer's orders.
func (s *OrderService) Refresh(ctx context.Context) error {
	token, err := s.orders.BeginRefresh()
	if err != nil {
		return err
	}
	start := time.Now()
	orders, err := s.client.ListOrders(ctx)
	s.metrics.ObserveRefresh("orders", time.Since(start), err)
	if err != nil {
		s.logger.Warn("order refresh failed", "error", err)
		s.orders.Fail(token, err)
		return err
	}
	if !s.orders.Commit(token, orders) {
		s.metrics.ObserveStaleDrop("orders")
	}
	return nil
}

// History fetches a page of past orders. Pages are not cached in the
// store; the synchronized list holds the unpaginated view.
func (s *OrderService) History(ctx context.Context, page, pageSize int) (*storeapi.OrderPage, error) {
	return s.client.OrderHistory(ctx, page, pageSize)
}

// Get returns one order, preferring the loaded list and falling back to
// a direct fetch.
func (s *OrderService) Get(ctx context.Context, orderID string) (*storeapi.Order, error) {
	snap := s.orders.Snapshot()
	if snap.State == store.Ready {
		for i := range snap.Data {
			if snap.Data[i].ID == orderID {
				order := snap.Data[i]
				return &order, nil
			}
		}
	}
	return s.client.GetOrder(ctx, orderID)
}

// CreateFromCart places an order from the current cart and re-syncs the
// list.
func (s *OrderService) CreateFromCart(ctx context.Context, in storeapi.OrderCreateInput) (*storeapi.Order, error) {
	token, err := s.orders.BeginMutation()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	order, err := s.client.CreateOrderFromCart(ctx, in)
	if err == nil {
		var orders []storeapi.Order
		orders, err = s.client.ListOrders(ctx)
		if err == nil {
			if !s.orders.Commit(token, orders) {
				s.metrics.ObserveStaleDrop("orders")
			}
		}
	}
	s.metrics.ObserveMutation("orders", "create_from_cart", time.Since(start), err)
	if err != nil {
		s.logger.Warn("order creation failed", "error", err)
		s.orders.Fail(token, err)
		return nil, err
	}
	return order, nil
}

// Cancel cancels an order. Only pending and processing orders qualify;
// anything else fails with ErrCannotCancel before reaching the backend.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*storeapi.Order, error) {
	current, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !current.CanCancel() {
		return nil, fmt.Errorf("%w: %s is %s", ErrCannotCancel, orderID, current.Status)
	}

	token, err := s.orders.BeginMutation()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	order, err := s.client.CancelOrder(ctx, orderID)
	if err == nil {
		var orders []storeapi.Order
		orders, err = s.client.ListOrders(ctx)
		if err == nil {
			if !s.orders.Commit(token, orders) {
				s.metrics.ObserveStaleDrop("orders")
			}
		}
	}
	s.metrics.ObserveMutation("orders", "cancel", time.Since(start), err)
	if err != nil {
		s.logger.Warn("order cancel failed", "order_id", orderID, "error", err)
		s.orders.Fail(token, err)
		return nil, err
	}
	return order, nil
}

// ResumePayment restarts checkout for an unpaid order. The order must
// advertise a resumable payment; otherwise ErrPaymentNotOpen.
func (s *OrderService) ResumePayment(ctx context.Context, orderID string) (*storeapi.CheckoutSession, error) {
	current, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !current.CanContinuePayment || current.Paid() {
		return nil, fmt.Errorf("%w: %s", ErrPaymentNotOpen, orderID)
	}
	return s.client.ContinuePayment(ctx, orderID)
}

// CheckPayment asks the backend to reconcile an order's payment with
// the provider, then re-syncs the list so a flipped status lands in the
// store.
func (s *OrderService) CheckPayment(ctx context.Context, orderID string) (*storeapi.PaymentCheck, error) {
	check, err := s.client.CheckOrderPayment(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if check.Expired || check.IsPaid {
		if err := s.Refresh(ctx); err != nil {
			s.logger.Warn("order re-sync after payment check failed", "error", err)
		}
	}
	return check, nil
}

// Reset drops the order list back to its pre-login state.
func (s *OrderService) Reset() { s.orders.Reset() }

// Close releases the store.
func (s *OrderService) Close() { s.orders.Close() }

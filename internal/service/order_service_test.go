package service

import (
	"context"
	"errors"
	"testing"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

type fakeOrderBackend struct {
	orders       map[string]*storeapi.Order
	continueResp *storeapi.CheckoutSession
	fail         error
}

func newFakeOrderBackend(orders ...*storeapi.Order) *fakeOrderBackend {
	f := &fakeOrderBackend{orders: map[string]*storeapi.Order{}}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrderBackend) ListOrders(_ context.Context) ([]storeapi.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	var out []storeapi.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderBackend) OrderHistory(_ context.Context, page, pageSize int) (*storeapi.OrderPage, error) {
	orders, err := f.ListOrders(context.Background())
	if err != nil {
		return nil, err
	}
	return &storeapi.OrderPage{Orders: orders, Total: len(orders), Page: page, PageSize: pageSize}, nil
}

func (f *fakeOrderBackend) GetOrder(_ context.Context, orderID string) (*storeapi.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	o, ok := f.orders[orderID]
	if !ok {
		return nil, &storeapi.APIError{StatusCode: 404, Message: "order not found"}
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderBackend) CreateOrderFromCart(_ context.Context, _ storeapi.OrderCreateInput) (*storeapi.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	o := &storeapi.Order{ID: "ORD-NEW", Status: storeapi.OrderPending}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrderBackend) CancelOrder(_ context.Context, orderID string) (*storeapi.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	o := f.orders[orderID]
	o.Status = storeapi.OrderCancelled
	copied := *o
	return &copied, nil
}

func (f *fakeOrderBackend) CheckOrderPayment(_ context.Context, orderID string) (*storeapi.PaymentCheck, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return &storeapi.PaymentCheck{Status: "pending"}, nil
}

func (f *fakeOrderBackend) ContinuePayment(_ context.Context, orderID string) (*storeapi.CheckoutSession, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.continueResp, nil
}

func TestCancelRejectedForShippedOrder(t *testing.T) {
	backend := newFakeOrderBackend(&storeapi.Order{ID: "ORD-1", Status: storeapi.OrderShipped})
	svc := NewOrderService(backend, testLogger(), nil)
	defer svc.Close()

	_, err := svc.Cancel(context.Background(), "ORD-1")
	if !errors.Is(err, ErrCannotCancel) {
		t.Fatalf("err = %v, want ErrCannotCancel", err)
	}
	if backend.orders["ORD-1"].Status != storeapi.OrderShipped {
		t.Error("the backend must not have been asked to cancel")
	}
}

func TestCancelPendingOrder(t *testing.T) {
	backend := newFakeOrderBackend(&storeapi.Order{ID: "ORD-2", Status: storeapi.OrderPending})
	svc := NewOrderService(backend, testLogger(), nil)
	defer svc.Close()

	order, err := svc.Cancel(context.Background(), "ORD-2")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if order.Status != storeapi.OrderCancelled {
		t.Errorf("status = %v, want cancelled", order.Status)
	}

	// The synchronized list reflects the cancellation.
	for _, o := range svc.Snapshot().Data {
		if o.ID == "ORD-2" && o.Status != storeapi.OrderCancelled {
			t.Error("store not re-synced after cancel")
		}
	}
}

func TestResumePaymentGatedByOrderFlags(t *testing.T) {
	backend := newFakeOrderBackend(
		&storeapi.Order{ID: "ORD-3", Status: storeapi.OrderPending, CanContinuePayment: true},
		&storeapi.Order{ID: "ORD-4", Status: storeapi.OrderPending},
		&storeapi.Order{ID: "ORD-5", Status: storeapi.OrderPending, CanContinuePayment: true, IsPaid: true},
	)
	backend.continueResp = &storeapi.CheckoutSession{CheckoutURL: "https://pay.example/s/1", SessionID: "cs_1"}
	svc := NewOrderService(backend, testLogger(), nil)
	defer svc.Close()

	ctx := context.Background()
	sess, err := svc.ResumePayment(ctx, "ORD-3")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if sess.CheckoutURL == "" {
		t.Error("expected a checkout URL")
	}

	if _, err := svc.ResumePayment(ctx, "ORD-4"); !errors.Is(err, ErrPaymentNotOpen) {
		t.Errorf("order without the flag: err = %v, want ErrPaymentNotOpen", err)
	}
	if _, err := svc.ResumePayment(ctx, "ORD-5"); !errors.Is(err, ErrPaymentNotOpen) {
		t.Errorf("already-paid order: err = %v, want ErrPaymentNotOpen", err)
	}
}

func TestGetPrefersLoadedList(t *testing.T) {
	backend := newFakeOrderBackend(&storeapi.Order{ID: "ORD-6", Status: storeapi.OrderPending})
	svc := NewOrderService(backend, testLogger(), nil)
	defer svc.Close()

	ctx := context.Background()
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Backend becomes unreachable; the loaded list still answers.
	backend.fail = errors.New("down")
	order, err := svc.Get(ctx, "ORD-6")
	if err != nil {
		t.Fatalf("get from loaded list: %v", err)
	}
	if order.ID != "ORD-6" {
		t.Errorf("got %+v", order)
	}
}

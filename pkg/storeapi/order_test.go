package storeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOrderItemCount(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  int
	}{
		{
			name: "items take precedence over legacy products",
			order: Order{
				Items:    []OrderItem{{Quantity: 2}, {Quantity: 3}},
				Products: []string{"only", "two"},
			},
			want: 5,
		},
		{
			name:  "legacy products as fallback",
			order: Order{Products: []string{"Phone", "Case", "Charger"}},
			want:  3,
		},
		{
			name:  "empty order",
			order: Order{},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.ItemCount(); got != tt.want {
				t.Errorf("ItemCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOrderPaid(t *testing.T) {
	paid := Order{IsPaid: true}
	if !paid.Paid() {
		t.Error("paid order should report Paid")
	}

	refunded := Order{IsPaid: true, PaymentStatus: PaymentRefunded}
	if refunded.Paid() {
		t.Error("refunded payment must override the paid flag")
	}

	unpaid := Order{IsPaid: false, PaymentStatus: PaymentPending}
	if unpaid.Paid() {
		t.Error("unpaid order should not report Paid")
	}
}

func TestOrderCanCancel(t *testing.T) {
	cancellable := []OrderStatus{OrderPending, OrderProcessing}
	for _, st := range cancellable {
		o := Order{Status: st}
		if !o.CanCancel() {
			t.Errorf("%s order should be cancellable", st)
		}
	}
	fixed := []OrderStatus{OrderShipped, OrderCompleted, OrderCancelled, OrderDelivered}
	for _, st := range fixed {
		o := Order{Status: st}
		if o.CanCancel() {
			t.Errorf("%s order should not be cancellable", st)
		}
	}
}

func TestListResponseToleratesBothShapes(t *testing.T) {
	var bare listResponse[Order]
	if err := json.Unmarshal([]byte(`[{"id":"ORD-1"},{"id":"ORD-2"}]`), &bare); err != nil {
		t.Fatalf("bare array: %v", err)
	}
	if len(bare.Results) != 2 || bare.Results[0].ID != "ORD-1" {
		t.Errorf("bare array parsed wrong: %+v", bare.Results)
	}

	var wrapped listResponse[Order]
	if err := json.Unmarshal([]byte(`{"count": 1, "results": [{"id":"ORD-3"}]}`), &wrapped); err != nil {
		t.Fatalf("wrapped envelope: %v", err)
	}
	if len(wrapped.Results) != 1 || wrapped.Results[0].ID != "ORD-3" {
		t.Errorf("wrapped envelope parsed wrong: %+v", wrapped.Results)
	}
}

func TestAdminListOrdersForwardsStatusFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/admin/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("status") != "processing" || q.Get("customer") != "ada" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"o-1","status":"processing"}]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	orders, err := client.AdminListOrders(context.Background(), AdminOrderFilters{
		Status:   OrderProcessing,
		Customer: "ada",
	})
	if err != nil {
		t.Fatalf("AdminListOrders: %v", err)
	}
	if len(orders) != 1 || orders[0].Status != OrderProcessing {
		t.Errorf("unexpected orders: %+v", orders)
	}
}

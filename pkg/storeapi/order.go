package storeapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// OrderStatus is the fulfillment state of an order. Status and payment are
// independent axes: a pending order may already be paid, a shipped order may
// have had its payment refunded.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderDelivered  OrderStatus = "delivered"
)

// PaymentState is the payment-side state reported by the backend.
type PaymentState string

const (
	PaymentPending   PaymentState = "pending"
	PaymentSuccess   PaymentState = "success"
	PaymentFailed    PaymentState = "failed"
	PaymentRefunded  PaymentState = "refunded"
	PaymentCancelled PaymentState = "cancelled"
	PaymentNone      PaymentState = "no_payment"
)

// OrderItem is a structured order line. Older orders predate this shape and
// carry only the flat Products list on Order.
type OrderItem struct {
	ID           int64  `json:"id"`
	Product      int64  `json:"product"`
	ProductName  string `json:"product_name"`
	ProductPrice string `json:"product_price"`
	ProductImage string `json:"product_image,omitempty"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
}

// ShippingInfo is the denormalized shipping summary attached to an order.
type ShippingInfo struct {
	Address string `json:"address"`
	Method  string `json:"method"`
}

// Order is read-mostly from the client's perspective: orders are created by
// the checkout flow and mutated by the backend.
type Order struct {
	ID       string      `json:"id"`
	Customer string      `json:"customer"`
	Email    string      `json:"email"`
	Total    string      `json:"total"`
	Status   OrderStatus `json:"status"`
	Date     string      `json:"date"`

	Shipping ShippingInfo `json:"shipping,omitzero"`

	// Items is the structured line list. Products is the legacy flat list of
	// product names kept for orders created before Items existed.
	Items    []OrderItem `json:"items,omitempty"`
	Products []string    `json:"products,omitempty"`

	IsPaid        bool         `json:"is_paid"`
	PaymentStatus PaymentState `json:"payment_status,omitempty"`

	// CanContinuePayment gates whether an abandoned checkout may be resumed.
	CanContinuePayment bool `json:"can_continue_payment,omitempty"`
}

// ItemCount returns the number of units in the order. The structured Items
// list takes precedence; orders that only carry the legacy Products list
// fall back to its length.
func (o *Order) ItemCount() int {
	if len(o.Items) > 0 {
		n := 0
		for _, it := range o.Items {
			n += it.Quantity
		}
		return n
	}
	return len(o.Products)
}

// Paid reports whether the order is effectively paid. A refunded payment
// overrides the paid flag regardless of what the backend set it to.
func (o *Order) Paid() bool {
	if o.PaymentStatus == PaymentRefunded {
		return false
	}
	return o.IsPaid
}

// CanCancel reports whether the customer may still cancel the order.
// Only pending and processing orders are cancellable.
func (o *Order) CanCancel() bool {
	return o.Status == OrderPending || o.Status == OrderProcessing
}

// OrderStats is the aggregate view served to the admin dashboard.
type OrderStats struct {
	TotalOrders       int     `json:"total_orders"`
	PendingOrders     int     `json:"pending_orders"`
	ProcessingOrders  int     `json:"processing_orders"`
	ShippedOrders     int     `json:"shipped_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	RecentOrders30d   int     `json:"recent_orders_30_days,omitempty"`
	RecentRevenue30d  float64 `json:"recent_revenue_30_days,omitempty"`
	AverageOrderValue float64 `json:"average_order_value,omitempty"`

	StatusBreakdown []StatusCount `json:"status_breakdown,omitempty"`
}

// StatusCount is one row of the per-status breakdown in OrderStats.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// OrderPage is one page of the paginated order history.
type OrderPage struct {
	Orders   []Order `json:"orders"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	HasNext  bool    `json:"has_next"`
}

// OrderCreateInput is the payload for POST /orders/ and
// POST /orders/create-from-cart/. For create-from-cart the Items list is
// ignored: the backend snapshots the current cart.
type OrderCreateInput struct {
	ShippingAddressID int64            `json:"shipping_address_id,omitempty"`
	ShippingMethod    string           `json:"shipping_method,omitempty" validate:"omitempty,oneof=standard express overnight"`
	Items             []OrderItemInput `json:"items,omitempty" validate:"omitempty,dive"`
}

// OrderItemInput is one requested line in a direct order create.
type OrderItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1"`
}

// AdminOrderFilters narrows the admin order listing.
type AdminOrderFilters struct {
	Status   OrderStatus
	Customer string
}

// listResponse tolerates both a bare array and a paginated {results: [...]}
// envelope, which the backend mixes across endpoints.
type listResponse[T any] struct {
	Results []T
}

func (l *listResponse[T]) UnmarshalJSON(data []byte) error {
	var direct []T
	if err := json.Unmarshal(data, &direct); err == nil {
		l.Results = direct
		return nil
	}
	var wrapped struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	l.Results = wrapped.Results
	return nil
}

// ListOrders fetches the customer's orders.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var resp listResponse[Order]
	if err := c.get(ctx, "/orders/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// OrderHistory fetches one page of the customer's order history.
func (c *Client) OrderHistory(ctx context.Context, page, pageSize int) (*OrderPage, error) {
	q := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	var p OrderPage
	if err := c.get(ctx, "/orders/history/", q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrder fetches a single order the customer owns.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	if err := c.get(ctx, "/orders/"+url.PathEscape(orderID)+"/", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder creates an order from an explicit item list.
func (c *Client) CreateOrder(ctx context.Context, in OrderCreateInput) (*Order, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	var o Order
	if err := c.post(ctx, "/orders/", in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrderFromCart creates an order from the current cart contents.
func (c *Client) CreateOrderFromCart(ctx context.Context, in OrderCreateInput) (*Order, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	var o Order
	if err := c.post(ctx, "/orders/create-from-cart/", in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CancelOrder cancels a pending order. The cancel endpoint returns only an
// acknowledgement, so the updated order is fetched afterwards.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := c.post(ctx, "/orders/"+url.PathEscape(orderID)+"/cancel/", nil, nil); err != nil {
		return nil, err
	}
	return c.GetOrder(ctx, orderID)
}

// CheckOrderPayment checks whether the payment deadline for a pending order
// has passed, cancelling it server-side when it has.
func (c *Client) CheckOrderPayment(ctx context.Context, orderID string) (*PaymentCheck, error) {
	var pc PaymentCheck
	if err := c.get(ctx, "/orders/"+url.PathEscape(orderID)+"/check-payment/", nil, &pc); err != nil {
		return nil, err
	}
	return &pc, nil
}

// AdminListOrders fetches all orders for the back office, optionally
// filtered by status and customer.
func (c *Client) AdminListOrders(ctx context.Context, filters AdminOrderFilters) ([]Order, error) {
	q := url.Values{}
	if filters.Status != "" {
		q.Set("status", string(filters.Status))
	}
	if filters.Customer != "" {
		q.Set("customer", filters.Customer)
	}
	var resp listResponse[Order]
	if err := c.get(ctx, "/orders/admin/", q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// AdminGetOrder fetches a single order for the back office.
func (c *Client) AdminGetOrder(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	if err := c.get(ctx, "/orders/admin/"+url.PathEscape(orderID)+"/", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// AdminUpdateOrderStatus changes an order's fulfillment status.
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error) {
	body := map[string]OrderStatus{"status": status}
	var o Order
	if err := c.patch(ctx, "/orders/admin/"+url.PathEscape(orderID)+"/", body, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// AdminOrderStats fetches the aggregate order statistics for the dashboard.
func (c *Client) AdminOrderStats(ctx context.Context) (*OrderStats, error) {
	var s OrderStats
	if err := c.get(ctx, "/orders/admin/stats/", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

package storeapi

import (
	"context"
	"net/url"
)

// CheckoutSession is the payment-provider hand-off pair. The client redirects
// the customer to CheckoutURL; SessionID is recoverable from the redirect-back
// query parameters.
type CheckoutSession struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
	OrderID     string `json:"order_id,omitempty"`
}

// PaymentCheck is the result of the payment-deadline check on a pending order.
type PaymentCheck struct {
	Expired         bool   `json:"expired"`
	Status          string `json:"status"`
	IsPaid          bool   `json:"is_paid,omitempty"`
	PaymentDeadline string `json:"payment_deadline,omitempty"`
	Message         string `json:"message,omitempty"`
}

// RefundStatus describes the refund side of an order's payment.
type RefundStatus struct {
	RefundStatus      string `json:"refund_status"`
	OrderStatus       string `json:"order_status"`
	IsPaid            bool   `json:"is_paid,omitempty"`
	EligibleForRefund bool   `json:"eligible_for_refund,omitempty"`
	RefundedAmount    string `json:"refunded_amount,omitempty"`
	RefundDate        string `json:"refund_date,omitempty"`
	OriginalAmount    string `json:"original_amount,omitempty"`
	Message           string `json:"message,omitempty"`
}

// CheckoutItemInput is one cart line in a checkout-from-cart request.
type CheckoutItemInput struct {
	ProductID   int64  `json:"product_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gte=1"`
	Price       string `json:"price" validate:"required"`
	Description string `json:"description,omitempty"`
}

// CheckoutAddressInput is the shipping address sent with a checkout-from-cart
// request.
type CheckoutAddressInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

// CheckoutFromCartInput is the payload for
// POST /payments/create-checkout-session-from-cart/.
type CheckoutFromCartInput struct {
	CartItems       []CheckoutItemInput  `json:"cart_items" validate:"required,min=1,dive"`
	ShippingAddress CheckoutAddressInput `json:"shipping_address" validate:"required"`
	ShippingMethod  string               `json:"shipping_method,omitempty" validate:"omitempty,oneof=standard express overnight"`
}

// CreateCheckoutSession starts a payment-provider checkout for an existing
// order and returns the redirect hand-off pair.
func (c *Client) CreateCheckoutSession(ctx context.Context, orderID string) (*CheckoutSession, error) {
	body := map[string]string{"order_id": orderID}
	var sess CheckoutSession
	if err := c.post(ctx, "/payments/create-checkout-session/", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// CreateCheckoutSessionFromCart starts a checkout directly from a cart
// snapshot; the backend creates the order after successful payment.
func (c *Client) CreateCheckoutSessionFromCart(ctx context.Context, in CheckoutFromCartInput) (*CheckoutSession, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	var sess CheckoutSession
	if err := c.post(ctx, "/payments/create-checkout-session-from-cart/", in, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// ContinuePayment resumes an abandoned checkout for a pending order.
func (c *Client) ContinuePayment(ctx context.Context, orderID string) (*CheckoutSession, error) {
	body := map[string]string{"order_id": orderID}
	var sess CheckoutSession
	if err := c.post(ctx, "/payments/continue-payment/", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetRefundStatus fetches the refund side of an order's payment.
func (c *Client) GetRefundStatus(ctx context.Context, orderID string) (*RefundStatus, error) {
	var rs RefundStatus
	if err := c.get(ctx, "/payments/refund-status/"+url.PathEscape(orderID)+"/", nil, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

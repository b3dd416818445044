package storeapi

import (
	"context"
	"time"
)

// CartItem is a single cart line: a product in a concrete variant
// (color, storage) with a quantity.
type CartItem struct {
	// ID is the backend cart-item id, used for update/remove calls.
	ID int64 `json:"id"`

	// ProductID references the product this line was created from.
	ProductID int64 `json:"product_id"`

	// Name is the denormalized product name at add time.
	Name string `json:"name"`

	// Price is the unit price as computed by the backend.
	Price float64 `json:"price"`

	// Quantity is always >= 1. Zero-quantity lines are removed server-side.
	Quantity int `json:"quantity"`

	// Color and Storage make up the variant selector. Two lines with the
	// same product but different variants are distinct lines.
	Color   string `json:"color,omitempty"`
	Storage string `json:"storage,omitempty"`

	// Image is the product image path as returned by the backend,
	// usually relative to the media host.
	Image string `json:"image,omitempty"`

	// TotalPrice is the server-computed line subtotal.
	TotalPrice float64 `json:"total_price"`

	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Cart is the customer's current cart as returned by GET /cart/.
type Cart struct {
	ID         int64      `json:"id"`
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at,omitzero"`
	UpdatedAt  time.Time  `json:"updated_at,omitzero"`
}

// ItemCount returns the number of units in the cart, recomputed from the
// lines rather than read from the stored TotalItems field so the count can
// never drift from the items actually present.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Total returns the cart total recomputed from the line subtotals.
func (c *Cart) Total() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.TotalPrice
	}
	return sum
}

// Line returns the line matching the (product, variant) combination,
// or nil if the cart has no such line.
func (c *Cart) Line(productID int64, color, storage string) *CartItem {
	for i := range c.Items {
		it := &c.Items[i]
		if it.ProductID == productID && it.Color == color && it.Storage == storage {
			return it
		}
	}
	return nil
}

// AddCartItemInput is the payload for POST /cart/add_item/. Adding the same
// (product, variant) combination twice increments the existing line's
// quantity server-side rather than creating a second line.
type AddCartItemInput struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Color     string `json:"color,omitempty"`
	Storage   string `json:"storage,omitempty"`
}

// UpdateCartItemInput is the payload for PUT /cart/update_item/.
type UpdateCartItemInput struct {
	ItemID   int64 `json:"item_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gte=1"`
}

// CartSummary is the server-computed cart aggregate.
type CartSummary struct {
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

// GetCart fetches the customer's current cart.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.get(ctx, "/cart/", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem adds a product variant to the cart.
func (c *Client) AddCartItem(ctx context.Context, in AddCartItemInput) error {
	if err := c.validateInput(in); err != nil {
		return err
	}
	return c.post(ctx, "/cart/add_item/", in, nil)
}

// UpdateCartItem changes the quantity of an existing cart line.
func (c *Client) UpdateCartItem(ctx context.Context, in UpdateCartItemInput) error {
	if err := c.validateInput(in); err != nil {
		return err
	}
	return c.put(ctx, "/cart/update_item/", in, nil)
}

// RemoveCartItem deletes a cart line by its item id.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	body := map[string]int64{"item_id": itemID}
	return c.delete(ctx, "/cart/remove_item/", body, nil)
}

// ClearCart removes every line from the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart/clear/", nil, nil)
}

// CartCount fetches the server-side item count without the full cart.
func (c *Client) CartCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/cart/count/", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// GetCartSummary fetches the server-computed totals.
func (c *Client) GetCartSummary(ctx context.Context) (*CartSummary, error) {
	var s CartSummary
	if err := c.get(ctx, "/cart/summary/", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

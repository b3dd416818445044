package storeapi

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// WishlistItem is a wishlisted product reference with the display data the
// backend denormalizes at add time.
type WishlistItem struct {
	ID            int64    `json:"id"`
	ProductID     int64    `json:"product_id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price,omitempty"`
	Image         string   `json:"image,omitempty"`
	Badge         string   `json:"badge,omitempty"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	Description   string   `json:"description,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	Storage       []string `json:"storage,omitempty"`

	AddedAt time.Time `json:"added_at,omitzero"`
}

// Wishlist is a set of product references: a product id appears at most once.
type Wishlist struct {
	ID         int64          `json:"id"`
	Items      []WishlistItem `json:"items"`
	TotalItems int            `json:"total_items"`
	CreatedAt  time.Time      `json:"created_at,omitzero"`
	UpdatedAt  time.Time      `json:"updated_at,omitzero"`
}

// Contains reports whether the product is currently in the wishlist.
func (w *Wishlist) Contains(productID int64) bool {
	for _, it := range w.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Count returns the number of wishlisted products, recomputed from the items.
func (w *Wishlist) Count() int {
	return len(w.Items)
}

// WishlistAction reports what a toggle call actually did.
type WishlistAction string

const (
	WishlistAdded   WishlistAction = "added"
	WishlistRemoved WishlistAction = "removed"
)

// WishlistMutation is the response of wishlist mutation endpoints.
type WishlistMutation struct {
	Message string         `json:"message"`
	Action  WishlistAction `json:"action,omitempty"`
}

type wishlistItemRef struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// GetWishlist fetches the customer's wishlist.
func (c *Client) GetWishlist(ctx context.Context) (*Wishlist, error) {
	var w Wishlist
	if err := c.get(ctx, "/wishlist/", nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// AddWishlistItem adds a product to the wishlist.
func (c *Client) AddWishlistItem(ctx context.Context, productID int64) (*WishlistMutation, error) {
	in := wishlistItemRef{ProductID: productID}
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	var resp WishlistMutation
	if err := c.post(ctx, "/wishlist/add_item/", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveWishlistItem removes a product from the wishlist.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID int64) (*WishlistMutation, error) {
	in := wishlistItemRef{ProductID: productID}
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	var resp WishlistMutation
	if err := c.delete(ctx, "/wishlist/remove_item/", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleWishlistItem adds the product if absent and removes it if present.
// The server is the source of truth for membership; the call is safe to
// issue without knowing the current state.
func (c *Client) ToggleWishlistItem(ctx context.Context, productID int64) (*WishlistMutation, error) {
	in := wishlistItemRef{ProductID: productID}
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	var resp WishlistMutation
	if err := c.post(ctx, "/wishlist/toggle_item/", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckWishlistItem reports whether the product is in the wishlist according
// to the server.
func (c *Client) CheckWishlistItem(ctx context.Context, productID int64) (bool, error) {
	q := url.Values{"product_id": {strconv.FormatInt(productID, 10)}}
	var resp struct {
		InWishlist bool `json:"in_wishlist"`
	}
	if err := c.get(ctx, "/wishlist/check_item/", q, &resp); err != nil {
		return false, err
	}
	return resp.InWishlist, nil
}

// WishlistCount fetches the server-side wishlist size.
func (c *Client) WishlistCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/wishlist/count/", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// ClearWishlist removes every product from the wishlist.
func (c *Client) ClearWishlist(ctx context.Context) error {
	return c.delete(ctx, "/wishlist/clear/", nil, nil)
}

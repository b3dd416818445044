package storeapi

import (
	"context"
	"strconv"
)

// Category is a catalog category. Categories form a tree via ParentID and
// carry a server-maintained product count.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	IsActive     bool   `json:"is_active"`
	SortOrder    int    `json:"sort_order"`
	ParentID     *int64 `json:"parent_id,omitempty"`
	ProductCount int    `json:"product_count"`
}

// CategoryInput is the payload for creating or replacing a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

// ListCategories fetches all catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var resp listResponse[Category]
	if err := c.get(ctx, "/categories/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// CreateCategory creates a category. Requires an admin session.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	var cat Category
	if err := c.post(ctx, "/categories/", in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory replaces a category. Requires an admin session.
func (c *Client) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*Category, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	var cat Category
	if err := c.put(ctx, "/categories/"+strconv.FormatInt(id, 10)+"/", in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory removes a category. Requires an admin session.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.delete(ctx, "/categories/"+strconv.FormatInt(id, 10)+"/", nil, nil)
}

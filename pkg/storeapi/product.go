package storeapi

import (
	"context"
	"net/url"
	"strconv"
)

// ProductSummary is the compact product shape used by listings and
// recommendation feeds.
type ProductSummary struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price,omitempty"`
	Image         string  `json:"image,omitempty"`
	Category      string  `json:"category,omitempty"`
	Rating        float64 `json:"rating"`
	Reviews       int     `json:"reviews"`
	Badge         string  `json:"badge,omitempty"`
}

// RecommendationStrategy selects which feed a recommendation fetch targets.
type RecommendationStrategy string

const (
	RecommendTopSellers   RecommendationStrategy = "top_sellers"
	RecommendNewArrivals  RecommendationStrategy = "new_arrivals"
	RecommendRelated      RecommendationStrategy = "related"
	RecommendPersonalized RecommendationStrategy = "personalized"
)

// ProductFilters narrows a product listing.
type ProductFilters struct {
	Category string
	Search   string
	Ordering string
}

// ListProducts fetches the product catalog, optionally filtered.
func (c *Client) ListProducts(ctx context.Context, filters ProductFilters) ([]ProductSummary, error) {
	q := url.Values{}
	if filters.Category != "" {
		q.Set("category", filters.Category)
	}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	if filters.Ordering != "" {
		q.Set("ordering", filters.Ordering)
	}
	var resp listResponse[ProductSummary]
	if err := c.get(ctx, "/products/", q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// RelatedProducts fetches recommendations related to one product.
func (c *Client) RelatedProducts(ctx context.Context, productID int64) ([]ProductSummary, error) {
	path := "/products/" + strconv.FormatInt(productID, 10) + "/recommendations/"
	var resp listResponse[ProductSummary]
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// TopSellers fetches the best-selling products feed.
func (c *Client) TopSellers(ctx context.Context) ([]ProductSummary, error) {
	var resp listResponse[ProductSummary]
	if err := c.get(ctx, "/products/top_sellers/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// NewArrivals fetches the newest products feed.
func (c *Client) NewArrivals(ctx context.Context) ([]ProductSummary, error) {
	var resp listResponse[ProductSummary]
	if err := c.get(ctx, "/products/new_arrivals/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// PersonalizedProducts fetches recommendations scoped to a category the
// customer has shown interest in.
func (c *Client) PersonalizedProducts(ctx context.Context, category string) ([]ProductSummary, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	var resp listResponse[ProductSummary]
	if err := c.get(ctx, "/products/personalized/", q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

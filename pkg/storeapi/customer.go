package storeapi

import (
	"context"
	"net/url"
	"strconv"
)

// AdminCustomer is the back-office view of a shopper account, including the
// aggregates the backend computes per account.
type AdminCustomer struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone,omitempty"`
	Location   string  `json:"location,omitempty"`
	Orders     int     `json:"orders"`
	TotalSpent float64 `json:"totalSpent"`
	JoinDate   string  `json:"joinDate,omitempty"`
	Status     string  `json:"status"`
}

// CustomerPage is one page of the admin customer listing.
type CustomerPage struct {
	Customers  []AdminCustomer `json:"results"`
	Total      int        `json:"count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// CustomerFilters narrows the admin customer listing.
type CustomerFilters struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

// CustomerStats aggregates the customer base into the headline figures the
// back office shows.
type CustomerStats struct {
	TotalCustomers  int
	ActiveCustomers int
	TotalRevenue    float64
	AvgOrderValue   float64
}

// ListCustomers fetches a page of customer accounts. Requires an admin
// session.
func (c *Client) ListCustomers(ctx context.Context, filters CustomerFilters) (*CustomerPage, error) {
	q := url.Values{}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	if filters.Status != "" {
		q.Set("status", filters.Status)
	}
	if filters.Page > 0 {
		q.Set("page", strconv.Itoa(filters.Page))
	}
	if filters.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(filters.PageSize))
	}
	var page CustomerPage
	if err := c.get(ctx, "/users/customers/", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CustomerStats fetches the whole customer base and reduces it to the
// headline aggregates. The backend has no dedicated stats endpoint, so the
// reduction happens client-side over a single large page.
func (c *Client) CustomerStats(ctx context.Context) (*CustomerStats, error) {
	page, err := c.ListCustomers(ctx, CustomerFilters{PageSize: 1000})
	if err != nil {
		return nil, err
	}
	stats := CustomerStats{TotalCustomers: page.Total}
	totalOrders := 0
	for _, cust := range page.Customers {
		if cust.Status == "active" {
			stats.ActiveCustomers++
		}
		stats.TotalRevenue += cust.TotalSpent
		totalOrders += cust.Orders
	}
	if totalOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / float64(totalOrders)
	}
	return &stats, nil
}

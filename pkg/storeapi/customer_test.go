package storeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListCustomersForwardsFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/customers/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("search") != "ada" || q.Get("status") != "active" || q.Get("page") != "2" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CustomerPage{
			Customers: []AdminCustomer{{ID: 1, Name: "Ada", Status: "active"}},
			Total:     11,
			Page:      2,
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	page, err := client.ListCustomers(context.Background(), CustomerFilters{
		Search: "ada", Status: "active", Page: 2,
	})
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if page.Total != 11 || len(page.Customers) != 1 {
		t.Errorf("page = %+v, want total 11 with one result", page)
	}
}

func TestCustomerStatsReduction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page_size"); got != "1000" {
			t.Errorf("page_size = %q, want the single large page", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CustomerPage{
			Customers: []AdminCustomer{
				{ID: 1, Status: "active", Orders: 2, TotalSpent: 100},
				{ID: 2, Status: "inactive", Orders: 1, TotalSpent: 50},
				{ID: 3, Status: "active", Orders: 0, TotalSpent: 0},
			},
			Total: 3,
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	stats, err := client.CustomerStats(context.Background())
	if err != nil {
		t.Fatalf("CustomerStats: %v", err)
	}
	if stats.TotalCustomers != 3 {
		t.Errorf("total = %d, want 3", stats.TotalCustomers)
	}
	if stats.ActiveCustomers != 2 {
		t.Errorf("active = %d, want 2", stats.ActiveCustomers)
	}
	if stats.TotalRevenue != 150 {
		t.Errorf("revenue = %.2f, want 150", stats.TotalRevenue)
	}
	if stats.AvgOrderValue != 50 {
		t.Errorf("avg order = %.2f, want 150/3 orders = 50", stats.AvgOrderValue)
	}
}

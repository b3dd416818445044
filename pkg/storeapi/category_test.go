package storeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListCategoriesToleratesBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Phones","slug":"phones","product_count":7,"is_active":true}]`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	cats, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 1 || cats[0].Slug != "phones" || cats[0].ProductCount != 7 {
		t.Errorf("unexpected categories: %+v", cats)
	}
}

func TestCreateCategoryValidatesName(t *testing.T) {
	client := NewClient(WithBaseURL("http://localhost:1"))
	_, err := client.CreateCategory(context.Background(), CategoryInput{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected a local validation error, got %v", err)
	}
}

func TestDeleteCategoryHitsResourcePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/categories/42/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	if err := client.DeleteCategory(context.Background(), 42); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
}

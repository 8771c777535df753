package tiendanube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"feedbridge/internal/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "feedbridge-test", logger.New("error"))
	return client, server
}

func productPage(from, count int) []Product {
	page := make([]Product, count)
	for i := range page {
		page[i] = Product{ID: int64(from + i)}
	}
	return page
}

func TestFetchAllProducts_PagesUntilShortPage(t *testing.T) {
	var pagesServed []int
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authentication"); got != "bearer tok" {
			t.Errorf("Authentication header: %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "feedbridge-test" {
			t.Errorf("User-Agent header: %q", got)
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pagesServed = append(pagesServed, page)

		switch page {
		case 1:
			json.NewEncoder(w).Encode(productPage(1, 50))
		case 2:
			json.NewEncoder(w).Encode(productPage(51, 50))
		default:
			json.NewEncoder(w).Encode(productPage(101, 3))
		}
	})

	products, err := client.FetchAllProducts(context.Background(), "42", "tok")
	if err != nil {
		t.Fatalf("FetchAllProducts err: %v", err)
	}
	if len(products) != 103 {
		t.Fatalf("expected 103 products, got %d", len(products))
	}
	if len(pagesServed) != 3 {
		t.Fatalf("expected 3 page requests, got %v", pagesServed)
	}
	// Aggregation preserves request order.
	if products[0].ID != 1 || products[102].ID != 103 {
		t.Fatalf("order lost: first=%d last=%d", products[0].ID, products[102].ID)
	}
}

func TestFetchAllProducts_EmptyFirstPage(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	})

	products, err := client.FetchAllProducts(context.Background(), "42", "tok")
	if err != nil {
		t.Fatalf("FetchAllProducts err: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected no products, got %d", len(products))
	}
}

func TestFetchAllProducts_NonSuccessAborts(t *testing.T) {
	calls := 0
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(productPage(1, 50))
			return
		}
		http.Error(w, `{"message": "rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := client.FetchAllProducts(context.Background(), "42", "tok")
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status: %d", apiErr.StatusCode)
	}
}

func TestGetDomains_MixedEntries(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/42/domains" {
			t.Errorf("path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `["shop.mitiendanube.com", {"domain": "custom.example.com"}]`)
	})

	domains, err := client.GetDomains(context.Background(), "42", "tok")
	if err != nil {
		t.Fatalf("GetDomains err: %v", err)
	}
	if len(domains) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(domains))
	}
}

func TestGetStore_LooseFields(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/42/store" {
			t.Errorf("path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": 42, "original_domain": "shop.mitiendanube.com"}`)
	})

	store, err := client.GetStore(context.Background(), "42", "tok")
	if err != nil {
		t.Fatalf("GetStore err: %v", err)
	}
	if _, ok := store["original_domain"]; !ok {
		t.Fatalf("missing field: %v", store)
	}
}

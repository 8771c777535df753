package tiendanube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"feedbridge/internal/logger"
)

const defaultPageSize = 50

// APIError carries the upstream HTTP status so callers can distinguish
// authorization failures from the rest.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed: %d - %s", e.StatusCode, e.Body)
}

type Client struct {
	apiBase    string
	userAgent  string
	httpClient *http.Client
	logger     *logger.Logger
	pageSize   int
}

func NewClient(apiBase, userAgent string, logger *logger.Logger) *Client {
	return &Client{
		apiBase:   apiBase,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:   logger,
		pageSize: defaultPageSize,
	}
}

func (c *Client) get(ctx context.Context, accessToken, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authentication", "bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetProducts fetches a single page of products for a store.
func (c *Client) GetProducts(ctx context.Context, storeID, accessToken string, page int) ([]Product, error) {
	url := fmt.Sprintf("%s/%s/products?page=%d&per_page=%d", c.apiBase, storeID, page, c.pageSize)

	var products []Product
	if err := c.get(ctx, accessToken, url, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchAllProducts pages through the listing endpoint until a short or empty
// page, aggregating in request order. Any non-2xx aborts the whole fetch.
func (c *Client) FetchAllProducts(ctx context.Context, storeID, accessToken string) ([]Product, error) {
	var all []Product

	for page := 1; ; page++ {
		products, err := c.GetProducts(ctx, storeID, accessToken, page)
		if err != nil {
			return nil, fmt.Errorf("fetching products page %d: %w", page, err)
		}

		all = append(all, products...)

		if len(products) < c.pageSize {
			break
		}
	}

	c.logger.Debug("Fetched %d products for store %s", len(all), storeID)
	return all, nil
}

// GetDomains fetches the store's domain list. Entries may be plain strings or
// structured objects; callers normalize.
func (c *Client) GetDomains(ctx context.Context, storeID, accessToken string) ([]json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s/domains", c.apiBase, storeID)

	var domains []json.RawMessage
	if err := c.get(ctx, accessToken, url, &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

// GetStore fetches the raw store resource. Returned as a loose field map so
// callers can probe alternate field names.
func (c *Client) GetStore(ctx context.Context, storeID, accessToken string) (map[string]json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s/store", c.apiBase, storeID)

	var store map[string]json.RawMessage
	if err := c.get(ctx, accessToken, url, &store); err != nil {
		return nil, err
	}
	return store, nil
}

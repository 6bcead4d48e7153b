package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/agrios/cartedge/internal/domain"
)

// ProductFilter narrows a catalog listing. Zero values mean no filtering.
type ProductFilter struct {
	Category string
	Search   string
}

type fetchProductsResponse struct {
	Products []productRef `json:"products"`
}

// FetchProducts retrieves the product catalog with optional filters.
func (c *Client) FetchProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}

	u := c.baseURL + "/products"
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create fetch products request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call products endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseResponseError(resp, "products")
	}

	var payload fetchProductsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode products response: %w", err)
	}

	products := make([]domain.Product, 0, len(payload.Products))
	for _, ref := range payload.Products {
		products = append(products, ref.product())
	}
	return products, nil
}

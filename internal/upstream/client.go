// Package upstream is the client for the Agrios platform API, the source of
// truth for carts and the product catalog. The edge never invents cart state;
// every mutation round-trips through this client.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/agrios/cartedge/internal/domain"
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the upstream cart and catalog endpoints.
type Client struct {
	baseURL string
	http    HTTPDoer
	logger  *slog.Logger
}

// NewClient creates an upstream API client. baseURL is the API root,
// e.g. "http://platform:3000/api".
func NewClient(baseURL string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    doer,
		logger:  logger,
	}
}

// FetchCart retrieves the cart for a user. Structurally invalid entries are
// dropped; the upstream is known to return partially populated product
// references for catalog entries that have since been deleted.
func (c *Client) FetchCart(ctx context.Context, userID string) ([]domain.LineItem, error) {
	u := fmt.Sprintf("%s/cart?userId=%s", c.baseURL, url.QueryEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create fetch cart request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call cart endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseResponseError(resp, "cart")
	}

	var payload fetchCartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cart response: %w", err)
	}

	items := payload.lineItems()
	if dropped := len(payload.Cart) - len(items); dropped > 0 {
		c.logger.WarnContext(ctx, "dropped invalid cart entries from upstream",
			slog.String("user_id", userID),
			slog.Int("dropped", dropped),
		)
	}

	return items, nil
}

// AddItem creates a new cart line upstream.
func (c *Client) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	return c.postJSON(ctx, http.MethodPost, "/cart/add", mutateRequest{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// UpdateItem sets the quantity of an existing cart line upstream.
// Quantity 0 deletes the line; the upstream has no separate delete endpoint.
func (c *Client) UpdateItem(ctx context.Context, userID, productID string, quantity int) error {
	return c.postJSON(ctx, http.MethodPut, "/cart/update", mutateRequest{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (c *Client) postJSON(ctx context.Context, method, path string, body mutateRequest) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return parseResponseError(resp, "cart")
	}

	return nil
}

package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/andreinadaban/wishlist-service/pkg/httpclient"
)

// HTTPCatalog consults the product service over HTTP. Lookups go through a
// circuit breaker so a failing catalog degrades to errors quickly instead of
// piling up blocked requests.
type HTTPCatalog struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewHTTPCatalog creates a catalog backed by the product service at baseURL.
func NewHTTPCatalog(client *httpclient.CircuitBreakerClient, baseURL string, logger *slog.Logger) *HTTPCatalog {
	return &HTTPCatalog{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Exists looks the product up by id. A 200 means the product exists, a 404
// means it does not; anything else is a lookup failure.
func (c *HTTPCatalog) Exists(ctx context.Context, productID string) (bool, error) {
	lookupURL := c.baseURL + "/api/v1/products/" + url.PathEscape(productID)

	resp, err := c.client.Get(ctx, lookupURL)
	if err != nil {
		return false, fmt.Errorf("catalog lookup for %s: %w", productID, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("catalog lookup for %s: unexpected status %d", productID, resp.StatusCode)
	}
}

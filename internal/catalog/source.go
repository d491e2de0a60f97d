package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"storefront/internal/domain"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxCatalogBytes bounds how much of a response body is read
const maxCatalogBytes = 16 << 20

// Source produces the full product list
type Source interface {
	Fetch(ctx context.Context) ([]domain.Product, error)
	String() string
}

// NewHTTPClient returns the instrumented client used for calls to the shop API
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Transport: otelhttp.NewTransport(transport),
		Timeout:   timeout,
	}
}

// HTTPSource loads products with GET {baseURL}/products
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source for the remote catalog endpoint
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	return &HTTPSource{baseURL: baseURL, client: client}
}

func (s *HTTPSource) String() string {
	return s.baseURL + "/products"
}

// Fetch performs a single request; non-2xx responses and bodies that are
// not a JSON array of products are failures
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxCatalogBytes))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog body: %w", err)
	}

	return decodeProducts(body)
}

// FileSource reads a static JSON array of products from disk
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by a static catalog file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) String() string {
	return "file:" + s.path
}

func (s *FileSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return decodeProducts(body)
}

func decodeProducts(body []byte) ([]domain.Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedCatalog)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}

	products := make([]domain.Product, 0, len(entries))
	for i, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			return nil, fmt.Errorf("%w: entry %d is not an object", ErrMalformedCatalog, i)
		}

		var p domain.Product
		if err := json.Unmarshal(entry, &p); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedCatalog, i, err)
		}
		if p.ID.IsZero() {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrMalformedCatalog, i)
		}
		products = append(products, p)
	}

	return products, nil
}

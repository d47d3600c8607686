// Package vendors resolves vendor names printed on invoices to vendor
// identifiers owned by the vendors service.
package vendors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no vendor matches
var ErrNotFound = errors.New("vendor not found")

const DefaultTimeout = 10 * time.Second

// Vendor is a vendor as known to the vendors service
type Vendor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Client talks to the vendors HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// NewClient creates a client for the vendors API at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindVendorByName returns the vendor whose name matches, ignoring case
func (c *Client) FindVendorByName(ctx context.Context, name string) (*Vendor, error) {
	endpoint := c.baseURL + "/vendors?" + url.Values{"name": {name}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build vendors request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query vendors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("query vendors: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var found []Vendor
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return nil, fmt.Errorf("decode vendors response: %w", err)
	}

	return matchName(found, name)
}

// Directory is a fixed in-memory vendor list. It is safe for concurrent use.
type Directory struct {
	mu      sync.RWMutex
	vendors []Vendor
}

// NewDirectory creates a directory holding vendors
func NewDirectory(vendors ...Vendor) *Directory {
	return &Directory{vendors: append([]Vendor(nil), vendors...)}
}

// Add registers a vendor
func (d *Directory) Add(v Vendor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.vendors = append(d.vendors, v)
}

// FindVendorByName returns the vendor whose name matches, ignoring case
func (d *Directory) FindVendorByName(_ context.Context, name string) (*Vendor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return matchName(d.vendors, name)
}

func matchName(candidates []Vendor, name string) (*Vendor, error) {
	name = strings.TrimSpace(name)
	for _, v := range candidates {
		if strings.EqualFold(strings.TrimSpace(v.Name), name) {
			match := v
			return &match, nil
		}
	}
	return nil, ErrNotFound
}

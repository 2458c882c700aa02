// Package polar integrates the Polar payments provider: a small REST client
// for the hosted checkout and customer portal flows, and verification of the
// webhook signatures it sends back.
package polar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	productionBaseURL = "https://api.polar.sh"
	sandboxBaseURL    = "https://sandbox-api.polar.sh"
)

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the Polar API. Access tokens are environment-specific:
// production tokens do not work against the sandbox and vice versa.
type Client struct {
	baseURL     string
	accessToken string
	http        HTTPClient
}

// NewClient creates a Polar API client. server selects the environment,
// "sandbox" or "production".
func NewClient(accessToken, server string) *Client {
	baseURL := sandboxBaseURL
	if server == "production" {
		baseURL = productionBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient overrides the underlying HTTP client (used for testing).
func (c *Client) SetHTTPClient(client HTTPClient) {
	c.http = client
}

// Checkout is a hosted checkout session.
type Checkout struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutInput describes a checkout session to open.
type CreateCheckoutInput struct {
	ProductID string `json:"product_id"`
	// SuccessURL may carry the literal {CHECKOUT_ID} placeholder, substituted
	// by Polar on redirect.
	SuccessURL string `json:"success_url"`
	// ExternalCustomerID ties the checkout to our user id.
	ExternalCustomerID string `json:"external_customer_id,omitempty"`
}

// CreateCheckout opens a hosted checkout session for a product.
func (c *Client) CreateCheckout(ctx context.Context, input CreateCheckoutInput) (*Checkout, error) {
	var checkout Checkout
	if err := c.post(ctx, "/v1/checkouts/", input, &checkout); err != nil {
		return nil, fmt.Errorf("failed to create checkout: %w", err)
	}
	return &checkout, nil
}

// CustomerSession grants access to the hosted customer portal.
type CustomerSession struct {
	ID                string `json:"id"`
	CustomerPortalURL string `json:"customer_portal_url"`
}

// CreateCustomerSession opens a customer portal session for a user.
func (c *Client) CreateCustomerSession(ctx context.Context, externalCustomerID string) (*CustomerSession, error) {
	input := map[string]string{"external_customer_id": externalCustomerID}
	var session CustomerSession
	if err := c.post(ctx, "/v1/customer-sessions/", input, &session); err != nil {
		return nil, fmt.Errorf("failed to create customer session: %w", err)
	}
	return &session, nil
}

// IngestUsageEvent reports a usage event for metered billing.
func (c *Client) IngestUsageEvent(ctx context.Context, externalCustomerID, name string, metadata map[string]interface{}) error {
	input := map[string]interface{}{
		"events": []map[string]interface{}{{
			"name":                 name,
			"external_customer_id": externalCustomerID,
			"metadata":             metadata,
		}},
	}
	if err := c.post(ctx, "/v1/events/ingest", input, nil); err != nil {
		return fmt.Errorf("failed to ingest usage event: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("polar api returned %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

package front

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"
)

// FrontProductionAPIURL is the production API endpoint
const FrontProductionAPIURL = "https://api2.frontapp.com"

// Errors for Front configuration
var (
	ErrFrontMissingAPIToken      = errors.New("front: API token is required")
	ErrFrontMissingWebhookSecret = errors.New("front: webhook secret is required")
	ErrFrontMissingCredentials   = errors.New("front: credential source is required")
)

// FrontCredentials holds one tenant's Front API credentials. The API token
// authenticates outbound requests; the webhook secret verifies inbound
// event signatures.
type FrontCredentials struct {
	APIToken      string
	WebhookSecret string
}

// Validate validates the credentials. The webhook secret is optional: a
// tenant without one can still be polled, it just cannot receive webhooks.
func (c *FrontCredentials) Validate() error {
	if c.APIToken == "" {
		return ErrFrontMissingAPIToken
	}
	return nil
}

// SignWebhook computes the signature Front attaches to a webhook payload:
// base64(HMAC-SHA256(secret, body))
func (c *FrontCredentials) SignWebhook(payload []byte) (string, error) {
	if c.WebhookSecret == "" {
		return "", ErrFrontMissingWebhookSecret
	}
	mac := hmac.New(sha256.New, []byte(c.WebhookSecret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// FrontClientConfig holds configuration for the Front API client
type FrontClientConfig struct {
	// BaseURL is the base URL for the Front API
	BaseURL string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// NewFrontClientConfig creates a client configuration with defaults
func NewFrontClientConfig() *FrontClientConfig {
	return &FrontClientConfig{
		BaseURL: FrontProductionAPIURL,
		Timeout: 15 * time.Second,
	}
}

// Validate validates the client configuration and applies defaults
func (c *FrontClientConfig) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = FrontProductionAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	return nil
}

package front

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bos/backend/internal/domain/conversation"
)

// maxFrontResponseSize limits the response body size to prevent memory
// exhaustion
const maxFrontResponseSize = 10 * 1024 * 1024 // 10MB max response

// FrontAdapter implements the HelpdeskPlatform interface for the Front
// customer-communication platform
type FrontAdapter struct {
	config      *FrontClientConfig
	httpClient  *http.Client
	credentials CredentialSource
}

// NewFrontAdapter creates a new Front adapter with the given configuration
func NewFrontAdapter(config *FrontClientConfig, credentials CredentialSource) (*FrontAdapter, error) {
	if config == nil {
		config = NewFrontClientConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if credentials == nil {
		return nil, ErrFrontMissingCredentials
	}

	return &FrontAdapter{
		config:      config,
		httpClient:  &http.Client{Timeout: config.Timeout},
		credentials: credentials,
	}, nil
}

// PlatformCode returns the platform code this adapter handles
func (a *FrontAdapter) PlatformCode() conversation.PlatformCode {
	return conversation.PlatformCodeFront
}

// IsEnabled returns true if this platform is enabled for the tenant
func (a *FrontAdapter) IsEnabled(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	_, err := a.credentials.Credentials(tenantID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// ---------------------------------------------------------------------------
// Conversation Operations
// ---------------------------------------------------------------------------

// ListConversations lists conversations updated after the request's
// watermark, one page at a time
func (a *FrontAdapter) ListConversations(ctx context.Context, req *conversation.ConversationPullRequest) (*conversation.ConversationPage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	creds, err := a.credentials.Credentials(req.TenantID)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(req.PageSize))
	if !req.UpdatedAfter.IsZero() {
		query.Set("q[updated_after]", formatFrontTime(req.UpdatedAfter))
	}
	if req.PageToken != "" {
		query.Set("page_token", req.PageToken)
	}

	body, err := a.doRequest(ctx, creds.APIToken, a.config.BaseURL+"/conversations?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var resp frontListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", conversation.ErrPlatformInvalidResponse, err)
	}

	page := &conversation.ConversationPage{
		Conversations: make([]conversation.PlatformConversation, 0, len(resp.Results)),
		NextPageToken: nextPageToken(resp.Pagination.Next),
	}

	for _, raw := range resp.Results {
		pc, err := decodeConversation(raw)
		if err != nil {
			return nil, err
		}
		page.Conversations = append(page.Conversations, *pc)
	}

	return page, nil
}

// GetConversation retrieves a single conversation from Front
func (a *FrontAdapter) GetConversation(ctx context.Context, tenantID uuid.UUID, platformID string) (*conversation.PlatformConversation, error) {
	if platformID == "" {
		return nil, conversation.ErrSyncInvalidConversationID
	}

	creds, err := a.credentials.Credentials(tenantID)
	if err != nil {
		return nil, err
	}

	body, err := a.doRequest(ctx, creds.APIToken, a.config.BaseURL+"/conversations/"+url.PathEscape(platformID))
	if err != nil {
		return nil, err
	}

	return decodeConversation(body)
}

// ---------------------------------------------------------------------------
// Webhook Signature Verification
// ---------------------------------------------------------------------------

// VerifyWebhookSignature checks the payload signature against every
// configured tenant's webhook secret. Front does not identify the tenant in
// the payload; a signature that no secret produces is rejected.
func (a *FrontAdapter) VerifyWebhookSignature(payload []byte, signature string) error {
	_, err := a.IdentifyWebhookTenant(payload, signature)
	return err
}

// IdentifyWebhookTenant returns the tenant whose webhook secret produced
// the signature. The match identifies the tenant and authenticates the
// payload in one step.
func (a *FrontAdapter) IdentifyWebhookTenant(payload []byte, signature string) (uuid.UUID, error) {
	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(provided) == 0 {
		return uuid.Nil, conversation.ErrPlatformInvalidSignature
	}

	for _, tenantID := range a.credentials.Tenants() {
		creds, err := a.credentials.Credentials(tenantID)
		if err != nil || creds.WebhookSecret == "" {
			continue
		}

		mac := hmac.New(sha256.New, []byte(creds.WebhookSecret))
		mac.Write(payload)
		if hmac.Equal(provided, mac.Sum(nil)) {
			return tenantID, nil
		}
	}

	return uuid.Nil, conversation.ErrPlatformInvalidSignature
}

// HealthCheck verifies the Front API is reachable with the tenant's
// credentials
func (a *FrontAdapter) HealthCheck(ctx context.Context, tenantID uuid.UUID) error {
	creds, err := a.credentials.Credentials(tenantID)
	if err != nil {
		return err
	}

	_, err = a.doRequest(ctx, creds.APIToken, a.config.BaseURL+"/me")
	return err
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs a GET request against the Front API and maps HTTP
// failures to platform errors
func (a *FrontAdapter) doRequest(ctx context.Context, token, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("front: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", conversation.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFrontResponseSize))
	if err != nil {
		return nil, fmt.Errorf("front: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", conversation.ErrPlatformAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, conversation.ErrSyncConversationNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &conversation.RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", conversation.ErrPlatformUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", conversation.ErrPlatformRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// parseRetryAfter reads a Retry-After header, either delay seconds or an
// HTTP date. Zero when absent or unparseable.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}
	return 0
}

// formatFrontTime renders a time as Front's fractional epoch seconds
func formatFrontTime(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixMilli())/1000, 'f', 3, 64)
}

// nextPageToken extracts the page token from the _pagination.next link.
// Empty ends the walk.
func nextPageToken(next string) string {
	if next == "" {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return u.Query().Get("page_token")
}

// Ensure FrontAdapter implements HelpdeskPlatform interface
var _ conversation.HelpdeskPlatform = (*FrontAdapter)(nil)

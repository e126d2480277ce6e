// Package platform is the client for the managed application backend that
// owns entity storage, auth, and integrations. Every call is a network round
// trip returning full JSON records; this service never defines the
// server-side schema, only the shapes it expects back.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/kwahlelwa/spazaops_backend/utils"
)

type Client struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
	limiter   <-chan time.Time
}

// APIError is a non-2xx response from the platform. Status >= 500 is treated
// as retryable by the flush worker; 4xx means the record itself is bad.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform api error %d: %s", e.Status, e.Body)
}

// IsRetryable reports whether the flush worker should try err again later.
// Network failures and 5xx responses are retryable; 4xx responses are not.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	// No HTTP status at all: transport-level failure, assume offline.
	return true
}

func NewClient() (*Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("PLATFORM_API_BASE_URL"))
	if baseURL == "" {
		return nil, errors.New("PLATFORM_API_BASE_URL is required")
	}
	apiKey := strings.TrimSpace(os.Getenv("PLATFORM_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("PLATFORM_API_KEY is required")
	}
	return newClient(baseURL, apiKey), nil
}

// NewClientWith skips env lookup; used by tests and ops tooling.
func NewClientWith(baseURL, apiKey string) *Client {
	return newClient(baseURL, apiKey)
}

func newClient(baseURL, apiKey string) *Client {
	apiKeyHeader := strings.TrimSpace(os.Getenv("PLATFORM_API_KEY_HEADER"))
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	rateLimitPerMin := int64(120)
	if v := strings.TrimSpace(os.Getenv("PLATFORM_RATE_LIMIT_PER_MIN")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			rateLimitPerMin = n
		}
	}
	interval := time.Minute / time.Duration(rateLimitPerMin)

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiKeyHdr: apiKeyHeader,
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   time.Tick(interval),
	}
}

type listResponse struct {
	Data  []json.RawMessage `json:"data"`
	Items []json.RawMessage `json:"items"`
}

func (r listResponse) records() []json.RawMessage {
	if len(r.Data) > 0 {
		return r.Data
	}
	return r.Items
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	<-c.limiter
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(c.apiKeyHdr, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrorPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

// ListRaw fetches up to limit records of an entity type, server-sorted by
// sortKey ("-created_date" for newest first).
func (c *Client) ListRaw(ctx context.Context, entity, sortKey string, limit int) ([]json.RawMessage, error) {
	params := url.Values{}
	if sortKey != "" {
		params.Set("sort", sortKey)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.do(ctx, http.MethodGet, "/api/entities/"+entity, params, nil)
	if err != nil {
		return nil, err
	}
	var parsed listResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return parsed.records(), nil
}

// FilterRaw fetches records matching a predicate object (exact-match fields).
func (c *Client) FilterRaw(ctx context.Context, entity string, predicate map[string]any) ([]json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/entities/"+entity+"/filter", nil, predicate)
	if err != nil {
		return nil, err
	}
	var parsed listResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return parsed.records(), nil
}

func (c *Client) GetRaw(ctx context.Context, entity, id string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/entities/"+entity+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) CreateRaw(ctx context.Context, entity string, record any) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/entities/"+entity, nil, record)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) UpdateRaw(ctx context.Context, entity, id string, patch any) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPut, "/api/entities/"+entity+"/"+url.PathEscape(id), nil, patch)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Health probes the platform. A nil error means "online" to the
// connectivity observer.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/health", nil, nil)
	return err
}

type emailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendEmail goes through the platform's core email integration.
func (c *Client) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/integrations/core/send-email", nil, emailRequest{
		To:      to,
		Subject: subject,
		Body:    htmlBody,
	})
	return err
}

package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"leadvoice/internal/config"
)

// ErrNotConfigured is returned before any network activity when the client
// has no API key. Callers map it to a 502 with a clear message.
var ErrNotConfigured = errors.New("voice: provider API key not configured")

// ProviderError carries a non-2xx provider response.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("voice: provider returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the voice provider's REST API.
type Client struct {
	baseURL            string
	apiKey             string
	phoneNumberID      string
	defaultAssistantID string
	httpClient         *http.Client
}

func NewClient(cfg config.VoiceConfig) *Client {
	return &Client{
		baseURL:            cfg.BaseURL,
		apiKey:             cfg.APIKey,
		phoneNumberID:      cfg.PhoneNumberID,
		defaultAssistantID: cfg.DefaultAssistantID,
		httpClient:         &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether the client can reach the provider.
func (c *Client) Configured() bool { return c.apiKey != "" }

// StartCall places an outbound call. The assistant falls back to the
// configured default when the request does not name one.
func (c *Client) StartCall(ctx context.Context, req StartCallRequest) (Call, error) {
	assistantID := req.AssistantID
	if assistantID == "" {
		assistantID = c.defaultAssistantID
	}

	body := map[string]any{
		"phoneNumberId": c.phoneNumberID,
		"assistantId":   assistantID,
		"customer":      map[string]any{"number": req.PhoneNumber},
	}
	if req.SystemPromptOverride != "" {
		body["assistantOverrides"] = map[string]any{
			"model": map[string]any{"systemPrompt": req.SystemPromptOverride},
		}
	}
	if len(req.Metadata) > 0 {
		body["metadata"] = req.Metadata
	}

	var out Call
	if err := c.do(ctx, http.MethodPost, "/call", body, &out); err != nil {
		return Call{}, err
	}
	return out, nil
}

func (c *Client) GetCall(ctx context.Context, providerCallID string) (Call, error) {
	var out Call
	if err := c.do(ctx, http.MethodGet, "/call/"+url.PathEscape(providerCallID), nil, &out); err != nil {
		return Call{}, err
	}
	return out, nil
}

func (c *Client) ListCalls(ctx context.Context, params ListCallsParams) ([]Call, error) {
	path := "/call"
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.CreatedAtGt != "" {
		q.Set("createdAtGt", params.CreatedAtGt)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []Call
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAssistants(ctx context.Context) ([]Assistant, error) {
	var out []Assistant
	if err := c.do(ctx, http.MethodGet, "/assistant", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAssistant(ctx context.Context, id string) (Assistant, error) {
	var out Assistant
	if err := c.do(ctx, http.MethodGet, "/assistant/"+url.PathEscape(id), nil, &out); err != nil {
		return Assistant{}, err
	}
	return out, nil
}

func (c *Client) CreateAssistant(ctx context.Context, a Assistant) (Assistant, error) {
	var out Assistant
	if err := c.do(ctx, http.MethodPost, "/assistant", a, &out); err != nil {
		return Assistant{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("voice: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("voice: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("voice: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("voice: decode response: %w", err)
	}
	return nil
}

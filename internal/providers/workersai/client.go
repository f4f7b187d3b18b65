// Package workersai calls Cloudflare Workers AI models over the REST API.
package workersai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"imagegw/internal/infra"
)

// ErrMissingCredentials indicates that the client was configured without an
// account id or API token.
var ErrMissingCredentials = errors.New("workersai: account id and api token are required")

// defaultMaxResponseBytes caps a single model response. SDXL at 2048x2048
// stays well below this.
const defaultMaxResponseBytes = 32 << 20

// ErrResponseTooLarge is returned instead of a truncated image.
var ErrResponseTooLarge = errors.New("workersai: response exceeds size limit")

// Options configures the Workers AI client.
type Options struct {
	AccountID      string
	APIToken       string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	// MaxResponseBytes defaults to 32 MiB.
	MaxResponseBytes int64
}

// Client performs model invocations against /accounts/{id}/ai/run/{model}.
type Client struct {
	accountID  string
	apiToken   string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
	maxBytes   int64
}

type envelope struct {
	Result   json.RawMessage `json:"result"`
	Success  *bool           `json:"success"`
	Errors   []apiMessage    `json:"errors"`
	Messages []apiMessage    `json:"messages"`
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.cloudflare.com/client/v4"
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.DiscardLogger()
		logger = &l
	}
	maxBytes := opts.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResponseBytes
	}
	return &Client{
		accountID:  strings.TrimSpace(opts.AccountID),
		apiToken:   strings.TrimSpace(opts.APIToken),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		maxBytes:   maxBytes,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.accountID != "" && c.apiToken != ""
}

// Run invokes modelRef with params. Image models that stream binary output
// yield []byte; JSON models yield the decoded "result" object.
func (c *Client) Run(ctx context.Context, modelRef string, params any) (any, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	modelRef = strings.TrimSpace(modelRef)
	if modelRef == "" {
		return nil, errors.New("workersai: model is required")
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("workersai: encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, url.PathEscape(c.accountID), modelRef)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("workersai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("workersai: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("workersai: read response: %w", err)
	}
	if int64(len(raw)) > c.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, c.maxBytes)
	}

	c.logger.Debug().
		Str("model", modelRef).
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("workersai: model invoked")

	if resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, raw)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return raw, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("workersai: decode response: %w", err)
	}
	if env.Success != nil && !*env.Success {
		return nil, fmt.Errorf("workersai: %s", joinMessages(env.Errors, "request failed"))
	}
	var result any
	if len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, &result); err != nil {
			return nil, fmt.Errorf("workersai: decode result: %w", err)
		}
	}
	if result == nil {
		return nil, errors.New("workersai: empty result")
	}
	return result, nil
}

func statusError(status int, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Errors) > 0 {
		return fmt.Errorf("workersai: status %d: %s", status, joinMessages(env.Errors, ""))
	}
	return fmt.Errorf("workersai: status %d: %s", status, strings.TrimSpace(string(raw)))
}

func joinMessages(msgs []apiMessage, fallback string) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		text := strings.TrimSpace(m.Message)
		if text == "" {
			continue
		}
		if m.Code != 0 {
			text = fmt.Sprintf("%s (%d)", text, m.Code)
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, "; ")
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

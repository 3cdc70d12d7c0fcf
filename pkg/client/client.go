package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/model"
)

// DefaultTimeout bounds each request when the caller does not configure one.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// APIError is a non-2xx response from the form service. Message carries the
// service's own text so it can be surfaced verbatim.
type APIError struct {
	Operation string
	Status    int
	Message   string
}

func (e *APIError) Error() string {
	return e.Message
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The client is copied; a zero
// Timeout inherits the configured request timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			clone := *hc
			c.http = &clone
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithContract replaces the embedded service contract.
func WithContract(contract *Contract) Option {
	return func(c *Client) {
		if contract != nil {
			c.contract = contract
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(logger)
	}
}

// Client talks to the remote form service. It satisfies loader.Source and
// account.Registrar.
type Client struct {
	base     *url.URL
	http     *http.Client
	contract *Contract
	timeout  time.Duration
	logger   *slog.Logger
}

// New constructs a Client for the service rooted at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("client: base url is required")
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported scheme %q", base.Scheme)
	}

	c := &Client{
		base:    base,
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Timeout == 0 && c.timeout > 0 {
		c.http.Timeout = c.timeout
	}
	if c.contract == nil {
		contract, err := LoadContract(context.Background(), nil)
		if err != nil {
			return nil, err
		}
		c.contract = contract
	}
	return c, nil
}

// GetForm fetches the form envelope for rollNumber.
func (c *Client) GetForm(ctx context.Context, rollNumber string) (model.FormResponse, error) {
	var out model.FormResponse
	query := url.Values{}
	query.Set("rollNumber", rollNumber)
	if err := c.do(ctx, OperationGetForm, query, nil, &out); err != nil {
		return model.FormResponse{}, err
	}
	return out, nil
}

// FetchForm implements loader.Source.
func (c *Client) FetchForm(ctx context.Context, rollNumber string) (model.Structure, error) {
	resp, err := c.GetForm(ctx, rollNumber)
	if err != nil {
		return model.Structure{}, err
	}
	return resp.Form, nil
}

// CreateUser registers user and returns the service acknowledgement.
func (c *Client) CreateUser(ctx context.Context, user model.User) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, OperationCreateUser, nil, user, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, operationID string, query url.Values, body any, out any) error {
	ep, ok := c.contract.Endpoint(operationID)
	if !ok {
		return fmt.Errorf("client: unknown operation %q", operationID)
	}

	target := c.base.JoinPath(ep.Path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: %s: encode body: %w", operationID, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("client: %s: request: %w", operationID, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "form service request failed", "operation", operationID, "error", err)
		return fmt.Errorf("client: %s: %w", operationID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.DebugContext(ctx, "form service response",
		"operation", operationID,
		"method", ep.Method,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(operationID, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: %s: decode: %w", operationID, err)
	}
	return nil
}

func decodeAPIError(operationID string, resp *http.Response) error {
	apiErr := &APIError{
		Operation: operationID,
		Status:    resp.StatusCode,
		Message:   fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		apiErr.Message = strings.TrimSpace(payload.Message)
	}
	return apiErr
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/me/taskflow/pkg/model"
)

// Client is an HTTP client for the taskflow API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger

	// MaxRetries bounds retries of transport failures and 502/503/504
	// responses. Other errors are returned at once.
	MaxRetries    uint64
	RetryInterval time.Duration
}

// NewClient creates a taskflow API client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:       baseURL,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
		Logger:        logger,
		MaxRetries:    3,
		RetryInterval: 250 * time.Millisecond,
	}
}

// apiResponse is the parsed envelope.
type apiResponse struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

// retryableStatus reports whether a response status is worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// do performs an HTTP request with retries and returns the parsed envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (*apiResponse, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		payload = data
		c.Logger.Debug("HTTP request body", "body", string(data))
	}

	var result *apiResponse
	operation := func() error {
		resp, err := c.once(ctx, method, path, payload)
		result = resp
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.RetryInterval
	b := backoff.WithContext(backoff.WithMaxRetries(eb, c.MaxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		c.Logger.Debug("retrying request", "method", method, "path", path, "wait", wait, "error", err)
	}
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return result, err
	}
	return result, nil
}

// once performs a single attempt. Errors that a retry cannot fix are wrapped
// in backoff.Permanent.
func (c *Client) once(ctx context.Context, method, path string, payload []byte) (*apiResponse, error) {
	url := c.BaseURL + path

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.Logger.Debug("HTTP request", "method", method, "url", url)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("HTTP response", "status", resp.StatusCode, "body", string(respBody))

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		err = fmt.Errorf("parse response (status %d): %w\nbody: %s", resp.StatusCode, err, string(respBody))
		if retryableStatus(resp.StatusCode) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	if apiResp.Status == "error" && apiResp.Error != nil {
		if retryableStatus(resp.StatusCode) {
			return &apiResp, apiResp.Error
		}
		return &apiResp, backoff.Permanent(apiResp.Error)
	}
	return &apiResp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*apiResponse, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*apiResponse, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*apiResponse, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*apiResponse, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
)

// Client is the typed gateway to the remote booking API. Every call funnels
// through it and every non-success response is normalized to an AppError
// carrying the backend's message.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the backend API rooted at baseURL
// (e.g. "http://localhost:8000/api").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// NewWithHTTPClient creates a client with a custom *http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	c.http = hc
	return c
}

// doJSON performs a JSON request against the backend. token may be empty for
// unauthenticated endpoints; out may be nil when the response body is ignored.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

// send executes the request and decodes the response into out.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.Wrap(err, http.StatusBadGateway, "could not reach the booking service")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Wrap(err, http.StatusBadGateway, "invalid response from the booking service")
	}
	return nil
}

// decodeError parses a non-2xx body as {"error": "..."} when possible and
// synthesizes a generic status message otherwise.
func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return apperror.New(resp.StatusCode, payload.Error)
	}
	return apperror.New(resp.StatusCode, fmt.Sprintf("booking service returned status %d", resp.StatusCode))
}

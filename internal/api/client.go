package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Error is a non-success response from the remote API. Message carries the
// server-provided error text when the body had one.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// errorEnvelope is the error body shape used by the remote API
type errorEnvelope struct {
	Error string `json:"error"`
}

// Client talks JSON-over-HTTP to the remote social API. All authenticated
// calls carry the bearer credential set via SetToken.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a new API client for the given base URL
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer credential used for authenticated calls
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer credential
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do issues a request against the API and decodes a JSON response into out
// (out may be nil when the body is not needed). A non-2xx response is
// returned as *Error with the server-provided message when present.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: "request failed"}
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Msg("API request rejected")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getJSON issues a GET request and decodes the response into out
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// postJSON issues a POST request with a JSON body. in may be nil for
// bodyless actions.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, contentType, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, body, contentType, out)
}

// putJSON issues a PUT request with a JSON body
func (c *Client) putJSON(ctx context.Context, path string, in, out interface{}) error {
	body, contentType, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, body, contentType, out)
}

// deleteJSON issues a DELETE request
func (c *Client) deleteJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out)
}

func encodeJSON(in interface{}) (io.Reader, string, error) {
	if in == nil {
		return nil, "", nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(raw), "application/json", nil
}

// Upload is a file to include in a multipart request under Field
type Upload struct {
	Field       string
	Name        string
	ContentType string
	Reader      io.Reader
}

// postMultipart issues a POST request with form fields and file parts
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, files []Upload, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}
	for _, upload := range files {
		part, err := writer.CreateFormFile(upload.Field, upload.Name)
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, upload.Reader); err != nil {
			return fmt.Errorf("failed to copy upload: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), out)
}

package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatPath is the streaming chat endpoint.
const ChatPath = "/api/chat/stream"

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 64 << 10

// ChatRequest is the body of a streaming chat call.
type ChatRequest struct {
	Message          string    `json:"message"`
	ChatType         string    `json:"chatType,omitempty"`
	PreviousMessages []Message `json:"previousMessages,omitempty"`
}

// Message is a prior conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	StatusCode int

	// Message is the "error" field of the response body, if any.
	Message string

	// Response is the fallback reply the gateway included, if any.
	Response string

	// RetryAfter is set on rate-limited responses.
	RetryAfter time.Duration

	// Body is the raw response body.
	Body []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway returned %d", e.StatusCode)
}

// Client calls the gateway.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client for baseURL using http.DefaultClient.
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

// Chat posts req and returns the stream of the response body. The caller
// must drain the stream's events.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*Stream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(c.BaseURL, "/")+ChatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	return Consume(ctx, resp.Body), nil
}

// Call sends in as JSON to path and decodes the JSON answer into out. Either
// may be nil. A non-2xx answer yields a *StatusError.
func (c *Client) Call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.BaseURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := &StatusError{StatusCode: resp.StatusCode, Body: raw}

	var parsed struct {
		Error      string  `json:"error"`
		Response   string  `json:"response"`
		RetryAfter float64 `json:"retryAfter"`
	}
	if json.Unmarshal(raw, &parsed) == nil {
		se.Message = parsed.Error
		se.Response = parsed.Response
		se.RetryAfter = time.Duration(parsed.RetryAfter * float64(time.Second))
	}
	if se.Message == "" {
		se.Message = strings.TrimSpace(string(raw))
	}
	return se
}

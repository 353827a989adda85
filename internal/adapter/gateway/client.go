package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/gorilla/websocket"
)

const maxResponseBytes = 1 << 20

// APIError is a non-2xx answer from the fare service that names no form field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fare service responded with status %d", e.Status)
	}
	return e.Message
}

// UserMessage is the server's own wording, empty when it sent none.
func (e *APIError) UserMessage() string {
	return e.Message
}

// Client talks to the fare service over HTTP and websocket.
type Client struct {
	baseURL string
	http    *http.Client
	dialer  *websocket.Dialer
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

type request struct {
	method string
	path   string
	srcode string
	token  string
	body   any
}

// errorPayload is the {"error": ..., "field": ...} body of failed requests.
// "error" is either a message or a map of validation messages.
type errorPayload struct {
	Error json.RawMessage `json:"error"`
	Field types.Field     `json:"field"`
}

func (c *Client) do(ctx context.Context, op string, r request, out any) error {
	u := c.baseURL + r.path
	if r.srcode != "" {
		u += "?" + url.Values{"srcode": {r.srcode}}.Encode()
	}

	var body io.Reader
	if r.body != nil {
		js, err := json.Marshal(r.body)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("%s: failed to encode request: %w", op, err))
		}
		body = bytes.NewReader(js)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to build request: %w", op, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: failed to make request to fare service: %w", op, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to read response: %w", op, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return wrap.Error(ctx, decodeError(resp.StatusCode, data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to decode response: %w", op, err))
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Error) == 0 {
		return &APIError{Status: status}
	}

	msg := errorMessage(payload.Error)

	switch payload.Field {
	case types.FieldStartLocation, types.FieldDestination:
		return &types.FieldError{Field: payload.Field, Message: msg}
	}
	return &APIError{Status: status, Message: msg}
}

func errorMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+" "+fields[k])
		}
		return strings.Join(parts, "; ")
	}

	return string(raw)
}

// Package validation relays serialized forms to remote validation services.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"formrelay/internal/formjson"
)

// maxResponseBytes caps how much of a remote reply is read.
const maxResponseBytes = 1 << 20

// Target is a remote validation endpoint.
type Target struct {
	URL      string
	Username string
	Password string
}

// Response is the decoded JSON object returned by a validation service.
// Numbers are kept as json.Number.
type Response map[string]any

// StatusError is returned when the remote service answers with a non-2xx
// status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("validation: remote returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("validation: remote returned status %d: %s", e.StatusCode, e.Body)
}

// Client posts serialized forms to validation targets.
type Client struct {
	http *http.Client
}

// NewClient returns a Client whose requests give up after timeout. A zero
// timeout means no client-side limit beyond the request context.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Validate posts form as a JSON body to target and decodes the JSON object it
// returns.
func (c *Client) Validate(ctx context.Context, target Target, form formjson.SerializedForm) (Response, error) {
	body, err := c.Post(ctx, target, form)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out Response
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("validation: decode response: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("validation: response is not a JSON object")
	}
	return out, nil
}

// Post sends payload encoded as JSON to target and returns the body of a 2xx
// reply. Other statuses yield a *StatusError.
func (c *Client) Post(ctx context.Context, target Target, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("validation: encode payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("validation: build request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if target.Username != "" || target.Password != "" {
		request.SetBasicAuth(target.Username, target.Password)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("validation: post %s: %w", target.URL, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("validation: read response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{StatusCode: response.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	return body, nil
}

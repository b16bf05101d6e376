// Package funcs calls the hosted serverless functions that back the AI
// features. Every function takes a JSON body and answers with a
// {data, error} envelope; this client unwraps it.
package funcs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/eventor-ai/balloond/internal/domain"
	"github.com/eventor-ai/balloond/internal/infra/observability"
)

// Client invokes named remote functions over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a function client. baseURL is the functions host root
// (the client appends /functions/v1/<name>).
func New(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Invoke posts payload to the named function and returns the envelope's data
// portion. Any transport error, non-2xx status, or populated error field
// becomes domain.ErrFunctionFailed.
func (c *Client) Invoke(ctx context.Context, function string, payload json.RawMessage) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/functions/v1/%s", c.baseURL, function)

	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFunctionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.FunctionDuration.WithLabelValues(function).Observe(time.Since(start).Seconds())
	if err != nil {
		c.log.Error().Err(err).Str("function", function).Msg("function call failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrFunctionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrFunctionFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error().Int("status", resp.StatusCode).Str("function", function).Msg("function returned non-2xx")
		return nil, fmt.Errorf("%w: status %d", domain.ErrFunctionFailed, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed response payload", domain.ErrFunctionFailed)
	}

	if fnErr := gjson.GetBytes(body, "error"); fnErr.Exists() && fnErr.Type != gjson.Null {
		msg := fnErr.String()
		if m := fnErr.Get("message"); m.Exists() {
			msg = m.String()
		}
		c.log.Error().Str("function", function).Str("error", msg).Msg("function reported error")
		return nil, fmt.Errorf("%w: %s", domain.ErrFunctionFailed, msg)
	}

	if data := gjson.GetBytes(body, "data"); data.Exists() {
		return json.RawMessage(data.Raw), nil
	}
	// Some functions answer with a bare payload instead of the envelope.
	return json.RawMessage(body), nil
}

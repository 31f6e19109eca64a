// internal/analysis/transport/client.go
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	commonhttp "provider-visibility/internal/common/http"
)

var (
	ErrNotConfigured       = errors.New("API_NOT_CONFIGURED")
	ErrAnalysisTimeout     = errors.New("ANALYSIS_TIMEOUT")
	ErrAnalysisFailed      = errors.New("ANALYSIS_FAILED")
	ErrInvalidResponseBody = errors.New("INVALID_RESPONSE_BODY")
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// StatusError is returned for any non-2xx answer other than 504.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Analysis failed (%d): %s", e.StatusCode, e.Detail)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrAnalysisFailed
}

// Client posts transcripts to the analysis service. Each Analyze call is a
// single request with no retry.
type Client struct {
	config     *Config
	httpClient *commonhttp.Client
}

func NewClient(config *Config, httpClient *commonhttp.Client) *Client {
	if httpClient == nil {
		httpClient = commonhttp.NewClient(config.Timeout)
	}
	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// Analyze submits req and returns the decoded response body without
// interpreting its shape. Numbers are decoded as json.Number.
func (c *Client) Analyze(ctx context.Context, req *Request) (interface{}, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(c.config.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrNotConfigured
	}

	resp, err := c.httpClient.PostJSON(ctx, baseURL+"/analyze", req)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrAnalysisTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGatewayTimeout {
		return nil, fmt.Errorf("%w: upstream returned %d", ErrAnalysisTimeout, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(resp),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrAnalysisTimeout, err)
		}
		return nil, fmt.Errorf("%w: read body: %v", ErrAnalysisFailed, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseBody, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidResponseBody)
	}
	return raw, nil
}

// errorDetail prefers a string "message" field in the body and falls back to
// the status text.
func errorDetail(resp *http.Response) string {
	detail := http.StatusText(resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return detail
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return detail
	}
	if msg, ok := body.Message.(string); ok {
		return msg
	}
	return detail
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// upper bound on upstream bodies read into memory
const maxResponseBytes = 10 << 20

// returned when an upstream reply exceeds maxResponseBytes
var ErrResponseTooLarge = errors.New("response too large")

// client for the contest-platform REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// creates a client bound to baseURL. every call is bounded by timeout;
// ratePerSecond > 0 caps the outbound request rate shared by all requests.
func New(baseURL string, timeout time.Duration, ratePerSecond float64) *Client {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		burst := int(ratePerSecond)
		if burst < 1 {
			burst = 1
		}

		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: limiter,
	}
}

// sends req and returns the body of a 2xx reply.
// non-2xx replies come back as *StatusError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("upstream rate budget: %w", err)
		}
	}

	url := c.baseURL + req.Path
	if req.RawQuery != "" {
		url += "?" + req.RawQuery
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}

	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream %s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("upstream %s %s: %w", req.Method, req.Path, ErrResponseTooLarge)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method: req.Method,
			Path:   req.Path,
			Status: resp.StatusCode,
			Body:   body,
		}
	}

	if len(body) == 0 {
		return &Response{StatusCode: resp.StatusCode}, nil
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("upstream %s %s returned malformed JSON", req.Method, req.Path)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// issues a GET for path
func (c *Client) Get(ctx context.Context, path, rawQuery, authorization string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:        http.MethodGet,
		Path:          path,
		RawQuery:      rawQuery,
		Authorization: authorization,
	})
}

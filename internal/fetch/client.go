// Package fetch provides the shared outbound HTTP client.
//
// Every page the spider traces and every URL a browser session navigates
// to goes through this client: resty on a retryable transport, a rate
// limiter, a circuit breaker, and a rotating User-Agent pool.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/playgroundlab/webstack/internal/agents"
	"github.com/playgroundlab/webstack/internal/infrastructure/resilience"
)

// Response is the subset of an HTTP response the callers need.
type Response struct {
	StatusCode  int
	Body        []byte
	Header      http.Header
	ContentType string
	FinalURL    string
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Metrics receives the outcome of every outbound fetch.
type Metrics interface {
	RecordFetch(status string)
}

// Client wraps resty with rate limiting, circuit breaker, and UA rotation.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	agents  agents.Getter
	metrics Metrics
	mu      sync.RWMutex
}

// NewClient creates a production-ready outbound client.
func NewClient(agentPool agents.Getter) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.Logger = nil // retryablehttp's own logging is too chatty

	restyClient := resty.New()
	restyClient.
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(30 * time.Second)

	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	breaker := resilience.New("fetch-external", resilience.Settings{
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			// External sites vary in reliability. Trip on 10+ consecutive
			// failures or >70% failure rate with 20+ requests.
			return counts.ConsecutiveFailures >= 10 ||
				(counts.Requests >= 20 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.7)
		},
	})

	return &Client{
		resty:   restyClient,
		limiter: rate.NewLimiter(rate.Inf, 0), // Unlimited by default
		breaker: breaker,
		agents:  agentPool,
	}
}

// SetTimeout configures request timeout.
func (c *Client) SetTimeout(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetTimeout(duration)
}

// SetMetrics attaches a fetch outcome recorder.
func (c *Client) SetMetrics(m Metrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = m
}

// SetRateLimit caps outbound requests per second.
func (c *Client) SetRateLimit(rps float64, burst int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// SetRetry configures retry behavior.
func (c *Client) SetRetry(maxRetries int, minWait, maxWait time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resty.SetRetryCount(maxRetries).
		SetRetryWaitTime(minWait).
		SetRetryMaxWaitTime(maxWait)
}

// Get fetches a URL through the limiter and breaker with a rotated agent.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	c.mu.RLock()
	limiter := c.limiter
	c.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	agent, err := c.agents.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get user agent: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.resty.R().
			SetContext(ctx).
			SetHeader("User-Agent", agent).
			Get(url)
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		c.recordFetch("error")
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	c.recordFetch("success")

	resp := result.(*resty.Response)
	body := resp.Body()

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" && len(body) > 0 {
		contentType = mimetype.Detect(body).String()
	}

	finalURL := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &Response{
		StatusCode:  resp.StatusCode(),
		Body:        body,
		Header:      resp.Header(),
		ContentType: contentType,
		FinalURL:    finalURL,
	}, nil
}

func (c *Client) recordFetch(status string) {
	c.mu.RLock()
	m := c.metrics
	c.mu.RUnlock()
	if m != nil {
		m.RecordFetch(status)
	}
}

// BreakerState exposes the breaker state for health reporting.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

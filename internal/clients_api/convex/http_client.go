package convex

// Package convex contains the client for a Convex peer's REST API.
// This file is the transport layer: it sends requests, reads responses
// and knows nothing about swap semantics.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"vortex-swap/internal/infra/log"
	"vortex-swap/internal/infra/retry"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultPeerURL is the public demo peer.
const DefaultPeerURL = "http://peer.convex.live:8080"

// Well-known demo account used when account creation is unavailable.
const (
	DemoAddress = "#11"
	DemoSeed    = "690d5b6d3b3ac0bf64cc83e1f22f7b72d2eeff01eb7d7d4b9b0f0a9c8d7e6f5a"
)

var bestEffortRetry = retry.Options{
	MaxRetries: 2,
	BaseDelay:  300 * time.Millisecond,
	MaxDelay:   3 * time.Second,
	Backoff:    2.0,
}

// Client owns one logical connection to a single peer endpoint.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	rateLimiter     *rate.Limiter
	circuitBreaker  *gobreaker.CircuitBreaker
	maxResponseSize int64
	faucetAmount    int64

	mu      sync.Mutex
	session *Session
}

// NewClient builds a client for the given peer base URL.
// An empty URL selects the public demo peer.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultPeerURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	rateLimiter := rate.NewLimiter(rate.Limit(10), 20)

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ConvexPeer",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		baseURL:         baseURL,
		rateLimiter:     rateLimiter,
		circuitBreaker:  circuitBreaker,
		maxResponseSize: 10 * 1024 * 1024,
		faucetAmount:    DefaultFaucetAmount,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DisableKeepAlives: false,
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
			},
		},
	}
}

// SetTimeout overrides the fixed per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// SetFaucetAmount overrides the top-up requested for bootstrapped accounts.
func (c *Client) SetFaucetAmount(amount int64) {
	if amount > 0 {
		c.faucetAmount = amount
	}
}

// BaseURL returns the configured peer endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// Session returns a copy of the current session, or nil when disconnected.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// IsConnected reports whether a session is established.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Address returns the session address, or "" when disconnected.
func (c *Client) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Address
}

// Close tears down the session locally. The peer is not notified.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	log.LogInfo("Peer session closed", zap.String("peer", c.baseURL))
}

// MakeRequest performs one HTTP call against the peer with rate limiting
// and circuit breaking. Queries and transactions are single-shot: there is
// no automatic retry, a timeout or transport failure surfaces to the caller.
func (c *Client) MakeRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	requestID := log.GenerateRequestID()
	startTime := time.Now()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	var respBody []byte
	var err error

	if c.circuitBreaker != nil {
		_, err = c.circuitBreaker.Execute(func() (interface{}, error) {
			b, err := c.doRequest(ctx, requestID, method, endpoint, body, startTime)
			if err != nil {
				return nil, err
			}
			respBody = b
			return b, nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		respBody, err = c.doRequest(ctx, requestID, method, endpoint, body, startTime)
		if err != nil {
			return nil, err
		}
	}

	return respBody, nil
}

// MakeBestEffortRequest is MakeRequest plus backoff on retryable statuses.
// Reserved for calls whose failures the caller absorbs anyway (faucet,
// account info).
func (c *Client) MakeBestEffortRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var respBody []byte
	err := retry.Do(ctx, bestEffortRetry, func() error {
		b, err := c.MakeRequest(ctx, method, endpoint, body)
		if err != nil {
			return err
		}
		respBody = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return respBody, nil
}

func (c *Client) doRequest(ctx context.Context, requestID, method, endpoint string, body interface{}, startTime time.Time) ([]byte, error) {
	var reqBody io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.LogRequest(requestID, method, endpoint, zap.String("url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		duration := time.Since(startTime).Milliseconds()
		log.LogResponse(requestID, 0, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	limitedReader := io.LimitReader(resp.Body, c.maxResponseSize)

	respBody, err := io.ReadAll(limitedReader)
	if err != nil {
		duration := time.Since(startTime).Milliseconds()
		log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	duration := time.Since(startTime).Milliseconds()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.String("error", "peer error response"))
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	log.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.String("status", "success"))

	return respBody, nil
}

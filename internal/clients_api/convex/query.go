package convex

// Read-only operations: raw queries plus the balance/market conveniences.
// Queries propagate typed errors; balance and market lookups absorb them
// and degrade to zero/nil so callers never crash on a flaky peer.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"vortex-swap/internal/infra/log"
	"vortex-swap/internal/infra/retry"

	"go.uber.org/zap"
)

// Query evaluates a read-only source expression on the peer.
// The expression is an opaque payload, passed through verbatim.
// An empty address defaults to the session address, if any.
func (c *Client) Query(ctx context.Context, source, address string) (*PeerResponse, error) {
	if address == "" {
		address = c.Address()
	}

	respBody, err := c.MakeRequest(ctx, "POST", "/api/v1/query", queryRequest{
		Address: address,
		Source:  source,
	})
	if err != nil {
		return nil, &QueryError{
			StatusCode: httpStatusOf(err),
			Message:    "peer rejected query",
			Err:        err,
		}
	}

	var resp PeerResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &QueryError{Message: "malformed peer response", Err: err}
	}

	if resp.IsError() {
		return &resp, &QueryError{
			ErrorCode: resp.ErrorCode,
			Message:   errorMessage(&resp),
		}
	}

	return &resp, nil
}

// GetBalance fetches the native balance of an address. Any failure is
// logged and yields 0 — callers depend on this silent-zero fallback.
func (c *Client) GetBalance(ctx context.Context, address string) float64 {
	if address == "" {
		address = c.Address()
	}
	if address == "" {
		log.LogWarn("Balance requested without an address")
		return 0
	}

	resp, err := c.Query(ctx, fmt.Sprintf("(balance %s)", address), address)
	if err != nil {
		log.LogWarn("Balance query failed, returning 0",
			zap.String("address", address), zap.Error(err))
		return 0
	}

	return toFloat(resp.Value)
}

// GetMarket looks up the exchange market for a token. Returns nil on any
// failure.
func (c *Client) GetMarket(ctx context.Context, tokenAddress string) interface{} {
	source := fmt.Sprintf("(do (import torus.exchange :as torus) (torus/get-market %s))", tokenAddress)

	resp, err := c.Query(ctx, source, "")
	if err != nil {
		log.LogWarn("Market query failed, returning nil",
			zap.String("token", tokenAddress), zap.Error(err))
		return nil
	}

	return resp.Value
}

// GetAccountInfo fetches account details from the peer. Returns nil on
// any failure.
func (c *Client) GetAccountInfo(ctx context.Context, address string) map[string]interface{} {
	if address == "" {
		address = c.Address()
	}
	if address == "" {
		return nil
	}

	endpoint := "/api/v1/accounts/" + trimAddressPrefix(address)
	respBody, err := c.MakeBestEffortRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		log.LogWarn("Account info lookup failed, returning nil",
			zap.String("address", address), zap.Error(err))
		return nil
	}

	var info map[string]interface{}
	if err := json.Unmarshal(respBody, &info); err != nil {
		log.LogWarn("Account info response was not JSON", zap.Error(err))
		return nil
	}
	return info
}

func httpStatusOf(err error) int {
	var he *retry.HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

func errorMessage(resp *PeerResponse) string {
	if resp.Info != "" {
		return resp.Info
	}
	if s, ok := resp.Value.(string); ok && s != "" {
		return s
	}
	return "peer reported " + resp.ErrorCode
}

// toFloat coerces the loosely typed peer value into a number; anything
// unparseable counts as 0.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

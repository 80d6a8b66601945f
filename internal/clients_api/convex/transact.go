package convex

// State-changing operations. A transaction requires an established session
// and is never retried automatically: a retry is a fresh user action.

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"vortex-swap/internal/infra/log"

	"go.uber.org/zap"
)

// Transact submits a state-changing source expression signed with the
// session credential. The sequence counter grows only on success.
func (c *Client) Transact(ctx context.Context, source string) (*PeerResponse, error) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil, &NotConnectedError{}
	}
	address := c.session.Address
	seed := c.session.Seed
	c.mu.Unlock()

	respBody, err := c.MakeRequest(ctx, "POST", "/api/v1/transact", transactRequest{
		Address: address,
		Source:  source,
		Seed:    seed,
	})
	if err != nil {
		return nil, &TransactionError{
			StatusCode: httpStatusOf(err),
			Message:    "peer rejected transaction",
			Err:        err,
		}
	}

	var resp PeerResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &TransactionError{Message: "malformed peer response", Err: err}
	}

	if resp.IsError() {
		return &resp, &TransactionError{
			ErrorCode: resp.ErrorCode,
			Message:   errorMessage(&resp),
		}
	}

	c.mu.Lock()
	if c.session != nil {
		c.session.SequenceCounter++
	}
	c.mu.Unlock()

	log.LogDebug("Transaction accepted", zap.String("address", address))

	return &resp, nil
}

// BuyTokens buys tokens from the exchange contract for native currency.
func (c *Client) BuyTokens(ctx context.Context, tokenAddress string, amount float64) (*PeerResponse, error) {
	return c.Transact(ctx, buySource(tokenAddress, amount))
}

// SellTokens sells tokens back to the exchange contract.
func (c *Client) SellTokens(ctx context.Context, tokenAddress string, amount float64) (*PeerResponse, error) {
	return c.Transact(ctx, sellSource(tokenAddress, amount))
}

func buySource(tokenAddress string, amount float64) string {
	return "(do (import torus.exchange :as torus) (torus/buy-tokens " +
		tokenAddress + " " + formatAmount(amount) + "))"
}

func sellSource(tokenAddress string, amount float64) string {
	return "(do (import torus.exchange :as torus) (torus/sell-tokens " +
		tokenAddress + " " + formatAmount(amount) + "))"
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func trimAddressPrefix(address string) string {
	return strings.TrimPrefix(address, "#")
}

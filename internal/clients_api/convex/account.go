package convex

// Session establishment. Connect either adopts supplied credentials or
// bootstraps a throwaway account: create-account, then a best-effort
// faucet top-up, falling back to the well-known demo pair when the peer
// refuses. Every connect ends with one init query that must evaluate to
// a known constant before the session counts as live.

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"vortex-swap/internal/infra/log"

	"go.uber.org/zap"
)

const (
	initQuerySource = "(+ 2 3)"
	initQueryResult = float64(5)

	// DefaultFaucetAmount is requested for freshly bootstrapped accounts.
	DefaultFaucetAmount = int64(100000000)
)

// Connect establishes a session with the peer. When address and seed are
// both given they are adopted directly; otherwise a demo account is
// bootstrapped. Fails with *ConnectionError when the peer is unreachable
// or the init query returns an unexpected value.
func (c *Client) Connect(ctx context.Context, address, seed string) (*Session, error) {
	if address == "" || seed == "" {
		var err error
		address, seed, err = c.bootstrapAccount(ctx)
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.Query(ctx, initQuerySource, address)
	if err != nil {
		return nil, &ConnectionError{Reason: "peer unreachable or init query rejected", Err: err}
	}
	if toFloat(resp.Value) != initQueryResult {
		return nil, &ConnectionError{
			Reason: fmt.Sprintf("init query returned unexpected value %v", resp.Value),
		}
	}

	session := &Session{Address: address, Seed: seed}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	log.LogSuccess("Connected to peer",
		zap.String("peer", c.baseURL), zap.String("address", address))

	s := *session
	return &s, nil
}

// bootstrapAccount creates a fresh account on the peer, or falls back to
// the shared demo credentials when creation fails. The fallback is silent
// apart from a log line.
func (c *Client) bootstrapAccount(ctx context.Context) (string, string, error) {
	accountKey, seed, err := generateAccountKey()
	if err != nil {
		return "", "", &ConnectionError{Reason: "failed to generate account key", Err: err}
	}

	address, err := c.CreateAccount(ctx, accountKey)
	if err != nil {
		log.LogWarn("Account creation failed, using demo account", zap.Error(err))
		address, seed = DemoAddress, DemoSeed
	} else {
		c.RequestFunds(ctx, address, c.faucetAmount)
	}

	return address, seed, nil
}

// CreateAccount registers a new account key with the peer and returns the
// assigned address.
func (c *Client) CreateAccount(ctx context.Context, accountKey string) (string, error) {
	respBody, err := c.MakeRequest(ctx, "POST", "/api/v1/createAccount", createAccountRequest{
		AccountKey: accountKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	var resp createAccountResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal create account response: %w", err)
	}
	if resp.Address == nil {
		return "", fmt.Errorf("create account response carried no address")
	}

	return normalizeAddress(resp.Address), nil
}

// RequestFunds asks the faucet to top up an address. Failures are ignored
// entirely; the faucet is a convenience, not a guarantee.
func (c *Client) RequestFunds(ctx context.Context, address string, amount int64) {
	if amount <= 0 {
		amount = DefaultFaucetAmount
	}
	_, err := c.MakeBestEffortRequest(ctx, "POST", "/api/v1/faucet", faucetRequest{
		Address: address,
		Amount:  amount,
	})
	if err != nil {
		log.LogDebug("Faucet request failed, continuing without funds",
			zap.String("address", address), zap.Error(err))
	}
}

func generateAccountKey() (accountKey, seed string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(pub), hex.EncodeToString(priv.Seed()), nil
}

// normalizeAddress renders the peer's loosely typed address value in the
// canonical "#N" form used inside source expressions.
func normalizeAddress(v interface{}) string {
	switch a := v.(type) {
	case string:
		if a == "" {
			return a
		}
		if a[0] == '#' {
			return a
		}
		return "#" + a
	case float64:
		return fmt.Sprintf("#%d", int64(a))
	case json.Number:
		return "#" + a.String()
	default:
		return fmt.Sprintf("#%v", a)
	}
}

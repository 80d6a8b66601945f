package swap

// Controller keeps all UI-facing session state and drives peer calls in
// response to user intents. It contains no pricing logic of its own beyond
// input validation and the fixed slippage placeholder.

import (
	"context"
	"fmt"
	"sync"

	"vortex-swap/internal/clients_api/convex"
	"vortex-swap/internal/infra/log"

	"go.uber.org/zap"
)

// Intent is the mutable swap form state.
type Intent struct {
	FromToken  string
	ToToken    string
	FromAmount float64
	ToAmount   string // formatted estimate, "" when cleared
}

// Options configure a controller.
type Options struct {
	Address string // optional: adopt this address on connect
	Seed    string // optional: adopt this seed on connect
}

type Controller struct {
	peer     Peer
	notifier Notifier
	registry *Registry
	opts     Options

	mu         sync.Mutex
	connected  bool
	isSwapping bool
	intent     Intent
	balances   map[string]float64
}

func NewController(peer Peer, notifier Notifier, registry *Registry, opts Options) *Controller {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		peer:     peer,
		notifier: notifier,
		registry: registry,
		opts:     opts,
		intent:   Intent{FromToken: "CVX", ToToken: "USDF"},
		balances: make(map[string]float64),
	}
}

// Connected reports the session state.
func (c *Controller) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Intent returns a snapshot of the swap form state.
func (c *Controller) Intent() Intent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intent
}

// Balances returns a snapshot of the last refreshed balances.
func (c *Controller) Balances() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]float64, len(c.balances))
	for k, v := range c.balances {
		out[k] = v
	}
	return out
}

// Registry exposes the read-only token table.
func (c *Controller) Registry() *Registry { return c.registry }

// Session returns the peer session, or nil when disconnected.
func (c *Controller) Session() *convex.Session {
	return c.peer.Session()
}

// Connect establishes the peer session. On failure the controller stays
// disconnected, emits exactly one notification and keeps no partial state.
func (c *Controller) Connect(ctx context.Context) error {
	if c.Connected() {
		return nil
	}

	session, err := c.peer.Connect(ctx, c.opts.Address, c.opts.Seed)
	if err != nil {
		c.notifier.Error(fmt.Sprintf("Connection failed: %v", err))
		return err
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	c.notifier.Success(fmt.Sprintf("Connected as %s", session.Address))
	c.RefreshBalances(ctx)
	return nil
}

// Disconnect closes the peer session locally.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	wasConnected := c.connected
	c.connected = false
	c.mu.Unlock()

	if wasConnected {
		c.peer.Close()
		c.notifier.Info("Disconnected")
	}
}

// ToggleConnection flips between connected and disconnected.
func (c *Controller) ToggleConnection(ctx context.Context) error {
	if c.Connected() {
		c.Disconnect()
		return nil
	}
	return c.Connect(ctx)
}

// OnFromAmountChange recomputes the estimated output for a raw input
// amount. Unusable input clears the output and computes nothing. The
// returned string is the display value ("" when cleared).
func (c *Controller) OnFromAmountChange(raw string) string {
	amount, display, ok := EstimateOutput(raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !ok {
		c.intent.FromAmount = 0
		c.intent.ToAmount = ""
		return ""
	}
	c.intent.FromAmount = amount
	c.intent.ToAmount = display
	return display
}

// SelectFromToken / SelectToToken switch the pair ends. Unknown symbols
// are rejected with a notification. Nothing stops both ends being the
// same symbol; ExecuteSwap deals with that.
func (c *Controller) SelectFromToken(symbol string) error {
	return c.selectToken(symbol, true)
}

func (c *Controller) SelectToToken(symbol string) error {
	return c.selectToken(symbol, false)
}

func (c *Controller) selectToken(symbol string, from bool) error {
	if !c.registry.Has(symbol) {
		c.notifier.Error(fmt.Sprintf("Unknown token %s", symbol))
		return fmt.Errorf("unknown token %s", symbol)
	}
	c.mu.Lock()
	if from {
		c.intent.FromToken = symbol
	} else {
		c.intent.ToToken = symbol
	}
	c.mu.Unlock()
	return nil
}

// SwapTokenPositions exchanges the pair ends and clears both amounts.
// Applying it twice restores the original pair. When connected, balances
// for the new pair are refreshed.
func (c *Controller) SwapTokenPositions(ctx context.Context) {
	c.mu.Lock()
	c.intent.FromToken, c.intent.ToToken = c.intent.ToToken, c.intent.FromToken
	c.intent.FromAmount = 0
	c.intent.ToAmount = ""
	connected := c.connected
	c.mu.Unlock()

	if connected {
		c.RefreshBalances(ctx)
	}
}

// ExecuteSwap performs exactly one of: buy (native -> token), sell
// (token -> native), or fails with UnsupportedSwapError for anything else,
// before any network call. Re-entry while a swap is in flight is a no-op.
// Balances are refreshed on every completion path.
func (c *Controller) ExecuteSwap(ctx context.Context) error {
	c.mu.Lock()
	if c.isSwapping {
		c.mu.Unlock()
		log.LogDebug("Swap already in flight, ignoring")
		return nil
	}
	if !c.connected {
		c.mu.Unlock()
		err := &convex.NotConnectedError{}
		c.notifier.Error(err.Error())
		return err
	}
	intent := c.intent
	c.mu.Unlock()

	if intent.FromAmount <= 0 {
		err := &InvalidAmountError{Raw: fmt.Sprintf("%v", intent.FromAmount)}
		c.notifier.Error(err.Error())
		return err
	}

	kind, tokenAddress, err := classifySwap(c.registry, intent.FromToken, intent.ToToken)
	if err != nil {
		c.notifier.Error(err.Error())
		return err
	}

	c.mu.Lock()
	c.isSwapping = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.isSwapping = false
		c.mu.Unlock()
		c.RefreshBalances(ctx)
	}()

	var swapErr error
	switch kind {
	case swapBuy:
		_, swapErr = c.peer.BuyTokens(ctx, tokenAddress, intent.FromAmount)
	case swapSell:
		_, swapErr = c.peer.SellTokens(ctx, tokenAddress, intent.FromAmount)
	}

	if swapErr != nil {
		c.notifier.Error(fmt.Sprintf("Swap failed: %v", swapErr))
		log.LogError("Swap failed",
			zap.String("from", intent.FromToken),
			zap.String("to", intent.ToToken),
			zap.Error(swapErr))
		return swapErr
	}

	c.mu.Lock()
	c.intent.FromAmount = 0
	c.intent.ToAmount = ""
	c.mu.Unlock()

	c.notifier.Success(fmt.Sprintf("Swapped %s for %s", intent.FromToken, intent.ToToken))
	return nil
}

type swapKind int

const (
	swapBuy swapKind = iota
	swapSell
)

// classifySwap decides the single peer call a pair maps to. Token-to-token
// and native-to-native pairs, and tokens without a deployed market, are
// unsupported and must be reported before any network traffic.
func classifySwap(registry *Registry, from, to string) (swapKind, string, error) {
	fromNative := IsNative(from)
	toNative := IsNative(to)

	switch {
	case fromNative && !toNative:
		addr, ok := registry.Address(to)
		if !ok {
			return 0, "", &UnsupportedSwapError{FromToken: from, ToToken: to,
				Reason: "token has no exchange market"}
		}
		return swapBuy, addr, nil
	case !fromNative && toNative:
		addr, ok := registry.Address(from)
		if !ok {
			return 0, "", &UnsupportedSwapError{FromToken: from, ToToken: to,
				Reason: "token has no exchange market"}
		}
		return swapSell, addr, nil
	case !fromNative && !toNative:
		return 0, "", &UnsupportedSwapError{FromToken: from, ToToken: to,
			Reason: "token-to-token swaps are not implemented"}
	default:
		return 0, "", &UnsupportedSwapError{FromToken: from, ToToken: to,
			Reason: "both sides denote the native currency"}
	}
}

// RefreshBalances re-reads the balance of every registered symbol. A
// symbol without an address (and any native alias) reads the native
// balance; others issue a contract balance call. Failures degrade to 0.
func (c *Controller) RefreshBalances(ctx context.Context) map[string]float64 {
	if !c.Connected() {
		return c.Balances()
	}

	account := c.peer.Address()
	updated := make(map[string]float64)

	for _, symbol := range c.registry.Symbols() {
		updated[symbol] = c.fetchBalance(ctx, symbol, account)
	}

	c.mu.Lock()
	c.balances = updated
	c.mu.Unlock()

	return c.Balances()
}

func (c *Controller) fetchBalance(ctx context.Context, symbol, account string) float64 {
	address, hasAddress := c.registry.Address(symbol)
	if IsNative(symbol) || !hasAddress {
		return c.peer.GetBalance(ctx, account)
	}

	source := fmt.Sprintf("(call %s (balance %s))", address, account)
	resp, err := c.peer.Query(ctx, source, account)
	if err != nil {
		log.LogWarn("Token balance query failed, using 0",
			zap.String("symbol", symbol), zap.Error(err))
		return 0
	}
	return toBalance(resp.Value)
}

func toBalance(v interface{}) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

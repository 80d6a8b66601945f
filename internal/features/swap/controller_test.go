package swap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"vortex-swap/internal/clients_api/convex"
)

// fakePeer records every call so tests can assert exactly which network
// traffic a controller action produced.
type fakePeer struct {
	connected  bool
	connectErr error
	session    *convex.Session

	queries      []string
	buys         []string
	sells        []string
	balanceCalls int

	balance     float64
	queryValue  interface{}
	queryErr    error
	transactErr error
}

func (f *fakePeer) Connect(ctx context.Context, address, seed string) (*convex.Session, error) {
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	f.connected = true
	f.session = &convex.Session{Address: "#11", Seed: "seed"}
	return f.session, nil
}

func (f *fakePeer) Close()            { f.connected = false; f.session = nil }
func (f *fakePeer) IsConnected() bool { return f.connected }
func (f *fakePeer) Address() string {
	if f.session == nil {
		return ""
	}
	return f.session.Address
}
func (f *fakePeer) Session() *convex.Session { return f.session }

func (f *fakePeer) Query(ctx context.Context, source, address string) (*convex.PeerResponse, error) {
	f.queries = append(f.queries, source)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &convex.PeerResponse{Value: f.queryValue}, nil
}

func (f *fakePeer) GetBalance(ctx context.Context, address string) float64 {
	f.balanceCalls++
	return f.balance
}

func (f *fakePeer) BuyTokens(ctx context.Context, tokenAddress string, amount float64) (*convex.PeerResponse, error) {
	f.buys = append(f.buys, fmt.Sprintf("%s %v", tokenAddress, amount))
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	if f.session != nil {
		f.session.SequenceCounter++
	}
	return &convex.PeerResponse{Value: "ok"}, nil
}

func (f *fakePeer) SellTokens(ctx context.Context, tokenAddress string, amount float64) (*convex.PeerResponse, error) {
	f.sells = append(f.sells, fmt.Sprintf("%s %v", tokenAddress, amount))
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	if f.session != nil {
		f.session.SequenceCounter++
	}
	return &convex.PeerResponse{Value: "ok"}, nil
}

func (f *fakePeer) GetMarket(ctx context.Context, tokenAddress string) interface{} { return nil }

// recordingNotifier collects every message by kind.
type recordingNotifier struct {
	successes []string
	errors    []string
	infos     []string
}

func (n *recordingNotifier) Success(m string) { n.successes = append(n.successes, m) }
func (n *recordingNotifier) Error(m string)   { n.errors = append(n.errors, m) }
func (n *recordingNotifier) Info(m string)    { n.infos = append(n.infos, m) }

func newTestController(peer *fakePeer) (*Controller, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return NewController(peer, notifier, DefaultRegistry(), Options{}), notifier
}

func connect(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
}

func TestOnFromAmountChange_AppliesSlippagePlaceholder(t *testing.T) {
	c, _ := newTestController(&fakePeer{})

	got := c.OnFromAmountChange("100")
	if got != "97.0000" {
		t.Errorf(`expected "97.0000", got %q`, got)
	}

	intent := c.Intent()
	if intent.FromAmount != 100 {
		t.Errorf("expected from amount 100, got %v", intent.FromAmount)
	}
	if intent.ToAmount != "97.0000" {
		t.Errorf("expected to amount 97.0000, got %q", intent.ToAmount)
	}
}

func TestOnFromAmountChange_RejectsUnusableInput(t *testing.T) {
	c, _ := newTestController(&fakePeer{})
	c.OnFromAmountChange("100") // seed some state to clear

	for _, raw := range []string{"", "abc", "0", "-5", "12x", "  "} {
		got := c.OnFromAmountChange(raw)
		if got != "" {
			t.Errorf("input %q: expected cleared output, got %q", raw, got)
		}
		intent := c.Intent()
		if intent.FromAmount != 0 || intent.ToAmount != "" {
			t.Errorf("input %q: expected cleared intent, got %+v", raw, intent)
		}
	}
}

func TestSwapTokenPositions_IsItsOwnInverse(t *testing.T) {
	peer := &fakePeer{}
	c, _ := newTestController(peer)
	ctx := context.Background()

	c.SelectFromToken("CVX")
	c.SelectToToken("USDF")
	c.OnFromAmountChange("50")

	c.SwapTokenPositions(ctx)
	intent := c.Intent()
	if intent.FromToken != "USDF" || intent.ToToken != "CVX" {
		t.Errorf("expected USDF/CVX after flip, got %s/%s", intent.FromToken, intent.ToToken)
	}
	if intent.FromAmount != 0 || intent.ToAmount != "" {
		t.Error("flip must zero both amounts")
	}

	c.SwapTokenPositions(ctx)
	intent = c.Intent()
	if intent.FromToken != "CVX" || intent.ToToken != "USDF" {
		t.Errorf("expected original pair restored, got %s/%s", intent.FromToken, intent.ToToken)
	}
	if intent.FromAmount != 0 || intent.ToAmount != "" {
		t.Error("amounts must stay zeroed")
	}
}

func TestSwapTokenPositions_RefreshesWhileConnected(t *testing.T) {
	peer := &fakePeer{}
	c, _ := newTestController(peer)
	connect(t, c)

	before := peer.balanceCalls
	c.SwapTokenPositions(context.Background())
	if peer.balanceCalls <= before {
		t.Error("expected a balance refresh after flipping while connected")
	}
}

func TestExecuteSwap_BuyForNativeToToken(t *testing.T) {
	peer := &fakePeer{}
	c, notifier := newTestController(peer)
	connect(t, c)

	c.SelectFromToken("CVX")
	c.SelectToToken("USDF")
	c.OnFromAmountChange("100")

	if err := c.ExecuteSwap(context.Background()); err != nil {
		t.Fatalf("ExecuteSwap: %v", err)
	}
	if len(peer.buys) != 1 || peer.buys[0] != "#19 100" {
		t.Errorf("expected one buy of #19 100, got %v", peer.buys)
	}
	if len(peer.sells) != 0 {
		t.Errorf("unexpected sells: %v", peer.sells)
	}
	if len(notifier.successes) == 0 {
		t.Error("expected a success notification")
	}
	intent := c.Intent()
	if intent.FromAmount != 0 || intent.ToAmount != "" {
		t.Error("amounts must reset after a completed swap")
	}
}

func TestExecuteSwap_SellForTokenToNative(t *testing.T) {
	peer := &fakePeer{}
	c, _ := newTestController(peer)
	connect(t, c)

	c.SelectFromToken("USDF")
	c.SelectToToken("CVX")
	c.OnFromAmountChange("25")

	if err := c.ExecuteSwap(context.Background()); err != nil {
		t.Fatalf("ExecuteSwap: %v", err)
	}
	if len(peer.sells) != 1 || peer.sells[0] != "#19 25" {
		t.Errorf("expected one sell of #19 25, got %v", peer.sells)
	}
}

func TestExecuteSwap_TokenToTokenFailsBeforeNetwork(t *testing.T) {
	peer := &fakePeer{}
	c, _ := newTestController(peer)
	// Two addressed tokens so the pair is genuinely token-to-token.
	c.registry.add("NZDF", "#27")
	connect(t, c)

	c.SelectFromToken("USDF")
	c.SelectToToken("NZDF")
	c.OnFromAmountChange("10")

	buysBefore, sellsBefore := len(peer.buys), len(peer.sells)
	err := c.ExecuteSwap(context.Background())
	var use *UnsupportedSwapError
	if !errors.As(err, &use) {
		t.Fatalf("expected *UnsupportedSwapError, got %v", err)
	}
	if len(peer.buys) != buysBefore || len(peer.sells) != sellsBefore {
		t.Error("unsupported pair must fail before any network call")
	}
}

func TestExecuteSwap_NativeAliasesPairIsUnsupported(t *testing.T) {
	peer := &fakePeer{}
	c, _ := newTestController(peer)
	connect(t, c)

	c.SelectFromToken("CVX")
	c.SelectToToken("CVM")
	c.OnFromAmountChange("10")

	err := c.ExecuteSwap(context.Background())
	var use *UnsupportedSwapError
	if !errors.As(err, &use) {
		t.Fatalf("expected *UnsupportedSwapError, got %v", err)
	}
}

func TestExecuteSwap_ReentryIsNoOp(t *testing.T) {
	peer := &fakePeer{}
	c, _ := newTestController(peer)
	connect(t, c)

	c.SelectFromToken("CVX")
	c.SelectToToken("USDF")
	c.OnFromAmountChange("10")

	c.mu.Lock()
	c.isSwapping = true
	c.mu.Unlock()

	if err := c.ExecuteSwap(context.Background()); err != nil {
		t.Fatalf("re-entry must be a silent no-op, got %v", err)
	}
	if len(peer.buys)+len(peer.sells) != 0 {
		t.Error("re-entry must not issue peer calls")
	}
}

func TestExecuteSwap_RequiresConnection(t *testing.T) {
	peer := &fakePeer{}
	c, notifier := newTestController(peer)

	c.OnFromAmountChange("10")
	err := c.ExecuteSwap(context.Background())
	var nce *convex.NotConnectedError
	if !errors.As(err, &nce) {
		t.Fatalf("expected *NotConnectedError, got %v", err)
	}
	if len(notifier.errors) != 1 {
		t.Errorf("expected one error notification, got %d", len(notifier.errors))
	}
}

func TestExecuteSwap_RejectsInvalidAmount(t *testing.T) {
	peer := &fakePeer{}
	c, _ := newTestController(peer)
	connect(t, c)

	c.OnFromAmountChange("not-a-number")
	err := c.ExecuteSwap(context.Background())
	var iae *InvalidAmountError
	if !errors.As(err, &iae) {
		t.Fatalf("expected *InvalidAmountError, got %v", err)
	}
	if len(peer.buys)+len(peer.sells) != 0 {
		t.Error("invalid amount must not issue peer calls")
	}
}

func TestExecuteSwap_PeerFundsErrorKeepsSequence(t *testing.T) {
	peer := &fakePeer{
		transactErr: &convex.TransactionError{ErrorCode: "FUNDS", Message: "insufficient balance"},
	}
	c, notifier := newTestController(peer)
	connect(t, c)

	c.SelectFromToken("CVX")
	c.SelectToToken("USDF")
	c.OnFromAmountChange("100")

	err := c.ExecuteSwap(context.Background())
	var te *convex.TransactionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransactionError, got %v", err)
	}
	if peer.session.SequenceCounter != 0 {
		t.Errorf("failed swap must not advance the sequence counter, got %d", peer.session.SequenceCounter)
	}
	if len(notifier.errors) == 0 {
		t.Error("expected a failure notification")
	}
	if c.Connected() != true {
		t.Error("a failed swap must not drop the session")
	}
	// The in-flight guard must be released for the next attempt.
	peer.transactErr = nil
	c.OnFromAmountChange("100")
	if err := c.ExecuteSwap(context.Background()); err != nil {
		t.Fatalf("follow-up swap after failure: %v", err)
	}
}

func TestRefreshBalances_NativeVersusContractQueries(t *testing.T) {
	peer := &fakePeer{balance: 500, queryValue: float64(7)}
	c, _ := newTestController(peer)
	connect(t, c)

	peer.queries = nil
	peer.balanceCalls = 0

	balances := c.RefreshBalances(context.Background())

	// CVX, CVM, GBPF, EURF, XAU all resolve to the native balance.
	if peer.balanceCalls != 5 {
		t.Errorf("expected 5 native balance reads, got %d", peer.balanceCalls)
	}
	// USDF is the only symbol with a deployed market.
	if len(peer.queries) != 1 {
		t.Fatalf("expected 1 contract query, got %d: %v", len(peer.queries), peer.queries)
	}
	want := "(call #19 (balance #11))"
	if peer.queries[0] != want {
		t.Errorf("expected %q, got %q", want, peer.queries[0])
	}
	if balances["CVX"] != 500 {
		t.Errorf("expected native balance 500, got %v", balances["CVX"])
	}
	if balances["USDF"] != 7 {
		t.Errorf("expected token balance 7, got %v", balances["USDF"])
	}
}

func TestRefreshBalances_FailureDegradesToZero(t *testing.T) {
	peer := &fakePeer{
		balance:  100,
		queryErr: &convex.QueryError{StatusCode: 500, Message: "down"},
	}
	c, _ := newTestController(peer)
	connect(t, c)

	balances := c.RefreshBalances(context.Background())
	if balances["USDF"] != 0 {
		t.Errorf("expected token balance 0 on failure, got %v", balances["USDF"])
	}
	if balances["CVX"] != 100 {
		t.Errorf("native balance should be unaffected, got %v", balances["CVX"])
	}
}

func TestConnect_FailureEmitsOneNotification(t *testing.T) {
	peer := &fakePeer{
		connectErr: &convex.ConnectionError{Reason: "peer unreachable"},
	}
	c, notifier := newTestController(peer)

	if err := c.Connect(context.Background()); err == nil {
		t.Fatal("expected connect failure")
	}
	if c.Connected() {
		t.Error("controller must stay disconnected")
	}
	if len(notifier.errors) != 1 {
		t.Errorf("expected exactly one failure notification, got %d", len(notifier.errors))
	}
	if peer.balanceCalls != 0 {
		t.Error("no partial state: failed connect must not poll balances")
	}
}

func TestToggleConnection_RoundTrip(t *testing.T) {
	peer := &fakePeer{}
	c, notifier := newTestController(peer)
	ctx := context.Background()

	if err := c.ToggleConnection(ctx); err != nil {
		t.Fatalf("toggle to connected: %v", err)
	}
	if !c.Connected() || !peer.connected {
		t.Fatal("expected connected")
	}

	if err := c.ToggleConnection(ctx); err != nil {
		t.Fatalf("toggle to disconnected: %v", err)
	}
	if c.Connected() || peer.connected {
		t.Fatal("expected disconnected")
	}
	if len(notifier.infos) == 0 {
		t.Error("expected a disconnect notice")
	}
}

func TestBindings_CoverAllActions(t *testing.T) {
	c, _ := newTestController(&fakePeer{})
	bindings := c.Bindings()

	for _, action := range []Action{
		ActionToggleConnection, ActionExecuteSwap, ActionFlipTokens,
		ActionFromAmount, ActionFromToken, ActionToToken, ActionRefreshBalances,
	} {
		if bindings[action] == nil {
			t.Errorf("missing binding for %s", action)
		}
	}

	if err := bindings[ActionFromToken](context.Background(), "USDF"); err != nil {
		t.Errorf("from-token binding: %v", err)
	}
	if c.Intent().FromToken != "USDF" {
		t.Error("binding did not reach the controller")
	}
}

package swap

// Explicit UI-binding table. Front ends (Telegram bot, CLI) dispatch named
// user intents through this map instead of wiring themselves to controller
// methods, so the controller stays testable without any real UI.

import "context"

type Action string

const (
	ActionToggleConnection Action = "toggle-connection"
	ActionExecuteSwap      Action = "execute-swap"
	ActionFlipTokens       Action = "flip-tokens"
	ActionFromAmount       Action = "from-amount"
	ActionFromToken        Action = "from-token"
	ActionToToken          Action = "to-token"
	ActionRefreshBalances  Action = "refresh-balances"
)

// ActionHandler runs one user intent. arg carries the input value for
// amount/token actions and is ignored by the rest.
type ActionHandler func(ctx context.Context, arg string) error

// Bindings returns the action table for this controller.
func (c *Controller) Bindings() map[Action]ActionHandler {
	return map[Action]ActionHandler{
		ActionToggleConnection: func(ctx context.Context, _ string) error {
			return c.ToggleConnection(ctx)
		},
		ActionExecuteSwap: func(ctx context.Context, _ string) error {
			return c.ExecuteSwap(ctx)
		},
		ActionFlipTokens: func(ctx context.Context, _ string) error {
			c.SwapTokenPositions(ctx)
			return nil
		},
		ActionFromAmount: func(_ context.Context, arg string) error {
			c.OnFromAmountChange(arg)
			return nil
		},
		ActionFromToken: func(_ context.Context, arg string) error {
			return c.SelectFromToken(arg)
		},
		ActionToToken: func(_ context.Context, arg string) error {
			return c.SelectToToken(arg)
		},
		ActionRefreshBalances: func(ctx context.Context, _ string) error {
			c.RefreshBalances(ctx)
			return nil
		},
	}
}

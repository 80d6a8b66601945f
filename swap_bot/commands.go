package swap_bot

// Package swap_bot is the Telegram front end of the swap interface.
// It only translates chat commands into controller actions; everything
// stateful lives in the controller.

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"vortex-swap/internal/features/swap"
	"vortex-swap/internal/features/tg_charts"
	"vortex-swap/internal/infra/fs"
	log "vortex-swap/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// HandlerOptions carry the chat wiring of the command handler.
type HandlerOptions struct {
	ChatID  string
	DataDir string
	PeerURL string
}

// RunCommandHandler consumes Telegram updates until the context ends,
// dispatching commands through the controller's action table.
func RunCommandHandler(ctx context.Context, bot *tgbotapi.BotAPI, controller *swap.Controller, opts HandlerOptions) {
	chatID := opts.ChatID
	if bot == nil {
		log.LogWarn("Bot is nil, command handler not started")
		return
	}
	if chatID == "" {
		log.LogWarn("Chat ID is empty, command handler not started")
		return
	}

	log.LogInfo("Starting command handler", zap.String("chatID", chatID))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)
	bindings := controller.Bindings()
	expectedChatID := parseChatID(chatID)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			if update.Message.Chat.ID != expectedChatID &&
				formatChatID(update.Message.Chat.ID) != chatID {
				continue
			}
			if !update.Message.IsCommand() {
				continue
			}

			handleCommand(ctx, bot, update.Message, controller, bindings, opts)
		}
	}
}

func handleCommand(ctx context.Context, bot *tgbotapi.BotAPI, message *tgbotapi.Message, controller *swap.Controller, bindings map[swap.Action]swap.ActionHandler, opts HandlerOptions) {
	command := message.Command()
	args := strings.TrimSpace(message.CommandArguments())

	log.LogDebug("Received command",
		zap.String("command", command),
		zap.String("args", args),
		zap.String("username", message.From.UserName))

	reply := func(text string) {
		msg := tgbotapi.NewMessage(message.Chat.ID, text)
		msg.ReplyToMessageID = message.MessageID
		bot.Send(msg)
	}

	switch command {
	case "connect", "disconnect":
		// Both map onto the same toggle; guard against the no-op direction.
		if command == "connect" && controller.Connected() {
			reply("Already connected.")
			return
		}
		if command == "disconnect" && !controller.Connected() {
			reply("Not connected.")
			return
		}
		bindings[swap.ActionToggleConnection](ctx, "")
		if command == "connect" && controller.Connected() {
			if s := controller.Session(); s != nil {
				fs.SaveSession(opts.DataDir, &fs.SessionFile{
					Address: s.Address,
					Seed:    s.Seed,
					PeerURL: opts.PeerURL,
				})
			}
		}

	case "swap":
		// /swap FROM TO AMOUNT, e.g. /swap CVX USDF 100
		parts := strings.Fields(args)
		if len(parts) != 3 {
			reply("Usage: /swap {from} {to} {amount}\n\nExample: /swap CVX USDF 100")
			return
		}
		if err := bindings[swap.ActionFromToken](ctx, parts[0]); err != nil {
			return
		}
		if err := bindings[swap.ActionToToken](ctx, parts[1]); err != nil {
			return
		}
		bindings[swap.ActionFromAmount](ctx, parts[2])
		intent := controller.Intent()
		if intent.ToAmount == "" {
			reply(fmt.Sprintf("Invalid amount %q: must be a positive number", parts[2]))
			return
		}
		reply(fmt.Sprintf("Swapping %s %s → ~%s %s...",
			parts[2], intent.FromToken, intent.ToAmount, intent.ToToken))
		bindings[swap.ActionExecuteSwap](ctx, "")

	case "flip":
		bindings[swap.ActionFlipTokens](ctx, "")
		intent := controller.Intent()
		reply(fmt.Sprintf("Pair is now %s → %s (amounts cleared)", intent.FromToken, intent.ToToken))

	case "rate":
		if args == "" {
			reply("Usage: /rate {amount}\n\nExample: /rate 100")
			return
		}
		estimate := controller.OnFromAmountChange(args)
		if estimate == "" {
			reply(fmt.Sprintf("Invalid amount %q: must be a positive number", args))
			return
		}
		intent := controller.Intent()
		reply(fmt.Sprintf("%s %s ≈ %s %s (fixed 3%% slippage estimate)",
			args, intent.FromToken, estimate, intent.ToToken))

	case "balance":
		if !controller.Connected() {
			reply("Not connected. Use /connect first.")
			return
		}
		balances := controller.RefreshBalances(ctx)
		reply(formatBalances(balances))

	case "tokens":
		reply(formatTokens(controller.Registry()))

	case "chart":
		symbol := args
		if symbol == "" {
			symbol = controller.Intent().FromToken
		}
		chartPath, err := tg_charts.GenerateBalanceChart(opts.DataDir, symbol)
		if err != nil {
			reply(fmt.Sprintf("No chart available for %s yet.", symbol))
			return
		}
		photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FilePath(chartPath))
		photo.Caption = fmt.Sprintf("%s balance history", symbol)
		if _, err := bot.Send(photo); err != nil {
			log.LogError("Failed to send balance chart", zap.Error(err))
		}

	case "help", "start":
		reply(helpText)
	}
}

const helpText = `Vortex swap interface:

/connect — connect to the peer (bootstraps a demo account if needed)
/disconnect — drop the session
/swap {from} {to} {amount} — execute a swap, e.g. /swap CVX USDF 100
/rate {amount} — estimate output for the current pair
/flip — swap the token positions (clears amounts)
/balance — refresh and show balances
/tokens — list configured tokens
/chart [symbol] — balance history chart
/help — this message`

func formatBalances(balances map[string]float64) string {
	symbols := make([]string, 0, len(balances))
	for s := range balances {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var b strings.Builder
	b.WriteString("Balances:\n")
	for _, s := range symbols {
		fmt.Fprintf(&b, "  %s: %.4f\n", s, balances[s])
	}
	return b.String()
}

func formatTokens(registry *swap.Registry) string {
	var b strings.Builder
	b.WriteString("Configured tokens:\n")
	for _, symbol := range registry.Symbols() {
		if swap.IsNative(symbol) {
			fmt.Fprintf(&b, "  %s — native currency\n", symbol)
		} else if addr, ok := registry.Address(symbol); ok {
			fmt.Fprintf(&b, "  %s — %s\n", symbol, addr)
		} else {
			fmt.Fprintf(&b, "  %s — no market yet\n", symbol)
		}
	}
	return b.String()
}

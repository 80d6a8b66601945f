package commands

// Runs the Telegram swap interface: command handler plus balance poller,
// with graceful shutdown on SIGINT/SIGTERM.

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"vortex-swap/internal/clients_api/convex"
	"vortex-swap/internal/features/swap"
	"vortex-swap/internal/infra/config"
	"vortex-swap/internal/infra/fs"
	logging "vortex-swap/internal/infra/log"
	"vortex-swap/swap_bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram swap interface",
	Long:  `Run the interactive swap interface: connect, swap, balances and charts over a Telegram chat.`,
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.LogError("Failed to load config", zap.Error(err))
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required for the bot command")
	}
	if cfg.Telegram.ChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required for the bot command")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logging.LogError("Failed to initialize Telegram bot", zap.Error(err))
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	logging.LogInfo("Telegram bot authorized", zap.String("username", bot.Self.UserName))

	client := newPeerClient(cfg)
	notifier := swap_bot.NewTelegramNotifier(bot, cfg.Telegram.ChatID)
	controller := swapControllerFor(cfg, client, notifier)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		swap_bot.RunCommandHandler(ctx, bot, controller, swap_bot.HandlerOptions{
			ChatID:  cfg.Telegram.ChatID,
			DataDir: cfg.App.DataDir,
			PeerURL: cfg.Peer.URL,
		})
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		swap_bot.RunBalanceMonitor(ctx, controller, cfg.App.DataDir,
			time.Duration(cfg.Swap.PollInterval)*time.Second, cfg.Swap.HistoryCapacity)
	}()

	logging.LogSuccess("Swap interface is running", zap.String("peer", cfg.Peer.URL))

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, stopping...")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.LogSuccess("Stopped gracefully")
	case <-time.After(10 * time.Second):
		logging.LogWarn("Timeout waiting for workers to stop, forcing shutdown")
	}

	controller.Disconnect()
	return nil
}

// newPeerClient builds the configured peer client.
func newPeerClient(cfg *config.Config) *convex.Client {
	client := convex.NewClient(cfg.Peer.URL)
	if cfg.Peer.RequestTimeout > 0 {
		client.SetTimeout(time.Duration(cfg.Peer.RequestTimeout) * time.Second)
	}
	client.SetFaucetAmount(cfg.Peer.FaucetAmount)
	return client
}

// swapControllerFor wires the controller, preferring configured
// credentials, then a previously saved session, then bootstrap.
func swapControllerFor(cfg *config.Config, client *convex.Client, notifier swap.Notifier) *swap.Controller {
	opts := swap.Options{Address: cfg.Peer.Address, Seed: cfg.Peer.Seed}

	if opts.Address == "" || opts.Seed == "" {
		if saved, err := fs.LoadSession(cfg.App.DataDir); err == nil && saved.PeerURL == cfg.Peer.URL {
			opts.Address = saved.Address
			opts.Seed = saved.Seed
			logging.LogInfo("Reusing saved session", zap.String("address", saved.Address))
		}
	}

	registry := swap.DefaultRegistry().Filter(cfg.Swap.WatchedSymbols)
	controller := swap.NewController(client, notifier, registry, opts)

	if cfg.Swap.FromToken != "" {
		controller.SelectFromToken(cfg.Swap.FromToken)
	}
	if cfg.Swap.ToToken != "" {
		controller.SelectToToken(cfg.Swap.ToToken)
	}

	return controller
}

package swap_bot

// Balance poller: refreshes balances on a fixed interval while the
// session is connected and appends each snapshot to the history file
// feeding /chart.

import (
	"context"
	"time"

	"vortex-swap/internal/features/swap"
	"vortex-swap/internal/infra/fs"
	log "vortex-swap/internal/infra/log"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often connected balances are re-read.
const DefaultPollInterval = 15 * time.Second

// RunBalanceMonitor polls until the context ends. historyCapacity bounds
// the snapshot file (0 keeps everything).
func RunBalanceMonitor(ctx context.Context, controller *swap.Controller, dataDir string, interval time.Duration, historyCapacity int) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	log.LogInfo("Starting balance monitor", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.LogInfo("Balance monitor stopped")
			return
		case <-ticker.C:
			if !controller.Connected() {
				continue
			}
			balances := controller.RefreshBalances(ctx)
			if err := fs.AppendBalanceSnapshot(dataDir, balances, historyCapacity); err != nil {
				log.LogWarn("Failed to persist balance snapshot", zap.Error(err))
			}
		}
	}
}

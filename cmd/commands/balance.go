package commands

// One-shot native balance lookup.

import (
	"context"
	"fmt"
	"time"

	"vortex-swap/internal/infra/config"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance {address}",
	Short: "Show the native balance of an address",
	Long: `Fetch the native-currency balance of an address. A lookup failure
prints 0, matching the interface's silent-zero fallback.

Example:
  vortex-swap balance "#11"`,
	Args: cobra.ExactArgs(1),
	RunE: runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := newPeerClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	balance := client.GetBalance(ctx, args[0])
	fmt.Printf("%s: %.4f\n", args[0], balance)
	return nil
}

package commands

// One-shot read-only query against the peer.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vortex-swap/internal/infra/config"
	logging "vortex-swap/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var queryAddress string

var queryCmd = &cobra.Command{
	Use:   "query {source}",
	Short: "Evaluate a read-only source expression on the peer",
	Long: `Evaluate a source expression on the peer without changing state.

Example:
  vortex-swap query "(balance #11)"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryAddress, "for-address", "", "address the query runs as")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := newPeerClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	resp, err := client.Query(ctx, args[0], queryAddress)
	if err != nil {
		logging.LogError("Query failed", zap.Error(err))
		return err
	}

	out, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Println(string(out))
	return nil
}

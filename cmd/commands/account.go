package commands

// Account utilities: bootstrap a fresh account, inspect an existing one.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vortex-swap/internal/infra/config"
	"vortex-swap/internal/infra/fs"
	logging "vortex-swap/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Account operations on the peer",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Bootstrap a new account and save it as the session",
	Long: `Create a new account on the peer (falling back to the shared demo
account when creation is refused), request faucet funds and save the
credentials into the data dir for later connects.`,
	RunE: runAccountCreate,
}

var accountInfoCmd = &cobra.Command{
	Use:   "info {address}",
	Short: "Show account details from the peer",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountInfo,
}

func init() {
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountInfoCmd)
}

func runAccountCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := newPeerClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	session, err := client.Connect(ctx, "", "")
	if err != nil {
		logging.LogError("Account bootstrap failed", zap.Error(err))
		return err
	}

	filename, err := fs.SaveSession(cfg.App.DataDir, &fs.SessionFile{
		Address: session.Address,
		Seed:    session.Seed,
		PeerURL: cfg.Peer.URL,
	})
	if err != nil {
		return err
	}

	logging.LogSuccess("Account ready", zap.String("address", session.Address), zap.String("file", filename))
	fmt.Printf("Address: %s\nSession saved to %s\n", session.Address, filename)
	return nil
}

func runAccountInfo(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := newPeerClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	info := client.GetAccountInfo(ctx, args[0])
	if info == nil {
		fmt.Println("null")
		return nil
	}

	out, _ := json.MarshalIndent(info, "", "  ")
	fmt.Println(string(out))
	return nil
}

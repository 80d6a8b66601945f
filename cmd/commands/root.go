package commands

// Root command for the Cobra CLI.

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vortex-swap",
	Short: "Vortex Swap - token swap interface for a Convex peer",
	Long: `Vortex Swap is a client for swapping tokens against the torus exchange
on a remote Convex peer, driven through a Telegram bot or one-shot commands.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(accountCmd)
}

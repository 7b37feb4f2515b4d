package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

const (
	groupVault = "vault"
	groupSetup = "setup"
)

// Flags shared by every command.
var (
	flagConfig string
	flagPicker string
	flagVault  string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "vaultpick",
	Short: "Pick a 1Password field and copy it to the clipboard",
	Long: `vaultpick - copy a 1Password field from a dmenu-style picker
  - choose an item, then a field; the value lands on the clipboard
  - passwords and one-time codes are masked, never displayed`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyColorMode()
	},
	RunE: runLaunch,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupVault, Title: "Vault Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default $XDG_CONFIG_HOME/vaultpick/config.yaml)")
	pf.StringVar(&flagPicker, "picker", "", "picker backend: command or builtin")
	pf.StringVar(&flagVault, "vault", "", "only list items from this vault")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	pf.StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")

	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/vaultpick/internal/launcher"
	"github.com/runger/vaultpick/internal/session"
)

// stdin is where `session store` reads the token from.
var stdin io.Reader = os.Stdin

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show where the session token comes from and whether it works",
	Long: `Show which configured source supplies the 1Password session token and
check it with ` + "`op whoami`" + `.

Sources are tried in the order of session.sources:
  systemd   the systemd user manager environment
  env       vaultpick's own environment
  keyring   a token saved with 'vaultpick session store'`,
	GroupID: groupVault,
	Args:    cobra.NoArgs,
	RunE:    runSessionStatus,
}

var sessionStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Save a session token from stdin in the keyring",
	Long: `Read a session token from the first line of stdin and save it in the
OS keyring, where the keyring source finds it.

Example:
  op signin --raw | vaultpick session store`,
	Args: cobra.NoArgs,
	RunE: runSessionStore,
}

var sessionForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the saved session token from the keyring",
	Args:  cobra.NoArgs,
	RunE:  runSessionForget,
}

func init() {
	sessionCmd.AddCommand(sessionStoreCmd)
	sessionCmd.AddCommand(sessionForgetCmd)
}

func runSessionStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	token, source, err := a.sessionChain().Resolve(ctx)
	if err != nil {
		fmt.Fprintf(out, "%s✗%s No session token (tried: %v)\n", colorRed, colorReset, a.cfg.Session.Sources)
		return err
	}
	fmt.Fprintf(out, "%s✓%s Session token from %s%s%s\n", colorGreen, colorReset, colorCyan, source, colorReset)

	if err := a.vaultClient(token).Whoami(ctx); err != nil {
		fmt.Fprintf(out, "%s✗%s Session rejected by %s\n", colorRed, colorReset, a.cfg.Vault.Command)
		return fmt.Errorf("%w: %v", launcher.ErrSessionInvalid, err)
	}
	fmt.Fprintf(out, "%s✓%s Session accepted by %s\n", colorGreen, colorReset, a.cfg.Vault.Command)
	return nil
}

func runSessionStore(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read token: %w", err)
	}

	store, err := a.keyring()
	if err != nil {
		return err
	}
	if err := session.StoreToken(store, line); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s✓%s Session token saved to the keyring\n", colorGreen, colorReset)
	return nil
}

func runSessionForget(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.keyring()
	if err != nil {
		return err
	}
	if err := session.ForgetToken(store); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s✓%s Session token removed from the keyring\n", colorGreen, colorReset)
	return nil
}

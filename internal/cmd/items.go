package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/runger/vaultpick/internal/table"
	"github.com/runger/vaultpick/internal/vault"
)

var itemsJSON bool

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Print the item table the picker would show",
	Long: `Print the item table as it is sent to the picker, without opening
the picker. Lines wider than the terminal are truncated. Use it to check
the session and vault settings.

Examples:
  vaultpick items
  vaultpick items --vault Work
  vaultpick items --json`,
	GroupID: groupVault,
	Args:    cobra.NoArgs,
	RunE:    runItems,
}

func init() {
	itemsCmd.Flags().BoolVar(&itemsJSON, "json", false, "print the item summaries as JSON")
}

func runItems(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	token, source, err := a.sessionChain().Resolve(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug("session resolved", "source", source)

	items, err := a.vaultClient(token).ListItems(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if itemsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	lines, err := table.Format(vault.Rows(items))
	if err != nil {
		return err
	}
	width := terminalWidth(out)
	for _, line := range lines {
		fmt.Fprintln(out, runewidth.Truncate(line, width, "…"))
	}
	fmt.Fprintf(out, "%s%s%s\n", colorDim, plural(len(items), "item"), colorReset)
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

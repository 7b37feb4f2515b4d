// Package vault queries items from the 1Password CLI.
package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/runger/vaultpick/internal/proc"
)

// DefaultCommand is the vault CLI binary.
const DefaultCommand = "op"

// ErrNoItems is returned when the item list comes back empty.
var ErrNoItems = errors.New("no items found")

// Client lists and fetches vault items.
type Client interface {
	ListItems(ctx context.Context) ([]Summary, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	Whoami(ctx context.Context) error
}

// CLIClient implements Client by shelling out to the `op` CLI.
type CLIClient struct {
	runner  proc.Runner
	logger  *slog.Logger
	command string
	session string
	vault   string
	account string
}

// Option configures a CLIClient.
type Option func(*CLIClient)

// WithCommand overrides the CLI binary.
func WithCommand(command string) Option {
	return func(c *CLIClient) {
		if command != "" {
			c.command = command
		}
	}
}

// WithVault restricts item listing to one vault.
func WithVault(name string) Option {
	return func(c *CLIClient) { c.vault = name }
}

// WithAccount selects the account when several are signed in.
func WithAccount(account string) Option {
	return func(c *CLIClient) { c.account = account }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLIClient) { c.logger = logger }
}

// NewCLIClient creates a client that authenticates with session.
func NewCLIClient(runner proc.Runner, session string, opts ...Option) *CLIClient {
	c := &CLIClient{
		runner:  runner,
		logger:  slog.Default(),
		command: DefaultCommand,
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListItems runs `op item list`.
func (c *CLIClient) ListItems(ctx context.Context) ([]Summary, error) {
	args := []string{"item", "list", "--format", "json"}
	if c.vault != "" {
		args = append(args, "--vault", c.vault)
	}

	c.logger.Debug("listing items", "vault", c.vault)
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, ErrNoItems
	}

	var items []Summary
	if err := json.Unmarshal(out, &items); err != nil {
		return nil, fmt.Errorf("failed to parse item list JSON: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	c.logger.Debug("listed items", "count", len(items))
	return items, nil
}

// GetItem runs `op item get <id>`.
func (c *CLIClient) GetItem(ctx context.Context, id string) (*Item, error) {
	c.logger.Debug("fetching item", "id", id)
	out, err := c.run(ctx, "item", "get", id, "--format", "json")
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", id, err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, fmt.Errorf("failed to get item %s: empty output", id)
	}

	var item Item
	if err := json.Unmarshal(out, &item); err != nil {
		return nil, fmt.Errorf("failed to parse item JSON: %w", err)
	}
	return &item, nil
}

// Whoami checks that the session is accepted by the CLI.
func (c *CLIClient) Whoami(ctx context.Context) error {
	if _, err := c.run(ctx, "whoami", "--format", "json"); err != nil {
		return fmt.Errorf("session rejected: %w", err)
	}
	return nil
}

func (c *CLIClient) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.account != "" {
		args = append(args, "--account", c.account)
	}
	args = append(args, "--session", c.session)
	return c.runner.Run(ctx, nil, c.command, args...)
}

// Package launcher runs one credential pick: find the session, let the user
// choose an item and then a field, and put the field's value on the
// clipboard.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/runger/vaultpick/internal/clipboard"
	"github.com/runger/vaultpick/internal/fields"
	vplog "github.com/runger/vaultpick/internal/log"
	"github.com/runger/vaultpick/internal/picker"
	"github.com/runger/vaultpick/internal/session"
	"github.com/runger/vaultpick/internal/vault"
)

// Default prompts.
const (
	DefaultItemPrompt  = "🔐 Select item"
	DefaultFieldPrompt = "📋 Copy field"
)

// ErrSessionInvalid is returned when the password manager rejects the
// session token.
var ErrSessionInvalid = errors.New("session token rejected")

// Notices shown before a run fails.
var (
	noticeSessionInvalid = Notice{
		Title:   "🔐 1Password session expired",
		Message: "The stored session was rejected.\n\nRun `op signin` again to refresh it.",
	}
	noticeNoItems = Notice{
		Title:   "🔍 No Items",
		Message: "No 1Password items found.\n\nCheck your vault or sign-in status.",
	}
)

// notSignedInNotice tells the user how to get a session exported under
// prefix.
func notSignedInNotice(prefix string) Notice {
	if prefix == "" {
		prefix = session.DefaultPrefix
	}
	return Notice{
		Title:   "🔐 Not signed in to 1Password",
		Message: "Please run `op signin` in a terminal or the 1Password GUI.\n\nThis launcher requires an active " + prefix + " variable.",
	}
}

// Notice is an error the user has been told about through the picker.
type Notice struct {
	Title   string
	Message string
	Err     error
}

func (n *Notice) Error() string {
	if n.Err != nil {
		return fmt.Sprintf("%s: %v", n.Title, n.Err)
	}
	return n.Title
}

func (n *Notice) Unwrap() error {
	return n.Err
}

// Resolver finds a session token.
type Resolver interface {
	Resolve(ctx context.Context) (session.Token, string, error)
}

// ClientFactory builds a vault client authenticated with token.
type ClientFactory func(token session.Token) vault.Client

// LockFunc takes the single-picker lock and returns its release function.
type LockFunc func() (release func(), err error)

// Launcher wires the pieces of a run together.
type Launcher struct {
	Sessions  Resolver
	NewClient ClientFactory
	Picker    picker.Interactive
	Clipboard clipboard.Setter
	Lock      LockFunc

	ItemPrompt  string
	FieldPrompt string
	// Validate checks the token with the password manager before listing.
	Validate bool
	// SessionPrefix names the session variable in the not-signed-in notice.
	SessionPrefix string

	Logger *slog.Logger
}

// Result describes what a run chose. It never carries the copied value.
type Result struct {
	RunID    string
	ItemID   string
	Item     string
	Field    string
	Category fields.Category
	Source   string
}

// Run performs one pick. The Result is returned on failure too, carrying the
// run ID and whatever had been chosen so far. The error wraps
// picker.ErrNoSelection when the user dismissed either picker.
func (l *Launcher) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	logger := l.logger().With("run_id", res.RunID)

	if l.Lock != nil {
		release, err := l.Lock()
		if err != nil {
			return res, err
		}
		defer release()
	}

	client, source, err := l.connect(ctx, logger)
	if err != nil {
		return res, err
	}
	res.Source = source

	summary, err := l.pickItem(ctx, logger, client)
	if err != nil {
		return res, err
	}
	res.ItemID = summary.ID
	res.Item = summary.Title

	row, err := l.pickField(ctx, logger, client, summary)
	if err != nil {
		return res, err
	}
	res.Field = row.Label
	res.Category = row.Category

	if err := l.Clipboard.Set(ctx, row.Value); err != nil {
		return res, fmt.Errorf("failed to copy %q: %w", row.Label, err)
	}
	logger.Debug("value copied", "item", summary.Title, "field", row.Label, "category", row.Category)
	return res, nil
}

// connect resolves the session and returns a client for it.
func (l *Launcher) connect(ctx context.Context, logger *slog.Logger) (vault.Client, string, error) {
	token, source, err := l.Sessions.Resolve(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return nil, "", l.notify(ctx, logger, notSignedInNotice(l.SessionPrefix), err)
		}
		return nil, "", err
	}
	logger.Debug("session resolved", "source", source, "token", token)

	client := l.NewClient(token)
	if l.Validate {
		if err := client.Whoami(ctx); err != nil {
			logger.Debug("session validation failed", "source", source, "error", err)
			return nil, "", l.notify(ctx, logger, noticeSessionInvalid, fmt.Errorf("%w: %v", ErrSessionInvalid, err))
		}
	}
	return client, source, nil
}

func (l *Launcher) pickItem(ctx context.Context, logger *slog.Logger, client vault.Client) (vault.Summary, error) {
	items, err := client.ListItems(ctx)
	if err != nil {
		if errors.Is(err, vault.ErrNoItems) {
			return vault.Summary{}, l.notify(ctx, logger, noticeNoItems, err)
		}
		return vault.Summary{}, err
	}
	logger.Debug("items listed", "count", len(items))

	sel := picker.Selector{Picker: l.Picker, Logger: logger}
	index, err := sel.Select(ctx, orDefault(l.ItemPrompt, DefaultItemPrompt), vault.Rows(items))
	if err != nil {
		return vault.Summary{}, fmt.Errorf("item selection: %w", err)
	}
	return items[index], nil
}

func (l *Launcher) pickField(ctx context.Context, logger *slog.Logger, client vault.Client, summary vault.Summary) (fields.Row, error) {
	item, err := client.GetItem(ctx, summary.ID)
	if err != nil {
		return fields.Row{}, err
	}

	// Classify before showing anything so an item with nothing to copy never
	// opens a picker.
	rows, err := fields.Classify(item.ClassifiableFields())
	if err != nil {
		return fields.Row{}, fmt.Errorf("item %q: %w", summary.Title, err)
	}
	logger.Debug("fields classified", "item", summary.Title, "count", len(rows))

	sel := picker.Selector{Picker: l.Picker, Logger: logger}
	index, err := sel.Select(ctx, orDefault(l.FieldPrompt, DefaultFieldPrompt), fields.Table(rows))
	if err != nil {
		return fields.Row{}, fmt.Errorf("field selection: %w", err)
	}
	return rows[index], nil
}

// notify shows n to the user and returns it as an error wrapping cause.
// A notice that cannot be shown is logged; the cause is still returned.
func (l *Launcher) notify(ctx context.Context, logger *slog.Logger, n Notice, cause error) error {
	if err := l.Picker.Notify(ctx, n.Title, n.Message); err != nil {
		logger.Warn("failed to show notice", "title", n.Title, "error", err)
	}
	n.Err = cause
	return &n
}

func (l *Launcher) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Outcome names how a run ended, for logging.
func Outcome(err error) string {
	var notice *Notice
	switch {
	case err == nil:
		return "copied"
	case errors.Is(err, picker.ErrNoSelection):
		return "cancelled"
	case errors.Is(err, picker.ErrAlreadyRunning):
		return "busy"
	case errors.As(err, &notice):
		return "notified"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return "failed"
	}
}

// Finish logs the end of a run.
func Finish(logger *slog.Logger, res *Result, err error) {
	if res != nil {
		logger = logger.With("run_id", res.RunID)
	}
	vplog.LogRunFinished(logger, Outcome(err), err)
}

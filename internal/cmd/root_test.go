package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	"github.com/runger/vaultpick/internal/picker"
	"github.com/runger/vaultpick/internal/proc"
	"github.com/runger/vaultpick/internal/proc/proctest"
	"github.com/runger/vaultpick/internal/session"
)

const itemListJSON = `[
  {"id": "abc123", "title": "GitHub", "additional_information": "octocat",
   "urls": [{"href": "https://github.com/login"}, {"primary": true, "href": "https://github.com"}]},
  {"id": "def456", "title": "Wifi"}
]`

const itemJSON = `{
  "id": "abc123",
  "title": "GitHub",
  "fields": [
    {"id": "username", "type": "STRING", "purpose": "USERNAME", "label": "username", "value": "octocat"},
    {"id": "password", "type": "CONCEALED", "purpose": "PASSWORD", "label": "password", "value": "hunter2"},
    {"id": "notesPlain", "type": "STRING", "purpose": "NOTES", "label": "notesPlain"},
    {"id": "totp_1", "type": "OTP", "label": "one-time password", "value": "otpauth://totp/x?secret=ABC", "totp": "492039"}
  ]
}`

// fakeUI chooses scripted line indices; a negative index dismisses the picker.
type fakeUI struct {
	choices  []int
	prompts  []string
	notices  []string
	messages []string
}

func (u *fakeUI) Present(_ context.Context, prompt string, lines []string) (string, error) {
	u.prompts = append(u.prompts, prompt)
	if len(u.choices) == 0 || u.choices[0] < 0 {
		return "", picker.ErrNoSelection
	}
	choice := u.choices[0]
	u.choices = u.choices[1:]
	return lines[choice], nil
}

func (u *fakeUI) Notify(_ context.Context, title, message string) error {
	u.notices = append(u.notices, title)
	u.messages = append(u.messages, message)
	return nil
}

type harness struct {
	t       *testing.T
	runner  *proctest.Runner
	ui      *fakeUI
	ring    keyring.Keyring
	backend string
	stdin   string
}

// newHarness isolates a command run: XDG directories under a temp dir,
// scripted external commands, a fake picker and an in-memory keyring.
// sourcesYAML is written as session.sources.
func newHarness(t *testing.T, sourcesYAML string) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	for _, k := range []string{"VAULTPICK_DEBUG", "VAULTPICK_LOG_LEVEL", "VAULTPICK_PICKER", "VAULTPICK_VAULT"} {
		t.Setenv(k, "")
	}

	cfgDir := filepath.Join(dir, "config", "vaultpick")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"),
		[]byte("session:\n  sources: "+sourcesYAML+"\n"), 0o644))

	h := &harness{
		t:      t,
		runner: &proctest.Runner{},
		ui:     &fakeUI{},
		ring:   keyring.NewArrayKeyring(nil),
	}

	origRunner, origKeyring, origPicker, origStdin := newRunner, openKeyring, newPicker, stdin
	t.Cleanup(func() {
		newRunner, openKeyring, newPicker, stdin = origRunner, origKeyring, origPicker, origStdin
	})
	newRunner = func() proc.Runner { return h.runner }
	openKeyring = func(string) (session.Store, error) { return h.ring, nil }
	newPicker = func(backend string, _ []string, _ bool, _ *slog.Logger) (picker.Interactive, error) {
		h.backend = backend
		return h.ui, nil
	}
	return h
}

// configure appends YAML to the config file written by newHarness.
func (h *harness) configure(yaml string) *harness {
	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "vaultpick", "config.yaml")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(h.t, err)
	defer f.Close()
	_, err = f.WriteString(yaml)
	require.NoError(h.t, err)
	return h
}

// signedIn scripts a systemd environment holding token.
func (h *harness) signedIn(token string) *harness {
	h.runner.On("systemctl --user show-environment", proctest.Response{
		Stdout: "HOME=/home/me\nOP_SESSION_my=" + token + "\n",
	})
	return h
}

func (h *harness) withItems() *harness {
	h.runner.
		On("op item list", proctest.Response{Stdout: itemListJSON}).
		On("op item get abc123", proctest.Response{Stdout: itemJSON}).
		On("wl-copy", proctest.Response{})
	return h
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	flagConfig, flagPicker, flagVault, flagDebug = "", "", "", false
	itemsJSON = false
	colorMode = "never"
	if h.stdin != "" {
		stdin = bytes.NewBufferString(h.stdin)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// copied returns what was piped to the clipboard command.
func (h *harness) copied() []string {
	var values []string
	for _, c := range h.runner.Calls() {
		if c.Name == "wl-copy" {
			values = append(values, c.Stdin)
		}
	}
	return values
}

// callLine returns the first recorded command line starting with name.
func (h *harness) callLine(name string) string {
	for _, c := range h.runner.Calls() {
		if c.Name == name {
			return c.Line()
		}
	}
	return ""
}

func proctestEnv(lines string) proctest.Response {
	return proctest.Response{Stdout: lines + "\n"}
}

//go:build !windows

package picker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script standing in for a picker.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "picker.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestPicker(argv ...string) *CommandPicker {
	p := NewCommandPicker(argv, nil)
	p.stderr = &bytes.Buffer{}
	return p
}

func TestCommandPicker_ReturnsChosenLine(t *testing.T) {
	script := writeScript(t, `IFS= read -r first; cat >/dev/null; printf '  %s  \n' "$first"`)
	p := newTestPicker(script)

	got, err := p.Present(context.Background(), "Pick", []string{"alpha ::index:0", "beta ::index:1"})
	require.NoError(t, err)
	assert.Equal(t, "alpha ::index:0", got)
}

func TestCommandPicker_PassesPromptLast(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	script := writeScript(t, `printf '%s\n' "$@" > `+argsFile+`; cat >/dev/null; echo x`)
	p := newTestPicker(script, "--dmenu", "--prompt")

	_, err := p.Present(context.Background(), "🔐 Select item", []string{"a"})
	require.NoError(t, err)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "--dmenu\n--prompt\n🔐 Select item\n", string(data))
}

func TestCommandPicker_WritesEveryLineAndClosesInput(t *testing.T) {
	dir := t.TempDir()
	inFile := filepath.Join(dir, "in")
	// cat only returns once stdin reaches EOF.
	script := writeScript(t, `cat > `+inFile+`; tail -n 1 `+inFile)
	p := newTestPicker(script)

	lines := make([]string, 500)
	for i := range lines {
		lines[i] = strings.Repeat("x", i%40) + " ::index:" + string(rune('0'+i%10))
	}
	got, err := p.Present(context.Background(), "p", lines)
	require.NoError(t, err)
	assert.Equal(t, lines[len(lines)-1], got)

	data, err := os.ReadFile(inFile)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(lines, "\n")+"\n", string(data))
}

func TestCommandPicker_EmptyOutputIsNoSelection(t *testing.T) {
	script := writeScript(t, `cat >/dev/null; printf '\n  \n'`)
	_, err := newTestPicker(script).Present(context.Background(), "p", []string{"a"})
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestCommandPicker_NonZeroExit(t *testing.T) {
	script := writeScript(t, `cat >/dev/null; echo chosen; exit 3`)
	_, err := newTestPicker(script).Present(context.Background(), "p", []string{"a"})
	require.ErrorIs(t, err, ErrNonZeroExit)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
}

func TestCommandPicker_InputClosedEarly(t *testing.T) {
	// The picker stops reading while lines are still being written, so the
	// pipe fills and the write fails.
	script := writeScript(t, `exec 0<&-; sleep 1; echo chosen`)
	p := newTestPicker(script)

	lines := make([]string, 20000)
	for i := range lines {
		lines[i] = strings.Repeat("y", 30) + " ::index:0"
	}
	_, err := p.Present(context.Background(), "p", lines)
	require.ErrorIs(t, err, ErrPickerIO)
	assert.Contains(t, err.Error(), "writing to")
}

func TestCommandPicker_LaunchFailed(t *testing.T) {
	p := newTestPicker(filepath.Join(t.TempDir(), "no-such-picker"))
	_, err := p.Present(context.Background(), "p", []string{"a"})
	require.ErrorIs(t, err, ErrLaunchFailed)
}

func TestCommandPicker_DefaultCommand(t *testing.T) {
	p := NewCommandPicker(nil, nil)
	assert.Equal(t, DefaultCommand, p.argv)
}

func TestCommandPicker_Notify(t *testing.T) {
	dir := t.TempDir()
	inFile := filepath.Join(dir, "in")
	argsFile := filepath.Join(dir, "args")
	script := writeScript(t, `printf '%s\n' "$@" > `+argsFile+`; cat > `+inFile+`; exit 1`)

	err := newTestPicker(script).Notify(context.Background(), "No Items", "Check your vault.")
	require.NoError(t, err, "dismissing a notice is not an error")

	data, err := os.ReadFile(inFile)
	require.NoError(t, err)
	assert.Equal(t, "Check your vault.\n", string(data))

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "No Items\n", string(args))
}

func TestCommandPicker_NotifyLaunchFailed(t *testing.T) {
	p := newTestPicker(filepath.Join(t.TempDir(), "no-such-picker"))
	err := p.Notify(context.Background(), "t", "m")
	require.ErrorIs(t, err, ErrLaunchFailed)
}

func TestSelection(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    string
		wantErr error
	}{
		{"plain", "a ::index:0\n", "a ::index:0", nil},
		{"padded", "  a ::index:0  \n", "a ::index:0", nil},
		{"multi line keeps first", "a ::index:0\nb ::index:1\n", "a ::index:0", nil},
		{"empty", "", "", ErrNoSelection},
		{"whitespace", " \n\t\n", "", ErrNoSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selection([]byte(tt.out))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	p, err := New("", nil, false, nil)
	require.NoError(t, err)
	assert.IsType(t, &CommandPicker{}, p)

	p, err = New(BackendBuiltin, nil, false, nil)
	require.NoError(t, err)
	assert.IsType(t, &TUIPicker{}, p)

	_, err = New("dmenu2000", nil, false, nil)
	require.Error(t, err)
}

package picker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/vaultpick/internal/table"
)

// fakePicker answers Present from memory.
type fakePicker struct {
	choose   int    // line index to return; ignored when raw or err is set
	raw      string // returned verbatim when non-empty
	err      error
	prompts  []string
	received [][]string
}

func (f *fakePicker) Present(_ context.Context, prompt string, lines []string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.received = append(f.received, lines)
	if f.err != nil {
		return "", f.err
	}
	if f.raw != "" {
		return f.raw, nil
	}
	return lines[f.choose], nil
}

func TestSelector_Select(t *testing.T) {
	rows := [][]string{
		{"GitHub", "octocat", "https://github.com"},
		{"Wifi", "", ""},
		{"Bank", "savings", "https://bank.example"},
	}
	for i := range rows {
		fp := &fakePicker{choose: i}
		got, err := Selector{Picker: fp}.Select(context.Background(), "Pick", rows)
		require.NoError(t, err)
		assert.Equal(t, i, got)
		assert.Equal(t, []string{"Pick"}, fp.prompts)
		require.Len(t, fp.received, 1)
		assert.Len(t, fp.received[0], len(rows))
	}
}

func TestSelector_EmptyRowsNeverPresents(t *testing.T) {
	fp := &fakePicker{}
	_, err := Selector{Picker: fp}.Select(context.Background(), "Pick", nil)
	require.ErrorIs(t, err, table.ErrEmptyTable)
	assert.Empty(t, fp.prompts)
}

func TestSelector_PickerError(t *testing.T) {
	fp := &fakePicker{err: ErrNoSelection}
	_, err := Selector{Picker: fp}.Select(context.Background(), "Pick", [][]string{{"a"}})
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestSelector_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"free text", "something the user typed", table.ErrMalformedSelection},
		{"out of range", "a ::index:5", table.ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakePicker{raw: tt.raw}
			_, err := Selector{Picker: fp}.Select(context.Background(), "Pick", [][]string{{"a"}, {"b"}})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExitError(t *testing.T) {
	err := error(&ExitError{Command: "wofi", Code: 1})
	assert.True(t, errors.Is(err, ErrNonZeroExit))
	assert.False(t, errors.Is(err, ErrNoSelection))
	assert.Contains(t, err.Error(), "wofi exited with status 1")
}

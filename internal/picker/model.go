package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/runger/vaultpick/internal/table"
)

// Model is the Bubble Tea model for the built-in picker. It filters a fixed
// list of lines and returns the chosen line unchanged.
type Model struct {
	prompt        string
	lines         []string
	display       []string // lines without the index suffix
	matches       []int    // indices into lines that pass the filter
	selection     int      // index into matches; -1 when nothing matches
	caseSensitive bool

	input textinput.Model

	width  int
	height int

	result    string
	cancelled bool
}

// NewModel creates a picker model over lines.
func NewModel(prompt string, lines []string, caseSensitive bool) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Focus()

	display := make([]string, len(lines))
	for i, line := range lines {
		display[i] = stripIndex(line)
	}

	m := Model{
		prompt:        prompt,
		lines:         lines,
		display:       display,
		caseSensitive: caseSensitive,
		input:         in,
	}
	m.filter()
	return m
}

// Result returns the chosen line, or "" if the picker was cancelled.
func (m Model) Result() string {
	return m.result
}

// IsCancelled reports whether the user dismissed the picker.
func (m Model) IsCancelled() bool {
	return m.cancelled
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.cancelled = true
		return m, tea.Quit

	case tea.KeyEnter:
		if m.selection >= 0 && m.selection < len(m.matches) {
			m.result = m.lines[m.matches[m.selection]]
		}
		return m, tea.Quit

	case tea.KeyUp, tea.KeyCtrlP:
		if m.selection > 0 {
			m.selection--
		}
		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if m.selection < len(m.matches)-1 {
			m.selection++
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filter()
	}
	return m, cmd
}

// filter recomputes matches for the current query and resets the selection
// to the first match.
func (m *Model) filter() {
	query := m.input.Value()
	if !m.caseSensitive {
		query = strings.ToLower(query)
	}

	m.matches = m.matches[:0]
	for i, text := range m.display {
		if !m.caseSensitive {
			text = strings.ToLower(text)
		}
		if strings.Contains(text, query) {
			m.matches = append(m.matches, i)
		}
	}

	if len(m.matches) == 0 {
		m.selection = -1
	} else {
		m.selection = 0
	}
}

// listHeight returns the number of visible list rows.
func (m Model) listHeight() int {
	// prompt title, query line, status line
	const chrome = 3
	h := m.height - chrome
	if h < 1 {
		h = 20
	}
	return h
}

// stripIndex removes the encoded row index from a line for display.
func stripIndex(line string) string {
	if i := strings.LastIndex(line, " "+table.IndexToken); i >= 0 {
		return strings.TrimRight(line[:i], " ")
	}
	return line
}

// --- View rendering ---

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" " + m.prompt + " "))
	b.WriteRune('\n')
	b.WriteString(m.viewList())
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d/%d", len(m.matches), len(m.lines))))
	b.WriteRune('\n')
	b.WriteString(m.input.View())

	return b.String()
}

// viewList renders the visible window of matches, keeping the selection
// on screen.
func (m Model) viewList() string {
	if len(m.matches) == 0 {
		return dimStyle.Render("No matches")
	}

	height := m.listHeight()
	start := 0
	if m.selection >= height {
		start = m.selection - height + 1
	}
	end := min(start+height, len(m.matches))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		text := m.display[m.matches[i]]
		if m.width > 4 {
			text = runewidth.Truncate(text, m.width-2, "…")
		}
		if i == m.selection {
			rows = append(rows, selectedStyle.Render("> "+text))
		} else {
			rows = append(rows, normalStyle.Render("  "+text))
		}
	}
	return strings.Join(rows, "\n")
}

// Package menu implements the interactive package selection step: a
// full-screen multi-select list over the alternate terminal screen, and
// a numbered text fallback for terminals that cannot host it. Both
// return the chosen candidates in display order and keep "cancelled"
// distinct from "confirmed an empty selection".
package menu

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/ajxudir/pipselect/pkg/outdated"
	"github.com/ajxudir/pipselect/pkg/utils"
)

// headerLegend lists the menu keys; the selection counter is
// right-aligned on the same line.
const headerLegend = "SPACE=toggle  ↑/↓/PgUp/PgDn=move  Home/End=jump  a=all  n=none  Enter=upg  q=quit"

// keyMap declares the menu key bindings, vi aliases included.
type keyMap struct {
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Toggle   key.Binding
	All      key.Binding
	None     key.Binding
	Confirm  key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "Q", "ctrl+c")),
	Up:       key.NewBinding(key.WithKeys("up", "k", "K")),
	Down:     key.NewBinding(key.WithKeys("down", "j", "J")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
	Home:     key.NewBinding(key.WithKeys("home", "g")),
	End:      key.NewBinding(key.WithKeys("end")),
	Toggle:   key.NewBinding(key.WithKeys(" ")),
	All:      key.NewBinding(key.WithKeys("a", "A")),
	None:     key.NewBinding(key.WithKeys("n", "N")),
	Confirm:  key.NewBinding(key.WithKeys("enter")),
}

// cursorStyle renders the row under the cursor with inverted emphasis.
var cursorStyle = lipgloss.NewStyle().Reverse(true)

// isTerminalFunc is swapped in tests.
var isTerminalFunc = term.IsTerminal

// Interactive reports whether the full-screen menu can run.
//
// Returns:
//   - bool: true when both stdin and stdout are terminals
func Interactive() bool {
	return isTerminalFunc(int(os.Stdin.Fd())) && isTerminalFunc(int(os.Stdout.Fd()))
}

// Run presents the full-screen selection menu.
//
// It performs the following operations:
//   - Step 1: Enters the alternate screen with all candidates unselected
//   - Step 2: Processes one keypress per iteration until confirm, cancel,
//     or quit
//   - Step 3: Returns the selected candidates in display order
//
// Parameters:
//   - candidates: upgrade candidates to present, in display order
//
// Returns:
//   - []outdated.Candidate: the chosen subset, possibly empty
//   - bool: true when the user cancelled instead of confirming
//   - error: any terminal error encountered by the menu
func Run(candidates []outdated.Candidate) ([]outdated.Candidate, bool, error) {
	if len(candidates) == 0 {
		return nil, false, nil
	}

	final, err := tea.NewProgram(newModel(candidates), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, false, fmt.Errorf("selection menu failed: %w", err)
	}

	m := final.(model)
	if m.cancelled {
		return nil, true, nil
	}
	return m.chosen(), false, nil
}

// model is the selection menu state machine. The cursor and viewport
// offset are clamped after every event so the cursor row is always
// visible.
type model struct {
	candidates []outdated.Candidate
	selected   []bool
	cursor     int
	top        int
	width      int
	height     int
	confirmed  bool
	cancelled  bool
}

func newModel(candidates []outdated.Candidate) model {
	return model{
		candidates: candidates,
		selected:   make([]bool, len(candidates)),
		width:      80,
		height:     24,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey applies one keypress to the selection state.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.cursor--
	case key.Matches(msg, keys.Down):
		m.cursor++
	case key.Matches(msg, keys.PageUp):
		m.cursor -= m.bodyHeight()
	case key.Matches(msg, keys.PageDown):
		m.cursor += m.bodyHeight()
	case key.Matches(msg, keys.Home):
		m.cursor = 0
	case key.Matches(msg, keys.End):
		m.cursor = len(m.candidates) - 1

	case key.Matches(msg, keys.Toggle):
		m.selected[m.cursor] = !m.selected[m.cursor]
	case key.Matches(msg, keys.All):
		for i := range m.selected {
			m.selected[i] = true
		}
	case key.Matches(msg, keys.None):
		for i := range m.selected {
			m.selected[i] = false
		}

	case key.Matches(msg, keys.Confirm):
		m.confirmed = true
		return m, tea.Quit
	}

	m.clampCursor()
	m.scroll()
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(m.headerLine())

	bodyH := m.bodyHeight()
	for row := 0; row < bodyH; row++ {
		idx := m.top + row
		if idx >= len(m.candidates) {
			break
		}

		c := m.candidates[idx]
		mark := "[ ]"
		if m.selected[idx] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s -> %s", mark, c.Name, c.Current, c.Latest)
		line = utils.TruncateToWidth(line, m.width)
		if idx == m.cursor {
			line = cursorStyle.Render(line)
		}

		sb.WriteString("\n")
		sb.WriteString(line)
	}

	return sb.String()
}

// headerLine renders the key legend with the right-aligned counter.
func (m model) headerLine() string {
	count := 0
	for _, sel := range m.selected {
		if sel {
			count++
		}
	}
	status := fmt.Sprintf("Selected: %d/%d", count, len(m.candidates))

	legend := headerLegend
	pad := m.width - utils.DisplayWidth(legend) - utils.DisplayWidth(status)
	if pad < 2 {
		// Narrow terminal: give the counter priority over the legend.
		legend = utils.TruncateToWidth(legend, m.width-utils.DisplayWidth(status)-2)
		pad = 2
	}

	return legend + strings.Repeat(" ", pad) + status
}

// bodyHeight is the number of candidate rows that fit below the header.
func (m model) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// clampCursor bounds the cursor to the candidate list.
func (m *model) clampCursor() {
	m.cursor = utils.Clamp(m.cursor, 0, len(m.candidates)-1)
}

// scroll recomputes the viewport offset so the cursor stays visible and
// the list never leaves blank rows below when it can fill the body.
func (m *model) scroll() {
	bodyH := m.bodyHeight()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+bodyH {
		m.top = m.cursor - bodyH + 1
	}
	m.top = utils.Clamp(m.top, 0, utils.Max(len(m.candidates)-bodyH, 0))
}

// chosen returns the selected candidates in display order.
func (m model) chosen() []outdated.Candidate {
	var out []outdated.Candidate
	for i, sel := range m.selected {
		if sel {
			out = append(out, m.candidates[i])
		}
	}
	return out
}

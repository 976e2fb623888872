package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/theme"
	overlaymgr "tableflip.dev/neodash/pkg/tui/ui/overlay"
	"tableflip.dev/neodash/pkg/tui/uiutil"
)

// Options configures the command bar.
type Options struct {
	ID           events.ComponentID
	PromptPrefix string
	Placeholder  string
	StatusText   string
}

// SuggestionOption represents a possible command the prompt can surface.
type SuggestionOption struct {
	Name        string
	Description string
}

// Mode identifies the command component operating state.
type Mode int

const (
	// ModePassive displays the command bar in status mode.
	ModePassive Mode = iota
	// ModeInput places the command bar in interactive input mode.
	ModeInput
)

// Model renders a sticky status and command line below the content.
type Model struct {
	id   events.ComponentID
	mode Mode

	width         int
	height        int
	contentHeight int

	contentView   string
	contentCursor *tea.Cursor

	status    string
	statusErr bool
	help      string

	prompt       textinput.Model
	promptPrefix string

	suggestions []SuggestionOption
	matches     []SuggestionOption
	selected    int
	typed       string

	styles theme.FooterTheme
}

// NewModel constructs a command bar with the provided options.
func NewModel(opts Options) *Model {
	prompt := textinput.New()
	prompt.Placeholder = opts.Placeholder
	prompt.Prompt = ""

	id := opts.ID
	if id == "" {
		id = events.ComponentID("command")
	}
	return &Model{
		id:           id,
		mode:         ModePassive,
		status:       opts.StatusText,
		prompt:       prompt,
		promptPrefix: opts.PromptPrefix,
		selected:     -1,
		styles:       theme.Default().Footer,
	}
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize configures the area the component manages, content included.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 2)
	m.contentHeight = m.height - 1
	m.prompt.SetWidth(max(m.width-len(m.promptPrefix)-1, 1))
}

// ContentHeight reports the rows available above the bar.
func (m *Model) ContentHeight() int { return m.contentHeight }

// SetContent stores the view that should appear above the command bar.
func (m *Model) SetContent(view string, cursor *tea.Cursor) {
	m.contentView = view
	m.contentCursor = nil
	if cursor != nil {
		c := *cursor
		m.contentCursor = &c
	}
}

// SetStatus updates the passive status text.
func (m *Model) SetStatus(text string) {
	m.status = text
	m.statusErr = false
}

// SetError shows text as a failure in the status line.
func (m *Model) SetError(text string) {
	m.status = text
	m.statusErr = true
}

// Status returns the passive status text.
func (m *Model) Status() string { return m.status }

// SetHelp sets the key hints shown on the left of the passive bar.
func (m *Model) SetHelp(text string) { m.help = text }

// SetSuggestions configures the available command list.
func (m *Model) SetSuggestions(options []SuggestionOption) {
	m.suggestions = append([]SuggestionOption(nil), options...)
	m.filter(m.prompt.Value())
}

// BeginInput switches the command bar into input mode.
func (m *Model) BeginInput(initial string) tea.Cmd {
	m.mode = ModeInput
	m.prompt.SetValue(initial)
	m.prompt.CursorEnd()
	m.filter(initial)
	return tea.Batch(m.prompt.Focus(), events.CommandChangeCmd(m.id, initial, events.CommandModeInput))
}

// ExitInput returns the command bar to passive mode.
func (m *Model) ExitInput() tea.Cmd {
	m.mode = ModePassive
	m.prompt.Blur()
	m.prompt.SetValue("")
	m.matches = nil
	m.selected = -1
	return events.CommandChangeCmd(m.id, "", events.CommandModePassive)
}

// InInputMode reports if the prompt is active.
func (m *Model) InInputMode() bool { return m.mode == ModeInput }

// Value returns the current prompt contents.
func (m *Model) Value() string { return m.prompt.Value() }

// Update routes keys to the prompt. In passive mode only ":" is handled.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyPressMsg)
	if m.mode == ModePassive {
		if isKey && key.String() == ":" {
			return m, m.BeginInput("")
		}
		return m, nil
	}
	if isKey {
		switch key.String() {
		case "esc":
			if m.selected >= 0 {
				m.selected = -1
				m.prompt.SetValue(m.typed)
				m.prompt.CursorEnd()
				return m, nil
			}
			return m, tea.Batch(m.ExitInput(), events.CommandCancelCmd(m.id))
		case "enter":
			value := strings.TrimSpace(m.prompt.Value())
			var cmds []tea.Cmd
			if value != "" {
				cmds = append(cmds, events.CommandSubmitCmd(m.id, value))
			}
			cmds = append(cmds, m.ExitInput())
			return m, tea.Batch(cmds...)
		case "tab", "down":
			m.cycle(1)
			return m, nil
		case "shift+tab", "up":
			m.cycle(-1)
			return m, nil
		}
	}
	prev := m.prompt.Value()
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	if v := m.prompt.Value(); v != prev {
		m.filter(v)
		return m, tea.Batch(cmd, events.CommandChangeCmd(m.id, v, events.CommandModeInput))
	}
	return m, cmd
}

func (m *Model) filter(value string) {
	m.typed = value
	m.selected = -1
	m.matches = m.matches[:0]
	if m.mode != ModeInput {
		return
	}
	prefix := strings.ToLower(strings.TrimSpace(value))
	for _, opt := range m.suggestions {
		if prefix == "" || strings.HasPrefix(strings.ToLower(opt.Name), prefix) {
			m.matches = append(m.matches, opt)
		}
	}
}

func (m *Model) cycle(delta int) {
	if len(m.matches) == 0 {
		return
	}
	if m.selected < 0 {
		if delta > 0 {
			m.selected = 0
		} else {
			m.selected = len(m.matches) - 1
		}
	} else {
		m.selected = (m.selected + delta + len(m.matches)) % len(m.matches)
	}
	m.prompt.SetValue(m.matches[m.selected].Name)
	m.prompt.CursorEnd()
}

// View renders the content, the suggestion list and the bar.
func (m *Model) View() (string, *tea.Cursor) {
	content := uiutil.FitHeight(m.contentView, m.contentHeight)
	if list := m.suggestionView(); list != "" {
		content = overlaymgr.Compose(content, m.width, m.contentHeight, list, overlaymgr.Placement{
			Horizontal: overlaymgr.Start,
			Vertical:   lipgloss.Bottom,
		})
	}

	cursor := m.contentCursor
	var bar string
	if m.mode == ModeInput {
		bar = m.promptPrefix + m.prompt.View()
		if c := m.prompt.Cursor(); c != nil {
			clone := *c
			clone.X += len(m.promptPrefix)
			clone.Y = m.contentHeight
			cursor = &clone
		}
	} else {
		bar = m.passiveBar()
	}
	bar = uiutil.FitWidth(bar, m.width)
	if m.contentHeight <= 0 {
		return bar, cursor
	}
	return content + "\n" + bar, cursor
}

func (m *Model) passiveBar() string {
	status := m.status
	if status == "" {
		status = "Ready"
	}
	style := m.styles.Status
	if m.statusErr {
		style = m.styles.Error
	}
	right := style.Render(status)
	left := m.styles.Help.Render(m.help)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).Render(right)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) suggestionView() string {
	if m.mode != ModeInput || len(m.matches) == 0 {
		return ""
	}
	name := lipgloss.NewStyle().Bold(true)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	limit := min(len(m.matches), max(m.contentHeight, 0), 8)
	start := 0
	if m.selected >= limit {
		start = m.selected - limit + 1
	}
	rows := make([]string, 0, limit)
	for i := start; i < start+limit && i < len(m.matches); i++ {
		opt := m.matches[i]
		marker := "  "
		if i == m.selected {
			marker = "→ "
		}
		rows = append(rows, marker+name.Render(opt.Name)+"  "+desc.Render(opt.Description))
	}
	return strings.Join(rows, "\n")
}

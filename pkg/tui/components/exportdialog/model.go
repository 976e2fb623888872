// Package exportdialog implements the Save to Hive dialog: an optional dump
// upload panel carrying the overwrite toggle, and an Aura connection panel.
package exportdialog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/filepicker"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/hive"
	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/theme"
	"tableflip.dev/neodash/pkg/tui/ui"
)

// Panel is the expanded section of the dialog. At most one is open.
type Panel string

const (
	PanelNone Panel = ""
	PanelDump Panel = "dump"
	PanelAura Panel = "aura"
)

// ConnectionRequired is shown when Done is pressed on an incomplete Aura
// panel.
const ConnectionRequired = "connection details required"

// SaveFunc performs the export. It runs off the UI loop.
type SaveFunc func(ctx context.Context, req hive.Request, progress hive.ProgressFunc) error

// Options configures a dialog instance.
type Options struct {
	ID       events.ComponentID
	Snapshot func() *dashboard.Dashboard
	Username string
	Save     SaveFunc
	Context  context.Context
	StartDir string
	Now      func() time.Time
}

type field int

const (
	fieldDump field = iota
	fieldFile
	fieldAura
	fieldURL
	fieldUser
	fieldPass
	fieldOverwrite
	fieldDone
	fieldCancel
)

// Model is the export dialog overlay.
type Model struct {
	id   events.ComponentID
	opts Options

	panel     Panel
	file      *hive.FileDescriptor
	overwrite bool

	url  textinput.Model
	user textinput.Model
	pass textinput.Model

	focus    field
	browsing bool
	picker   filepicker.Model

	errMsg string
	closed bool

	width  int
	height int
	styles theme.ModalTheme
}

// New constructs a dialog in its initial state: no panel, no file, no
// overwrite.
func New(opts Options) *Model {
	if opts.ID == "" {
		opts.ID = events.ComponentID("export-dialog")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	m := &Model{
		id:     opts.ID,
		opts:   opts,
		url:    newInput("neo4j+s://xxxxxxxx.databases.neo4j.io"),
		user:   newInput("neo4j"),
		pass:   newInput("password"),
		styles: theme.Default().Modal,
	}
	m.pass.EchoMode = textinput.EchoPassword
	m.pass.EchoCharacter = '•'
	m.SetSize(64, 20)
	return m
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	return in
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Panel returns the expanded panel.
func (m *Model) Panel() Panel { return m.panel }

// TogglePanel expands p and collapses any other panel. Toggling the open
// panel collapses it.
func (m *Model) TogglePanel(p Panel) {
	if m.panel == p {
		m.panel = PanelNone
	} else {
		m.panel = p
	}
	m.errMsg = ""
	m.clampFocus()
}

// SelectFile records the dump file at path.
func (m *Model) SelectFile(path string) error {
	fd, err := hive.Stat(path)
	if err != nil {
		return err
	}
	m.file = fd
	return nil
}

// File returns the selected dump file, nil when none was chosen.
func (m *Model) File() *hive.FileDescriptor { return m.file }

// HasSelection reports whether a dump file was chosen.
func (m *Model) HasSelection() bool { return m.file != nil }

// Overwrite reports the overwrite flag.
func (m *Model) Overwrite() bool { return m.overwrite }

// ToggleOverwrite flips the overwrite flag.
func (m *Model) ToggleOverwrite() { m.overwrite = !m.overwrite }

// ShowOverwrite reports whether the overwrite checkbox is rendered. It sits in
// the dump panel and only applies when the dashboard was previously published
// under a name.
func (m *Model) ShowOverwrite() bool {
	return m.panel == PanelDump && m.destination() != ""
}

func (m *Model) destination() string {
	snap := m.snapshot()
	if snap == nil {
		return ""
	}
	return snap.SolutionsHiveDBName()
}

func (m *Model) snapshot() *dashboard.Dashboard {
	if m.opts.Snapshot == nil {
		return nil
	}
	return m.opts.Snapshot()
}

// SetConnection fills the Aura fields.
func (m *Model) SetConnection(url, username, password string) {
	m.url.SetValue(url)
	m.user.SetValue(username)
	m.pass.SetValue(password)
}

// Connection returns the Aura field values.
func (m *Model) Connection() (url, username, password string) {
	return m.url.Value(), m.user.Value(), m.pass.Value()
}

// Error returns the validation message, if any.
func (m *Model) Error() string { return m.errMsg }

// Closed reports whether Done or Cancel finished the dialog.
func (m *Model) Closed() bool { return m.closed }

// Request gathers the export request from the dialog state.
func (m *Model) Request() (hive.Request, error) {
	req := hive.Request{
		File:      m.file,
		Dashboard: m.snapshot(),
		Timestamp: m.opts.Now().UTC().Format(time.RFC3339),
		Username:  m.opts.Username,
		Overwrite: m.overwrite,
		Target:    hive.Target(m.panel),
	}
	if m.panel == PanelAura {
		url, user, pass := m.Connection()
		if strings.TrimSpace(url) == "" || strings.TrimSpace(user) == "" || pass == "" {
			return hive.Request{}, hive.ErrConnectionRequired
		}
		req.AuraURL, req.AuraUsername, req.AuraPassword = url, user, pass
	}
	return req, nil
}

// Done validates, hands the request to the save function and closes the
// dialog. On an incomplete Aura panel it shows a message and stays open.
func (m *Model) Done() tea.Cmd {
	req, err := m.Request()
	if err != nil {
		m.errMsg = ConnectionRequired
		m.focus = fieldURL
		return m.syncInputs()
	}
	m.closed = true
	title := ""
	if req.Dashboard != nil {
		title = req.Dashboard.Title
	}
	var run tea.Cmd
	if m.opts.Save != nil {
		run = Export(m.opts.Context, m.id, title, m.opts.Save, req)
	}
	return tea.Batch(run, events.DialogClosedCmd(m.id, true))
}

// Cancel closes the dialog without saving.
func (m *Model) Cancel() tea.Cmd {
	m.closed = true
	return events.DialogClosedCmd(m.id, false)
}

// Export runs save in the background and streams its progress back as
// ExportProgressMsg values, ending with an ExportDoneMsg.
func Export(ctx context.Context, id events.ComponentID, title string, save SaveFunc, req hive.Request) tea.Cmd {
	ch := make(chan tea.Msg, 32)
	return func() tea.Msg {
		go func() {
			defer close(ch)
			err := save(ctx, req, func(p float64) {
				select {
				case ch <- events.ExportProgressMsg{Component: id, Percent: p}:
				default:
				}
			})
			ch <- events.ExportDoneMsg{Component: id, Title: title, Err: err}
		}()
		return listen(ch)()
	}
}

func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		if p, ok := msg.(events.ExportProgressMsg); ok {
			p.Next = listen(ch)
			return p
		}
		return msg
	}
}

// Init implements ui.Overlay.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(events.FocusCmd(m.id), m.syncInputs())
}

// SetSize implements ui.Overlay.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 32)
	m.height = max(height, 12)
	inputWidth := max(m.width-24, 10)
	m.url.SetWidth(inputWidth)
	m.user.SetWidth(inputWidth)
	m.pass.SetWidth(inputWidth)
}

// Update implements ui.Overlay. A nil overlay is returned once the dialog
// closed.
func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	var cmd tea.Cmd
	if m.browsing {
		cmd = m.updatePicker(msg)
	} else if key, ok := msg.(tea.KeyPressMsg); ok {
		cmd = m.handleKey(key)
	} else {
		var cmds []tea.Cmd
		var c tea.Cmd
		m.url, c = m.url.Update(msg)
		cmds = append(cmds, c)
		m.user, c = m.user.Update(msg)
		cmds = append(cmds, c)
		m.pass, c = m.pass.Update(msg)
		cmds = append(cmds, c)
		cmd = tea.Batch(cmds...)
	}
	if m.closed {
		return nil, cmd
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.Cancel()
	case "tab", "down":
		m.advance(1)
		return m.syncInputs()
	case "shift+tab", "up":
		m.advance(-1)
		return m.syncInputs()
	case "enter":
		return m.activate()
	case "space", " ":
		if !m.onInput() {
			return m.activate()
		}
	case "ctrl+s":
		return m.Done()
	}
	if in := m.focusedInput(); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		m.errMsg = ""
		return cmd
	}
	return nil
}

func (m *Model) activate() tea.Cmd {
	switch m.focus {
	case fieldDump:
		m.TogglePanel(PanelDump)
	case fieldAura:
		m.TogglePanel(PanelAura)
	case fieldFile:
		return m.openPicker()
	case fieldOverwrite:
		m.ToggleOverwrite()
	case fieldDone:
		return m.Done()
	case fieldCancel:
		return m.Cancel()
	default:
		m.advance(1)
	}
	return m.syncInputs()
}

func (m *Model) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = nil
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowHidden = false
	dir := m.opts.StartDir
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}
	fp.CurrentDirectory = dir
	fp, _ = fp.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.picker = fp
	m.browsing = true
	return m.picker.Init()
}

func (m *Model) updatePicker(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "esc" {
		m.browsing = false
		return nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.browsing = false
		if err := m.SelectFile(path); err != nil {
			m.errMsg = err.Error()
		} else {
			m.errMsg = ""
		}
		return events.DebugCmd(m.id, "file", path)
	}
	return cmd
}

func (m *Model) fields() []field {
	out := []field{fieldDump}
	if m.panel == PanelDump {
		out = append(out, fieldFile)
	}
	if m.ShowOverwrite() {
		out = append(out, fieldOverwrite)
	}
	out = append(out, fieldAura)
	if m.panel == PanelAura {
		out = append(out, fieldURL, fieldUser, fieldPass)
	}
	return append(out, fieldDone, fieldCancel)
}

func (m *Model) advance(delta int) {
	seq := m.fields()
	idx := 0
	for i, f := range seq {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(seq)) % len(seq)
	m.focus = seq[idx]
}

func (m *Model) clampFocus() {
	for _, f := range m.fields() {
		if f == m.focus {
			return
		}
	}
	switch m.panel {
	case PanelAura:
		m.focus = fieldAura
	default:
		m.focus = fieldDump
	}
}

func (m *Model) onInput() bool { return m.focusedInput() != nil }

func (m *Model) focusedInput() *textinput.Model {
	switch m.focus {
	case fieldURL:
		return &m.url
	case fieldUser:
		return &m.user
	case fieldPass:
		return &m.pass
	}
	return nil
}

func (m *Model) syncInputs() tea.Cmd {
	m.url.Blur()
	m.user.Blur()
	m.pass.Blur()
	if in := m.focusedInput(); in != nil {
		return in.Focus()
	}
	return nil
}

// View implements ui.Overlay.
func (m *Model) View() (string, *tea.Cursor) {
	st := m.styles
	inner := max(m.width-st.Frame.GetHorizontalFrameSize(), 10)

	if m.browsing {
		body := lipgloss.JoinVertical(lipgloss.Left,
			st.Title.Render("Select a database dump"),
			st.Muted.Render(m.picker.CurrentDirectory),
			"",
			m.picker.View(),
			"",
			st.Muted.Render("enter select • esc back to dialog"),
		)
		return st.Frame.Width(m.width).Render(lipgloss.NewStyle().Width(inner).Render(body)), nil
	}

	var lines []string
	var cursor *tea.Cursor
	addInput := func(f field, label string, in *textinput.Model) {
		prefix := fmt.Sprintf("    %-10s", label)
		row := len(lines)
		lines = append(lines, m.mark(f, prefix)+in.View())
		if m.focus == f {
			if c := in.Cursor(); c != nil {
				clone := *c
				clone.Position.X += lipgloss.Width(prefix)
				clone.Position.Y += row
				cursor = &clone
			}
		}
	}

	title := "Untitled dashboard"
	if snap := m.snapshot(); snap != nil && snap.Title != "" {
		title = snap.Title
	}
	lines = append(lines,
		st.Title.Render("Save to Hive"),
		st.Muted.Render(fmt.Sprintf("Publish %q to the Hive solutions store.", title)),
		"",
	)

	lines = append(lines, m.mark(fieldDump, disclosure(m.panel == PanelDump)+" Upload a database dump"))
	if m.panel == PanelDump {
		desc := st.Muted.Render("(no file selected)")
		if m.HasSelection() {
			desc = st.Body.Render(m.file.Describe())
		}
		lines = append(lines, m.mark(fieldFile, "    File: ")+desc+st.Muted.Render("  enter to browse"))
		if m.ShowOverwrite() {
			box := "[ ]"
			if m.overwrite {
				box = "[x]"
			}
			lines = append(lines, m.mark(fieldOverwrite, fmt.Sprintf("    %s Overwrite existing dashboard %q", box, m.destination())))
		}
	}

	lines = append(lines, m.mark(fieldAura, disclosure(m.panel == PanelAura)+" Connect an Aura database"))
	if m.panel == PanelAura {
		addInput(fieldURL, "URL", &m.url)
		addInput(fieldUser, "Username", &m.user)
		addInput(fieldPass, "Password", &m.pass)
	}

	lines = append(lines, "")
	if m.errMsg != "" {
		lines = append(lines, st.Error.Render(m.errMsg))
	}
	lines = append(lines, m.button(fieldDone, "Done")+"  "+m.button(fieldCancel, "Cancel"))

	body := lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n"))
	box := st.Frame.Width(m.width).Render(body)
	if cursor != nil {
		cursor.Position.X += st.Frame.GetBorderLeftSize() + st.Frame.GetPaddingLeft()
		cursor.Position.Y += st.Frame.GetBorderTopSize() + st.Frame.GetPaddingTop()
	}
	return box, cursor
}

func (m *Model) mark(f field, text string) string {
	if m.focus == f {
		return m.styles.Focused.Render(text)
	}
	return m.styles.Label.Render(text)
}

func (m *Model) button(f field, label string) string {
	text := "[ " + label + " ]"
	if m.focus == f {
		return m.styles.Selected.Render(text)
	}
	return m.styles.Label.Render(text)
}

func disclosure(open bool) string {
	if open {
		return "▾"
	}
	return "▸"
}

// Package app is the root Bubble Tea model. It composes the title bar, the
// report cards of the first page, the command bar and the modal overlays, and
// owns the handlers behind every menu entry and card action.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/progress"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/hive"
	"tableflip.dev/neodash/pkg/store"
	"tableflip.dev/neodash/pkg/tui/components/command"
	"tableflip.dev/neodash/pkg/tui/components/eventviewer"
	"tableflip.dev/neodash/pkg/tui/components/help"
	"tableflip.dev/neodash/pkg/tui/components/overlaypane"
	"tableflip.dev/neodash/pkg/tui/components/titlebar"
	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/theme"
	overlaymgr "tableflip.dev/neodash/pkg/tui/ui/overlay"
	"tableflip.dev/neodash/pkg/tui/uiutil"
)

const (
	commandID          events.ComponentID = "command"
	titlebarID         events.ComponentID = "titlebar"
	settingsPickerID   events.ComponentID = "settings"
	loadPickerID       events.ComponentID = "load"
	extensionsPickerID events.ComponentID = "extensions"
	exportDialogID     events.ComponentID = "export"
	helpID             events.ComponentID = "help"
)

var suggestions = []command.SuggestionOption{
	{Name: "title", Description: "Rename the dashboard"},
	{Name: "save", Description: "Save the dashboard"},
	{Name: "load", Description: "Load a stored dashboard"},
	{Name: "share", Description: "Show a share link"},
	{Name: "settings", Description: "Toggle dashboard settings"},
	{Name: "extensions", Description: "Enable or disable extensions"},
	{Name: "hive", Description: "Save to Hive"},
	{Name: "debug", Description: "Toggle the event log"},
	{Name: "help", Description: "Show key bindings"},
	{Name: "quit", Description: "Exit neodash"},
}

// Options wires the root model to its collaborators.
type Options struct {
	State *dashboard.State
	// Store persists dashboards and is watched for external edits. Optional.
	Store store.Persistence
	// Hive backs the Save to Hive dialog. Optional.
	Hive hive.Saver
	// Fullscreen allows the maximize card action, subject to the dashboard's
	// own fullscreenEnabled setting.
	Fullscreen bool
	Context    context.Context
}

type stateChangedMsg struct {
	change dashboard.Change
}

func (m stateChangedMsg) Describe() string {
	return fmt.Sprintf(`change:%q`, m.change)
}

// Model composes the dashboard surface.
type Model struct {
	ctx        context.Context
	state      *dashboard.State
	store      store.Persistence
	saver      hive.Saver
	fullscreen bool

	width  int
	height int

	titlebar *titlebar.Model
	command  *command.Model
	pane     *overlaypane.Model
	events   *eventviewer.Model
	debug    bool

	cards    []*card
	focus    int
	expanded string
	settings map[string]bool

	exporting      bool
	exportFinished bool
	percent        float64
	progress       progress.Model

	changes chan dashboard.Change
	watch   <-chan store.Event

	styles theme.Theme
}

// New constructs the root model.
func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	state := opts.State
	if state == nil {
		state = dashboard.NewState(nil, dashboard.Connection{}, true)
	}
	m := &Model{
		ctx:        ctx,
		state:      state,
		store:      opts.Store,
		saver:      opts.Hive,
		fullscreen: opts.Fullscreen,
		focus:      -1,
		settings:   map[string]bool{},
		changes:    make(chan dashboard.Change, 32),
		pane:       overlaypane.New(1, 1),
		events:     eventviewer.NewModel(400),
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		styles:     theme.Default(),
	}
	m.titlebar = titlebar.New(titlebar.Params{
		ID:            titlebarID,
		Title:         state.Title,
		Editable:      state.Editable(),
		Settings:      state.Settings,
		Extensions:    state.Extensions(),
		Database:      state.Connection().Database,
		UpdateSetting: state.UpdateSetting,
		SetTitle:      state.SetTitle,
	})
	m.command = command.NewModel(command.Options{
		ID:           commandID,
		PromptPrefix: ":",
		StatusText:   "Ready",
	})
	m.command.SetSuggestions(suggestions)
	m.command.SetHelp("tab cards • m menu • : command • ? help • q quit")

	state.Subscribe(func(c dashboard.Change) {
		select {
		case m.changes <- c:
		default:
		}
	})
	m.syncCards()
	return m
}

// Run launches the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model. It starts listening for state changes and, when
// a store is attached, for edits made to the dashboard on disk.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenState()}
	if m.store != nil {
		ch, err := m.store.Watch(m.ctx)
		if err != nil {
			m.command.SetError("watch: " + err.Error())
		} else {
			m.watch = ch
			cmds = append(cmds, m.listenStore())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) listenState() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		return stateChangedMsg{change: <-ch}
	}
}

func (m *Model) listenStore() tea.Cmd {
	ch := m.watch
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return events.StoreChangedMsg{ID: ev.ID, Invalidated: ev.Type == store.EventInvalidated}
	}
}

// Update routes Bubble Tea messages to composed components.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.noteEvent(msg)

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout()
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(v)
	case stateChangedMsg:
		return m, m.onStateChanged(v.change)
	case events.StoreChangedMsg:
		return m, m.onStoreChanged(v)
	case events.TitleChangedMsg:
		m.titlebar.Update(v)
		return m, nil
	case events.MenuSelectMsg:
		return m, m.onMenuSelect(v)
	case events.PickMsg:
		return m, m.onPick(v)
	case events.DialogClosedMsg:
		m.onDialogClosed(v)
		return m, nil
	case events.ExportProgressMsg:
		if !m.exportFinished {
			m.exporting = true
			m.percent = v.Percent
		}
		return m, v.Next
	case events.ExportDoneMsg:
		m.onExportDone(v)
		return m, nil
	case events.CommandSubmitMsg:
		return m, m.runCommand(v.Value)
	case events.CommandCancelMsg:
		m.command.SetStatus("Ready")
		return m, nil
	}

	// Everything else (cursor blinks, directory reads) belongs to whichever
	// input currently owns the keyboard.
	var cmds []tea.Cmd
	if m.pane.HasOverlay() {
		cmds = append(cmds, m.pane.Update(msg))
	}
	if m.command.InInputMode() {
		_, cmd := m.command.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(key tea.KeyPressMsg) tea.Cmd {
	if key.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.pane.HasOverlay() {
		return m.pane.Update(key)
	}
	if m.command.InInputMode() {
		_, cmd := m.command.Update(key)
		return cmd
	}
	if cmd, ok := m.titlebar.HandleKey(key); ok {
		return cmd
	}
	if c := m.focusedCard(); c != nil {
		if cmd, ok := c.header.HandleKey(key); ok {
			return cmd
		}
	}
	switch key.String() {
	case "tab", "down", "j":
		m.moveFocus(1)
	case "shift+tab", "up", "k":
		m.moveFocus(-1)
	case "esc":
		m.setFocus(-1)
	case "ctrl+d":
		m.toggleDebug()
	case "pgup", "pgdown":
		if m.debug {
			m.events.Update(key)
		}
	case ":":
		_, cmd := m.command.Update(key)
		return cmd
	case "?":
		return m.openHelp(help.Markdown())
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *Model) onStateChanged(change dashboard.Change) tea.Cmd {
	m.syncCards()
	if change == dashboard.ChangeExtension || change == dashboard.ChangeReplace {
		m.titlebar.SetExtensions(m.state.Extensions())
	}
	cmds := []tea.Cmd{m.listenState()}
	if title := m.state.Title(); title != m.titlebar.Title() {
		cmds = append(cmds, events.TitleChangedCmd(titlebarID, title))
	}
	return tea.Batch(cmds...)
}

func (m *Model) onStoreChanged(v events.StoreChangedMsg) tea.Cmd {
	next := m.listenStore()
	if m.store == nil {
		return next
	}
	id := m.state.ID()
	if !v.Invalidated && v.ID != id {
		return next
	}
	d, err := m.store.Load(id)
	if err != nil {
		m.command.SetError("reload: " + err.Error())
		return next
	}
	if cur := m.state.Snapshot(); cur.Title == d.Title && cur.Updated.Equal(d.Updated) {
		return next
	}
	m.state.Replace(d)
	m.command.SetStatus("Reloaded from disk")
	return next
}

func (m *Model) onDialogClosed(v events.DialogClosedMsg) {
	switch v.Component {
	case exportDialogID:
		if !v.Submitted {
			m.command.SetStatus("Export cancelled")
			break
		}
		if !m.exportFinished {
			m.exporting = true
			m.command.SetStatus("Saving to Hive…")
		}
	default:
		if !v.Submitted {
			m.command.SetStatus("Ready")
		}
	}
	m.layout()
}

func (m *Model) onExportDone(v events.ExportDoneMsg) {
	m.exporting = false
	m.exportFinished = true
	m.percent = 0
	if v.Err != nil {
		m.command.SetError("Save to Hive failed: " + v.Err.Error())
	} else {
		m.command.SetStatus(fmt.Sprintf("Saved %q to Hive", v.Title))
	}
	m.layout()
}

func (m *Model) runCommand(raw string) tea.Cmd {
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return nil
	}
	name := strings.ToLower(parts[0])
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), parts[0]))
	switch name {
	case "q", "quit", "exit":
		return tea.Quit
	case "help":
		return m.openHelp(help.Markdown())
	case "debug":
		m.toggleDebug()
	case "save":
		return m.saveDashboard()
	case "load":
		return m.openLoad()
	case "share":
		m.share()
	case "title", "settings", "extensions", "hive":
		if !m.state.Editable() {
			m.command.SetError("Dashboard is read-only")
			return nil
		}
		switch name {
		case "title":
			if arg == "" {
				m.command.SetError("usage: title <text>")
				return nil
			}
			m.titlebar.RequestTitle(arg)
			m.command.SetStatus(fmt.Sprintf("Title set to %q", arg))
		case "settings":
			return m.openSettings()
		case "extensions":
			return m.openExtensions()
		case "hive":
			return m.openHive()
		}
	default:
		m.command.SetError("Unknown command: " + name)
	}
	return nil
}

func (m *Model) toggleDebug() {
	m.debug = !m.debug
	if m.debug {
		m.command.SetStatus("Event log visible")
	} else {
		m.command.SetStatus("Event log hidden")
	}
	m.layout()
}

func (m *Model) noteEvent(msg tea.Msg) {
	if entry, ok := eventviewer.EntryFor(msg); ok {
		m.events.Append(entry)
	}
}

func (m *Model) layout() {
	width := max(m.width, 1)
	height := max(m.height, 2)
	m.command.SetSize(width, height)
	content := m.command.ContentHeight()
	m.titlebar.SetSize(width, 1)
	m.pane.SetSize(width, content)
	m.progress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(max(width-2, 10)))
	if m.debug {
		m.events.SetSize(width, debugHeight(content))
	}
}

func debugHeight(total int) int {
	if total <= 6 {
		return 0
	}
	return uiutil.Clamp(total/3, 5, min(12, total-2))
}

// View renders the composed UI.
func (m *Model) View() (string, *tea.Cursor) {
	if m.width == 0 || m.height == 0 {
		return "loading…", nil
	}
	m.pane.SetBackground(m.renderBody(), nil)
	view, cursor := m.pane.View()
	m.command.SetContent(view, cursor)
	return m.command.View()
}

func (m *Model) renderBody() string {
	content := m.command.ContentHeight()
	rows := []string{m.titlebar.View()}
	if m.exporting {
		rows = append(rows, " "+m.progress.ViewAs(m.percent))
	}
	debugRows := 0
	if m.debug {
		debugRows = debugHeight(content)
	}
	cardRows := content - len(rows) - debugRows
	if cardRows > 0 {
		body := m.renderCards(cardRows)
		body = overlaymgr.Compose(body, m.width, cardRows, m.titlebar.MenuView(), overlaymgr.Placement{
			Horizontal: lipgloss.Right,
			Vertical:   overlaymgr.Start,
			MarginX:    1,
		})
		rows = append(rows, body)
	}
	if debugRows > 0 {
		rows = append(rows, m.events.View())
	}
	return strings.Join(rows, "\n")
}

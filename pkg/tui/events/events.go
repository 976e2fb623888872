package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/neodash/pkg/extension"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// CardAction names an action on a report card header.
type CardAction string

const (
	CardDrag     CardAction = "drag"
	CardHelp     CardAction = "help"
	CardRemove   CardAction = "remove"
	CardClone    CardAction = "clone"
	CardMaximize CardAction = "maximize"
	CardShrink   CardAction = "shrink"
	CardSave     CardAction = "save"
)

// CardActionMsg is emitted after a card header action ran its handler.
type CardActionMsg struct {
	Component ComponentID
	ReportID  string
	Action    CardAction
}

// Describe renders the action for logs.
func (m CardActionMsg) Describe() string {
	return fmt.Sprintf(`component:%q report:%q action:%q`, m.Component, m.ReportID, m.Action)
}

// CardActionCmd wraps CardActionMsg in a tea.Cmd.
func CardActionCmd(component ComponentID, reportID string, action CardAction) tea.Cmd {
	return func() tea.Msg {
		return CardActionMsg{Component: component, ReportID: reportID, Action: action}
	}
}

// MenuEntry identifies a fixed entry in the dashboard menu.
type MenuEntry string

const (
	MenuSettings   MenuEntry = "Settings"
	MenuSave       MenuEntry = "Save"
	MenuLoad       MenuEntry = "Load"
	MenuShare      MenuEntry = "Share"
	MenuExtensions MenuEntry = "Manage extensions"
	// MenuExtension marks a selection of an extension button; the button is
	// carried on the message.
	MenuExtension MenuEntry = "extension"
)

// MenuEntries returns the fixed menu entries in display order.
func MenuEntries() []MenuEntry {
	return []MenuEntry{MenuSettings, MenuSave, MenuLoad, MenuShare, MenuExtensions}
}

// MenuState mirrors the title bar menu state machine.
type MenuState string

const (
	MenuClosed MenuState = "closed"
	MenuOpen   MenuState = "open"
)

// MenuStateMsg announces a transition of the dashboard menu.
type MenuStateMsg struct {
	Component ComponentID
	State     MenuState
	Anchor    ComponentID
}

// Describe renders the transition for logs.
func (m MenuStateMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:%q anchor:%q`, m.Component, m.State, m.Anchor)
}

// MenuStateCmd wraps MenuStateMsg in a tea.Cmd.
func MenuStateCmd(component ComponentID, state MenuState, anchor ComponentID) tea.Cmd {
	return func() tea.Msg {
		return MenuStateMsg{Component: component, State: state, Anchor: anchor}
	}
}

// MenuSelectMsg is emitted when the user picks a menu entry.
type MenuSelectMsg struct {
	Component ComponentID
	Entry     MenuEntry
	Extension extension.Button
}

// Describe renders the selection for logs.
func (m MenuSelectMsg) Describe() string {
	if m.Extension != nil {
		return fmt.Sprintf(`component:%q entry:%q extension:%q db:%q`,
			m.Component, m.Entry, m.Extension.Kind(), extension.Database(m.Extension))
	}
	return fmt.Sprintf(`component:%q entry:%q`, m.Component, m.Entry)
}

// MenuSelectCmd wraps MenuSelectMsg in a tea.Cmd.
func MenuSelectCmd(component ComponentID, entry MenuEntry, ext extension.Button) tea.Cmd {
	return func() tea.Msg {
		return MenuSelectMsg{Component: component, Entry: entry, Extension: ext}
	}
}

// TitleChangedMsg carries the latest external dashboard title.
type TitleChangedMsg struct {
	Component ComponentID
	Title     string
}

// Describe renders the title change for logs.
func (m TitleChangedMsg) Describe() string {
	return fmt.Sprintf(`component:%q title:%q`, m.Component, m.Title)
}

// TitleChangedCmd wraps TitleChangedMsg in a tea.Cmd.
func TitleChangedCmd(component ComponentID, title string) tea.Cmd {
	return func() tea.Msg {
		return TitleChangedMsg{Component: component, Title: title}
	}
}

// StoreChangedMsg reports that the persisted dashboard was modified outside
// this session.
type StoreChangedMsg struct {
	ID          string
	Invalidated bool
}

// Describe renders the store change for logs.
func (m StoreChangedMsg) Describe() string {
	return fmt.Sprintf(`id:%q invalidated:%t`, m.ID, m.Invalidated)
}

// ExportProgressMsg reports Hive upload progress in [0, 1]. Next keeps
// listening for the rest of the upload and must be returned by the receiver.
type ExportProgressMsg struct {
	Component ComponentID
	Percent   float64
	Next      tea.Cmd
}

// Describe renders the progress for logs.
func (m ExportProgressMsg) Describe() string {
	return fmt.Sprintf(`component:%q percent:%.0f`, m.Component, m.Percent*100)
}

// ExportDoneMsg reports completion of a Hive upload.
type ExportDoneMsg struct {
	Component ComponentID
	Title     string
	Err       error
}

// Describe renders the result for logs.
func (m ExportDoneMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`component:%q title:%q err:%q`, m.Component, m.Title, m.Err.Error())
	}
	return fmt.Sprintf(`component:%q title:%q state:"saved"`, m.Component, m.Title)
}

// DialogClosedMsg is emitted when a modal overlay finishes. Submitted is
// false when the user cancelled.
type DialogClosedMsg struct {
	Component ComponentID
	Submitted bool
}

// Describe renders the close for logs.
func (m DialogClosedMsg) Describe() string {
	return fmt.Sprintf(`component:%q submitted:%t`, m.Component, m.Submitted)
}

// DialogClosedCmd wraps DialogClosedMsg in a tea.Cmd.
func DialogClosedCmd(component ComponentID, submitted bool) tea.Cmd {
	return func() tea.Msg {
		return DialogClosedMsg{Component: component, Submitted: submitted}
	}
}

// PickMsg is emitted when a picker overlay confirms an option.
type PickMsg struct {
	Component ComponentID
	Key       string
	Label     string
}

// Describe renders the pick for logs.
func (m PickMsg) Describe() string {
	return fmt.Sprintf(`component:%q key:%q label:%q`, m.Component, m.Key, m.Label)
}

// PickCmd wraps PickMsg in a tea.Cmd.
func PickCmd(component ComponentID, key, label string) tea.Cmd {
	return func() tea.Msg {
		return PickMsg{Component: component, Key: key, Label: label}
	}
}

// CommandMode represents the current state of the command prompt.
type CommandMode string

const (
	// CommandModePassive indicates the command bar is idle.
	CommandModePassive CommandMode = "passive"
	// CommandModeInput indicates the command bar is collecting user input.
	CommandModeInput CommandMode = "input"
)

// CommandChangeMsg is emitted when the command input value changes.
type CommandChangeMsg struct {
	Component ComponentID
	Value     string
	Mode      CommandMode
}

// Describe implements the logging helper.
func (m CommandChangeMsg) Describe() string {
	return fmt.Sprintf(`value:%q mode:%q`, m.Value, m.Mode)
}

// CommandSubmitMsg is emitted when the command input is submitted.
type CommandSubmitMsg struct {
	Component ComponentID
	Value     string
}

// Describe implements the logging helper.
func (m CommandSubmitMsg) Describe() string {
	return fmt.Sprintf(`value:%q`, m.Value)
}

// CommandCancelMsg is emitted when command entry is cancelled.
type CommandCancelMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m CommandCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// CommandChangeCmd wraps CommandChangeMsg.
func CommandChangeCmd(component ComponentID, value string, mode CommandMode) tea.Cmd {
	return func() tea.Msg {
		return CommandChangeMsg{Component: component, Value: value, Mode: mode}
	}
}

// CommandSubmitCmd wraps CommandSubmitMsg.
func CommandSubmitCmd(component ComponentID, value string) tea.Cmd {
	return func() tea.Msg {
		return CommandSubmitMsg{Component: component, Value: value}
	}
}

// CommandCancelCmd wraps CommandCancelMsg.
func CommandCancelCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return CommandCancelMsg{Component: component}
	}
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// BlurMsg indicates a component just lost focus.
type BlurMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m BlurMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"blur"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// BlurCmd wraps a BlurMsg in a tea.Cmd helper.
func BlurCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: component}
	}
}

// DebugMsg captures optional diagnostic notes emitted by components.
type DebugMsg struct {
	Component ComponentID
	Context   string
	Detail    string
}

// Describe renders the debug message in a human-readable format.
func (m DebugMsg) Describe() string {
	return fmt.Sprintf(`component:%q context:%q detail:%q`, m.Component, m.Context, m.Detail)
}

// DebugCmd wraps DebugMsg creation in a tea.Cmd helper.
func DebugCmd(component ComponentID, context, detail string) tea.Cmd {
	return func() tea.Msg {
		return DebugMsg{Component: component, Context: context, Detail: detail}
	}
}

// Source returns the emitting component for messages that carry one.
func Source(msg tea.Msg) (ComponentID, bool) {
	switch v := msg.(type) {
	case CardActionMsg:
		return v.Component, true
	case MenuStateMsg:
		return v.Component, true
	case MenuSelectMsg:
		return v.Component, true
	case TitleChangedMsg:
		return v.Component, true
	case ExportProgressMsg:
		return v.Component, true
	case ExportDoneMsg:
		return v.Component, true
	case DialogClosedMsg:
		return v.Component, true
	case PickMsg:
		return v.Component, true
	case CommandChangeMsg:
		return v.Component, true
	case CommandSubmitMsg:
		return v.Component, true
	case CommandCancelMsg:
		return v.Component, true
	case FocusMsg:
		return v.Component, true
	case BlurMsg:
		return v.Component, true
	case DebugMsg:
		return v.Component, true
	case StoreChangedMsg:
		return "store", true
	default:
		return "", false
	}
}

package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/neodash/pkg/extension"
	"tableflip.dev/neodash/pkg/tui/components/exportdialog"
	"tableflip.dev/neodash/pkg/tui/components/overlaypane"
	"tableflip.dev/neodash/pkg/tui/components/picker"
	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/uiutil"
)

// boolSettings are the dashboard settings the settings modal can toggle.
var boolSettings = []struct {
	Key     string
	Label   string
	Default bool
}{
	{Key: "fullscreenEnabled", Label: "Enable fullscreen report view", Default: true},
	{Key: "downloadImageEnabled", Label: "Enable image download", Default: false},
	{Key: "disableRowLimiting", Label: "Disable row limiting", Default: false},
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m *Model) onMenuSelect(v events.MenuSelectMsg) tea.Cmd {
	switch v.Entry {
	case events.MenuSettings:
		return m.openSettings()
	case events.MenuSave:
		return m.saveDashboard()
	case events.MenuLoad:
		return m.openLoad()
	case events.MenuShare:
		m.share()
	case events.MenuExtensions:
		return m.openExtensions()
	case events.MenuExtension:
		switch b := v.Extension.(type) {
		case extension.HiveExportButton:
			return m.openExport(b)
		case nil:
		default:
			m.command.SetStatus(b.Label() + " is not available in the terminal")
		}
	}
	return nil
}

func (m *Model) onPick(v events.PickMsg) tea.Cmd {
	switch v.Component {
	case settingsPickerID:
		settings := m.titlebar.Settings()
		for _, s := range boolSettings {
			if s.Key != v.Key {
				continue
			}
			on := s.Default
			if cur, ok := settings[s.Key].(bool); ok {
				on = cur
			}
			m.titlebar.UpdateSetting(s.Key, !on)
		}
		m.syncCards()
		m.refreshPicker(settingsPickerID, m.settingsItems())
	case extensionsPickerID:
		k, err := extension.ParseKind(v.Key)
		if err != nil {
			m.command.SetError(err.Error())
			return nil
		}
		enabled := m.state.Extensions()[k]
		m.state.SetExtensionEnabled(k, !enabled)
		m.titlebar.SetExtensions(m.state.Extensions())
		m.refreshPicker(extensionsPickerID, m.extensionItems())
	case loadPickerID:
		m.load(v.Key)
	}
	return nil
}

func (m *Model) refreshPicker(id events.ComponentID, items []picker.Item) {
	if p, ok := m.pane.Overlay().(*picker.Model); ok && p.ID() == id {
		p.SetItems(items)
	}
}

func (m *Model) modalWidth(preferred int) int {
	return uiutil.Clamp(preferred, 24, max(m.width-4, 24))
}

func (m *Model) settingsItems() []picker.Item {
	settings := m.titlebar.Settings()
	items := make([]picker.Item, 0, len(boolSettings))
	for _, s := range boolSettings {
		on := s.Default
		if cur, ok := settings[s.Key].(bool); ok {
			on = cur
		}
		items = append(items, picker.Item{Key: s.Key, Label: s.Label, Detail: onOff(on)})
	}
	return items
}

func (m *Model) openSettings() tea.Cmd {
	p := picker.New(picker.Options{
		ID:       settingsPickerID,
		Title:    "Dashboard settings",
		Items:    m.settingsItems(),
		KeepOpen: true,
	})
	return m.mount(p, overlaypane.Centered(m.modalWidth(56), 0))
}

func (m *Model) extensionItems() []picker.Item {
	enabled := m.state.Extensions()
	kinds := extension.Kinds()
	items := make([]picker.Item, 0, len(kinds))
	for _, k := range kinds {
		items = append(items, picker.Item{Key: k.String(), Label: k.Label(), Detail: onOff(enabled[k])})
	}
	return items
}

func (m *Model) openExtensions() tea.Cmd {
	p := picker.New(picker.Options{
		ID:       extensionsPickerID,
		Title:    "Extensions",
		Items:    m.extensionItems(),
		KeepOpen: true,
	})
	return m.mount(p, overlaypane.Centered(m.modalWidth(56), 0))
}

func (m *Model) saveDashboard() tea.Cmd {
	if m.store == nil {
		m.command.SetError("No dashboard store configured")
		return nil
	}
	snap := m.state.Snapshot()
	if err := m.store.Save(snap); err != nil {
		m.command.SetError("save: " + err.Error())
		return nil
	}
	m.command.SetStatus(fmt.Sprintf("Saved %q", snap.Title))
	return nil
}

func (m *Model) openLoad() tea.Cmd {
	if m.store == nil {
		m.command.SetError("No dashboard store configured")
		return nil
	}
	all := m.store.List(m.ctx)
	items := make([]picker.Item, 0, len(all))
	for _, d := range all {
		title := d.Title
		if title == "" {
			title = "Untitled dashboard"
		}
		items = append(items, picker.Item{Key: d.UUID, Label: title, Detail: uiutil.FormatTimestamp(d.Updated)})
	}
	p := picker.New(picker.Options{
		ID:    loadPickerID,
		Title: "Load dashboard",
		Items: items,
		Empty: "No saved dashboards",
	})
	return m.mount(p, overlaypane.Centered(m.modalWidth(64), 0))
}

func (m *Model) load(id string) {
	d, err := m.store.Load(id)
	if err != nil {
		m.command.SetError("load: " + err.Error())
		return
	}
	m.state.Replace(d)
	m.expanded = ""
	m.focus = -1
	m.syncCards()
	m.titlebar.SyncTitle(d.Title)
	m.titlebar.SetExtensions(m.state.Extensions())
	m.command.SetStatus(fmt.Sprintf("Loaded %q", d.Title))
}

func (m *Model) share() {
	m.command.SetStatus("Share: neodash ui " + m.state.ID())
}

func (m *Model) openHive() tea.Cmd {
	if !m.state.Extensions()[extension.SolutionsHive] {
		m.command.SetError("Enable the " + extension.SolutionsHive.Label() + " extension first")
		return nil
	}
	return m.openExport(extension.HiveExportButton{Database: m.state.Connection().Database})
}

func (m *Model) openExport(b extension.HiveExportButton) tea.Cmd {
	if m.saver == nil {
		m.command.SetError("Hive is not configured")
		return nil
	}
	if m.exporting {
		m.command.SetStatus("A Hive export is already running")
		return nil
	}
	m.exportFinished = false
	dlg := exportdialog.New(exportdialog.Options{
		ID:       exportDialogID,
		Snapshot: m.state.Snapshot,
		Username: m.state.Connection().Username,
		Save:     m.saver.Save,
		Context:  m.ctx,
	})
	if b.Database != "" {
		m.command.SetStatus("Save to Hive from " + b.Database)
	}
	return m.mount(dlg, overlaypane.Centered(m.modalWidth(72), 0))
}

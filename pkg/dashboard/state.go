package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/neodash/pkg/extension"
)

// ErrReportNotFound is returned when a report id does not exist on the page.
var ErrReportNotFound = errors.New("dashboard: report not found")

// Change names the intent that produced a state change.
type Change string

const (
	ChangeTitle     Change = "title"
	ChangeSetting   Change = "setting"
	ChangeExtension Change = "extension"
	ChangeReports   Change = "reports"
	ChangeReplace   Change = "replace"
)

// Listener is notified after every state change.
type Listener func(Change)

// State holds the dashboard being shown together with the connection and
// editability flags. Components receive the accessors and intents they need
// instead of reaching into a global store.
type State struct {
	mu         sync.RWMutex
	dashboard  *Dashboard
	connection Connection
	editable   bool
	listeners  []Listener
	now        func() time.Time
}

// NewState wraps d. A nil dashboard is replaced by an empty one.
func NewState(d *Dashboard, conn Connection, editable bool) *State {
	if d == nil {
		d = New("")
	}
	if d.Settings == nil {
		d.Settings = map[string]any{}
	}
	if d.Extensions == nil {
		d.Extensions = map[string]any{}
	}
	return &State{dashboard: d, connection: conn, editable: editable, now: time.Now}
}

// Subscribe registers fn for change notifications.
func (s *State) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *State) notify(c Change) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(c)
	}
}

// Title returns the dashboard title.
func (s *State) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard.Title
}

// ID returns the dashboard uuid.
func (s *State) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard.UUID
}

// Settings returns a copy of the dashboard settings.
func (s *State) Settings() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.dashboard.Settings))
	for k, v := range s.dashboard.Settings {
		out[k] = v
	}
	return out
}

// Extensions returns the enabled state of every known extension.
func (s *State) Extensions() map[extension.Kind]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard.EnabledExtensions()
}

// Editable reports whether dashboard-level actions are allowed.
func (s *State) Editable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editable
}

// Connection returns the active connection descriptor.
func (s *State) Connection() Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connection
}

// Snapshot returns a deep copy of the dashboard for export.
func (s *State) Snapshot() *Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard.Clone()
}

// Reports returns a copy of the reports on the first page.
func (s *State) Reports() []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Report(nil), s.dashboard.Reports(0)...)
}

// SetTitle dispatches a title update.
func (s *State) SetTitle(title string) {
	s.mu.Lock()
	if s.dashboard.Title == title {
		s.mu.Unlock()
		return
	}
	s.dashboard.Title = title
	s.touch()
	s.mu.Unlock()
	s.notify(ChangeTitle)
}

// UpdateSetting dispatches a settings update. A nil value removes the key.
func (s *State) UpdateSetting(key string, value any) {
	s.mu.Lock()
	if value == nil {
		delete(s.dashboard.Settings, key)
	} else {
		s.dashboard.Settings[key] = value
	}
	s.touch()
	s.mu.Unlock()
	s.notify(ChangeSetting)
}

// SetExtensionEnabled switches an extension on or off, keeping any extension
// specific configuration already present.
func (s *State) SetExtensionEnabled(k extension.Kind, enabled bool) {
	s.mu.Lock()
	name := k.String()
	switch cur := s.dashboard.Extensions[name].(type) {
	case map[string]any:
		cur["active"] = enabled
	default:
		if enabled {
			s.dashboard.Extensions[name] = map[string]any{"active": true}
		} else {
			s.dashboard.Extensions[name] = false
		}
	}
	s.touch()
	s.mu.Unlock()
	s.notify(ChangeExtension)
}

// RemoveReport deletes a report from the first page.
func (s *State) RemoveReport(id string) error {
	s.mu.Lock()
	if len(s.dashboard.Pages) == 0 {
		s.mu.Unlock()
		return ErrReportNotFound
	}
	reports := s.dashboard.Pages[0].Reports
	idx := indexOf(reports, id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrReportNotFound
	}
	s.dashboard.Pages[0].Reports = append(reports[:idx:idx], reports[idx+1:]...)
	s.touch()
	s.mu.Unlock()
	s.notify(ChangeReports)
	return nil
}

// CloneReport inserts a copy of a report directly after it and returns the
// new report id.
func (s *State) CloneReport(id string) (string, error) {
	s.mu.Lock()
	if len(s.dashboard.Pages) == 0 {
		s.mu.Unlock()
		return "", ErrReportNotFound
	}
	reports := s.dashboard.Pages[0].Reports
	idx := indexOf(reports, id)
	if idx < 0 {
		s.mu.Unlock()
		return "", ErrReportNotFound
	}
	clone := reports[idx]
	clone.ID = uuid.NewString()
	if clone.Settings != nil {
		settings := make(map[string]any, len(clone.Settings))
		for k, v := range clone.Settings {
			settings[k] = v
		}
		clone.Settings = settings
	}
	next := make([]Report, 0, len(reports)+1)
	next = append(next, reports[:idx+1]...)
	next = append(next, clone)
	next = append(next, reports[idx+1:]...)
	s.dashboard.Pages[0].Reports = next
	s.touch()
	s.mu.Unlock()
	s.notify(ChangeReports)
	return clone.ID, nil
}

// Replace swaps in a new dashboard, e.g. after a load or an external edit.
func (s *State) Replace(d *Dashboard) {
	if d == nil {
		return
	}
	d = d.Clone()
	if d.Settings == nil {
		d.Settings = map[string]any{}
	}
	if d.Extensions == nil {
		d.Extensions = map[string]any{}
	}
	s.mu.Lock()
	s.dashboard = d
	s.mu.Unlock()
	s.notify(ChangeReplace)
}

func (s *State) touch() {
	s.dashboard.Updated = s.now().UTC()
}

func indexOf(reports []Report, id string) int {
	for i, r := range reports {
		if r.ID == id {
			return i
		}
	}
	return -1
}

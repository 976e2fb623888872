// Package dashboard defines the dashboard document and the application state
// the TUI components read from and dispatch to.
package dashboard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/neodash/pkg/extension"
)

// CurrentVersion is written to new dashboards.
const CurrentVersion = "2.4"

// Dashboard is the full snapshot of a dashboard. It is passed opaquely to the
// export operation and stored as JSON.
type Dashboard struct {
	UUID       string         `json:"uuid"`
	Title      string         `json:"title"`
	Version    string         `json:"version"`
	Settings   map[string]any `json:"settings,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
	Pages      []Page         `json:"pages"`
	Updated    time.Time      `json:"updated,omitempty"`
}

// Page groups report cards.
type Page struct {
	Title   string   `json:"title"`
	Reports []Report `json:"reports"`
}

// Report is a single card on a page.
type Report struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Type     string         `json:"type"`
	Query    string         `json:"query"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Connection describes the active database connection.
type Connection struct {
	Database string `json:"database"`
	Username string `json:"username"`
	URL      string `json:"url,omitempty"`
}

// New returns an empty dashboard with a fresh id and a single page.
func New(title string) *Dashboard {
	return &Dashboard{
		UUID:       uuid.NewString(),
		Title:      title,
		Version:    CurrentVersion,
		Settings:   map[string]any{},
		Extensions: map[string]any{},
		Pages:      []Page{{Title: "Main Page"}},
	}
}

// Sample builds the dashboard created on first launch.
func Sample() *Dashboard {
	d := New("New dashboard")
	d.Settings["fullscreenEnabled"] = true
	d.Pages[0].Reports = []Report{
		{ID: uuid.NewString(), Title: "Hi there 👋", Type: "text", Query: "**This is your first dashboard!**"},
		{ID: uuid.NewString(), Title: "Node count", Type: "value", Query: "MATCH (n) RETURN count(n)"},
		{ID: uuid.NewString(), Title: "Labels", Type: "table", Query: "CALL db.labels()"},
	}
	return d
}

// Clone returns a deep copy of the dashboard.
func (d *Dashboard) Clone() *Dashboard {
	if d == nil {
		return nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		// Only JSON-native values are ever stored in the maps.
		panic(fmt.Sprintf("dashboard: clone: %v", err))
	}
	out := &Dashboard{}
	if err := json.Unmarshal(b, out); err != nil {
		panic(fmt.Sprintf("dashboard: clone: %v", err))
	}
	return out
}

// EnabledExtensions reports which known extensions are switched on. An
// extension is enabled when its value is true, or when it is an object whose
// "active" field is not false.
func (d *Dashboard) EnabledExtensions() map[extension.Kind]bool {
	out := make(map[extension.Kind]bool)
	if d == nil {
		return out
	}
	for name, v := range d.Extensions {
		k, err := extension.ParseKind(name)
		if err != nil {
			continue
		}
		out[k] = extensionActive(v)
	}
	return out
}

func extensionActive(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case map[string]any:
		if active, ok := t["active"].(bool); ok {
			return active
		}
		return true
	case nil:
		return false
	default:
		return true
	}
}

// SolutionsHiveDBName returns extensions.solutionsHive.dbName when present.
func (d *Dashboard) SolutionsHiveDBName() string {
	if d == nil {
		return ""
	}
	ext, ok := d.Extensions[extension.SolutionsHive.String()].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := ext["dbName"].(string)
	return name
}

// BoolSetting reads a boolean dashboard setting, falling back to def.
func (d *Dashboard) BoolSetting(key string, def bool) bool {
	if d == nil {
		return def
	}
	if v, ok := d.Settings[key].(bool); ok {
		return v
	}
	return def
}

// Reports returns the reports of the page at index, or nil.
func (d *Dashboard) Reports(page int) []Report {
	if d == nil || page < 0 || page >= len(d.Pages) {
		return nil
	}
	return d.Pages[page].Reports
}

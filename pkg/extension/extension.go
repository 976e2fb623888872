// Package extension enumerates the optional dashboard extensions and the
// drawer buttons they contribute to the title bar menu.
package extension

import (
	"fmt"
	"strings"
)

// Kind identifies a known extension.
type Kind int

const (
	// NodeSidebar shows a sidebar of pinned nodes.
	NodeSidebar Kind = iota + 1
	// QueryTranslator turns natural language prompts into Cypher.
	QueryTranslator
	// SolutionsHive publishes dashboards and database dumps to Hive.
	SolutionsHive
)

var names = map[Kind]string{
	NodeSidebar:     "node-sidebar",
	QueryTranslator: "query-translator",
	SolutionsHive:   "solutionsHive",
}

// Kinds returns every known extension in registry order.
func Kinds() []Kind {
	return []Kind{NodeSidebar, QueryTranslator, SolutionsHive}
}

// String returns the name used for the extension in dashboard documents.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("extension(%d)", int(k))
}

// Label is the human readable name shown in menus.
func (k Kind) Label() string {
	switch k {
	case NodeSidebar:
		return "Node Sidebar"
	case QueryTranslator:
		return "Query Translator"
	case SolutionsHive:
		return "Save to Hive"
	default:
		return k.String()
	}
}

// ParseKind resolves an extension name. Matching ignores case so that
// hand-edited documents still resolve.
func ParseKind(name string) (Kind, error) {
	target := strings.TrimSpace(name)
	for k, n := range names {
		if strings.EqualFold(n, target) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("extension: unknown extension %q", name)
}

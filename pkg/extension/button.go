package extension

// Button is a drawer button contributed by an enabled extension. The set of
// implementations is closed; callers switch on the concrete type.
type Button interface {
	Kind() Kind
	Label() string
	button()
}

// NodeSidebarButton toggles the node sidebar for a database.
type NodeSidebarButton struct {
	Database string
}

// Kind implements Button.
func (NodeSidebarButton) Kind() Kind { return NodeSidebar }

// Label implements Button.
func (NodeSidebarButton) Label() string { return NodeSidebar.Label() }

func (NodeSidebarButton) button() {}

// QueryTranslatorButton opens the query translator against a database.
type QueryTranslatorButton struct {
	Database string
}

// Kind implements Button.
func (QueryTranslatorButton) Kind() Kind { return QueryTranslator }

// Label implements Button.
func (QueryTranslatorButton) Label() string { return QueryTranslator.Label() }

func (QueryTranslatorButton) button() {}

// HiveExportButton opens the Save to Hive dialog.
type HiveExportButton struct {
	Database string
}

// Kind implements Button.
func (HiveExportButton) Kind() Kind { return SolutionsHive }

// Label implements Button.
func (HiveExportButton) Label() string { return SolutionsHive.Label() }

func (HiveExportButton) button() {}

// Registry lists the extensions that contribute drawer buttons, in render
// order, together with the constructor for each button.
var Registry = []struct {
	Kind Kind
	New  func(database string) Button
}{
	{Kind: NodeSidebar, New: func(db string) Button { return NodeSidebarButton{Database: db} }},
	{Kind: QueryTranslator, New: func(db string) Button { return QueryTranslatorButton{Database: db} }},
	{Kind: SolutionsHive, New: func(db string) Button { return HiveExportButton{Database: db} }},
}

// DrawerButtons resolves the buttons for every registered extension that is
// enabled. Each button receives the active database identifier.
func DrawerButtons(enabled map[Kind]bool, database string) []Button {
	var out []Button
	for _, entry := range Registry {
		if !enabled[entry.Kind] {
			continue
		}
		out = append(out, entry.New(database))
	}
	return out
}

// Database returns the database a button was resolved against.
func Database(b Button) string {
	switch v := b.(type) {
	case NodeSidebarButton:
		return v.Database
	case QueryTranslatorButton:
		return v.Database
	case HiveExportButton:
		return v.Database
	default:
		return ""
	}
}

// Package store manages the sidequest state file.
//
// The state file (~/.local/state/sidequest/state.json) holds every record
// the engine persists, grouped into namespaces (quests, reminders, logs,
// settings). All access goes through View and Update transactions, which
// are serialized through file locking so the CLI and the watch daemon can
// share one state directory. Every Update is durably written before it
// returns, and each successful write is followed by the daily backup
// rotation.
package store

import (
	"encoding/json"
	"slices"
)

// CurrentSchemaVersion is the schema version written by this package.
//
// Version history:
//   - 1: initial layout. Quests had no kind or longest_streak; reminders
//     stored their weekdays under "days".
//   - 2: quests carry kind (default "binary") and longest_streak (seeded
//     from streak); reminder weekdays live under "repeat_days".
const CurrentSchemaVersion = 2

// Namespace names a group of records.
type Namespace string

const (
	// NamespaceSettings holds engine preferences.
	NamespaceSettings Namespace = "settings"
	// NamespaceQuests holds quest records and their history.
	NamespaceQuests Namespace = "quests"
	// NamespaceReminders holds reminder records.
	NamespaceReminders Namespace = "reminders"
	// NamespaceLogs holds daily mood and journal records.
	NamespaceLogs Namespace = "logs"
)

// Namespaces returns all namespaces in export order.
func Namespaces() []Namespace {
	return []Namespace{NamespaceSettings, NamespaceQuests, NamespaceReminders, NamespaceLogs}
}

// IsValid returns true if the namespace is a known value.
func (ns Namespace) IsValid() bool {
	return slices.Contains(Namespaces(), ns)
}

// state is the on-disk representation of the state file.
type state struct {
	SchemaVersion int                                      `json:"schema_version"`
	Namespaces    map[Namespace]map[string]json.RawMessage `json:"namespaces"`
}

func newState() *state {
	st := &state{SchemaVersion: CurrentSchemaVersion}
	st.ensureNamespaces()
	return st
}

// ensureNamespaces initializes missing namespace maps.
func (st *state) ensureNamespaces() {
	if st.Namespaces == nil {
		st.Namespaces = make(map[Namespace]map[string]json.RawMessage)
	}
	for _, ns := range Namespaces() {
		if st.Namespaces[ns] == nil {
			st.Namespaces[ns] = make(map[string]json.RawMessage)
		}
	}
}

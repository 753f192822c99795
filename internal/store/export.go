package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/amonks/sidequest/internal/errs"
)

// Document is the export format: one array of records per namespace.
type Document struct {
	SchemaVersion int               `json:"schemaVersion"`
	ExportedAt    time.Time         `json:"exportedAt"`
	Settings      []json.RawMessage `json:"settings"`
	Quests        []json.RawMessage `json:"quests"`
	Reminders     []json.RawMessage `json:"reminders"`
	Logs          []json.RawMessage `json:"logs"`
}

func (doc *Document) section(ns Namespace) *[]json.RawMessage {
	switch ns {
	case NamespaceSettings:
		return &doc.Settings
	case NamespaceQuests:
		return &doc.Quests
	case NamespaceReminders:
		return &doc.Reminders
	case NamespaceLogs:
		return &doc.Logs
	default:
		return nil
	}
}

// Export serializes the full state.
func (s *Store) Export() ([]byte, error) {
	var data []byte
	err := s.View(func(tx *Tx) error {
		var err error
		data, err = encodeDocument(tx.st, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func encodeDocument(st *state, now time.Time) ([]byte, error) {
	doc := Document{
		SchemaVersion: st.SchemaVersion,
		ExportedAt:    now,
	}
	tx := &Tx{st: st}
	for _, ns := range Namespaces() {
		section := doc.section(ns)
		*section = make([]json.RawMessage, 0, len(st.Namespaces[ns]))
		for _, id := range tx.IDs(ns) {
			*section = append(*section, st.Namespaces[ns][id])
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// Import replaces the full state with the contents of an export document.
// Documents from older schema versions are migrated; documents without a
// version or from a newer version are rejected with errs.ErrSchema.
func (s *Store) Import(blob []byte) error {
	st, err := decodeDocument(blob)
	if err != nil {
		return err
	}
	return s.Update(func(tx *Tx) error {
		tx.st.SchemaVersion = st.SchemaVersion
		tx.st.Namespaces = st.Namespaces
		return nil
	})
}

func decodeDocument(blob []byte) (*state, error) {
	var header struct {
		SchemaVersion *int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(blob, &header); err != nil {
		return nil, fmt.Errorf("%w: parse import: %w", errs.ErrSchema, err)
	}
	if header.SchemaVersion == nil {
		return nil, fmt.Errorf("%w: import has no schemaVersion", errs.ErrSchema)
	}
	version := *header.SchemaVersion
	if version < 1 {
		return nil, fmt.Errorf("%w: invalid schemaVersion %d", errs.ErrSchema, version)
	}
	if version > CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: import schema version %d is newer than supported version %d",
			errs.ErrSchema, version, CurrentSchemaVersion)
	}

	var doc Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse import: %w", errs.ErrSchema, err)
	}

	st := newState()
	for _, ns := range Namespaces() {
		for i, raw := range *doc.section(ns) {
			var key struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(raw, &key); err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %w", errs.ErrSchema, ns, i, err)
			}
			if key.ID == "" {
				return nil, fmt.Errorf("%w: %s[%d] has no id", errs.ErrSchema, ns, i)
			}
			if _, dup := st.Namespaces[ns][key.ID]; dup {
				return nil, fmt.Errorf("%w: %s has duplicate id %q", errs.ErrSchema, ns, key.ID)
			}
			migrated, err := migrateRecord(version, ns, raw)
			if err != nil {
				return nil, fmt.Errorf("%w: migrate %s/%s: %w", errs.ErrSchema, ns, key.ID, err)
			}
			st.Namespaces[ns][key.ID] = migrated
		}
	}
	return st, nil
}

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// migration upgrades a single record from one schema version to the next.
type migration func(ns Namespace, record map[string]any) error

// migrations maps a schema version to the migration that upgrades records
// written at that version.
var migrations = map[int]migration{
	1: migrateV1,
}

// migrateV1 upgrades version 1 records to version 2.
func migrateV1(ns Namespace, record map[string]any) error {
	switch ns {
	case NamespaceQuests:
		if kind, ok := record["kind"].(string); !ok || kind == "" {
			record["kind"] = "binary"
		}
		streak := numberValue(record["streak"])
		if numberValue(record["longest_streak"]) < streak {
			record["longest_streak"] = json.Number(fmt.Sprint(streak))
		}
	case NamespaceReminders:
		if days, ok := record["days"]; ok {
			if _, exists := record["repeat_days"]; !exists {
				record["repeat_days"] = days
			}
			delete(record, "days")
		}
	}
	return nil
}

// migrateRecord runs every migration from version up to CurrentSchemaVersion.
func migrateRecord(version int, ns Namespace, raw json.RawMessage) (json.RawMessage, error) {
	if version >= CurrentSchemaVersion {
		return raw, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var record map[string]any
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("record is not an object")
	}

	for v := version; v < CurrentSchemaVersion; v++ {
		migrate, ok := migrations[v]
		if !ok {
			return nil, fmt.Errorf("no migration from schema version %d", v)
		}
		if err := migrate(ns, record); err != nil {
			return nil, err
		}
	}

	return json.Marshal(record)
}

func numberValue(value any) int64 {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	case float64:
		return int64(v)
	default:
		return 0
	}
}

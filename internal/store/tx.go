package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/amonks/sidequest/internal/errs"
)

// ErrReadOnly is returned when a View transaction tries to write.
var ErrReadOnly = errors.New("transaction is read-only")

// Tx is a transaction over the loaded state.
// A Tx is only valid inside the View or Update callback that received it.
type Tx struct {
	st       *state
	writable bool
}

func (tx *Tx) records(ns Namespace) (map[string]json.RawMessage, error) {
	if !ns.IsValid() {
		return nil, fmt.Errorf("unknown namespace %q", ns)
	}
	return tx.st.Namespaces[ns], nil
}

// Get decodes the record with the given id into v.
// It reports whether the record exists.
func (tx *Tx) Get(ns Namespace, id string, v any) (bool, error) {
	records, err := tx.records(ns)
	if err != nil {
		return false, err
	}
	raw, ok := records[id]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: decode %s/%s: %w", errs.ErrSchema, ns, id, err)
	}
	return true, nil
}

// Has reports whether a record with the given id exists.
func (tx *Tx) Has(ns Namespace, id string) bool {
	records, err := tx.records(ns)
	if err != nil {
		return false
	}
	_, ok := records[id]
	return ok
}

// Put stores v under id, replacing any existing record.
func (tx *Tx) Put(ns Namespace, id string, v any) error {
	if !tx.writable {
		return ErrReadOnly
	}
	if id == "" {
		return fmt.Errorf("%w: record id cannot be empty", errs.ErrValidation)
	}
	records, err := tx.records(ns)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", ns, id, err)
	}
	records[id] = data
	return nil
}

// Delete removes the record with the given id.
// It reports whether a record was removed.
func (tx *Tx) Delete(ns Namespace, id string) (bool, error) {
	if !tx.writable {
		return false, ErrReadOnly
	}
	records, err := tx.records(ns)
	if err != nil {
		return false, err
	}
	if _, ok := records[id]; !ok {
		return false, nil
	}
	delete(records, id)
	return true, nil
}

// IDs returns the ids in a namespace, sorted.
func (tx *Tx) IDs(ns Namespace) []string {
	records, err := tx.records(ns)
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List decodes every record in a namespace, ordered by id.
func List[T any](tx *Tx, ns Namespace) ([]T, error) {
	ids := tx.IDs(ns)
	items := make([]T, 0, len(ids))
	for _, id := range ids {
		var item T
		if _, err := tx.Get(ns, id, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

package quest

import (
	"fmt"

	"github.com/amonks/sidequest/internal/ids"
	"github.com/amonks/sidequest/internal/store"
)

// Get loads the quest with the given id.
func Get(tx *store.Tx, id string) (*Quest, error) {
	var q Quest
	ok, err := tx.Get(store.NamespaceQuests, id, &q)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuestNotFound, id)
	}
	return &q, nil
}

// Put stores q.
func Put(tx *store.Tx, q *Quest) error {
	return tx.Put(store.NamespaceQuests, q.ID, q)
}

// Delete removes the quest with the given id.
func Delete(tx *store.Tx, id string) error {
	removed, err := tx.Delete(store.NamespaceQuests, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrQuestNotFound, id)
	}
	return nil
}

// All loads every quest, ordered by id.
func All(tx *store.Tx) ([]*Quest, error) {
	return store.List[*Quest](tx, store.NamespaceQuests)
}

// Resolve returns the full quest ID for a unique prefix.
func Resolve(tx *store.Tx, prefix string) (string, error) {
	match, found, ambiguous := ids.MatchPrefix(tx.IDs(store.NamespaceQuests), prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrQuestNotFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousQuestIDPrefix, prefix)
	}
	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each quest.
func PrefixLengths(quests []*Quest) map[string]int {
	questIDs := make([]string, 0, len(quests))
	for _, q := range quests {
		questIDs = append(questIDs, q.ID)
	}
	return ids.UniquePrefixLengths(questIDs)
}

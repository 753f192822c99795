package quest

import (
	"errors"
	"testing"

	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/store"
)

func TestRepo(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})

	var first, second *Quest
	err := st.Update(func(tx *store.Tx) error {
		first = newQuest(t, CreateOptions{Title: "Read"}, day(1))
		first.ID = "abc111"
		second = newQuest(t, CreateOptions{Title: "Walk"}, day(1))
		second.ID = "abd222"
		if err := Put(tx, first); err != nil {
			return err
		}
		return Put(tx, second)
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	st.View(func(tx *store.Tx) error {
		id, err := Resolve(tx, "abd")
		if err != nil || id != "abd222" {
			t.Errorf("Resolve(abd) = %q, %v", id, err)
		}
		if _, err := Resolve(tx, "ab"); !errors.Is(err, ErrAmbiguousQuestIDPrefix) {
			t.Errorf("expected ambiguous prefix error, got %v", err)
		}
		if _, err := Resolve(tx, "zz"); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}

		q, err := Get(tx, "abc111")
		if err != nil || q.Title != "Read" {
			t.Errorf("Get = %+v, %v", q, err)
		}
		all, err := All(tx)
		if err != nil || len(all) != 2 {
			t.Errorf("All = %d quests, %v", len(all), err)
		}
		lengths := PrefixLengths(all)
		if lengths["abc111"] != 3 || lengths["abd222"] != 3 {
			t.Errorf("unexpected prefix lengths %v", lengths)
		}
		return nil
	})

	err = st.Update(func(tx *store.Tx) error {
		if err := Delete(tx, "abc111"); err != nil {
			return err
		}
		if err := Delete(tx, "abc111"); !errors.Is(err, ErrQuestNotFound) {
			t.Errorf("expected second delete to fail, got %v", err)
		}
		_, err := Get(tx, "abc111")
		if !errors.Is(err, ErrQuestNotFound) {
			t.Errorf("expected deleted quest to be gone, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
}

package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/amonks/sidequest/internal/store"
	"github.com/amonks/sidequest/quest"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

func update(t *testing.T, st *store.Store, fn func(tx *store.Tx) error) {
	t.Helper()
	if err := st.Update(fn); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestCheckIn_CreatesAndAmends(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})

	update(t, st, func(tx *store.Tx) error {
		for _, title := range []string{"Read", "Walk"} {
			q, err := quest.New(quest.CreateOptions{Title: title}, at(2, 7))
			if err != nil {
				return err
			}
			if title == "Read" {
				if err := q.Complete(at(2, 7)); err != nil {
					return err
				}
			}
			if err := quest.Put(tx, q); err != nil {
				return err
			}
		}
		return nil
	})

	var first *DailyLog
	update(t, st, func(tx *store.Tx) error {
		var err error
		first, err = CheckIn(tx, "High", "slept well", at(2, 8))
		return err
	})
	if first.ID != "2026-03-02" || first.Assigned != 2 || first.Completed != 1 {
		t.Fatalf("unexpected log %+v", first)
	}

	update(t, st, func(tx *store.Tx) error {
		log, err := CheckIn(tx, "Low", "", at(2, 20))
		if err != nil {
			return err
		}
		if log.Energy != "Low" || log.Notes != "slept well" {
			t.Errorf("expected energy replaced and notes kept, got %+v", log)
		}
		if !log.CreatedAt.Equal(at(2, 8)) {
			t.Errorf("expected created at to stay %s, got %s", at(2, 8), log.CreatedAt)
		}
		return nil
	})
}

func TestRecount(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})

	var q *quest.Quest
	update(t, st, func(tx *store.Tx) error {
		var err error
		q, err = quest.New(quest.CreateOptions{Title: "Read"}, at(2, 7))
		if err != nil {
			return err
		}
		if err := quest.Put(tx, q); err != nil {
			return err
		}
		// Without a log for today Recount is a no-op.
		if err := Recount(tx, at(2, 7)); err != nil {
			return err
		}
		if tx.Has(store.NamespaceLogs, "2026-03-02") {
			t.Error("expected recount not to create a log")
		}
		_, err = CheckIn(tx, "Medium", "", at(2, 8))
		return err
	})

	update(t, st, func(tx *store.Tx) error {
		if err := q.Complete(at(2, 9)); err != nil {
			return err
		}
		if err := quest.Put(tx, q); err != nil {
			return err
		}
		return Recount(tx, at(2, 9))
	})

	st.View(func(tx *store.Tx) error {
		log, err := Get(tx, "2026-03-02")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if log.Completed != 1 || log.Assigned != 1 {
			t.Errorf("expected 1/1 after recount, got %d/%d", log.Completed, log.Assigned)
		}
		return nil
	})
}

func TestList(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})
	update(t, st, func(tx *store.Tx) error {
		for _, d := range []int{4, 1, 2} {
			if _, err := CheckIn(tx, "High", "", at(d, 9)); err != nil {
				return err
			}
		}
		return nil
	})

	st.View(func(tx *store.Tx) error {
		logs, err := List(tx, "2026-03-02", "")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(logs) != 2 || logs[0].ID != "2026-03-02" || logs[1].ID != "2026-03-04" {
			t.Errorf("unexpected logs %+v", logs)
		}
		if _, err := List(tx, "2026-03-05", "2026-03-01"); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("expected ErrInvalidRange, got %v", err)
		}
		if _, err := Get(tx, "2026-03-03"); !errors.Is(err, ErrLogNotFound) {
			t.Errorf("expected ErrLogNotFound, got %v", err)
		}
		return nil
	})
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-02-30"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	if got, err := ParseDate("2026-02-28"); err != nil || got != "2026-02-28" {
		t.Errorf("ParseDate = %q, %v", got, err)
	}
}

package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/amonks/sidequest/internal/errs"
)

func TestStore_AutoBackupOncePerDay(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := New(t.TempDir(), Options{Now: func() time.Time { return now }})

	put := func(title string) {
		t.Helper()
		if err := store.Update(func(tx *Tx) error {
			return tx.Put(NamespaceQuests, "q1", record{ID: "q1", Title: title})
		}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	put("first")
	put("second")

	backups, err := store.ListBackups()
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(backups) != 1 || backups[0].Date != "2026-03-02" {
		t.Fatalf("expected one backup for 2026-03-02, got %+v", backups)
	}

	// The first write of the day is what gets backed up.
	data, err := store.ReadBackup("2026-03-02")
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	restored := New(t.TempDir(), Options{Now: func() time.Time { return now }})
	if err := restored.Import(data); err != nil {
		t.Fatalf("import backup: %v", err)
	}
	restored.View(func(tx *Tx) error {
		var rec record
		tx.Get(NamespaceQuests, "q1", &rec)
		if rec.Title != "first" {
			t.Errorf("expected backup to hold first write, got %q", rec.Title)
		}
		return nil
	})

	now = now.AddDate(0, 0, 1)
	put("third")
	backups, _ = store.ListBackups()
	if len(backups) != 2 {
		t.Fatalf("expected two backups, got %+v", backups)
	}
}

func TestStore_BackupRetention(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := New(t.TempDir(), Options{
		RetentionDays: 3,
		Now:           func() time.Time { return now },
	})

	for day := 0; day < 6; day++ {
		if err := store.Update(func(tx *Tx) error {
			return tx.Put(NamespaceLogs, "day", record{ID: "day", Count: day})
		}); err != nil {
			t.Fatalf("update day %d: %v", day, err)
		}
		now = now.AddDate(0, 0, 1)
	}

	backups, err := store.ListBackups()
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	var dates []string
	for _, b := range backups {
		dates = append(dates, b.Date)
	}
	want := []string{"2026-03-04", "2026-03-05", "2026-03-06"}
	if len(dates) != len(want) {
		t.Fatalf("expected %v, got %v", want, dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, dates)
		}
	}
}

func TestStore_FlushWritesBackup(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := New(t.TempDir(), Options{Now: func() time.Time { return now }})

	if err := store.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	backups, _ := store.ListBackups()
	if len(backups) != 1 {
		t.Fatalf("expected flush to write a backup, got %+v", backups)
	}
	if _, err := os.Stat(backups[0].Path); err != nil {
		t.Fatalf("stat backup: %v", err)
	}
}

func TestStore_ReadBackupErrors(t *testing.T) {
	store := New(t.TempDir(), Options{})

	if _, err := store.ReadBackup("yesterday"); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := store.ReadBackup("2020-01-01"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

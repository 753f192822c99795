package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/amonks/sidequest/internal/errs"
	"go.uber.org/zap"
)

const (
	// BackupsDir is the directory inside the store that holds dated backups.
	BackupsDir = "backups"

	backupPrefix     = "sidequest-"
	backupSuffix     = ".json"
	backupDateLayout = "2006-01-02"
)

// Backup describes one dated backup file.
type Backup struct {
	Date string `json:"date"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

func (s *Store) backupsPath() string {
	return filepath.Join(s.dir, BackupsDir)
}

func (s *Store) backupPath(date string) string {
	return filepath.Join(s.backupsPath(), backupPrefix+date+backupSuffix)
}

// autoBackup writes today's backup if it does not exist yet and prunes
// backups that fell out of the retention window.
func (s *Store) autoBackup(st *state) error {
	now := s.now()
	today := now.Format(backupDateLayout)
	path := s.backupPath(today)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := encodeDocument(st, now)
		if err != nil {
			return err
		}
		if err := writeFileDurable(s.backupsPath(), path, data); err != nil {
			return fmt.Errorf("write backup %s: %w", today, err)
		}
		s.logger.Info("backup written", zap.String("date", today), zap.String("path", path))
	} else if err != nil {
		return fmt.Errorf("stat backup %s: %w", today, err)
	}

	return s.pruneBackups(now)
}

func (s *Store) pruneBackups(now time.Time) error {
	backups, err := s.ListBackups()
	if err != nil {
		return err
	}

	today := startOfDay(now)
	for _, backup := range backups {
		date, err := time.ParseInLocation(backupDateLayout, backup.Date, now.Location())
		if err != nil {
			continue
		}
		if daysBetween(date, today) < s.retentionDays {
			continue
		}
		if err := os.Remove(backup.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove backup %s: %w", backup.Date, err)
		}
		s.logger.Info("backup pruned", zap.String("date", backup.Date))
	}
	return nil
}

// ListBackups returns the dated backups, oldest first.
func (s *Store) ListBackups() ([]Backup, error) {
	entries, err := os.ReadDir(s.backupsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read backups directory: %w", errs.ErrStorage, err)
	}

	var backups []Backup
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		date := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
		if _, err := time.Parse(backupDateLayout, date); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Backup{
			Date: date,
			Path: filepath.Join(s.backupsPath(), name),
			Size: info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Date < backups[j].Date
	})
	return backups, nil
}

// ReadBackup returns the export document stored for the given date.
func (s *Store) ReadBackup(date string) ([]byte, error) {
	if _, err := time.Parse(backupDateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: invalid backup date %q", errs.ErrValidation, date)
	}
	data, err := os.ReadFile(s.backupPath(date))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: no backup for %s", errs.ErrNotFound, date)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read backup %s: %w", errs.ErrStorage, date, err)
	}
	return data, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

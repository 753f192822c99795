package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/amonks/sidequest/internal/errs"
	"go.uber.org/zap"
)

const (
	// StateFile is the name of the state file inside the store directory.
	StateFile = "state.json"

	// DefaultRetentionDays is how many daily backups are kept by default.
	DefaultRetentionDays = 7
)

// Store manages the state file with locking.
type Store struct {
	dir           string
	retentionDays int
	now           func() time.Time
	logger        *zap.Logger

	// mu serializes transactions within this process; flock only
	// serializes across processes.
	mu sync.Mutex
}

// Options configures a Store.
type Options struct {
	// RetentionDays is how many daily backups are kept.
	// Defaults to DefaultRetentionDays when zero or negative.
	RetentionDays int

	// Now returns the current time. Its location decides which calendar
	// day a backup belongs to. Defaults to time.Now.
	Now func() time.Time

	// Logger receives backup and flush diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// New creates a store rooted at dir.
func New(dir string, opts Options) *Store {
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = DefaultRetentionDays
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Store{
		dir:           dir,
		retentionDays: opts.RetentionDays,
		now:           opts.Now,
		logger:        opts.Logger,
	}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// RetentionDays returns the backup retention window in days.
func (s *Store) RetentionDays() int {
	return s.retentionDays
}

// statePath returns the path to the state file.
func (s *Store) statePath() string {
	return filepath.Join(s.dir, StateFile)
}

// lockPath returns the path to the lock file.
func (s *Store) lockPath() string {
	return filepath.Join(s.dir, "state.lock")
}

// View runs fn against a read-only snapshot of the current state.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withFileLock(syscall.LOCK_SH, func() error {
		st, _, err := s.load()
		if err != nil {
			return err
		}
		return fn(&Tx{st: st})
	})
}

// Update atomically reads, modifies, and durably writes the state.
// If fn returns an error nothing is written. If the write fails the error
// wraps errs.ErrStorage and the state file is left as it was.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withFileLock(syscall.LOCK_EX, func() error {
		st, existing, err := s.load()
		if err != nil {
			return err
		}

		tx := &Tx{st: st, writable: true}
		if err := fn(tx); err != nil {
			return err
		}

		written, err := s.save(st, existing)
		if err != nil {
			return err
		}
		if written {
			if err := s.autoBackup(st); err != nil {
				s.logger.Warn("backup failed", zap.Error(err))
			}
		}
		return nil
	})
}

// Flush forces the state file to stable storage and makes sure today's
// backup exists. Unlike Update, backup failures are returned so a periodic
// flush cycle can retry them.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withFileLock(syscall.LOCK_EX, func() error {
		st, existing, err := s.load()
		if err != nil {
			return err
		}

		written, err := s.save(st, existing)
		if err != nil {
			return err
		}
		if !written {
			if err := syncPath(s.statePath()); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("%w: sync state file: %w", errs.ErrStorage, err)
			}
		}

		if err := s.autoBackup(st); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrStorage, err)
		}
		return nil
	})
}

// load reads the state from disk, returning the decoded state and the raw
// bytes it was decoded from. A missing file yields an empty state.
func (s *Store) load() (*state, []byte, error) {
	data, err := os.ReadFile(s.statePath())
	if os.IsNotExist(err) {
		return newState(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read state file: %w", errs.ErrStorage, err)
	}

	st, err := decodeState(data)
	if err != nil {
		return nil, nil, err
	}
	return st, data, nil
}

func decodeState(data []byte) (*state, error) {
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: unmarshal state: %w", errs.ErrSchema, err)
	}
	if st.SchemaVersion == 0 {
		return nil, fmt.Errorf("%w: state file has no schema_version", errs.ErrSchema)
	}
	if st.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: state schema version %d is newer than supported version %d",
			errs.ErrSchema, st.SchemaVersion, CurrentSchemaVersion)
	}

	st.ensureNamespaces()
	if st.SchemaVersion < CurrentSchemaVersion {
		for ns, records := range st.Namespaces {
			for id, raw := range records {
				migrated, err := migrateRecord(st.SchemaVersion, ns, raw)
				if err != nil {
					return nil, fmt.Errorf("%w: migrate %s/%s: %w", errs.ErrSchema, ns, id, err)
				}
				records[id] = migrated
			}
		}
		st.SchemaVersion = CurrentSchemaVersion
	}
	return &st, nil
}

// save writes the state to disk unless it is byte-identical to existing.
// It reports whether a write happened.
func (s *Store) save(st *state, existing []byte) (bool, error) {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return false, fmt.Errorf("%w: marshal state: %w", errs.ErrStorage, err)
	}

	if existing != nil && bytes.Equal(existing, data) {
		return false, nil
	}

	if err := writeFileDurable(s.dir, s.statePath(), data); err != nil {
		return false, err
	}
	return true, nil
}

// writeFileDurable writes data to path via a synced temp file and rename,
// then syncs the parent directory so the rename itself survives a crash.
func writeFileDurable(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create state dir: %w", errs.ErrStorage, err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", errs.ErrStorage, err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err == nil {
		err = tmpFile.Sync()
	}
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: write temp file: %w", errs.ErrStorage, err)
	}

	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: rename %s: %w", errs.ErrStorage, filepath.Base(path), err)
	}

	if err := syncPath(dir); err != nil {
		return fmt.Errorf("%w: sync dir: %w", errs.ErrStorage, err)
	}
	return nil
}

func syncPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

// withFileLock executes fn while holding a lock on the store's lock file.
func (s *Store) withFileLock(how int, fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create state dir: %w", errs.ErrStorage, err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open lock file: %w", errs.ErrStorage, err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), how); err != nil {
		return fmt.Errorf("%w: acquire lock: %w", errs.ErrStorage, err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	return fn()
}

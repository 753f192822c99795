package engine

import (
	"github.com/amonks/sidequest/internal/store"
	"go.uber.org/zap"
)

// ExportBackup serializes the full state as a versioned JSON document.
func (e *Engine) ExportBackup() ([]byte, error) {
	return e.store.Export()
}

// ImportBackup replaces the full state with an exported document.
func (e *Engine) ImportBackup(blob []byte) error {
	if err := e.store.Import(blob); err != nil {
		return err
	}
	e.logger.Info("backup imported", zap.Int("bytes", len(blob)))
	return nil
}

// ListBackups returns the dated automatic backups, oldest first.
func (e *Engine) ListBackups() ([]store.Backup, error) {
	return e.store.ListBackups()
}

// RestoreBackup replaces the full state with the backup taken on date.
func (e *Engine) RestoreBackup(date string) error {
	blob, err := e.store.ReadBackup(date)
	if err != nil {
		return err
	}
	if err := e.store.Import(blob); err != nil {
		return err
	}
	e.logger.Info("backup restored", zap.String("date", date))
	return nil
}

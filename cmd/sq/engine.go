package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/amonks/sidequest/engine"
	"github.com/amonks/sidequest/internal/config"
	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/logging"
	"github.com/amonks/sidequest/internal/paths"
)

const (
	// configEnv names an override config file.
	configEnv = "SIDEQUEST_CONFIG"

	// nowEnv pins the clock to an RFC 3339 time.
	nowEnv = "SIDEQUEST_NOW"
)

var openLogger *zap.Logger

// loadConfig reads the global config and the --config / $SIDEQUEST_CONFIG
// override.
func loadConfig() (*config.Config, error) {
	override := rootConfigPath
	if override == "" {
		override = os.Getenv(configEnv)
	}
	return config.Load(override)
}

func stateDir() (string, error) {
	return paths.ResolveWithDefault(rootStateDir, paths.DefaultStateDir)
}

func clock() (func() time.Time, error) {
	value := os.Getenv(nowEnv)
	if value == "" {
		return time.Now, nil
	}
	pinned, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrValidation, nowEnv, err)
	}
	return func() time.Time { return pinned }, nil
}

// openEngine builds an engine from the config. Engine activity is logged
// to the log file in the state directory.
func openEngine() (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := stateDir()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{Path: logFile(cfg, dir)})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return openEngineWith(cfg, dir, logger)
}

func openEngineWith(cfg *config.Config, dir string, logger *zap.Logger) (*engine.Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	now, err := clock()
	if err != nil {
		return nil, err
	}
	openLogger = logger
	return engine.Open(engine.Options{
		Dir:           dir,
		Location:      loc,
		Now:           now,
		RetentionDays: cfg.Backup.RetentionDays,
		TimeSlots:     cfg.Engine.TimeSlots,
		EnergyTags:    cfg.Engine.EnergyTags,
		Logger:        logger,
	})
}

func logFile(cfg *config.Config, dir string) string {
	if cfg.Watch.LogFile != "" {
		return cfg.Watch.LogFile
	}
	return filepath.Join(dir, logging.FileName)
}

func closeEngine() {
	if openLogger != nil {
		openLogger.Sync()
		openLogger = nil
	}
}

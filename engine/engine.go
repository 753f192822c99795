// Package engine is the host-facing interface to sidequest.
//
// Every call runs as one store transaction: the state file is locked,
// reloaded, changed and durably written before the call returns. Quests
// are rolled over lazily inside those transactions, so reading a quest
// always reflects the current period. The engine keeps no caches.
package engine

import (
	"fmt"
	"time"

	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/store"
	"github.com/amonks/sidequest/settings"
	"go.uber.org/zap"
)

// Error kinds. Every error returned by the engine wraps one of these.
var (
	ErrValidation   = errs.ErrValidation
	ErrNotFound     = errs.ErrNotFound
	ErrInvalidState = errs.ErrInvalidState
	ErrSchema       = errs.ErrSchema
	ErrStorage      = errs.ErrStorage
)

// DefaultInsightDays is the span of GetInsights when no range is given.
const DefaultInsightDays = 28

// Options configures an Engine.
type Options struct {
	// Dir is the state directory.
	Dir string

	// Location decides calendar days and period boundaries.
	// Defaults to time.Local.
	Location *time.Location

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// RetentionDays is how many daily backups are kept.
	RetentionDays int

	// TimeSlots and EnergyTags are used until the user stores their own.
	TimeSlots  []string
	EnergyTags []string

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Engine implements the host calls.
type Engine struct {
	store    *store.Store
	loc      *time.Location
	clock    func() time.Time
	defaults settings.Settings
	logger   *zap.Logger
}

// Open creates an engine over the state in opts.Dir.
func Open(opts Options) (*Engine, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("%w: state directory is required", errs.ErrValidation)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	defaults := settings.Default(opts.TimeSlots, opts.EnergyTags)
	if err := defaults.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		loc:      opts.Location,
		clock:    opts.Now,
		defaults: defaults,
		logger:   opts.Logger,
	}
	e.store = store.New(opts.Dir, store.Options{
		RetentionDays: opts.RetentionDays,
		Now:           e.Now,
		Logger:        opts.Logger.Named("store"),
	})
	return e, nil
}

// Now returns the current time in the engine's location.
func (e *Engine) Now() time.Time {
	return e.clock().In(e.loc)
}

// Location returns the engine's location.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Dir returns the state directory.
func (e *Engine) Dir() string {
	return e.store.Dir()
}

func (e *Engine) settings(tx *store.Tx) (settings.Settings, error) {
	return settings.Load(tx, e.defaults)
}

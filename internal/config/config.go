// Package config handles loading sidequest's config.toml files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/paths"
)

const (
	// DefaultTick is how often the watcher checks reminders.
	DefaultTick = time.Minute

	// DefaultFlushInterval is how often the watcher flushes state.
	DefaultFlushInterval = 5 * time.Minute
)

var validate = validator.New()

// Config represents the config.toml file.
type Config struct {
	Engine   Engine   `toml:"engine"`
	Backup   Backup   `toml:"backup"`
	Watch    Watch    `toml:"watch"`
	Telegram Telegram `toml:"telegram"`
}

// Engine contains calendar and category configuration.
type Engine struct {
	// Timezone is an IANA zone name. Defaults to the system zone.
	Timezone string `toml:"timezone" validate:"omitempty,timezone"`

	// TimeSlots and EnergyTags seed the settings until the user changes
	// them with `sq settings set`.
	TimeSlots  []string `toml:"time-slots" validate:"omitempty,dive,required"`
	EnergyTags []string `toml:"energy-tags" validate:"omitempty,dive,required"`
}

// Backup contains backup rotation configuration.
type Backup struct {
	// RetentionDays is how many daily backups to keep. Zero means the default.
	RetentionDays int `toml:"retention-days" validate:"gte=0,lte=3650"`
}

// Watch contains configuration for `sq watch`.
type Watch struct {
	Tick          time.Duration `toml:"tick" validate:"omitempty,gte=1s"`
	FlushInterval time.Duration `toml:"flush-interval" validate:"omitempty,gte=1s"`

	// LogFile defaults to sidequest.log in the state directory.
	LogFile string `toml:"log-file"`

	// MetricsAddr serves Prometheus metrics when set, e.g. "127.0.0.1:9464".
	MetricsAddr string `toml:"metrics-addr" validate:"omitempty,hostname_port"`

	// Quiet disables the console notifier.
	Quiet bool `toml:"quiet"`
}

// Telegram configures the Telegram notifier. It is enabled when Token is set.
type Telegram struct {
	Token  string `toml:"token"`
	ChatID int64  `toml:"chat-id" validate:"required_with=Token"`
}

// Load loads the global config file and then overridePath, if given.
// Values set in the override file win field by field.
// Returns an empty config if no config files exist.
func Load(overridePath string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	overrideCfg, overrideMeta := &Config{}, toml.MetaData{}
	if overridePath != "" {
		overrideCfg, overrideMeta, err = loadConfigFile(overridePath)
		if err != nil {
			return nil, err
		}
	}

	merged := mergeConfigs(globalCfg, overrideCfg, globalMeta, overrideMeta)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			messages := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				messages = append(messages, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: invalid config: %s", errs.ErrValidation, strings.Join(messages, "; "))
		}
		return fmt.Errorf("%w: invalid config: %w", errs.ErrValidation, err)
	}
	return nil
}

// Location returns the configured time zone, or time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Engine.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Engine.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", errs.ErrValidation, c.Engine.Timezone, err)
	}
	return loc, nil
}

// TickInterval returns the reminder check interval.
func (c *Config) TickInterval() time.Duration {
	if c.Watch.Tick <= 0 {
		return DefaultTick
	}
	return c.Watch.Tick
}

// FlushInterval returns the state flush interval.
func (c *Config) FlushInterval() time.Duration {
	if c.Watch.FlushInterval <= 0 {
		return DefaultFlushInterval
	}
	return c.Watch.FlushInterval
}

func globalConfigPath() (string, error) {
	homeDir, err := paths.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "sidequest", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("%w: parse config file %s: %w", errs.ErrValidation, path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, overrideCfg *Config, globalMeta, overrideMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if overrideCfg == nil {
		overrideCfg = &Config{}
	}

	defined := func(key ...string) bool { return overrideMeta.IsDefined(key...) }

	merged := Config{}
	merged.Engine.Timezone = mergeString(defined("engine", "timezone"), overrideCfg.Engine.Timezone, globalCfg.Engine.Timezone)
	merged.Engine.TimeSlots = mergeList(defined("engine", "time-slots"), globalMeta.IsDefined("engine", "time-slots"), overrideCfg.Engine.TimeSlots, globalCfg.Engine.TimeSlots)
	merged.Engine.EnergyTags = mergeList(defined("engine", "energy-tags"), globalMeta.IsDefined("engine", "energy-tags"), overrideCfg.Engine.EnergyTags, globalCfg.Engine.EnergyTags)
	merged.Backup.RetentionDays = mergeValue(defined("backup", "retention-days"), overrideCfg.Backup.RetentionDays, globalCfg.Backup.RetentionDays)
	merged.Watch.Tick = mergeValue(defined("watch", "tick"), overrideCfg.Watch.Tick, globalCfg.Watch.Tick)
	merged.Watch.FlushInterval = mergeValue(defined("watch", "flush-interval"), overrideCfg.Watch.FlushInterval, globalCfg.Watch.FlushInterval)
	merged.Watch.LogFile = mergeString(defined("watch", "log-file"), overrideCfg.Watch.LogFile, globalCfg.Watch.LogFile)
	merged.Watch.MetricsAddr = mergeString(defined("watch", "metrics-addr"), overrideCfg.Watch.MetricsAddr, globalCfg.Watch.MetricsAddr)
	merged.Watch.Quiet = mergeValue(defined("watch", "quiet"), overrideCfg.Watch.Quiet, globalCfg.Watch.Quiet)
	merged.Telegram.Token = mergeString(defined("telegram", "token"), overrideCfg.Telegram.Token, globalCfg.Telegram.Token)
	merged.Telegram.ChatID = mergeValue(defined("telegram", "chat-id"), overrideCfg.Telegram.ChatID, globalCfg.Telegram.ChatID)

	return &merged
}

func mergeString(overrideDefined bool, overrideValue, globalValue string) string {
	return strings.TrimSpace(mergeValue(overrideDefined, overrideValue, globalValue))
}

func mergeValue[T any](overrideDefined bool, overrideValue, globalValue T) T {
	if overrideDefined {
		return overrideValue
	}
	return globalValue
}

func mergeList(overrideDefined, globalDefined bool, overrideValue, globalValue []string) []string {
	if overrideDefined {
		return append([]string(nil), overrideValue...)
	}
	if globalDefined {
		return append([]string(nil), globalValue...)
	}
	return nil
}

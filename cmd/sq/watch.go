package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/amonks/sidequest/internal/config"
	"github.com/amonks/sidequest/internal/daemon"
	"github.com/amonks/sidequest/internal/logging"
	"github.com/amonks/sidequest/internal/metrics"
	"github.com/amonks/sidequest/internal/notify"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Fire reminders and flush state until interrupted",
	Long: `Fire reminders and flush state until interrupted.

Reminders are checked every tick and delivered to the console and, when
configured, to Telegram. State is flushed on the flush interval and
before the process stops or is suspended. Reminders missed while the
machine slept fire once when it wakes.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var (
	watchQuiet   bool
	watchVerbose bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Do not print reminders to the console")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Mirror the log to stderr")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir, err := stateDir()
	if err != nil {
		return err
	}

	logOpts := logging.Options{Path: logFile(cfg, dir)}
	if watchVerbose {
		logOpts.Console = os.Stderr
		logOpts.Level = zapcore.DebugLevel
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	eng, err := openEngineWith(cfg, dir, logger)
	if err != nil {
		return err
	}

	notifiers, err := watchNotifiers(cfg, cmd, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := daemon.New(eng, daemon.Options{
		Tick:          cfg.TickInterval(),
		FlushInterval: cfg.FlushInterval(),
		Notifiers:     notifiers,
		Metrics:       metrics.New(),
		MetricsAddr:   cfg.Watch.MetricsAddr,
		Logger:        logger.Named("watch"),
	})
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (every %s)\n", dir, cfg.TickInterval())
	return d.Run(ctx)
}

func watchNotifiers(cfg *config.Config, cmd *cobra.Command, logger *zap.Logger) ([]notify.Notifier, error) {
	var notifiers []notify.Notifier
	if !watchQuiet && !cfg.Watch.Quiet {
		notifiers = append(notifiers, notify.NewConsole(cmd.OutOrStdout()))
	}
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tg)
		logger.Info("telegram notifications enabled", zap.Int64("chat_id", cfg.Telegram.ChatID))
	}
	return notifiers, nil
}

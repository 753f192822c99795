// Package daemon runs the periodic work behind `sq watch`: reminder
// due-checks, state flushes and suspend/resume handling.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/amonks/sidequest/internal/metrics"
	"github.com/amonks/sidequest/internal/notify"
	"github.com/amonks/sidequest/reminder"
)

// Engine is the part of the engine the daemon drives.
type Engine interface {
	CheckDueReminders(now time.Time) ([]reminder.Reminder, error)
	FlushAll() error
	Suspend() error
	Resume() ([]reminder.Reminder, error)
	Now() time.Time
}

// Options configures a Daemon.
type Options struct {
	// Tick is the due-check interval. Defaults to one minute.
	Tick time.Duration

	// FlushInterval defaults to five minutes.
	FlushInterval time.Duration

	Notifiers []notify.Notifier

	// Metrics defaults to a fresh registry.
	Metrics *metrics.Metrics

	// MetricsAddr serves Metrics over HTTP when set.
	MetricsAddr string

	// Now is the wall clock used to notice that the host slept.
	// Defaults to time.Now.
	Now func() time.Time

	Logger *zap.Logger
}

// Daemon schedules due-checks and flushes against an Engine.
type Daemon struct {
	engine    Engine
	tick      time.Duration
	flush     time.Duration
	notifiers []notify.Notifier
	metrics   *metrics.Metrics
	addr      string
	now       func() time.Time
	logger    *zap.Logger

	mu       sync.Mutex
	lastTick time.Time
}

// New creates a daemon. It does nothing until Run is called.
func New(engine Engine, opts Options) *Daemon {
	if opts.Tick <= 0 {
		opts.Tick = time.Minute
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 5 * time.Minute
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Daemon{
		engine:    engine,
		tick:      opts.Tick,
		flush:     opts.FlushInterval,
		notifiers: opts.Notifiers,
		metrics:   opts.Metrics,
		addr:      opts.MetricsAddr,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// Run checks reminders once, then schedules the periodic jobs and blocks
// until ctx is done. The state is flushed before Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	var server *http.Server
	if d.addr != "" {
		listener, err := net.Listen("tcp", d.addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", d.addr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", d.metrics.Handler())
		server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		d.logger.Info("serving metrics", zap.String("addr", listener.Addr().String()))
	}

	d.Tick(ctx)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(every(d.tick), func() { d.Tick(ctx) }); err != nil {
		return fmt.Errorf("schedule due-check: %w", err)
	}
	if _, err := c.AddFunc(every(d.flush), func() { d.Flush() }); err != nil {
		return fmt.Errorf("schedule flush: %w", err)
	}
	c.Start()
	d.logger.Info("watching",
		zap.Duration("tick", d.tick),
		zap.Duration("flush_interval", d.flush))

	signals := make(chan os.Signal, 1)
	notifyLifecycle(signals)
	defer stopLifecycle(signals)

	for {
		select {
		case <-ctx.Done():
			<-c.Stop().Done()
			if server != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				server.Shutdown(shutdownCtx)
				cancel()
			}
			return d.suspend()
		case sig := <-signals:
			d.handleSignal(ctx, sig)
		}
	}
}

// Tick runs one due-check and delivers what fired. A wall-clock gap of
// more than two intervals since the previous tick is treated as a resume.
func (d *Daemon) Tick(ctx context.Context) {
	now := d.now()
	d.mu.Lock()
	last := d.lastTick
	d.lastTick = now
	d.mu.Unlock()

	if !last.IsZero() && now.Sub(last) > 2*d.tick {
		d.logger.Info("clock gap detected", zap.Duration("gap", now.Sub(last)))
		d.Resume(ctx)
		return
	}

	fired, err := d.engine.CheckDueReminders(d.engine.Now())
	d.metrics.ObserveDueCheck(len(fired), err)
	if err != nil {
		d.logger.Error("due-check failed", zap.Error(err))
		return
	}
	d.deliver(ctx, fired)
}

// Resume runs the engine's catch-up check and delivers what fired.
func (d *Daemon) Resume(ctx context.Context) {
	d.mu.Lock()
	d.lastTick = d.now()
	d.mu.Unlock()

	d.metrics.Resumes.Inc()
	fired, err := d.engine.Resume()
	d.metrics.ObserveDueCheck(len(fired), err)
	if err != nil {
		d.logger.Error("resume due-check failed", zap.Error(err))
		return
	}
	d.deliver(ctx, fired)
}

// Flush runs one flush and records it. Failures are retried by the next
// scheduled flush.
func (d *Daemon) Flush() error {
	started := time.Now()
	err := d.engine.FlushAll()
	d.metrics.ObserveFlush(started, err)
	if err != nil {
		d.logger.Error("flush failed", zap.Error(err))
		return err
	}
	d.logger.Debug("flushed")
	return nil
}

func (d *Daemon) suspend() error {
	started := time.Now()
	err := d.engine.Suspend()
	d.metrics.ObserveFlush(started, err)
	if err != nil {
		d.logger.Error("suspend flush failed", zap.Error(err))
	}
	return err
}

func (d *Daemon) deliver(ctx context.Context, fired []reminder.Reminder) {
	for _, r := range fired {
		d.logger.Info("reminder fired", zap.String("id", r.ID), zap.String("title", r.Title))
		for _, result := range notify.Deliver(ctx, d.notifiers, r) {
			d.metrics.ObserveNotification(result.Sink, result.Err)
			if result.Err != nil {
				d.logger.Warn("notification failed",
					zap.String("sink", result.Sink),
					zap.String("id", r.ID),
					zap.Error(result.Err))
			}
		}
	}
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

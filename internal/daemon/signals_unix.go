//go:build unix

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func notifyLifecycle(ch chan<- os.Signal) {
	signal.Notify(ch, syscall.SIGTSTP, syscall.SIGCONT)
}

func stopLifecycle(ch chan<- os.Signal) {
	signal.Stop(ch)
}

// handleSignal flushes before the process is stopped and catches up on
// reminders once it is continued.
func (d *Daemon) handleSignal(ctx context.Context, sig os.Signal) {
	switch sig {
	case syscall.SIGTSTP:
		d.suspend()
		if err := syscall.Kill(os.Getpid(), syscall.SIGSTOP); err != nil {
			d.logger.Warn("stop after suspend", zap.Error(err))
		}
	case syscall.SIGCONT:
		d.Resume(ctx)
	}
}

//go:build !unix

package daemon

import (
	"context"
	"os"
)

func notifyLifecycle(chan<- os.Signal) {}

func stopLifecycle(chan<- os.Signal) {}

func (d *Daemon) handleSignal(context.Context, os.Signal) {}

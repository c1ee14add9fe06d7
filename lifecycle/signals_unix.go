//go:build !windows

package lifecycle

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Signal mapping used by NotifySignals.
var (
	SuspendSignal os.Signal = unix.SIGUSR1
	ResumeSignal  os.Signal = unix.SIGUSR2
)

// NotifySignals delivers Suspended on SIGUSR1 and Active on SIGUSR2 until ctx
// ends, at which point the returned channel is closed.
func NotifySignals(ctx context.Context) <-chan Event {
	sigs := make(chan os.Signal, 4)
	signal.Notify(sigs, SuspendSignal, ResumeSignal)
	out := make(chan Event, 4)
	go func() {
		defer close(out)
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-sigs:
				ev := Active
				if s == SuspendSignal {
					ev = Suspended
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

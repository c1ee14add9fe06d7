//go:build windows

package lifecycle

import "context"

// NotifySignals has no signal mapping on Windows; hosts use FocusWatcher. The
// returned channel closes when ctx ends.
func NotifySignals(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out
}

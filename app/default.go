package app

import "sync/atomic"

var defaultSession atomic.Pointer[Session]

// SetDefault installs s as the process-wide session, replacing any previous
// one. Passing nil clears it.
func SetDefault(s *Session) { defaultSession.Store(s) }

// Default returns the process-wide session, or nil when none is installed.
func Default() *Session { return defaultSession.Load() }

// Package log is a thin wrapper over go.uber.org/zap providing the
// call-plane's ambient logging surface. Modeled on the teacher's
// zlog/zlog.go package-singleton + Field-helper shape, trimmed to what a
// library (not a multi-backend logging framework) needs: no provider
// abstraction, since this module's own internal logging does not need to
// swap backends the way zlog's public contract does.
package log

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu      sync.RWMutex
	current *zap.Logger = zap.NewNop()
)

// Configure replaces the package-level logger. Safe to call concurrently
// with Named/Info/Warn/Error/Debug.
func Configure(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// Default returns the currently configured logger (a no-op logger until
// Configure is called).
func Default() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Named returns a child logger tagged with component, used by the cache
// and breaker middlewares and the discovery adapters to identify their log
// lines ("cache", "breaker", "discovery").
func Named(component string) *zap.Logger {
	return Default().Named(component)
}

// Field is re-exported so callers don't need a second zap import for the
// common case.
type Field = zap.Field

func String(key, value string) Field { return zap.String(key, value) }
func Int(key string, value int) Field { return zap.Int(key, value) }
func Err(err error) Field { return zap.Error(err) }

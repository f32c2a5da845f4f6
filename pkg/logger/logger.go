// Package logger wraps go.uber.org/zap with the small surface the locator
// build/query path needs: a package-level default plus named child loggers
// for per-component enrichment.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	defaultLogger *zap.Logger
	once          sync.Once
)

// Get returns the process-wide default logger, constructing a production
// zap logger the first time it is called.
func Get() *zap.Logger {
	once.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		defaultLogger = l
	})
	return defaultLogger
}

// SetDefault overrides the process-wide default, for CLI entry points that
// configure verbosity from flags (see cmd/celltree).
func SetDefault(l *zap.Logger) {
	defaultLogger = l
	once.Do(func() {}) // guard against Get() re-initializing over it
}

// Named returns a child logger scoped to a component, e.g. "octree" or
// "bih", tagging every build/query warning with the emitting component.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}

package logger

import "sync"

// overrides pins component names to specific loggers.
var overrides sync.Map

// Get returns the logger for a component. Unless overridden it is derived
// from the global logger at call time, so a later Init changes its level
// and output.
func Get(name string) *Logger {
	if l, ok := overrides.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}

// Override makes Get(name) return l until restore is called.
func Override(name string, l *Logger) (restore func()) {
	prev, had := overrides.Swap(name, l)
	return func() {
		if had {
			overrides.Store(name, prev)
		} else {
			overrides.Delete(name)
		}
	}
}

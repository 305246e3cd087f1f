// ============================================
// TAGLOG - Process-wide Default Registry
// ============================================

// Package taglog is a severity-filtered, tag-based fan-out logging
// facade. Events pass a process-wide (or per-registry) severity
// threshold and are dispatched to every registered sink in registration
// order. Sinks for structured loggers, files, Redis streams, Kafka
// topics, and relational databases live under contrib/sink.
package taglog

import "sync"

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first use
// with threshold Error and a stderr writer sink.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// SetThreshold sets the default registry's severity threshold.
func SetThreshold(sev Severity) {
	Default().SetThreshold(sev)
}

// RegisterSink appends a sink to the default registry.
func RegisterSink(sink Sink) {
	Default().Register(sink)
}

// UnregisterSink removes a sink from the default registry.
func UnregisterSink(sink Sink) {
	Default().Unregister(sink)
}

// NewHandle creates a tagged handle bound to the default registry.
func NewHandle(tag string) *Handle {
	return Default().Handle(tag)
}

// ============================================
// TAGLOG - Tagged Logging Handle
// ============================================

package taglog

// Handle is a lightweight per-subsystem logging entry point. It carries
// a fixed tag and no other state; threshold and sink set are read from
// the bound registry at call time, so handles can be created freely and
// never need to be torn down.
type Handle struct {
	tag      string
	registry *Registry
}

// Tag returns the tag this handle attaches to events.
func (h *Handle) Tag() string {
	return h.tag
}

// Registry returns the registry this handle dispatches to.
func (h *Handle) Registry() *Registry {
	return h.registry
}

// Verbose logs fragments at Verbose severity.
func (h *Handle) Verbose(fragments ...any) {
	h.registry.Log(SeverityVerbose, h.tag, fragments...)
}

// Info logs fragments at Info severity.
func (h *Handle) Info(fragments ...any) {
	h.registry.Log(SeverityInfo, h.tag, fragments...)
}

// Warning logs fragments at Warning severity.
func (h *Handle) Warning(fragments ...any) {
	h.registry.Log(SeverityWarning, h.tag, fragments...)
}

// Error logs fragments at Error severity.
func (h *Handle) Error(fragments ...any) {
	h.registry.Log(SeverityError, h.tag, fragments...)
}

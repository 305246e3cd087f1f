// ============================================
// TAGLOG - Sink Registry & Dispatch
// ============================================

package taglog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// internalTag marks events the registry emits about itself, such as
// sink failure reports.
const internalTag = "taglog"

// Registry holds the severity threshold and the ordered collection of
// sinks for one logging domain. It is safe for concurrent use: mutation
// and dispatch may run from any goroutine, and dispatch always operates
// on a stable snapshot of the sink list taken under the lock.
//
// A Registry is an explicit object rather than hidden package state so
// that initialization order and test isolation stay under the caller's
// control. A process-wide default instance is available through the
// package-level functions.
type Registry struct {
	mu          sync.RWMutex
	sinks       []Sink
	threshold   Severity
	lastTag     string
	lastMessage string
}

// Option configures a Registry.
type Option func(*Registry)

// WithThreshold sets the initial severity threshold.
func WithThreshold(sev Severity) Option {
	return func(r *Registry) {
		if sev.IsValid() {
			r.threshold = sev
		}
	}
}

// WithoutDefaultSink starts the registry with an empty sink list instead
// of the stderr writer sink.
func WithoutDefaultSink() Option {
	return func(r *Registry) {
		r.sinks = nil
	}
}

// WithSink registers an additional sink at construction time.
func WithSink(sink Sink) Option {
	return func(r *Registry) {
		r.sinks = append(r.sinks, sink)
	}
}

// NewRegistry creates a registry with threshold Error and a text
// WriterSink on stderr pre-registered.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		threshold: SeverityError,
		sinks:     []Sink{NewWriterSink(os.Stderr, FormatText)},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetThreshold replaces the minimum severity dispatched to sinks.
// Invalid values are ignored.
func (r *Registry) SetThreshold(sev Severity) {
	if !sev.IsValid() {
		return
	}
	r.mu.Lock()
	r.threshold = sev
	r.mu.Unlock()
}

// Threshold returns the current minimum severity.
func (r *Registry) Threshold() Severity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.threshold
}

// Register appends a sink to the dispatch order. The same sink may be
// registered more than once; it then receives each event once per entry.
func (r *Registry) Register(sink Sink) {
	if sink == nil {
		return
	}
	r.mu.Lock()
	r.sinks = append(r.sinks, sink)
	r.mu.Unlock()
}

// Unregister removes every entry matching sink by identity. Removing a
// sink that was never registered is a silent no-op.
func (r *Registry) Unregister(sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.sinks[:0]
	for _, s := range r.sinks {
		if s != sink {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(r.sinks); i++ {
		r.sinks[i] = nil
	}
	r.sinks = kept
}

// Sinks returns a copy of the current dispatch order.
func (r *Registry) Sinks() []Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Sink(nil), r.sinks...)
}

// Handle creates a logging handle bound to this registry. The tag is
// stored verbatim and attached to every event the handle emits.
func (r *Registry) Handle(tag string) *Handle {
	return &Handle{tag: tag, registry: r}
}

// LastTag returns the tag of the most recently accepted event.
// Diagnostic hook for tests; not part of the contract sinks observe.
func (r *Registry) LastTag() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastTag
}

// LastMessage returns the formatted text of the most recently accepted
// event. Diagnostic hook for tests.
func (r *Registry) LastMessage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastMessage
}

// Sync flushes every registered sink.
func (r *Registry) Sync() error {
	var errs []error
	for _, s := range r.Sinks() {
		if err := s.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log formats fragments and dispatches the event to every sink, in
// registration order. The event is dropped without any formatting work
// unless sev is at or above the threshold AND at least one sink is
// registered.
func (r *Registry) Log(sev Severity, tag string, fragments ...any) {
	r.mu.RLock()
	accepted := sev.IsValid() && sev >= r.threshold && len(r.sinks) > 0
	var snapshot []Sink
	if accepted {
		snapshot = append([]Sink(nil), r.sinks...)
	}
	r.mu.RUnlock()

	if !accepted {
		return
	}

	message, err := formatFragments(fragments)

	r.mu.Lock()
	r.lastTag = tag
	r.lastMessage = message
	r.mu.Unlock()

	for i, s := range snapshot {
		if failure := r.emit(s, sev, tag, message, err); failure != nil {
			r.reportSinkFailure(snapshot, i, failure)
		}
	}
}

// formatFragments renders fragments into the event text. Error values
// become the event's associated error, last one wins, and are excluded
// from the text. Everything else is stringified and joined with single
// spaces.
func formatFragments(fragments []any) (string, error) {
	var b strings.Builder
	var err error
	for _, fragment := range fragments {
		if e, ok := fragment.(error); ok {
			err = e
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", fragment)
	}
	return b.String(), err
}

// emit delivers one event to one sink, converting a panic into an error
// so a faulty sink never crashes the logging caller.
func (r *Registry) emit(s Sink, sev Severity, tag, message string, err error) (failure error) {
	defer func() {
		if v := recover(); v != nil {
			failure = fmt.Errorf("sink panicked: %v", v)
		}
	}()
	s.Log(sev, tag, message, err)
	return nil
}

// reportSinkFailure tells the other sinks in the same snapshot that one
// of them failed. The failing sink is skipped and a nested failure is
// swallowed, so the report can never loop.
func (r *Registry) reportSinkFailure(snapshot []Sink, failing int, failure error) {
	for i, s := range snapshot {
		if i == failing {
			continue
		}
		func() {
			defer func() { _ = recover() }()
			s.Log(SeverityWarning, internalTag, "sink failed during dispatch", failure)
		}()
	}
}

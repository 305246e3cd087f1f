// ============================================
// TAGLOG - Sink Interface & Built-in Sinks
// ============================================

package taglog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Sink receives accepted log events.
// Implementations can forward events to any destination (console, files,
// structured loggers, message brokers, databases).
type Sink interface {
	// Log receives a single accepted event. err is the event's associated
	// error, or nil. The message never embeds err's text.
	Log(sev Severity, tag, message string, err error)

	// Sync flushes any buffered events.
	Sync() error
}

// Format represents the output format of a WriterSink.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// WriterSink writes timestamped log lines to an io.Writer.
// It is the default sink of a new Registry, targeting stderr.
type WriterSink struct {
	logger *log.Logger
	format Format
	mu     sync.Mutex
}

// NewWriterSink creates a writer sink. A nil writer defaults to stderr.
func NewWriterSink(w io.Writer, format Format) *WriterSink {
	if w == nil {
		w = os.Stderr
	}
	return &WriterSink{
		logger: log.New(w, "", 0),
		format: format,
	}
}

func (s *WriterSink) Log(sev Severity, tag, message string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamp := time.Now().Format(time.RFC3339)

	if s.format == FormatJSON {
		s.logJSON(timestamp, sev, tag, message, err)
	} else {
		s.logText(timestamp, sev, tag, message, err)
	}
}

func (s *WriterSink) logJSON(timestamp string, sev Severity, tag, message string, err error) {
	line := fmt.Sprintf(`{"time":"%s","severity":"%s","tag":"%s","msg":"%s"`,
		timestamp, sev, escapeJSON(tag), escapeJSON(message))
	if err != nil {
		line += fmt.Sprintf(`,"error":"%s"`, escapeJSON(err.Error()))
	}
	line += "}"
	s.logger.Println(line)
}

func (s *WriterSink) logText(timestamp string, sev Severity, tag, message string, err error) {
	line := fmt.Sprintf("%s [%s] %s: %s", timestamp, sev, tag, message)
	if err != nil {
		line += fmt.Sprintf(" error=%v", err)
	}
	s.logger.Println(line)
}

func (s *WriterSink) Sync() error {
	return nil
}

func escapeJSON(v string) string {
	result := ""
	for _, r := range v {
		switch r {
		case '"':
			result += `\"`
		case '\\':
			result += `\\`
		case '\n':
			result += `\n`
		case '\r':
			result += `\r`
		case '\t':
			result += `\t`
		default:
			result += string(r)
		}
	}
	return result
}

// NoopSink discards all events.
type NoopSink struct{}

// NewNoopSink creates a no-op sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (s *NoopSink) Log(sev Severity, tag, message string, err error) {}
func (s *NoopSink) Sync() error                                      { return nil }

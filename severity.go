// ============================================
// TAGLOG - Severity Levels
// ============================================

package taglog

import (
	"errors"
	"fmt"
)

// ErrUnknownSeverity indicates a severity name that could not be parsed.
var ErrUnknownSeverity = errors.New("unknown severity")

// Severity represents the importance of a log event.
// Ordering is total: Verbose < Info < Warning < Error.
type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// IsValid reports whether s is one of the four defined severities.
func (s Severity) IsValid() bool {
	return s >= SeverityVerbose && s <= SeverityError
}

// ParseSeverity parses a severity name.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "verbose", "debug":
		return SeverityVerbose, nil
	case "info":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityError, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
	}
}

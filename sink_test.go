package taglog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestWriterSink(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewWriterSink(&buf, FormatText)

		sink.Log(SeverityInfo, "cam", "preview started", nil)

		output := buf.String()
		if !strings.Contains(output, "[info]") {
			t.Errorf("expected severity in output: %s", output)
		}
		if !strings.Contains(output, "cam: preview started") {
			t.Errorf("expected tag and message in output: %s", output)
		}
	})

	t.Run("text format with error", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewWriterSink(&buf, FormatText)

		sink.Log(SeverityError, "cam", "open failed", errors.New("device busy"))

		if !strings.Contains(buf.String(), "error=device busy") {
			t.Errorf("expected error in output: %s", buf.String())
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewWriterSink(&buf, FormatJSON)

		sink.Log(SeverityWarning, "cam", "dropped frame", nil)

		output := buf.String()
		if !strings.Contains(output, `"severity":"warning"`) {
			t.Errorf("expected severity field: %s", output)
		}
		if !strings.Contains(output, `"tag":"cam"`) {
			t.Errorf("expected tag field: %s", output)
		}
		if !strings.Contains(output, `"msg":"dropped frame"`) {
			t.Errorf("expected msg field: %s", output)
		}
		if strings.Contains(output, `"error"`) {
			t.Errorf("error field should be absent: %s", output)
		}
	})

	t.Run("json format escapes quotes and newlines", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewWriterSink(&buf, FormatJSON)

		sink.Log(SeverityInfo, "cam", "say \"cheese\"\n", nil)

		output := buf.String()
		if !strings.Contains(output, `say \"cheese\"\n`) {
			t.Errorf("expected escaped message: %s", output)
		}
	})

	t.Run("json format with error", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewWriterSink(&buf, FormatJSON)

		sink.Log(SeverityError, "cam", "open failed", errors.New("device busy"))

		if !strings.Contains(buf.String(), `"error":"device busy"`) {
			t.Errorf("expected error field: %s", buf.String())
		}
	})

	t.Run("nil writer defaults to stderr", func(t *testing.T) {
		sink := NewWriterSink(nil, FormatText)
		// Should not panic.
		sink.Log(SeverityError, "cam", "test", nil)
	})

	t.Run("sync", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriterSink(&buf, FormatText).Sync(); err != nil {
			t.Errorf("Sync failed: %v", err)
		}
	})
}

func TestNoopSink(t *testing.T) {
	sink := NewNoopSink()

	// Should not panic.
	sink.Log(SeverityInfo, "cam", "ignored", nil)

	if err := sink.Sync(); err != nil {
		t.Errorf("Sync should return nil: %v", err)
	}
}

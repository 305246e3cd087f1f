package file

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/madcok-co/taglog"
)

func TestNewDriver(t *testing.T) {
	t.Run("path is required", func(t *testing.T) {
		if _, err := NewDriver(&Config{}); err == nil {
			t.Error("expected error for missing path")
		}
		if _, err := NewDriver(nil); err == nil {
			t.Error("expected error for nil config")
		}
	})

	t.Run("creates the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "camera.log")
		driver, err := NewDriver(&Config{Path: path})
		if err != nil {
			t.Fatalf("NewDriver error: %v", err)
		}
		defer driver.Close()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("log file should exist: %v", err)
		}
	})
}

func TestDriver_Log(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camera.log")
	driver, err := NewDriver(&Config{Path: path})
	if err != nil {
		t.Fatalf("NewDriver error: %v", err)
	}

	driver.Log(taglog.SeverityInfo, "preview", "frame ready", nil)
	driver.Log(taglog.SeverityError, "cam", "open failed", errors.New("device busy"))

	if err := driver.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[info] preview: frame ready") {
		t.Errorf("expected info line, got %q", content)
	}
	if !strings.Contains(content, "[error] cam: open failed error=device busy") {
		t.Errorf("expected error line, got %q", content)
	}
}

func TestDriver_Compressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camera.log.br")
	driver, err := NewDriver(&Config{Path: path, Compress: true})
	if err != nil {
		t.Fatalf("NewDriver error: %v", err)
	}

	driver.Log(taglog.SeverityWarning, "engine", "stalled", nil)

	if err := driver.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(brotli.NewReader(f))
	if err != nil {
		t.Fatalf("decompress error: %v", err)
	}
	if !strings.Contains(string(data), "[warning] engine: stalled") {
		t.Errorf("expected line in decompressed stream, got %q", string(data))
	}
}

func TestDriver_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camera.log")
	driver, err := NewDriver(&Config{Path: path, MaxBytes: 16})
	if err != nil {
		t.Fatalf("NewDriver error: %v", err)
	}

	driver.Log(taglog.SeverityInfo, "cam", "first line, long enough to rotate", nil)
	driver.Log(taglog.SeverityInfo, "cam", "second line", nil)

	if err := driver.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	archives, err := filepath.Glob(path + ".*")
	if err != nil {
		t.Fatalf("glob error: %v", err)
	}
	if len(archives) == 0 {
		t.Fatal("expected at least one rotated archive")
	}

	// The active file holds only what came after the rotation.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !strings.Contains(string(data), "second line") {
		t.Errorf("expected post-rotation line in active file, got %q", string(data))
	}
	if strings.Contains(string(data), "first line") {
		t.Errorf("pre-rotation line should live in the archive, got %q", string(data))
	}
}

func TestDriver_Sync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camera.log.br")
	driver, err := NewDriver(&Config{Path: path, Compress: true})
	if err != nil {
		t.Fatalf("NewDriver error: %v", err)
	}
	defer driver.Close()

	driver.Log(taglog.SeverityInfo, "cam", "buffered", nil)

	if err := driver.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}

	// After a flush the line must be readable without closing the sink.
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	defer f.Close()

	data, _ := io.ReadAll(brotli.NewReader(f))
	if !strings.Contains(string(data), "buffered") {
		t.Errorf("expected flushed line, got %q", string(data))
	}
}

func TestDriver_AsRegistrySink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camera.log")
	driver, err := NewDriver(&Config{Path: path})
	if err != nil {
		t.Fatalf("NewDriver error: %v", err)
	}

	r := taglog.NewRegistry(taglog.WithoutDefaultSink(), taglog.WithThreshold(taglog.SeverityInfo))
	r.Register(driver)

	h := r.Handle("engine")
	h.Verbose("filtered out")
	h.Info("started")

	if err := driver.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "filtered out") {
		t.Error("verbose event should have been filtered")
	}
	if !strings.Contains(string(data), "engine: started") {
		t.Errorf("expected info event in file, got %q", string(data))
	}
}

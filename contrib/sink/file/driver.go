// Package file provides a taglog sink that appends text log lines to a
// file, optionally brotli-compressed, with size-based rotation.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/taglog"
//	    sinkfile "github.com/madcok-co/taglog/contrib/sink/file"
//	)
//
//	driver, err := sinkfile.NewDriver(&sinkfile.Config{
//	    Path:     "/var/log/camera.log.br",
//	    Compress: true,
//	})
//	taglog.RegisterSink(driver)
package file

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/madcok-co/taglog"
)

// Config for the file sink.
type Config struct {
	// Path of the active log file.
	Path string

	// Compress writes the file as a brotli stream.
	Compress bool

	// Quality is the brotli quality, 0 (fastest) to 11 (densest).
	// Defaults to brotli.DefaultCompression.
	Quality int

	// MaxBytes rotates the file once this many uncompressed bytes have
	// been written to it. Zero disables rotation.
	MaxBytes int64
}

// Driver implements taglog.Sink on an append-only log file.
type Driver struct {
	cfg Config

	mu      sync.Mutex
	file    *os.File
	bw      *brotli.Writer
	written int64
	lastErr error
}

// NewDriver creates a file sink, opening (or creating) the target file
// in append mode.
func NewDriver(cfg *Config) (*Driver, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("file sink: path is required")
	}
	d := &Driver{cfg: *cfg}
	if d.cfg.Quality == 0 {
		d.cfg.Quality = brotli.DefaultCompression
	}
	if err := d.open(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) open() error {
	file, err := os.OpenFile(d.cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	d.file = file
	d.written = 0
	if d.cfg.Compress {
		d.bw = brotli.NewWriterLevel(file, d.cfg.Quality)
	}
	return nil
}

func (d *Driver) writer() io.Writer {
	if d.bw != nil {
		return d.bw
	}
	return d.file
}

// Log appends one text line. A failed write is remembered and surfaced
// by the next Sync; logging itself never fails loudly.
func (d *Driver) Log(sev taglog.Severity, tag, message string, err error) {
	line := fmt.Sprintf("%s [%s] %s: %s", time.Now().Format(time.RFC3339), sev, tag, message)
	if err != nil {
		line += fmt.Sprintf(" error=%v", err)
	}
	line += "\n"

	d.mu.Lock()
	defer d.mu.Unlock()

	n, writeErr := io.WriteString(d.writer(), line)
	if writeErr != nil {
		d.lastErr = writeErr
		return
	}
	d.written += int64(n)

	if d.cfg.MaxBytes > 0 && d.written >= d.cfg.MaxBytes {
		if rotateErr := d.rotate(); rotateErr != nil {
			d.lastErr = rotateErr
		}
	}
}

// rotate closes the active file, renames it with a timestamp suffix and
// starts a fresh one. Caller holds the lock.
func (d *Driver) rotate() error {
	if err := d.closeLocked(); err != nil {
		return err
	}
	archived := fmt.Sprintf("%s.%d", d.cfg.Path, time.Now().UnixNano())
	if err := os.Rename(d.cfg.Path, archived); err != nil {
		return err
	}
	return d.open()
}

// Sync flushes buffered data to disk and reports the last write failure.
func (d *Driver) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.lastErr
	d.lastErr = nil

	if d.bw != nil {
		if flushErr := d.bw.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
	}
	if d.file != nil {
		if syncErr := d.file.Sync(); syncErr != nil && err == nil {
			err = syncErr
		}
	}
	return err
}

// Close flushes and closes the active file. The sink must not be used
// afterwards.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeLocked()
}

func (d *Driver) closeLocked() error {
	if d.bw != nil {
		if err := d.bw.Close(); err != nil {
			return err
		}
		d.bw = nil
	}
	if d.file != nil {
		if err := d.file.Close(); err != nil {
			return err
		}
		d.file = nil
	}
	return nil
}

// Ensure Driver implements taglog.Sink
var _ taglog.Sink = (*Driver)(nil)

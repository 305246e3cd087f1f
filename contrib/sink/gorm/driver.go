// Package gorm provides a taglog sink that persists accepted events to
// a relational table, useful as a queryable audit trail.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/taglog"
//	    sinkgorm "github.com/madcok-co/taglog/contrib/sink/gorm"
//	    "gorm.io/driver/sqlite"
//	    gormpkg "gorm.io/gorm"
//	)
//
//	db, _ := gormpkg.Open(sqlite.Open("audit.db"), &gormpkg.Config{})
//	driver, _ := sinkgorm.NewDriver(db)
//	taglog.RegisterSink(driver)
package gorm

import (
	"sync"
	"time"

	"github.com/madcok-co/taglog"
	"gorm.io/gorm"
)

// Entry is one persisted log event.
type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	Severity  string    `gorm:"size:10;index"`
	Tag       string    `gorm:"size:128;index"`
	Message   string
	Error     string
}

// TableName keeps the audit rows out of the application's namespace.
func (Entry) TableName() string {
	return "taglog_entries"
}

// Driver implements taglog.Sink using GORM.
type Driver struct {
	db *gorm.DB

	mu      sync.Mutex
	lastErr error
}

// NewDriver creates a new database sink and migrates its table.
func NewDriver(db *gorm.DB) (*Driver, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Driver{db: db}, nil
}

// DB returns the underlying GORM database instance.
func (d *Driver) DB() *gorm.DB {
	return d.db
}

// Log inserts the event. A failed insert is remembered and surfaced by
// the next Sync; logging itself never fails loudly.
func (d *Driver) Log(sev taglog.Severity, tag, message string, err error) {
	entry := Entry{
		CreatedAt: time.Now(),
		Severity:  sev.String(),
		Tag:       tag,
		Message:   message,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if insertErr := d.db.Create(&entry).Error; insertErr != nil {
		d.mu.Lock()
		d.lastErr = insertErr
		d.mu.Unlock()
	}
}

// Sync reports and clears the last insert failure.
func (d *Driver) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.lastErr
	d.lastErr = nil
	return err
}

// Recent returns up to limit entries, newest first.
func (d *Driver) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := d.db.Order("id desc").Limit(limit).Find(&entries).Error
	return entries, err
}

// Purge deletes entries older than the cutoff and returns how many rows
// went away.
func (d *Driver) Purge(olderThan time.Time) (int64, error) {
	result := d.db.Where("created_at < ?", olderThan).Delete(&Entry{})
	return result.RowsAffected, result.Error
}

// Ensure Driver implements taglog.Sink
var _ taglog.Sink = (*Driver)(nil)

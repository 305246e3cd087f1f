// Package zap provides a Zap-backed taglog sink.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/taglog"
//	    "github.com/madcok-co/taglog/contrib/sink/zap"
//	)
//
//	// Using default production settings
//	taglog.RegisterSink(zap.NewDriver())
//
//	// Using an existing zap logger
//	zapLogger, _ := zap.NewProduction()
//	taglog.RegisterSink(zap.NewDriverWithLogger(zapLogger))
package zap

import (
	"os"

	"github.com/madcok-co/taglog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Driver implements taglog.Sink using Zap.
type Driver struct {
	logger *zap.Logger
}

// Config for creating a new Zap driver.
type Config struct {
	Format        string         // json, console
	Output        string         // stdout, stderr, or file path
	AddCaller     bool           // add caller information
	AddStacktrace bool           // add stacktrace on error level
	DefaultFields map[string]any // fields added to all logs
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Format: "json",
		Output: "stderr",
	}
}

// NewDriver creates a new Zap sink with default production settings.
func NewDriver() *Driver {
	return NewDriverWithConfig(DefaultConfig())
}

// NewDriverWithConfig creates a new Zap sink with custom config.
// Severity filtering is the registry's job, so the underlying core is
// built wide open at debug level.
func NewDriverWithConfig(cfg *Config) *Driver {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Configure encoder
	var encoder zapcore.Encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.Format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	// Configure output
	var output zapcore.WriteSyncer
	switch cfg.Output {
	case "stdout":
		output = zapcore.AddSync(os.Stdout)
	case "stderr", "":
		output = zapcore.AddSync(os.Stderr)
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			output = zapcore.AddSync(os.Stderr)
		} else {
			output = zapcore.AddSync(file)
		}
	}

	core := zapcore.NewCore(encoder, output, zapcore.DebugLevel)

	opts := []zap.Option{}
	if cfg.AddCaller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if cfg.AddStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	if len(cfg.DefaultFields) > 0 {
		fields := make([]zap.Field, 0, len(cfg.DefaultFields))
		for k, v := range cfg.DefaultFields {
			fields = append(fields, zap.Any(k, v))
		}
		opts = append(opts, zap.Fields(fields...))
	}

	return &Driver{logger: zap.New(core, opts...)}
}

// NewDriverWithLogger creates a sink from an existing Zap logger.
func NewDriverWithLogger(logger *zap.Logger) *Driver {
	return &Driver{logger: logger}
}

// Logger returns the underlying Zap logger.
func (d *Driver) Logger() *zap.Logger {
	return d.logger
}

// Log maps the event onto the matching zap level. The tag travels as a
// structured field, the associated error via zap.Error.
func (d *Driver) Log(sev taglog.Severity, tag, message string, err error) {
	fields := make([]zap.Field, 0, 2)
	fields = append(fields, zap.String("tag", tag))
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	switch sev {
	case taglog.SeverityVerbose:
		d.logger.Debug(message, fields...)
	case taglog.SeverityInfo:
		d.logger.Info(message, fields...)
	case taglog.SeverityWarning:
		d.logger.Warn(message, fields...)
	case taglog.SeverityError:
		d.logger.Error(message, fields...)
	}
}

// Sync flushes any buffered log entries.
func (d *Driver) Sync() error {
	return d.logger.Sync()
}

// Ensure Driver implements taglog.Sink
var _ taglog.Sink = (*Driver)(nil)

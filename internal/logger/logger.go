// Package logger provides the process-wide structured logger used across
// the Hermes conformance harness: one JSON line per event, with an
// optional rotating file sink (spec §6 "Log layout" / "Exported API").
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a zerolog.Logger with the component/connection tagging the
// harness attaches to every line it emits.
type Logger struct {
	logger zerolog.Logger
	writer io.Writer
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Config controls where log lines go and how they rotate.
type Config struct {
	Path       string // empty means stdout
	Level      string // zerolog level name; defaults to "info" if unparsable
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (c Config) applyDefaults() Config {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 28
	}
	return c
}

// Init initializes the global logger exactly once; later calls are no-ops.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		globalLogger, err = New(cfg)
	})
	return err
}

// New builds a standalone Logger, independent of the process-wide global.
func New(cfg Config) (*Logger, error) {
	cfg = cfg.applyDefaults()

	var writer io.Writer = os.Stdout
	if cfg.Path != "" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
	}

	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000Z07:00"
	zlog := zerolog.New(writer).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zlog = zlog.Level(level)

	return &Logger{logger: zlog, writer: writer}, nil
}

// SetupFile is the Go equivalent of setup_default_logging(path, level,
// extra_loggers): it initializes the global logger against a rotating file
// and returns component-scoped child loggers for the harness's own named
// subsystems plus any extra components the caller wants tagged.
func SetupFile(path, level string, extraComponents ...string) (map[string]*Logger, error) {
	if err := Init(Config{Path: path, Level: level}); err != nil {
		return nil, err
	}
	components := append([]string{"hermes_test_api", "ipc_hermes", "test_cases"}, extraComponents...)
	out := make(map[string]*Logger, len(components))
	for _, c := range components {
		out[c] = Get().WithComponent(c)
	}
	return out, nil
}

// Get returns the global logger, falling back to an unconfigured stdout
// logger if Init was never called.
func Get() *Logger {
	if globalLogger == nil {
		globalLogger = &Logger{
			logger: zerolog.New(os.Stdout).With().Timestamp().Logger(),
			writer: os.Stdout,
		}
	}
	return globalLogger
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	event := l.logger.Debug()
	addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	event := l.logger.Info()
	addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	event := l.logger.Warn()
	addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) Error(msg string, err error, fields ...interface{}) {
	event := l.logger.Error().Err(err)
	addFields(event, fields...)
	event.Msg(msg)
}

func addFields(event *zerolog.Event, fields ...interface{}) {
	if len(fields)%2 != 0 {
		event.Interface("invalid_fields", fields)
		return
	}
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event.Interface(key, fields[i+1])
	}
}

// WithComponent tags every subsequent line from the returned logger with a
// component field, e.g. "ipc_hermes" or "test_cases".
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{logger: l.logger.With().Str("component", component).Logger(), writer: l.writer}
}

// WithConn tags every subsequent line with the connection/endpoint identity
// driving it, mirroring the teacher's per-connection child-logger shape.
func (l *Logger) WithConn(role, peer string) *Logger {
	return &Logger{
		logger: l.logger.With().Str("role", role).Str("peer", peer).Logger(),
		writer: l.writer,
	}
}

// WithTag tags every subsequent line with a "tag" field naming the Hermes
// message tag involved.
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{logger: l.logger.With().Str("tag", tag).Logger(), writer: l.writer}
}

// Elapsed returns the number of milliseconds elapsed since start.
func Elapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func Debug(msg string, fields ...interface{})             { Get().Debug(msg, fields...) }
func Info(msg string, fields ...interface{})              { Get().Info(msg, fields...) }
func Warn(msg string, fields ...interface{})              { Get().Warn(msg, fields...) }
func Error(msg string, err error, fields ...interface{})  { Get().Error(msg, err, fields...) }

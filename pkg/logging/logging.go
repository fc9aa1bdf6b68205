// Package logging provides the structured logger used by cmd/pricerd.
// Grounded on the zerolog wrapper in
// jhkimqd-chaos-utils's pkg/reporting: same Level/Format/Output config
// shape and Logger.With{Field,Fields} chaining, with file output routed
// through gopkg.in/natefinch/lumberjack.v2 for rotation instead of a
// bare os.File.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level mirrors zerolog's level names without leaking the dependency
// into callers' import lists.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects console (human-readable) or JSON output.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config configures a Logger. FilePath, when non-empty, routes output
// through a rotating lumberjack writer in addition to stdout.
type Config struct {
	Level      Level
	Format     Format
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger wraps a zerolog.Logger with the field-chaining surface the
// rest of the module uses.
type Logger struct {
	logger zerolog.Logger
}

// New builds a Logger from cfg.
func New(cfg Config) *Logger {
	var writers []io.Writer

	if cfg.Format == FormatConsole {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		writers = append(writers, os.Stdout)
	}

	if cfg.FilePath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   true,
		})
	}

	zlog := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()

	switch cfg.Level {
	case LevelDebug:
		zlog = zlog.Level(zerolog.DebugLevel)
	case LevelWarn:
		zlog = zlog.Level(zerolog.WarnLevel)
	case LevelError:
		zlog = zlog.Level(zerolog.ErrorLevel)
	default:
		zlog = zlog.Level(zerolog.InfoLevel)
	}

	return &Logger{logger: zlog}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (l *Logger) Debug(msg string) { l.logger.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.logger.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.logger.Warn().Msg(msg) }
func (l *Logger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

// WithField returns a child Logger with an additional structured field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithFields returns a child Logger with several additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}

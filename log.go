package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat is the output format of the tool's logger.
type LogFormat uint8

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

func (f LogFormat) String() string {
	switch f {
	case LogFormatJSON:
		return "json"
	default:
		return "text"
	}
}

// NewLogger builds the tool's logger. It logs at info level in plain text to
// stderr unless options say otherwise.
func NewLogger(opts ...LogOption) *slog.Logger {
	c := logConfig{
		Level:  slog.LevelInfo,
		Format: LogFormatText,
		Writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(&c)
	}

	o := &slog.HandlerOptions{Level: c.Level}
	var handler slog.Handler
	switch c.Format {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(c.Writer, o)
	default:
		handler = slog.NewTextHandler(c.Writer, o)
	}
	return slog.New(handler)
}

type logConfig struct {
	Level  slog.Level
	Format LogFormat
	Writer io.Writer
}

// LogOption modifies the logger configuration.
type LogOption func(*logConfig)

// WithLogLevel sets the minimum level. It accepts a slog.Level or a string
// recognized by ParseLogLevel; invalid values are ignored.
func WithLogLevel(v any) LogOption {
	return func(c *logConfig) {
		switch t := v.(type) {
		case slog.Level:
			c.Level = t
		case string:
			if level, err := ParseLogLevel(t); err == nil {
				c.Level = level
			}
		}
	}
}

// WithLogFormat sets the output format. It accepts a LogFormat or a string
// recognized by ParseLogFormat; invalid values are ignored.
func WithLogFormat(v any) LogOption {
	return func(c *logConfig) {
		switch t := v.(type) {
		case LogFormat:
			c.Format = t
		case string:
			if format, err := ParseLogFormat(t); err == nil {
				c.Format = format
			}
		}
	}
}

// WithLogWriter sets the destination. A nil writer is ignored.
func WithLogWriter(w io.Writer) LogOption {
	return func(c *logConfig) {
		if w != nil {
			c.Writer = w
		}
	}
}

// ParseLogLevel converts a string such as "debug" or "warn+2" into a level.
func ParseLogLevel(s string) (level slog.Level, err error) {
	if e := level.UnmarshalText([]byte(s)); e != nil {
		err = fmt.Errorf("invalid log level %q", s)
	}
	return
}

// ParseLogFormat converts "text" or "json", in any case, into a LogFormat.
func ParseLogFormat(s string) (LogFormat, error) {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON, nil
	case "text":
		return LogFormatText, nil
	default:
		return 0, fmt.Errorf("invalid log format %q", s)
	}
}

// Package logs wires the framework's logging: console and file output for the
// framework logger, and per-test record loggers whose events are stored in the
// test record as record.LogRecord values. MAC addresses are redacted from
// every sink.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"htf.dev/pkg/htf/pkg/record"
)

const (
	// LoggerPrefix names the framework logger.
	LoggerPrefix = "htf"
	// RecordLoggerName names the logger whose events land in test records.
	RecordLoggerName = LoggerPrefix + ".test_record"
)

// Settings are the logging options set by flags.
type Settings struct {
	Verbosity    slog.Level
	Quiet        bool
	LogFile      string
	LogFileLevel slog.Level
}

// DefaultSettings matches the flag defaults.
func DefaultSettings() Settings {
	return Settings{
		Verbosity:    slog.LevelWarn,
		LogFileLevel: slog.LevelWarn,
	}
}

// subsystem owns the process logging configuration.
type subsystem struct {
	once     sync.Once
	settings *Settings
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
	// openFile returns the writer for a log file path.
	openFile func(path string) (io.WriteCloser, error)
	// setDefault installs the framework logger as slog's default.
	setDefault bool

	mu        sync.Mutex
	handlers  []slog.Handler
	stream    slog.Handler
	framework *slog.Logger
	file      io.WriteCloser
	// active receives RecordLogger events while a record is attached.
	active *RecordHandler
	record *slog.Logger
}

var settings = DefaultSettings()

var std = newSubsystem(&settings, os.Stdout, os.Stderr, true)

func newSubsystem(s *Settings, stdout, stderr io.Writer, setDefault bool) *subsystem {
	sub := &subsystem{
		settings:   s,
		stdout:     stdout,
		stderr:     stderr,
		now:        time.Now,
		openFile:   openRotatingFile,
		setDefault: setDefault,
	}
	sub.record = slog.New(NewRedactHandler(&activeHandler{sub: sub}))

	return sub
}

func openRotatingFile(path string) (io.WriteCloser, error) {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}

	// lumberjack opens lazily; surface permission errors now.
	if _, err := w.Write(nil); err != nil {
		return nil, err
	}

	return w, nil
}

// SetupLogger configures the framework and record loggers. Only the first
// call in a process has any effect.
func SetupLogger() {
	std.setup()
}

// Logger returns the framework logger, or slog.Default before SetupLogger.
func Logger() *slog.Logger {
	return std.logger()
}

// RecordLogger returns the process-wide logger named RecordLoggerName. Its
// events are appended to the record attached by the latest AttachRecord call
// and echoed on stdout once SetupLogger has run. It never reaches the
// framework console or log file.
func RecordLogger() *slog.Logger {
	return std.record
}

// AttachRecord returns a logger whose events are appended to rec and echoed
// on stdout, and makes rec the target of RecordLogger. The returned detach
// func stops appending; later events through the logger still reach stdout.
func AttachRecord(rec *record.TestRecord) (*slog.Logger, func()) {
	return std.attachRecord(rec)
}

func (s *subsystem) setup() {
	s.once.Do(s.init)
}

func (s *subsystem) init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := func(level slog.Level) *slog.HandlerOptions {
		return &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}
	}

	// Record loggers echo to stdout and never reach the framework sinks.
	s.stream = slog.NewTextHandler(s.stdout, opts(slog.LevelDebug))

	if s.settings.LogFile != "" {
		path := fmt.Sprintf("%s.%d", s.settings.LogFile, s.now().UnixMilli())

		file, err := s.openFile(path)
		if err != nil {
			fmt.Fprintf(s.stderr, "Failed to set up log file due to error: %v. Continuing anyway.\n", err)
		} else {
			s.file = file
			s.handlers = append(s.handlers, slog.NewTextHandler(file, opts(s.settings.LogFileLevel)))
		}
	}

	if !s.settings.Quiet {
		s.handlers = append(s.handlers, slog.NewTextHandler(s.stderr, opts(s.settings.Verbosity)))
	}

	s.framework = slog.New(NewRedactHandler(newFanout(s.handlers...))).With(LoggerKey, LoggerPrefix)
	if s.setDefault {
		slog.SetDefault(s.framework)
	}
}

func (s *subsystem) logger() *slog.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.framework == nil {
		return slog.Default()
	}

	return s.framework
}

func (s *subsystem) handlerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.handlers)
}

func (s *subsystem) attachRecord(rec *record.TestRecord) (*slog.Logger, func()) {
	recordHandler := NewRecordHandler(rec, RecordLoggerName)

	s.mu.Lock()
	stream := s.stream
	s.active = recordHandler
	s.mu.Unlock()

	sinks := []slog.Handler{recordHandler}
	if stream != nil {
		sinks = append(sinks, stream)
	}

	logger := slog.New(NewRedactHandler(newFanout(sinks...)))

	detach := func() {
		recordHandler.Detach()

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.active == recordHandler {
			s.active = nil
		}
	}

	return logger, detach
}

// recordSinks returns the handlers currently behind RecordLogger.
func (s *subsystem) recordSinks() []slog.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sinks []slog.Handler
	if s.active != nil {
		sinks = append(sinks, s.active)
	}

	if s.stream != nil {
		sinks = append(sinks, s.stream)
	}

	return sinks
}

// activeHandler resolves the attached record and stdout stream on every
// event, replaying WithAttrs and WithGroup calls onto them.
type activeHandler struct {
	sub *subsystem
	ops []func(slog.Handler) slog.Handler
}

func (a *activeHandler) current() slog.Handler {
	var h slog.Handler = newFanout(a.sub.recordSinks()...)
	for _, op := range a.ops {
		h = op(h)
	}

	return h
}

func (a *activeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return a.current().Enabled(ctx, level)
}

func (a *activeHandler) Handle(ctx context.Context, r slog.Record) error {
	return a.current().Handle(ctx, r)
}

func (a *activeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return a.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (a *activeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return a
	}

	return a.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (a *activeHandler) with(op func(slog.Handler) slog.Handler) *activeHandler {
	ops := append(append([]func(slog.Handler) slog.Handler(nil), a.ops...), op)

	return &activeHandler{sub: a.sub, ops: ops}
}

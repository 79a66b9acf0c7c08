package logs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"htf.dev/pkg/htf/pkg/record"
)

// ExcInfoKey is the attribute key carrying failure details. The record
// handler renders it after the message on its own line.
const ExcInfoKey = "exc_info"

// LoggerKey overrides the logger name stored in the record.
const LoggerKey = "logger"

// Exception returns an attribute attaching err's details to a log event.
//
//	logger.Error("Phase raised", logs.Exception(err))
func Exception(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	return slog.String(ExcInfoKey, fmt.Sprintf("%+v", err))
}

// fanoutHandler passes each event to every handler enabled for its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanout(handlers ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{handlers: handlers}
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error

	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}

		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}

	return newFanout(next...)
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}

	return newFanout(next...)
}

// RecordHandler converts log events into record.LogRecord values appended to
// a test record. It accepts every level and never returns an error.
type RecordHandler struct {
	rec      *record.TestRecord
	name     string
	attrs    []slog.Attr
	group    string
	detached *atomic.Bool
}

// NewRecordHandler returns a handler appending to rec under loggerName.
func NewRecordHandler(rec *record.TestRecord, loggerName string) *RecordHandler {
	return &RecordHandler{
		rec:      rec,
		name:     loggerName,
		detached: &atomic.Bool{},
	}
}

// Detach stops the handler and every handler derived from it from appending.
func (h *RecordHandler) Detach() {
	h.detached.Store(true)
}

// Enabled implements slog.Handler.
func (h *RecordHandler) Enabled(context.Context, slog.Level) bool {
	return h.rec != nil && !h.detached.Load()
}

// Handle implements slog.Handler. A failure to render one event is reported
// on stderr and dropped.
func (h *RecordHandler) Handle(_ context.Context, r slog.Record) (err error) {
	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(os.Stderr, "dropping log record %q: %v\n", r.Message, p)
			err = nil
		}
	}()

	if !h.Enabled(context.Background(), r.Level) {
		return nil
	}

	name := h.name

	var (
		text strings.Builder
		exc  string
	)

	text.WriteString(r.Message)

	visit := func(prefix string, a slog.Attr) {
		switch {
		case prefix == "" && a.Key == ExcInfoKey:
			exc = a.Value.String()
		case prefix == "" && a.Key == LoggerKey:
			name = a.Value.String()
		default:
			writeAttr(&text, prefix, a)
		}
	}

	for _, a := range h.attrs {
		visit("", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		visit(h.group, a)
		return true
	})

	if exc != "" {
		text.WriteString("\n")
		text.WriteString(exc)
	}

	source, line := callerOf(r.PC)

	h.rec.AppendLogRecord(record.LogRecord{
		Level:           int(r.Level),
		LoggerName:      name,
		Source:          source,
		LineNo:          line,
		TimestampMillis: r.Time.UnixMilli(),
		Message:         text.String(),
	})

	return nil
}

// WithAttrs implements slog.Handler.
func (h *RecordHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)

	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		c.attrs = append(c.attrs, a)
	}

	return &c
}

// WithGroup implements slog.Handler.
func (h *RecordHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	if c.group == "" {
		c.group = name
	} else {
		c.group += "." + name
	}

	return &c
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, g := range v.Group() {
			writeAttr(b, key, g)
		}

		return
	}

	fmt.Fprintf(b, " %s=%s", key, v.String())
}

func callerOf(pc uintptr) (string, int) {
	if pc == 0 {
		return "", 0
	}

	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()

	return filepath.Base(frame.File), frame.Line
}

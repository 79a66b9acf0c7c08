package logs

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
)

// macPattern matches a MAC address, keeping the three-octet vendor prefix in
// the first group.
var macPattern = regexp.MustCompile(`(?i)((?:[0-9A-F]{2}:){3})(?:[0-9A-F]{2}(:|\b)){3}`)

const macReplacement = "${1}<REDACTED>"

// RedactMAC replaces the device-specific half of every MAC address in s.
//
//	RedactMAC("aa:bb:cc:dd:ee:ff") == "aa:bb:cc:<REDACTED>"
func RedactMAC(s string) string {
	return macPattern.ReplaceAllString(s, macReplacement)
}

// redactHandler rewrites every event before passing it to next. It sits in
// front of the fan-out so each event is redacted once for all sinks.
type redactHandler struct {
	next slog.Handler
}

// NewRedactHandler wraps next so messages and text attribute values never
// carry a full MAC address.
func NewRedactHandler(next slog.Handler) slog.Handler {
	return &redactHandler{next: next}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, RedactMAC(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}

	return &redactHandler{next: h.next.WithAttrs(redacted)}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	switch v.Kind() {
	case slog.KindString:
		a.Value = slog.StringValue(RedactMAC(v.String()))
	case slog.KindGroup:
		group := v.Group()
		redacted := make([]slog.Attr, len(group))

		for i, g := range group {
			redacted[i] = redactAttr(g)
		}

		a.Value = slog.GroupValue(redacted...)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			a.Value = slog.StringValue(RedactMAC(x.Error()))
		case fmt.Stringer:
			a.Value = slog.StringValue(RedactMAC(x.String()))
		default:
			a.Value = v
		}
	default:
		a.Value = v
	}

	return a
}

package logger

import (
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// truncateAttr clips string values longer than limit bytes and records the
// original length. Groups are walked recursively.
func truncateAttr(a slog.Attr, limit int) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if s := a.Value.String(); len(s) > limit {
			return slog.String(a.Key, Truncate(s, limit))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		clipped := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			clipped[i] = truncateAttr(attr, limit)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clipped...)}
	}
	return a
}

// Truncate cuts s to at most limit bytes on a rune boundary and appends a
// marker with the original length.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}

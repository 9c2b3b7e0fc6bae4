package internal

import (
	"io"
	"log/slog"
)

// NewLogger returns the text logger shared by the commands. Debug lines are
// only written when verbose is set.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// CalendarAttr groups log lines by calendar.
func CalendarAttr(cal *Calendar) slog.Attr {
	if cal == nil {
		return slog.String("calendar", "")
	}
	return slog.String("calendar", cal.String())
}

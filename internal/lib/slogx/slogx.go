package slogx

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/fatih/color"
)

// Handler is a compact colored slog handler for terminal output.
type Handler struct {
	l     *log.Logger
	level slog.Level
}

func NewHandler(out io.Writer, level slog.Level) *Handler {
	return &Handler{
		l:     log.New(out, "", 0),
		level: level,
	}
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"

	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.HiBlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}

	attrs := ""
	r.Attrs(func(a slog.Attr) bool {
		attrs += color.GreenString(a.Key) + "=" + fmt.Sprint(a.Value.Any()) + " "
		return true
	})

	h.l.Println(r.Time.Format("15:04:05.000"), level, r.Message, attrs)
	return nil
}

func (h *Handler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *Handler) WithGroup(_ string) slog.Handler { return h }

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

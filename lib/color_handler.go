package lib

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[37m"
	colorBold   = "\033[1m"
)

// ColorHandler is a minimal slog.Handler for interactive terminals:
// timestamp, colored level tag, message, gray key=value attrs.
type ColorHandler struct {
	writer io.Writer
	opts   *slog.HandlerOptions
	attrs  []slog.Attr
	mu     *sync.Mutex
}

func NewColorHandler(w io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ColorHandler{
		writer: w,
		opts:   opts,
		mu:     &sync.Mutex{},
	}
}

func (h *ColorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *ColorHandler) Handle(ctx context.Context, r slog.Record) error {
	var attrs []string
	for _, a := range h.attrs {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})

	var attrsText string
	if len(attrs) > 0 {
		attrsText = " " + colorGray + strings.Join(attrs, " ") + colorReset
	}

	message := fmt.Sprintf("%s[%s]%s %s%s%s %s%s\n",
		colorGray, r.Time.Format("15:04:05"), colorReset,
		levelColor(r.Level), levelText(r.Level), colorReset,
		r.Message, attrsText)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write([]byte(message))
	return err
}

func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *ColorHandler) WithGroup(name string) slog.Handler {
	return h
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed + colorBold
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorReset
	default:
		return colorBlue
	}
}

func levelText(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERRO"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBG"
	}
}

package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
)

const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	BgRed   = "\033[41m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: Cyan,
	slog.LevelInfo:  Green,
	slog.LevelWarn:  Yellow,
	slog.LevelError: Red,
}

type RichLoggerOptions struct {
	Output           io.Writer
	TimeFormat       string
	Level            slog.Level
	AddSource        bool
	EnableJSON       bool
	EnableColors     bool
	TimestampInJSON  bool
	CompactJSON      bool
	EnableSeparators bool
	EnableProgress   bool
}

func DefaultOptions() *RichLoggerOptions {
	return &RichLoggerOptions{
		Level:            slog.LevelInfo,
		EnableColors:     true,
		TimeFormat:       "2006-01-02 15:04:05.000",
		Output:           os.Stdout,
		TimestampInJSON:  true,
		CompactJSON:      true,
		EnableSeparators: false,
		EnableProgress:   true,
	}
}

// PlainOptions writes uncolored text without separators or progress
// rendering, which keeps output stable for files and tests.
func PlainOptions(w io.Writer) *RichLoggerOptions {
	opts := DefaultOptions()
	opts.Output = w
	opts.EnableColors = false
	opts.EnableProgress = false
	return opts
}

// RichHandler is a slog.Handler that writes either colored single-line text
// or JSON records. Handlers derived through WithAttrs share the same mutex.
type RichHandler struct {
	opts  *RichLoggerOptions
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

func NewRichHandler(opts *RichLoggerOptions) *RichHandler {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &RichHandler{opts: opts, mu: &sync.Mutex{}}
}

func (h *RichHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

func (h *RichHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	return &h2
}

func (h *RichHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.qualify(name)
	return &h2
}

func (h *RichHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *RichHandler) Handle(_ context.Context, record slog.Record) error {
	attrs := append([]slog.Attr(nil), h.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
		return true
	})

	var line string
	var err error
	if h.opts.EnableJSON {
		line, err = h.formatJSON(record, attrs)
		if err != nil {
			return err
		}
	} else {
		line = h.formatText(record, attrs)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = fmt.Fprintln(h.opts.Output, line)
	return err
}

func (h *RichHandler) formatJSON(record slog.Record, attrs []slog.Attr) (string, error) {
	fields := make(map[string]any, len(attrs)+4)

	if h.opts.TimestampInJSON {
		fields["time"] = record.Time.Format(h.opts.TimeFormat)
	}
	fields["level"] = record.Level.String()
	if src := source(record); h.opts.AddSource && src != "" {
		fields["source"] = src
	}
	fields["msg"] = stripColors(record.Message)

	for _, a := range attrs {
		fields[a.Key] = a.Value.Any()
	}

	var data []byte
	var err error
	if h.opts.CompactJSON {
		data, err = json.Marshal(fields)
	} else {
		data, err = json.MarshalIndent(fields, "", "  ")
	}
	return string(data), err
}

func (h *RichHandler) formatText(record slog.Record, attrs []slog.Attr) string {
	var b strings.Builder

	b.WriteString(h.paint(Blue, record.Time.Format(h.opts.TimeFormat)))
	b.WriteString(" ")
	b.WriteString(h.paint(levelColors[record.Level]+Bold, fmt.Sprintf("%-5s", record.Level.String())))
	b.WriteString(" ")

	if src := source(record); h.opts.AddSource && src != "" {
		if i := strings.LastIndex(src, "/"); i >= 0 {
			src = src[i+1:]
		}
		b.WriteString(h.paint(Magenta, src))
		b.WriteString(" ")
	}

	msg := record.Message
	if !h.opts.EnableColors {
		msg = stripColors(msg)
	}
	b.WriteString(msg)

	for _, a := range attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
	}

	if h.opts.EnableSeparators {
		b.WriteString("\n")
		b.WriteString(h.paint(Blue, strings.Repeat("─", 80)))
	}

	return b.String()
}

func (h *RichHandler) paint(color, s string) string {
	if !h.opts.EnableColors || color == "" {
		return s
	}
	return color + s + Reset
}

func source(record slog.Record) string {
	if record.PC == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

var colorCodes = strings.NewReplacer(
	Reset, "", Bold, "", Red, "", Green, "", Yellow, "", Blue, "",
	Magenta, "", Cyan, "", White, "", BgRed, "",
)

func stripColors(s string) string {
	return colorCodes.Replace(s)
}

func NewRichLogger(opts *RichLoggerOptions) *slog.Logger {
	return slog.New(NewRichHandler(opts))
}
